package logfields

import (
	"errors"
	"testing"
)

// Field names are part of the log contract; renaming one silently breaks
// downstream log queries, so pin them here.
func TestFieldNames_Stable(t *testing.T) {
	cases := map[string]string{
		KeyBuildID:    "build_id",
		KeyStage:      "stage",
		KeyOutcome:    "outcome",
		KeyDurationMS: "duration_ms",
		KeyPath:       "path",
		KeyFile:       "file",
		KeySection:    "section",
		KeyCount:      "count",
		KeyOutput:     "output",
		KeyURL:        "url",
		KeyError:      "error",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("field name changed: got %q want %q", got, want)
		}
	}
}

func TestStage_AttrKeyAndValue(t *testing.T) {
	attr := Stage("run_hugo")
	if attr.Key != KeyStage {
		t.Errorf("unexpected key %q", attr.Key)
	}
	if attr.Value.String() != "run_hugo" {
		t.Errorf("unexpected value %q", attr.Value.String())
	}
}

func TestError_NilProducesEmptyValue(t *testing.T) {
	attr := Error(nil)
	if attr.Value.String() != "" {
		t.Errorf("expected empty value for nil error, got %q", attr.Value.String())
	}
}

func TestError_WrapsMessage(t *testing.T) {
	attr := Error(errors.New("boom"))
	if attr.Value.String() != "boom" {
		t.Errorf("unexpected value %q", attr.Value.String())
	}
}
