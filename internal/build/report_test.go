package build

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReportDeriveOutcome(t *testing.T) {
	cases := []struct {
		name     string
		errors   []error
		warnings []error
		want     Outcome
	}{
		{name: "clean run", want: OutcomeSuccess},
		{
			name:     "warnings only",
			warnings: []error{newWarnStageError(stageCheckLinks, errors.New("broken"))},
			want:     OutcomeWarning,
		},
		{
			name:   "fatal error",
			errors: []error{newFatalStageError(stageRunHugo, errors.New("boom"))},
			want:   OutcomeFailed,
		},
		{
			name:   "canceled wins over failed",
			errors: []error{newCanceledStageError(stageRunHugo, errors.New("ctx"))},
			want:   OutcomeCanceled,
		},
		{
			name:     "error outranks warning",
			errors:   []error{newFatalStageError(stageConvertGemini, errors.New("boom"))},
			warnings: []error{newWarnStageError(stageCheckLinks, errors.New("broken"))},
			want:     OutcomeFailed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newReport("b-1")
			r.Errors = tc.errors
			r.Warnings = tc.warnings
			r.deriveOutcome()
			require.Equal(t, tc.want, r.Outcome)
		})
	}
}

func TestOutcomeIsSuccess(t *testing.T) {
	require.True(t, OutcomeSuccess.IsSuccess())
	require.True(t, OutcomeWarning.IsSuccess())
	require.False(t, OutcomeFailed.IsSuccess())
	require.False(t, OutcomeCanceled.IsSuccess())
}

func TestReportSummary(t *testing.T) {
	r := newReport("b-2")
	r.PagesRendered = 4
	r.PagesConverted = 3
	r.End = r.Start.Add(1500 * time.Millisecond)
	r.deriveOutcome()

	s := r.Summary()
	require.Contains(t, s, "build=b-2")
	require.Contains(t, s, "duration=1.5s")
	require.Contains(t, s, "rendered=4")
	require.Contains(t, s, "converted=3")
	require.Contains(t, s, "outcome=success")
}

func TestReportJSON(t *testing.T) {
	r := newReport("b-3")
	r.Root = "/srv/blog"
	r.StageDurations[stageRunHugo] = 2 * time.Second
	r.Errors = append(r.Errors, newFatalStageError(stageRunHugo, errors.New("exit status 1")))
	r.finish()
	r.deriveOutcome()

	data, err := r.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "b-3", decoded["build_id"])
	require.Equal(t, "failed", decoded["outcome"])
	require.Equal(t, "/srv/blog", decoded["root"])

	errs, ok := decoded["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0], "exit status 1")
}
