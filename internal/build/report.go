package build

import (
	"encoding/json"
	"fmt"
	"time"
)

// Outcome is the typed enumeration of final build result states.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// IsSuccess reports whether the build produced usable output. Builds
// that only warned still count.
func (o Outcome) IsSuccess() bool {
	return o == OutcomeSuccess || o == OutcomeWarning
}

// Report captures metrics about a single build run. It is recorded
// into build history and printable as JSON.
type Report struct {
	SchemaVersion   int
	BuildID         string
	Root            string
	Start           time.Time
	End             time.Time
	Errors          []error // fatal errors causing build abortion (at most one today)
	Warnings        []error // non-fatal issues (broken links, history problems)
	StageDurations  map[string]time.Duration
	StageErrorKinds map[string]StageErrorKind
	PagesRendered   int // .html files in the Hugo output tree
	PagesConverted  int // .gmi pages written by the converter
	PagesSkipped    int // section pages, hidden files, excluded drafts
	BrokenLinks     int
	Revision        string // git revision of the site source, empty outside a repo
	Outcome         Outcome
}

func newReport(buildID string) *Report {
	return &Report{
		SchemaVersion:   1,
		BuildID:         buildID,
		Start:           time.Now(),
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[string]StageErrorKind),
	}
}

func (r *Report) finish() { r.End = time.Now() }

// deriveOutcome sets the Outcome field based on recorded errors and
// warnings. It is safe to call repeatedly as stages accumulate.
func (r *Report) deriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("build=%s duration=%s rendered=%d converted=%d broken=%d errors=%d warnings=%d outcome=%s",
		r.BuildID, dur.Truncate(time.Millisecond), r.PagesRendered, r.PagesConverted,
		r.BrokenLinks, len(r.Errors), len(r.Warnings), r.Outcome)
}

// JSON renders the report with error values flattened to strings.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r.sanitizedCopy(), "", "  ")
}

// reportSerializable mirrors Report with string errors for JSON output.
type reportSerializable struct {
	SchemaVersion   int                       `json:"schema_version"`
	BuildID         string                    `json:"build_id"`
	Root            string                    `json:"root"`
	Start           time.Time                 `json:"start"`
	End             time.Time                 `json:"end"`
	Outcome         Outcome                   `json:"outcome"`
	Errors          []string                  `json:"errors"`
	Warnings        []string                  `json:"warnings"`
	StageDurations  map[string]time.Duration  `json:"stage_durations"`
	StageErrorKinds map[string]StageErrorKind `json:"stage_error_kinds,omitempty"`
	PagesRendered   int                       `json:"pages_rendered"`
	PagesConverted  int                       `json:"pages_converted"`
	PagesSkipped    int                       `json:"pages_skipped"`
	BrokenLinks     int                       `json:"broken_links"`
	Revision        string                    `json:"revision,omitempty"`
}

func (r *Report) sanitizedCopy() *reportSerializable {
	s := &reportSerializable{
		SchemaVersion:   r.SchemaVersion,
		BuildID:         r.BuildID,
		Root:            r.Root,
		Start:           r.Start,
		End:             r.End,
		Outcome:         r.Outcome,
		Errors:          make([]string, len(r.Errors)),
		Warnings:        make([]string, len(r.Warnings)),
		StageDurations:  r.StageDurations,
		StageErrorKinds: r.StageErrorKinds,
		PagesRendered:   r.PagesRendered,
		PagesConverted:  r.PagesConverted,
		PagesSkipped:    r.PagesSkipped,
		BrokenLinks:     r.BrokenLinks,
		Revision:        r.Revision,
	}
	if s.StageDurations == nil {
		s.StageDurations = map[string]time.Duration{}
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}
