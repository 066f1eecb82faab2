package pipeline

import (
	"time"

	"github.com/hoanghai1803/newsbrief/internal/models"
)

// State is the position of one record in the processing state machine:
// Pending → ContentFetched → Summarized → Persisted, or Skipped.
type State int

const (
	StatePending State = iota
	StateContentFetched
	StateSummarized
	StatePersisted
	StateSkipped
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateContentFetched:
		return "content_fetched"
	case StateSummarized:
		return "summarized"
	case StatePersisted:
		return "persisted"
	case StateSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Step names the operation a record failed at.
type Step string

const (
	StepNone      Step = ""
	StepFetch     Step = "fetch"
	StepSummarize Step = "summarize"
	StepWrite     Step = "write"
)

// RecordResult is the outcome for a single record.
type RecordResult struct {
	ID    string
	URL   string
	State State

	// Kind is set once the record reached StateSummarized and stays
	// SummaryUnset for records skipped at fetch or summarize.
	Kind models.SummaryKind

	// FailedStep and Err are set when State is StateSkipped.
	FailedStep Step
	Err        error
}

// Report summarizes one run over a collection.
type Report struct {
	RunID      string
	Collection string
	StartedAt  time.Time
	Duration   time.Duration

	// Total is the number of pending records returned by the store.
	Total int

	// Persisted counts records whose result was written, relevant or not.
	Persisted int

	// NotRelevant counts persisted records the model judged outside the
	// subject domain.
	NotRelevant int

	FetchFailures     int
	SummarizeFailures int
	WriteFailures     int

	// Results holds one entry per processed record in processing order.
	// Records left unprocessed by cancellation have no entry.
	Results []RecordResult
}

// Skipped returns the number of records that failed at any step.
func (r *Report) Skipped() int {
	return r.FetchFailures + r.SummarizeFailures + r.WriteFailures
}

// Processed returns the number of records that reached a terminal state.
func (r *Report) Processed() int {
	return len(r.Results)
}

// add records a terminal result and updates the counters.
func (r *Report) add(res RecordResult) {
	r.Results = append(r.Results, res)

	switch res.State {
	case StatePersisted:
		r.Persisted++
		if res.Kind == models.SummaryNotRelevant {
			r.NotRelevant++
		}
	case StateSkipped:
		switch res.FailedStep {
		case StepFetch:
			r.FetchFailures++
		case StepSummarize:
			r.SummarizeFailures++
		case StepWrite:
			r.WriteFailures++
		}
	}
}
