package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hoanghai1803/newsbrief/internal/models"
)

// ErrNothingToProcess is returned by Run when the store has no pending
// records. No external call is made in that case.
var ErrNothingToProcess = errors.New("nothing to process")

var errMissingURL = errors.New("record has no URL")

// RecordStore reads pending records and persists summaries.
type RecordStore interface {
	FetchPending(ctx context.Context, collection string) ([]models.ArticleRecord, error)
	WriteSummary(ctx context.Context, collection, id string, summary *string) error
}

// ContentResolver turns an article URL into text for the summarizer.
type ContentResolver interface {
	Resolve(ctx context.Context, url string) (string, error)
}

// Summarizer produces a relevance-filtered summary for article content.
type Summarizer interface {
	Summarize(ctx context.Context, content, sourceURL string) (models.SummaryResult, error)
}

// NotRelevantPolicy decides what is written for a not-relevant verdict.
type NotRelevantPolicy string

const (
	// PolicySentinel writes the sentinel text as the summary.
	PolicySentinel NotRelevantPolicy = "sentinel"
	// PolicyNull writes NULL so the record reads as unsummarized.
	PolicyNull NotRelevantPolicy = "null"
)

// ParseNotRelevantPolicy validates a policy name from configuration. An
// empty name selects PolicySentinel.
func ParseNotRelevantPolicy(s string) (NotRelevantPolicy, error) {
	switch p := NotRelevantPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicySentinel, PolicyNull:
		return p, nil
	case "":
		return PolicySentinel, nil
	default:
		return "", fmt.Errorf("unknown not-relevant policy %q: must be \"sentinel\" or \"null\"", s)
	}
}

// Options configures an Orchestrator.
type Options struct {
	// Pacer runs after every successful summarization. Nil means a
	// DelayPacer with DefaultInterCallDelay.
	Pacer Pacer

	// NotRelevantPolicy defaults to PolicySentinel.
	NotRelevantPolicy NotRelevantPolicy

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Orchestrator drives records through fetch, summarize and persist, one at
// a time. Per-record failures are isolated; only the initial read of the
// pending list can fail a run.
type Orchestrator struct {
	store      RecordStore
	resolver   ContentResolver
	summarizer Summarizer
	pacer      Pacer
	policy     NotRelevantPolicy
	logger     *slog.Logger
}

// New creates an Orchestrator from its three collaborators.
func New(store RecordStore, resolver ContentResolver, summarizer Summarizer, opts Options) *Orchestrator {
	if opts.Pacer == nil {
		opts.Pacer = DelayPacer{Delay: DefaultInterCallDelay}
	}
	if opts.NotRelevantPolicy == "" {
		opts.NotRelevantPolicy = PolicySentinel
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Orchestrator{
		store:      store,
		resolver:   resolver,
		summarizer: summarizer,
		pacer:      opts.Pacer,
		policy:     opts.NotRelevantPolicy,
		logger:     opts.Logger,
	}
}

// Run processes every pending record of collection sequentially and returns
// a report. The returned error is the store read error, ErrNothingToProcess,
// or the context error when the run was cancelled; the report is non-nil in
// all cases and holds whatever was processed. A record interrupted by
// cancellation mid-step is not counted.
func (o *Orchestrator) Run(ctx context.Context, collection string) (*Report, error) {
	report := &Report{
		RunID:      uuid.NewString(),
		Collection: collection,
		StartedAt:  time.Now(),
	}
	log := o.logger.With("run_id", report.RunID, "collection", collection)
	defer func() { report.Duration = time.Since(report.StartedAt) }()

	records, err := o.store.FetchPending(ctx, collection)
	if err != nil {
		log.Error("failed to fetch pending records", "error", err)
		return report, err
	}

	report.Total = len(records)
	if len(records) == 0 {
		log.Info("nothing to process")
		return report, ErrNothingToProcess
	}

	log.Info("starting run", "records", len(records))

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			log.Warn("run cancelled", "processed", report.Processed(), "remaining", len(records)-i)
			return report, err
		}

		log.Info("processing record", "index", i+1, "total", len(records), "id", rec.ID, "url", rec.URL)

		res := o.process(ctx, collection, rec)
		if res.State == StateSkipped && ctx.Err() != nil && errors.Is(res.Err, ctx.Err()) {
			log.Warn("run cancelled", "id", res.ID, "step", res.FailedStep,
				"processed", report.Processed(), "remaining", len(records)-i)
			return report, ctx.Err()
		}
		if res.State == StateSkipped {
			log.Warn("record skipped",
				"id", res.ID,
				"url", res.URL,
				"step", res.FailedStep,
				"error", res.Err,
			)
		}
		report.add(res)
	}

	log.Info("run complete",
		"total", report.Total,
		"persisted", report.Persisted,
		"not_relevant", report.NotRelevant,
		"fetch_failures", report.FetchFailures,
		"summarize_failures", report.SummarizeFailures,
		"write_failures", report.WriteFailures,
		"duration", time.Since(report.StartedAt).Round(time.Millisecond),
	)
	return report, nil
}

// process runs one record through the state machine and returns its
// terminal result.
func (o *Orchestrator) process(ctx context.Context, collection string, rec models.ArticleRecord) RecordResult {
	res := RecordResult{ID: rec.ID, URL: rec.URL, State: StatePending}

	skip := func(step Step, err error) RecordResult {
		res.State = StateSkipped
		res.FailedStep = step
		res.Err = err
		return res
	}

	if strings.TrimSpace(rec.URL) == "" {
		return skip(StepFetch, errMissingURL)
	}

	content, err := o.resolver.Resolve(ctx, rec.URL)
	if err != nil {
		return skip(StepFetch, err)
	}
	res.State = StateContentFetched

	summary, err := o.summarizer.Summarize(ctx, content, rec.URL)
	if err != nil {
		return skip(StepSummarize, err)
	}
	res.State = StateSummarized
	res.Kind = summary.Kind

	// A cancelled pacing wait still lets this record's write complete; the
	// loop stops before the next record.
	writeCtx := ctx
	if err := o.pacer.Wait(ctx); err != nil {
		writeCtx = context.WithoutCancel(ctx)
	}

	if err := o.store.WriteSummary(writeCtx, collection, rec.ID, o.persistedValue(summary)); err != nil {
		return skip(StepWrite, err)
	}
	res.State = StatePersisted
	return res
}

// persistedValue maps a summary onto the stored column value.
func (o *Orchestrator) persistedValue(summary models.SummaryResult) *string {
	if !summary.IsRelevant() && o.policy == PolicyNull {
		return nil
	}
	raw := summary.Raw
	return &raw
}
