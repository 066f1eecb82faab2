package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hoanghai1803/newsbrief/internal/models"
	"github.com/hoanghai1803/newsbrief/internal/pipeline"
)

func TestRenderReport(t *testing.T) {
	report := &pipeline.Report{
		RunID:         "3f1c",
		Collection:    "news2",
		Duration:      1500 * time.Millisecond,
		Total:         2,
		Persisted:     1,
		NotRelevant:   1,
		FetchFailures: 1,
		Results: []pipeline.RecordResult{
			{ID: "1", URL: "https://a.example/x", State: pipeline.StateSkipped, FailedStep: pipeline.StepFetch, Err: errors.New("fetch failed: HTTP 404")},
			{ID: "2", URL: "https://b.example/y", State: pipeline.StatePersisted, Kind: models.SummaryNotRelevant},
		},
	}

	var buf bytes.Buffer
	renderReport(&buf, report)
	out := buf.String()

	for _, want := range []string{
		"Run 3f1c",
		"https://a.example/x",
		"fetch failed: HTTP 404",
		"persisted (not_relevant)",
		"news2",
		"1.5s",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	renderReport(&buf, nil)
	assert.Empty(t, buf.String())
}
