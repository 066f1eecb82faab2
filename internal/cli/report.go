package cli

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/hoanghai1803/newsbrief/internal/pipeline"
)

// renderReport prints the per-record outcomes and the run totals.
func renderReport(w io.Writer, report *pipeline.Report) {
	if report == nil {
		return
	}

	records := table.NewWriter()
	records.SetOutputMirror(w)
	records.SetStyle(table.StyleRounded)
	records.SetTitle("Run " + report.RunID)
	records.AppendHeader(table.Row{"ID", "URL", "State", "Step", "Error"})
	records.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 50},
		{Number: 5, WidthMax: 60},
	})

	for _, res := range report.Results {
		errText := ""
		if res.Err != nil {
			errText = res.Err.Error()
		}
		state := res.State.String()
		if res.State == pipeline.StatePersisted {
			state += " (" + res.Kind.String() + ")"
		}
		records.AppendRow(table.Row{res.ID, res.URL, state, string(res.FailedStep), errText})
	}
	records.Render()

	totals := table.NewWriter()
	totals.SetOutputMirror(w)
	totals.SetStyle(table.StyleRounded)
	totals.AppendHeader(table.Row{"Collection", "Total", "Persisted", "Not relevant", "Fetch failed", "Summarize failed", "Write failed", "Duration"})
	totals.AppendRow(table.Row{
		report.Collection,
		report.Total,
		report.Persisted,
		report.NotRelevant,
		report.FetchFailures,
		report.SummarizeFailures,
		report.WriteFailures,
		report.Duration.Round(time.Millisecond).String(),
	})
	totals.Render()
}
