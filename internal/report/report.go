// Package report renders batch outcomes and progress for the terminal.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/relift-dev/relift/internal/component"
	"github.com/relift-dev/relift/internal/orchestrator"
)

// Renderer writes human-readable run output.
type Renderer struct {
	out     io.Writer
	noColor bool
}

// NewRenderer creates a renderer targeting out.
func NewRenderer(out io.Writer, noColor bool) *Renderer {
	return &Renderer{out: out, noColor: noColor}
}

// Progress prints a one-line snapshot for the component now starting.
func (r *Renderer) Progress(p orchestrator.Progress) {
	line := fmt.Sprintf("[%d/%d] %s", p.Index, p.Total, p.Component)

	if p.HasEstimate {
		line += fmt.Sprintf(" (elapsed %s, ~%s left)",
			p.Elapsed.Round(time.Second), p.Remaining.Round(time.Second))
	}

	fmt.Fprintln(r.out, line)
}

// Summary prints the per-component outcome table and run totals.
func (r *Renderer) Summary(s *orchestrator.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Component", "Status", "Score", "Detail"})

	for _, res := range s.Results {
		t.AppendRow(r.resultRow(res))
	}

	t.Render()

	fmt.Fprintf(r.out, "\n%d migrated, %d failed, %d skipped in %s",
		s.Succeeded, s.Failed, s.Skipped, s.Elapsed.Round(time.Millisecond))

	if s.Manifest != nil {
		fmt.Fprintf(r.out, " (run started %s)", humanize.Time(s.Manifest.StartTime))
	}

	fmt.Fprintln(r.out)
}

func (r *Renderer) resultRow(res component.Result) table.Row {
	if res.Success() {
		return table.Row{
			res.Name(),
			r.paint(color.FgGreen, "ok"),
			res.Outcome().Score,
			warningsDetail(res.Outcome()),
		}
	}

	failure := res.Failure()

	return table.Row{
		res.Name(),
		r.paint(color.FgRed, "failed"),
		"-",
		fmt.Sprintf("%s: %s", failure.Phase, failure.Msg),
	}
}

func warningsDetail(outcome *component.Outcome) string {
	if len(outcome.Warnings) == 0 {
		return ""
	}

	return fmt.Sprintf("%d warning(s), e.g. %s", len(outcome.Warnings), outcome.Warnings[0].Code)
}

func (r *Renderer) paint(attr color.Attribute, s string) string {
	if r.noColor {
		return s
	}

	return color.New(attr).Sprint(s)
}
