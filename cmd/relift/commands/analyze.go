package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/relift-dev/relift/internal/analyzer"
	"github.com/relift-dev/relift/internal/component"
	"github.com/relift-dev/relift/internal/config"
)

// Output format constants.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// AnalyzeCommand holds the flags for the analyze command.
type AnalyzeCommand struct {
	format     string
	configFile string
	threshold  float64
	verbose    bool
}

// NewAnalyzeCommand creates and configures the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	cmd := &AnalyzeCommand{}

	cobraCmd := &cobra.Command{
		Use:   "analyze <baseline>",
		Short: "Inspect a baseline component without migrating it",
		Long:  "Parse a baseline component source and print its descriptor: detected hooks, props, business logic patterns, and complexity.",
		Args:  cobra.ExactArgs(1),
		RunE:  cmd.Run,
	}

	// Add flags.
	cobraCmd.Flags().StringVarP(&cmd.format, "format", "f", FormatText, "Output format: text or json")
	cobraCmd.Flags().StringVar(&cmd.configFile, "config", "", "Config file (default: .relift.yaml in CWD or $HOME)")
	cobraCmd.Flags().Float64Var(&cmd.threshold, "threshold", config.DefaultConfidenceThreshold, "Pattern confidence threshold")
	cobraCmd.Flags().BoolVarP(&cmd.verbose, "verbose", "v", false, "Verbose output")

	return cobraCmd
}

// Run executes the analyze command.
func (c *AnalyzeCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("threshold") {
		cfg.Analyzer.ConfidenceThreshold = c.threshold
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return validateErr
	}

	sourcePath := args[0]

	content, readErr := os.ReadFile(sourcePath)
	if readErr != nil {
		return fmt.Errorf("read baseline source: %w", readErr)
	}

	logger := newLogger(cmd.ErrOrStderr(), c.verbose)

	desc, analyzeErr := analyzer.New(cfg.Analyzer, logger).Analyze(cmd.Context(), sourcePath, content)
	if analyzeErr != nil {
		return analyzeErr
	}

	switch c.format {
	case FormatJSON:
		return printJSON(cmd.OutOrStdout(), desc)
	case FormatText:
		printText(cmd.OutOrStdout(), desc)

		return nil
	default:
		return fmt.Errorf("unknown format %q, expected %s or %s", c.format, FormatText, FormatJSON)
	}
}

func printJSON(w io.Writer, desc *component.Descriptor) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(desc)
}

func printText(w io.Writer, desc *component.Descriptor) {
	fmt.Fprintf(w, "%s (%s)\n", desc.Name, desc.Kind)
	fmt.Fprintf(w, "  source:     %s\n", desc.SourcePath)
	fmt.Fprintf(w, "  lines:      %s\n", humanize.Comma(int64(desc.LineCount)))
	fmt.Fprintf(w, "  complexity: %d/%d\n", desc.Complexity, component.MaxComplexity)
	fmt.Fprintf(w, "  hooks:      %d\n", len(desc.Hooks))
	fmt.Fprintf(w, "  props:      %d\n", len(desc.Props))
	fmt.Fprintf(w, "  imports:    %d\n", len(desc.Dependencies))

	if len(desc.Patterns) == 0 {
		fmt.Fprintln(w, "\nno business logic patterns detected")

		return
	}

	fmt.Fprintln(w)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Kind", "Lines", "Confidence", "Description"})

	for i, p := range desc.Patterns {
		conf := fmt.Sprintf("%.2f", p.Confidence)
		if p.LowConfidence {
			conf += " (low)"
		}

		t.AppendRow(table.Row{
			i,
			p.Kind,
			fmt.Sprintf("%d-%d", p.Span.StartLine, p.Span.EndLine),
			conf,
			p.Description,
		})
	}

	t.Render()
}
