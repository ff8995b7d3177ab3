package cli

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/morozRed/crumbtrail/internal/fileutil"
	"github.com/morozRed/crumbtrail/internal/parser"
	"github.com/morozRed/crumbtrail/internal/report"
	"github.com/morozRed/crumbtrail/internal/state"
	"github.com/morozRed/crumbtrail/internal/validate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func RunScan(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()

	format, err := ParseOutputFormat(cmd, s.cfg)
	if err != nil {
		return err
	}
	save, err := OptionalBoolFlag(cmd, "save")
	if err != nil {
		return err
	}
	outPath, err := OptionalStringFlag(cmd, "out")
	if err != nil {
		return err
	}

	result, elapsed := s.scan("scan", format == FormatText)
	all := s.parser.Breadcrumbs()
	export := report.NewExport(all)

	summary := NewRunSummary("scan", result, elapsed.Milliseconds())
	if save {
		if err := s.saveSnapshot(result); err != nil {
			return err
		}
		summary.Saved = true
	}
	if outPath != "" {
		var buf bytes.Buffer
		if err := fileutil.PrintJSON(&buf, export); err != nil {
			return err
		}
		if _, err := fileutil.WriteIfChanged(outPath, buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
	}
	s.logger.Info("scan complete",
		zap.String("root", s.root),
		zap.Int("files", summary.Scanned),
		zap.Int("breadcrumbs", summary.Breadcrumbs),
	)

	w := cmd.OutOrStdout()
	switch format {
	case FormatJSON, FormatYAML:
		return printStructured(w, format, export)
	case FormatJSONL:
		return printJSONL(w, export.Breadcrumbs)
	}

	printScanText(w, result)
	ReportParseIssues(cmd.ErrOrStderr(), result.Issues)
	PrintRunSummary(w, summary)
	if summary.Saved {
		fmt.Fprintf(w, "snapshot: %s\n", filepath.Join(state.Dir, state.StateFile))
	}
	return nil
}

func printScanText(w io.Writer, result *parser.ScanResult) {
	for _, file := range result.Files {
		if len(file.Breadcrumbs) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d)\n", headingText(file.Path), len(file.Breadcrumbs))
		for _, b := range file.Breadcrumbs {
			fmt.Fprintf(w, "  %s\n", describe(b))
		}
	}
}

func RunValidate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()

	format, err := ParseOutputFormat(cmd, s.cfg)
	if err != nil {
		return err
	}
	strict, err := OptionalBoolFlag(cmd, "strict")
	if err != nil {
		return err
	}

	result, _ := s.scan("validate", format == FormatText)
	r := validate.Validate(s.parser.Breadcrumbs())

	w := cmd.OutOrStdout()
	if format == FormatText {
		ReportParseIssues(cmd.ErrOrStderr(), result.Issues)
		PrintValidation(w, r)
	} else if err := printStructured(w, format, report.NewValidationReport(r)); err != nil {
		return err
	}

	if strict && !r.Valid {
		return ErrValidationFailed
	}
	return nil
}

func PrintValidation(w io.Writer, r validate.Report) {
	for _, issue := range r.Errors {
		fmt.Fprintf(w, "%s %s:%d: %s\n", errorText("error"), issue.File, issue.Line, issue.Message)
	}
	for _, issue := range r.Warnings {
		fmt.Fprintf(w, "%s %s:%d: %s\n", warningText("warning"), issue.File, issue.Line, issue.Message)
	}
	verdict := okText("valid")
	if !r.Valid {
		verdict = errorText("invalid")
	}
	fmt.Fprintf(w, "%s: errors=%d warnings=%d\n", verdict, len(r.Errors), len(r.Warnings))
}

func RunStats(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()

	format, err := ParseOutputFormat(cmd, s.cfg)
	if err != nil {
		return err
	}

	stats := report.Stats(s.breadcrumbs())
	w := cmd.OutOrStdout()
	if format != FormatText {
		return printStructured(w, format, stats)
	}

	fmt.Fprintf(w, "breadcrumbs: %d\n", stats.Total)
	fmt.Fprintf(w, "files: %d\n", stats.FilesWithBreadcrumbs)
	printCounter(w, "phases", stats.Phases)
	printCounter(w, "statuses", stats.Statuses)
	return nil
}

func printCounter(w io.Writer, title string, counts map[string]int) {
	fmt.Fprintf(w, "%s:\n", headingText(title))
	if len(counts) == 0 {
		fmt.Fprintln(w, "  -")
		return
	}
	for _, key := range sortedCounts(counts) {
		fmt.Fprintf(w, "  %-24s %d\n", key, counts[key])
	}
}
