package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/morozRed/crumbtrail/internal/crumb"
	"github.com/morozRed/crumbtrail/internal/fileutil"
	"github.com/morozRed/crumbtrail/internal/parser"
)

var (
	errorText   = color.New(color.FgRed, color.Bold).SprintFunc()
	warningText = color.New(color.FgYellow).SprintFunc()
	okText      = color.New(color.FgGreen).SprintFunc()
	headingText = color.New(color.Bold).SprintFunc()
	dimText     = color.New(color.Faint).SprintFunc()
)

type RunSummary struct {
	Mode        string `json:"mode"`
	RootPath    string `json:"root_path"`
	Scanned     int    `json:"scanned"`
	Parsed      int    `json:"parsed"`
	Skipped     int    `json:"skipped"`
	Breadcrumbs int    `json:"breadcrumbs"`
	Dropped     int    `json:"dropped_contexts"`
	DurationMS  int64  `json:"duration_ms"`
	Saved       bool   `json:"saved,omitempty"`
}

type StatusSummary struct {
	Mode         string   `json:"mode"`
	RootPath     string   `json:"root_path"`
	HasSnapshot  bool     `json:"has_snapshot"`
	Clean        bool     `json:"clean"`
	Tracked      int      `json:"tracked"`
	Breadcrumbs  int      `json:"breadcrumbs"`
	Changed      int      `json:"changed"`
	Deleted      int      `json:"deleted"`
	ChangedFiles []string `json:"changed_files,omitempty"`
	DeletedFiles []string `json:"deleted_files,omitempty"`
}

func NewRunSummary(mode string, result *parser.ScanResult, durationMS int64) RunSummary {
	summary := RunSummary{
		Mode:       mode,
		RootPath:   result.RootPath,
		Scanned:    len(result.Files),
		Parsed:     result.Parsed(),
		DurationMS: durationMS,
	}
	for _, file := range result.Files {
		if file.Skipped {
			summary.Skipped++
		}
		summary.Breadcrumbs += len(file.Breadcrumbs)
		summary.Dropped += file.Dropped
	}
	return summary
}

func PrintRunSummary(w io.Writer, summary RunSummary) {
	fmt.Fprintf(w,
		"%s: scanned=%d parsed=%d skipped=%d breadcrumbs=%d dropped_contexts=%d duration=%dms\n",
		summary.Mode,
		summary.Scanned,
		summary.Parsed,
		summary.Skipped,
		summary.Breadcrumbs,
		summary.Dropped,
		summary.DurationMS,
	)
}

func ReportParseIssues(w io.Writer, issues []parser.ParseIssue) {
	for _, issue := range issues {
		severity := warningText(issue.Severity)
		if issue.Severity == "error" {
			severity = errorText(issue.Severity)
		}
		fmt.Fprintf(w, "[%s] %s: %s\n", severity, issue.File, issue.Message)
	}
}

// printStructured writes value in a machine format. jsonl falls back to a
// single compact JSON line for values that are not record lists.
func printStructured(w io.Writer, format string, value any) error {
	switch format {
	case FormatYAML:
		return fileutil.PrintYAML(w, value)
	case FormatJSONL:
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	default:
		return fileutil.PrintJSON(w, value)
	}
}

func printJSONL[T any](w io.Writer, records []T) error {
	data, err := fileutil.EncodeJSONL(records)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// describe renders the one-line text form of a breadcrumb.
func describe(b crumb.Breadcrumb) string {
	parts := []string{b.Key(), orDash(b.Phase), orDash(b.Status)}
	if b.Marker != nil {
		parts = append(parts, dimText("["+*b.Marker+"]"))
	}
	return strings.Join(parts, "  ")
}

func orDash(value *string) string {
	if value == nil || *value == "" {
		return "-"
	}
	return *value
}

// SummarizePaths joins up to limit paths and counts the rest.
func SummarizePaths(paths []string, limit int) string {
	if len(paths) == 0 {
		return "-"
	}
	if limit <= 0 || len(paths) <= limit {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s, ... (+%d more)", strings.Join(paths[:limit], ", "), len(paths)-limit)
}

// sortedCounts orders a counter by descending count, then name.
func sortedCounts(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
