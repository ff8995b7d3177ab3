package parser

import "github.com/morozRed/crumbtrail/internal/crumb"

// FileResult is the outcome of scanning one file. A skipped file contributes
// no breadcrumbs and carries the reason.
type FileResult struct {
	Path        string             `json:"path"`
	Breadcrumbs []crumb.Breadcrumb `json:"breadcrumbs,omitempty"`
	Skipped     bool               `json:"skipped,omitempty"`
	Reason      string             `json:"reason,omitempty"`
	Lines       int                `json:"lines"`
	Dropped     int                `json:"dropped_contexts,omitempty"` // AI_CONTEXT blocks that never parsed
}

// ParseIssue captures non-fatal problems encountered while scanning files.
type ParseIssue struct {
	File     string `json:"file"`
	Severity string `json:"severity"` // warning | error
	Message  string `json:"message"`
}

// ScanResult holds the outcome of a directory scan.
type ScanResult struct {
	RootPath string       `json:"root_path"`
	Files    []FileResult `json:"files"`
	Issues   []ParseIssue `json:"issues,omitempty"`
}

// Parsed returns the number of files read successfully.
func (r *ScanResult) Parsed() int {
	n := 0
	for _, file := range r.Files {
		if !file.Skipped {
			n++
		}
	}
	return n
}
