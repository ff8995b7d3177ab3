package report

import (
	"github.com/morozRed/crumbtrail/internal/crumb"
	"github.com/morozRed/crumbtrail/internal/validate"
)

// Export is the aggregate document consumed by scanning scripts and the
// dashboard API.
type Export struct {
	Statistics  Statistics `json:"statistics" yaml:"statistics"`
	Breadcrumbs []Record   `json:"breadcrumbs" yaml:"breadcrumbs"`
}

// Record is the exported shape of one breadcrumb. Absent tags are null.
type Record struct {
	FilePath       string  `json:"file_path" yaml:"file_path"`
	LineNumber     int     `json:"line_number" yaml:"line_number"`
	Phase          *string `json:"phase" yaml:"phase"`
	Status         *string `json:"status" yaml:"status"`
	Pattern        *string `json:"pattern" yaml:"pattern"`
	Strategy       *string `json:"strategy" yaml:"strategy"`
	Details        *string `json:"details" yaml:"details"`
	AINote         *string `json:"ai_note" yaml:"ai_note"`
	AIVersion      *string `json:"ai_version" yaml:"ai_version"`
	CompilerErr    *string `json:"compiler_err" yaml:"compiler_err"`
	RuntimeErr     *string `json:"runtime_err" yaml:"runtime_err"`
	FixReason      *string `json:"fix_reason" yaml:"fix_reason"`
	LinuxRef       *string `json:"linux_ref" yaml:"linux_ref"`
	AmigaOSRef     *string `json:"amigaos_ref" yaml:"amigaos_ref"`
	AROSImpl       *string `json:"aros_impl" yaml:"aros_impl"`
	AIPriority     *string `json:"ai_priority" yaml:"ai_priority"`
	AIComplexity   *string `json:"ai_complexity" yaml:"ai_complexity"`
	AIDependencies *string `json:"ai_dependencies" yaml:"ai_dependencies"`
	AIBlocks       *string `json:"ai_blocks" yaml:"ai_blocks"`
	AIBreadcrumb   *string `json:"ai_breadcrumb" yaml:"ai_breadcrumb"`
	AIContext      any     `json:"ai_context" yaml:"ai_context"`
}

// NewExport builds the export document for a collection.
func NewExport(breadcrumbs []crumb.Breadcrumb) Export {
	records := make([]Record, 0, len(breadcrumbs))
	for _, b := range breadcrumbs {
		records = append(records, NewRecord(b))
	}
	return Export{
		Statistics:  Stats(breadcrumbs),
		Breadcrumbs: records,
	}
}

// NewRecord flattens a breadcrumb into its exported shape.
func NewRecord(b crumb.Breadcrumb) Record {
	return Record{
		FilePath:       b.FilePath,
		LineNumber:     b.LineNumber,
		Phase:          b.Phase,
		Status:         b.Status,
		Pattern:        b.Pattern,
		Strategy:       b.Strategy,
		Details:        b.Details,
		AINote:         b.AINote,
		AIVersion:      b.AIVersion,
		CompilerErr:    b.CompilerErr,
		RuntimeErr:     b.RuntimeErr,
		FixReason:      b.FixReason,
		LinuxRef:       b.LinuxRef,
		AmigaOSRef:     b.AmigaOSRef,
		AROSImpl:       b.AROSImpl,
		AIPriority:     rawTag(b, crumb.TagPriority),
		AIComplexity:   rawTag(b, crumb.TagComplexity),
		AIDependencies: b.Dependencies,
		AIBlocks:       b.Blocks,
		AIBreadcrumb:   b.Marker,
		AIContext:      b.Context,
	}
}

func rawTag(b crumb.Breadcrumb, name string) *string {
	value, ok := b.Tag(name)
	if !ok {
		return nil
	}
	return &value
}

// ValidationReport is the exported shape of a validate.Report.
type ValidationReport struct {
	Valid        bool           `json:"valid" yaml:"valid"`
	ErrorCount   int            `json:"error_count" yaml:"error_count"`
	WarningCount int            `json:"warning_count" yaml:"warning_count"`
	Errors       []ErrorEntry   `json:"errors" yaml:"errors"`
	Warnings     []WarningEntry `json:"warnings" yaml:"warnings"`
}

type ErrorEntry struct {
	File  string `json:"file" yaml:"file"`
	Line  int    `json:"line" yaml:"line"`
	Error string `json:"error" yaml:"error"`
}

type WarningEntry struct {
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`
	Warning string `json:"warning" yaml:"warning"`
}

// NewValidationReport converts a validator report for export.
func NewValidationReport(r validate.Report) ValidationReport {
	out := ValidationReport{
		Valid:        r.Valid,
		ErrorCount:   len(r.Errors),
		WarningCount: len(r.Warnings),
		Errors:       make([]ErrorEntry, 0, len(r.Errors)),
		Warnings:     make([]WarningEntry, 0, len(r.Warnings)),
	}
	for _, issue := range r.Errors {
		out.Errors = append(out.Errors, ErrorEntry{File: issue.File, Line: issue.Line, Error: issue.Message})
	}
	for _, issue := range r.Warnings {
		out.Warnings = append(out.Warnings, WarningEntry{File: issue.File, Line: issue.Line, Warning: issue.Message})
	}
	return out
}
