package validate

import (
	"fmt"

	"github.com/morozRed/crumbtrail/internal/crumb"
)

// Statuses lists the accepted AI_STATUS values.
var Statuses = []string{"NOT_STARTED", "PARTIAL", "IMPLEMENTED", "FIXED", "NEEDS_REFACTOR"}

// Issue is one validation finding tied to a breadcrumb location.
type Issue struct {
	File    string
	Line    int
	Message string
}

// Report is the result of validating a breadcrumb collection. Warnings never
// affect Valid.
type Report struct {
	Valid    bool
	Errors   []Issue
	Warnings []Issue
}

// Validate checks required tags, status values, error/fix pairing and the
// shape of AI_CONTEXT for every breadcrumb, in collection order.
func Validate(breadcrumbs []crumb.Breadcrumb) Report {
	report := Report{
		Errors:   make([]Issue, 0),
		Warnings: make([]Issue, 0),
	}

	known := make(map[string]bool, len(Statuses))
	for _, status := range Statuses {
		known[status] = true
	}

	for _, b := range breadcrumbs {
		at := func(format string, args ...any) Issue {
			return Issue{File: b.FilePath, Line: b.LineNumber, Message: fmt.Sprintf(format, args...)}
		}

		if b.Phase == nil {
			report.Errors = append(report.Errors, at("Missing required tag: %s", crumb.TagPhase))
		}
		if b.Status == nil {
			report.Errors = append(report.Errors, at("Missing required tag: %s", crumb.TagStatus))
		} else if !known[*b.Status] {
			report.Warnings = append(report.Warnings, at("Unknown %s value: %q", crumb.TagStatus, *b.Status))
		}

		if b.FixReason == nil {
			if b.CompilerErr != nil {
				report.Warnings = append(report.Warnings, at("%s present without %s", crumb.TagCompilerErr, crumb.TagFixReason))
			}
			if b.RuntimeErr != nil {
				report.Warnings = append(report.Warnings, at("%s present without %s", crumb.TagRuntimeErr, crumb.TagFixReason))
			}
		}

		if b.Context != nil {
			if _, ok := b.Context.(map[string]any); !ok {
				report.Errors = append(report.Errors, at("%s must be a JSON object, got %s", crumb.TagContext, jsonKind(b.Context)))
			}
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}

func jsonKind(value any) string {
	switch value.(type) {
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", value)
	}
}
