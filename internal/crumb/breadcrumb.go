package crumb

import (
	"fmt"
	"strings"
)

// Recognized tag names. Anything else in a comment is ignored by the parser.
const (
	TagPhase                  = "AI_PHASE"
	TagStatus                 = "AI_STATUS"
	TagPattern                = "AI_PATTERN"
	TagStrategy               = "AI_STRATEGY"
	TagDetails                = "AI_DETAILS"
	TagNote                   = "AI_NOTE"
	TagHistory                = "AI_HISTORY"
	TagChange                 = "AI_CHANGE"
	TagVersion                = "AI_VERSION"
	TagTrainHash              = "AI_TRAIN_HASH"
	TagCompilerErr            = "COMPILER_ERR"
	TagRuntimeErr             = "RUNTIME_ERR"
	TagFixReason              = "FIX_REASON"
	TagLinuxRef               = "LINUX_REF"
	TagAmigaOSRef             = "AMIGAOS_REF"
	TagAROSImpl               = "AROS_IMPL"
	TagRefGithubIssue         = "REF_GITHUB_ISSUE"
	TagRefPR                  = "REF_PR"
	TagRefTroubleTicket       = "REF_TROUBLE_TICKET"
	TagRefUserFeedback        = "REF_USER_FEEDBACK"
	TagRefAuditLog            = "REF_AUDIT_LOG"
	TagHumanOverride          = "HUMAN_OVERRIDE"
	TagPreviousImplementation = "PREVIOUS_IMPLEMENTATION_REF"
	TagCorrectionRef          = "CORRECTION_REF"
	TagContext                = "AI_CONTEXT"
	TagMarker                 = "AI_BREADCRUMB"
	TagPriority               = "AI_PRIORITY"
	TagComplexity             = "AI_COMPLEXITY"
	TagDependencies           = "AI_DEPENDENCIES"
	TagBlocks                 = "AI_BLOCKS"
)

var recognizedTags = map[string]bool{
	TagPhase: true, TagStatus: true, TagPattern: true, TagStrategy: true,
	TagDetails: true, TagNote: true, TagHistory: true, TagChange: true,
	TagVersion: true, TagTrainHash: true, TagCompilerErr: true, TagRuntimeErr: true,
	TagFixReason: true, TagLinuxRef: true, TagAmigaOSRef: true, TagAROSImpl: true,
	TagRefGithubIssue: true, TagRefPR: true, TagRefTroubleTicket: true,
	TagRefUserFeedback: true, TagRefAuditLog: true, TagHumanOverride: true,
	TagPreviousImplementation: true, TagCorrectionRef: true, TagContext: true,
	TagMarker: true, TagPriority: true, TagComplexity: true, TagDependencies: true,
	TagBlocks: true,
}

// CanonicalTag upper-cases name and reports whether it is a recognized tag.
func CanonicalTag(name string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	return upper, recognizedTags[upper]
}

// Breadcrumb is one metadata record extracted from a run of tagged comments.
// Nil fields were absent from the source; an empty string means the tag was
// present with an empty value. Records are never mutated after Build.
type Breadcrumb struct {
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"`

	Phase       *string `json:"phase"`
	Status      *string `json:"status"`
	Pattern     *string `json:"pattern"`
	Strategy    *string `json:"strategy"`
	Details     *string `json:"details"`
	AINote      *string `json:"ai_note"`
	AIHistory   *string `json:"ai_history"`
	AIChange    *string `json:"ai_change"`
	AIVersion   *string `json:"ai_version"`
	AITrainHash *string `json:"ai_train_hash"`

	CompilerErr *string `json:"compiler_err"`
	RuntimeErr  *string `json:"runtime_err"`
	FixReason   *string `json:"fix_reason"`

	LinuxRef   *string `json:"linux_ref"`
	AmigaOSRef *string `json:"amigaos_ref"`
	AROSImpl   *string `json:"aros_impl"`

	RefGithubIssue            *string `json:"ref_github_issue"`
	RefPR                     *string `json:"ref_pr"`
	RefTroubleTicket          *string `json:"ref_trouble_ticket"`
	RefUserFeedback           *string `json:"ref_user_feedback"`
	RefAuditLog               *string `json:"ref_audit_log"`
	HumanOverride             *string `json:"human_override"`
	PreviousImplementationRef *string `json:"previous_implementation_ref"`
	CorrectionRef             *string `json:"correction_ref"`

	Marker       *string `json:"marker"`
	Dependencies *string `json:"dependencies"`
	Blocks       *string `json:"blocks"`

	// Context is the decoded AI_CONTEXT JSON value, nil when absent or dropped.
	Context any `json:"context"`

	// RawTags holds every recognized tag of the group, including ones without
	// a dedicated field. AI_CONTEXT maps to the reconstructed JSON text.
	RawTags map[string]string `json:"raw_tags"`
}

// Key identifies a breadcrumb by location. Rescans of the same file produce
// records with equal keys.
func (b Breadcrumb) Key() string {
	return fmt.Sprintf("%s:%d", b.FilePath, b.LineNumber)
}

// Tag returns the raw value of a recognized tag.
func (b Breadcrumb) Tag(name string) (string, bool) {
	value, ok := b.RawTags[strings.ToUpper(name)]
	return value, ok
}

// PhaseList splits a comma-separated phase list, trimming blanks.
func PhaseList(value *string) []string {
	if value == nil {
		return nil
	}
	parts := strings.Split(*value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// Value dereferences an optional field, returning "" when absent.
func Value(field *string) string {
	if field == nil {
		return ""
	}
	return *field
}
