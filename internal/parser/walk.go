package parser

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/morozRed/crumbtrail/internal/ignore"
)

// Filter selects the files a directory scan reads.
type Filter struct {
	Extensions map[string]bool // lower-case, with leading dot; empty accepts all
	Ignore     *ignore.Matcher
}

// NewFilter builds a filter from an extension list and user ignore rules.
func NewFilter(extensions []string, ignoreRules []string) Filter {
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			exts[ext] = true
		}
	}
	return Filter{Extensions: exts, Ignore: ignore.NewMatcher(ignoreRules)}
}

// Accepts reports whether a file at relPath should be scanned.
func (f Filter) Accepts(relPath string) bool {
	if f.Ignore != nil && f.Ignore.ShouldIgnore(relPath, false) {
		return false
	}
	if len(f.Extensions) == 0 {
		return true
	}
	return f.Extensions[strings.ToLower(filepath.Ext(relPath))]
}

// ParseDirectory walks root in lexical order and parses every accepted file.
// Breadcrumb paths are relative to root, slash-separated. Unreadable files
// and directories become issues; the walk always continues.
func (p *Parser) ParseDirectory(root string, filter Filter) *ScanResult {
	result := &ScanResult{
		RootPath: root,
		Files:    make([]FileResult, 0),
		Issues:   make([]ParseIssue, 0),
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		relPath := path
		if rel, relErr := filepath.Rel(root, path); relErr == nil {
			relPath = filepath.ToSlash(rel)
		}

		if err != nil {
			result.Issues = append(result.Issues, ParseIssue{
				File:     relPath,
				Severity: "warning",
				Message:  fmt.Sprintf("walk error: %v", err),
			})
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && filter.Ignore != nil && filter.Ignore.ShouldIgnore(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !filter.Accepts(relPath) {
			return nil
		}

		file := p.parseAt(path, relPath)
		if file.Skipped {
			result.Issues = append(result.Issues, ParseIssue{
				File:     relPath,
				Severity: "error",
				Message:  file.Reason,
			})
		}
		result.Files = append(result.Files, file)
		if p.progress != nil {
			p.progress(relPath, len(result.Files))
		}
		return nil
	})
	if walkErr != nil {
		result.Issues = append(result.Issues, ParseIssue{
			File:     root,
			Severity: "error",
			Message:  walkErr.Error(),
		})
	}

	return result
}
