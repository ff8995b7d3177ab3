package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/morozRed/crumbtrail/internal/config"
	"github.com/morozRed/crumbtrail/internal/crumb"
	"github.com/morozRed/crumbtrail/internal/fileutil"
	"github.com/morozRed/crumbtrail/internal/ignore"
	"github.com/morozRed/crumbtrail/internal/logging"
	"github.com/morozRed/crumbtrail/internal/parser"
	"github.com/morozRed/crumbtrail/internal/state"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// session is the resolved environment of one command run: scan root,
// configuration, logger and file filter.
type session struct {
	root   string
	file   string // set when the target is a single file, relative to root
	cfg    *config.Config
	logger *zap.Logger
	filter parser.Filter
	parser *parser.Parser
}

func newSession(cmd *cobra.Command, args []string) (*session, error) {
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	absPath, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", target, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", target, err)
	}

	s := &session{root: absPath}
	if !info.IsDir() {
		s.root = filepath.Dir(absPath)
		s.file = filepath.Base(absPath)
	}

	cfg, err := config.Load(s.root)
	if err != nil {
		return nil, err
	}
	if err := applyGlobalFlags(cmd, cfg); err != nil {
		return nil, err
	}
	s.cfg = cfg

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	s.logger = logger

	rules, err := ignore.LoadRules(s.root)
	if err != nil {
		return nil, err
	}
	s.filter = parser.NewFilter(cfg.Scan.Extensions, append(rules, cfg.Scan.Ignore...))
	return s, nil
}

func applyGlobalFlags(cmd *cobra.Command, cfg *config.Config) error {
	noColor, err := OptionalBoolFlag(cmd, "no-color")
	if err != nil {
		return err
	}
	if noColor || !cfg.Output.Color {
		color.NoColor = true
	}

	level, err := OptionalStringFlag(cmd, "log-level")
	if err != nil {
		return err
	}
	if level != "" {
		cfg.Log.Level = level
	}
	return nil
}

func (s *session) close() {
	if s.logger != nil {
		_ = s.logger.Sync()
	}
}

// scan parses the session target. A directory is walked with the configured
// filter; a single file is always read, whatever its extension.
func (s *session) scan(label string, showProgress bool) (*parser.ScanResult, time.Duration) {
	start := time.Now()

	if s.file != "" {
		s.parser = parser.New(parser.WithLogger(s.logger))
		result := &parser.ScanResult{RootPath: s.root, Issues: make([]parser.ParseIssue, 0)}
		data, err := os.ReadFile(filepath.Join(s.root, s.file))
		var file parser.FileResult
		if err != nil {
			file = parser.FileResult{Path: s.file, Skipped: true, Reason: fmt.Sprintf("failed to open: %v", err)}
			result.Issues = append(result.Issues, parser.ParseIssue{File: s.file, Severity: "error", Message: file.Reason})
		} else {
			file = s.parser.ParseContent(s.file, data)
		}
		result.Files = []parser.FileResult{file}
		return result, time.Since(start)
	}

	progress := newParseProgressReporter(label, showProgress)
	s.parser = parser.New(parser.WithLogger(s.logger), parser.WithProgress(progress.Update))
	result := s.parser.ParseDirectory(s.root, s.filter)
	progress.Done(len(result.Files))
	return result, time.Since(start)
}

// breadcrumbs scans the target and returns the collection.
func (s *session) breadcrumbs() []crumb.Breadcrumb {
	s.scan("scan", false)
	return s.parser.Breadcrumbs()
}

// saveSnapshot records per-file hashes and breadcrumb counts. A directory
// scan replaces the snapshot; a single-file scan updates its entry.
func (s *session) saveSnapshot(result *parser.ScanResult) error {
	st := state.NewState()
	if s.file != "" {
		loaded, err := state.Load(s.root)
		if err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}
		st = loaded
	}

	for _, file := range result.Files {
		if file.Skipped {
			st.SetFile(file.Path, "", 0, true)
			continue
		}
		hash, err := fileutil.HashFile(filepath.Join(s.root, filepath.FromSlash(file.Path)))
		if err != nil {
			return fmt.Errorf("failed to hash %s: %w", file.Path, err)
		}
		st.SetFile(file.Path, hash, len(file.Breadcrumbs), false)
	}

	if err := st.Save(s.root); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// locate scans the target and finds the breadcrumb at a file:line argument.
func (s *session) locate(location string) (crumb.Breadcrumb, []crumb.Breadcrumb, error) {
	file, line, err := ParseLocation(location)
	if err != nil {
		return crumb.Breadcrumb{}, nil, err
	}
	all := s.breadcrumbs()
	key := fmt.Sprintf("%s:%d", file, line)
	for _, b := range all {
		if b.Key() == key {
			return b, all, nil
		}
	}
	return crumb.Breadcrumb{}, all, fmt.Errorf("no breadcrumb starts at %s", key)
}
