package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/morozRed/crumbtrail/internal/crumb"
	"go.uber.org/zap"
)

// Parser extracts breadcrumbs from files and owns the resulting collection.
// The collection is append-only: parsing the same file twice appends its
// breadcrumbs twice.
type Parser struct {
	logger      *zap.Logger
	progress    func(path string, count int)
	breadcrumbs []crumb.Breadcrumb
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for skipped files and dropped contexts.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithProgress registers a callback invoked after each file of a directory
// scan with the file's relative path and the running file count.
func WithProgress(fn func(path string, count int)) Option {
	return func(p *Parser) {
		p.progress = fn
	}
}

// New creates a parser with an empty collection.
func New(opts ...Option) *Parser {
	p := &Parser{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Breadcrumbs returns the collection in scan order.
func (p *Parser) Breadcrumbs() []crumb.Breadcrumb {
	return append([]crumb.Breadcrumb(nil), p.breadcrumbs...)
}

// Reset discards the collection.
func (p *Parser) Reset() {
	p.breadcrumbs = nil
}

// ParseFile scans the file at path. Read failures never escape: the file is
// reported as skipped and contributes nothing to the collection.
func (p *Parser) ParseFile(path string) FileResult {
	return p.parseAt(path, path)
}

// ParseContent scans in-memory content as if it had been read from path.
func (p *Parser) ParseContent(path string, content []byte) FileResult {
	return p.collect(path, bytes.NewReader(content))
}

func (p *Parser) parseAt(readPath, recordPath string) FileResult {
	f, err := os.Open(readPath)
	if err != nil {
		return p.skip(recordPath, fmt.Errorf("failed to open: %w", err))
	}
	defer f.Close()
	return p.collect(recordPath, f)
}

func (p *Parser) collect(path string, r io.Reader) FileResult {
	found, lines, dropped, err := Scan(path, r)
	if err != nil {
		return p.skip(path, fmt.Errorf("failed to read: %w", err))
	}
	if dropped > 0 {
		p.logger.Debug("dropped unterminated AI_CONTEXT",
			zap.String("path", path),
			zap.Int("count", dropped),
		)
	}

	p.breadcrumbs = append(p.breadcrumbs, found...)
	return FileResult{
		Path:        path,
		Breadcrumbs: found,
		Lines:       lines,
		Dropped:     dropped,
	}
}

func (p *Parser) skip(path string, err error) FileResult {
	p.logger.Warn("skipping file",
		zap.String("path", path),
		zap.Error(err),
	)
	return FileResult{Path: path, Skipped: true, Reason: err.Error()}
}

// Scan runs the comment machine over r and returns the breadcrumbs in source
// order, the line count and the number of dropped AI_CONTEXT blocks. On a
// read error no breadcrumbs are returned.
func Scan(path string, r io.Reader) ([]crumb.Breadcrumb, int, int, error) {
	m := NewMachine(path)
	out := make([]crumb.Breadcrumb, 0)

	lines, err := eachLine(r, func(lineNo int, line string) {
		var b *crumb.Breadcrumb
		m, b = m.Step(lineNo, line)
		if b != nil {
			out = append(out, *b)
		}
	})
	if err != nil {
		return nil, lines, 0, err
	}

	m, b := m.Finish()
	if b != nil {
		out = append(out, *b)
	}
	return out, lines, m.Dropped(), nil
}
