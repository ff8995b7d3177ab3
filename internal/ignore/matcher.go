package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// File is the per-project ignore file read from the scan root.
const File = ".crumbignore"

// DefaultRules are always applied before user rules; a user "!" rule can
// re-include any of them.
var DefaultRules = []string{
	".git/",
	".crumbtrail/",
	"node_modules/",
	"vendor/",
	"dist/",
	"build/",
	"target/",
}

type rule struct {
	re       *regexp.Regexp
	literal  string
	negated  bool
	dirOnly  bool
	anchored bool
	nested   bool // pattern contains a slash
}

// Matcher applies gitignore-like rules; the last matching rule wins.
type Matcher struct {
	rules []rule
}

// NewMatcher compiles DefaultRules followed by userRules.
func NewMatcher(userRules []string) *Matcher {
	all := make([]string, 0, len(DefaultRules)+len(userRules))
	all = append(all, DefaultRules...)
	all = append(all, userRules...)

	m := &Matcher{rules: make([]rule, 0, len(all))}
	for _, line := range all {
		if parsed, ok := compileRule(line); ok {
			m.rules = append(m.rules, parsed)
		}
	}
	return m
}

// LoadRules reads the ignore file under root. A missing file yields no rules.
func LoadRules(root string) ([]string, error) {
	f, err := os.Open(filepath.Join(root, File))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", File, err)
	}
	defer f.Close()

	rules := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", File, err)
	}
	return rules, nil
}

// ShouldIgnore reports whether relPath is excluded.
func (m *Matcher) ShouldIgnore(relPath string, isDir bool) bool {
	relPath = normalizePath(relPath)
	if relPath == "" || relPath == "." {
		return false
	}
	segments := strings.Split(relPath, "/")

	ignored := false
	for _, r := range m.rules {
		if r.matches(relPath, segments, isDir) {
			ignored = !r.negated
		}
	}
	return ignored
}

func compileRule(line string) (rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return rule{}, false
	}

	var r rule
	if strings.HasPrefix(line, "!") {
		r.negated = true
		line = line[1:]
	}
	if strings.HasPrefix(line, "/") {
		r.anchored = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	line = normalizePath(line)
	if line == "" {
		return rule{}, false
	}

	re, err := regexp.Compile("^" + globToRegex(line) + "$")
	if err != nil {
		return rule{}, false
	}
	r.re = re
	r.literal = line
	r.nested = strings.Contains(line, "/")
	return r, true
}

func (r rule) matches(relPath string, segments []string, isDir bool) bool {
	if r.dirOnly {
		// Any directory prefix of a file path counts; the last segment only
		// when the path itself is a directory.
		limit := len(segments) - 1
		if isDir {
			limit = len(segments)
		}
		for i := 1; i <= limit; i++ {
			prefix := strings.Join(segments[:i], "/")
			if r.re.MatchString(prefix) {
				return true
			}
			if !r.anchored && !r.nested && r.re.MatchString(segments[i-1]) {
				return true
			}
		}
		return false
	}

	if r.anchored {
		return r.re.MatchString(relPath)
	}

	if r.nested {
		for i := range segments {
			if r.re.MatchString(strings.Join(segments[i:], "/")) {
				return true
			}
		}
		return false
	}

	for _, segment := range segments {
		if r.re.MatchString(segment) {
			return true
		}
	}
	return false
}

func globToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch == '*' && i+1 < len(pattern) && pattern[i+1] == '*':
			b.WriteString(".*")
			i++
		case ch == '*':
			b.WriteString("[^/]*")
		case ch == '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	return b.String()
}

func normalizePath(path string) string {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	return strings.TrimPrefix(path, "/")
}
