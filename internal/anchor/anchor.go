package anchor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/morozRed/crumbtrail/internal/crumb"
	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"
)

// Symbol is a declaration found in a source file. Lines are 1-based.
type Symbol struct {
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"`
	Line    int    `json:"line" yaml:"line"`
	EndLine int    `json:"end_line" yaml:"end_line"`
}

// Supported reports whether declarations can be extracted for path.
func Supported(path string) bool {
	_, ok := languageFor(path)
	return ok
}

// Declarations returns the top-level declarations of content, ordered by
// start line. Declarations nested in preprocessor conditionals, namespaces,
// modules and export statements are included.
func Declarations(path string, content []byte) ([]Symbol, error) {
	lang, ok := languageFor(path)
	if !ok {
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}

	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(lang.grammar())

	tree, err := p.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	symbols := make([]Symbol, 0)
	collect(lang, tree.RootNode(), content, &symbols)
	sort.SliceStable(symbols, func(i, j int) bool {
		return symbols[i].Line < symbols[j].Line
	})
	return symbols, nil
}

func collect(lang *language, node *sitter.Node, content []byte, out *[]Symbol) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if kind, ok := lang.kinds[child.Type()]; ok {
			if name := nameOf(child, content); name != "" {
				*out = append(*out, Symbol{
					Name:    name,
					Kind:    kind,
					Line:    int(child.StartPoint().Row) + 1,
					EndLine: int(child.EndPoint().Row) + 1,
				})
			}
			continue
		}
		if lang.containers[child.Type()] {
			collect(lang, child, content, out)
		}
	}
}

func nameOf(node *sitter.Node, content []byte) string {
	for _, field := range []string{"name", "declarator", "type"} {
		if n := node.ChildByFieldName(field); n != nil {
			if name := declaratorName(n, content); name != "" {
				return name
			}
		}
	}

	// Grouped Go specs and JS variable declarators carry the name one level down.
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if n := child.ChildByFieldName("name"); n != nil {
			return n.Content(content)
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			if n := child.NamedChild(j).ChildByFieldName("name"); n != nil {
				return n.Content(content)
			}
		}
	}
	return ""
}

// declaratorName unwraps C declarators (pointer, function, init, array)
// down to the identifier.
func declaratorName(node *sitter.Node, content []byte) string {
	for depth := 0; node != nil && depth < 16; depth++ {
		switch node.Type() {
		case "identifier", "field_identifier", "type_identifier", "qualified_identifier",
			"destructor_name", "operator_name", "namespace_identifier", "property_identifier",
			"primitive_type", "generic_type", "scoped_type_identifier":
			return node.Content(content)
		}
		next := node.ChildByFieldName("declarator")
		if next == nil && node.NamedChildCount() > 0 {
			next = node.NamedChild(0)
		}
		node = next
	}
	return ""
}

// Resolver finds the declaration each breadcrumb annotates. Files are read
// and parsed once.
type Resolver struct {
	root   string
	logger *zap.Logger
	cache  map[string][]Symbol
}

// NewResolver resolves relative breadcrumb paths against root.
func NewResolver(root string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		root:   root,
		logger: logger,
		cache:  make(map[string][]Symbol),
	}
}

// Resolve returns the declaration enclosing the breadcrumb's line or, failing
// that, the first one after it.
func (r *Resolver) Resolve(b crumb.Breadcrumb) (Symbol, bool) {
	symbols := r.symbols(b.FilePath)
	for _, sym := range symbols {
		if sym.EndLine >= b.LineNumber {
			return sym, true
		}
	}
	return Symbol{}, false
}

// Name is Resolve reduced to the symbol name, for graph views.
func (r *Resolver) Name(b crumb.Breadcrumb) string {
	sym, ok := r.Resolve(b)
	if !ok {
		return ""
	}
	return sym.Name
}

func (r *Resolver) symbols(path string) []Symbol {
	if symbols, ok := r.cache[path]; ok {
		return symbols
	}
	r.cache[path] = nil
	if !Supported(path) {
		return nil
	}

	fullPath := path
	if !filepath.IsAbs(fullPath) && r.root != "" {
		fullPath = filepath.Join(r.root, filepath.FromSlash(path))
	}
	content, err := os.ReadFile(fullPath)
	if err != nil {
		r.logger.Debug("anchor read failed", zap.String("path", path), zap.Error(err))
		return nil
	}
	symbols, err := Declarations(path, content)
	if err != nil {
		r.logger.Debug("anchor parse failed", zap.String("path", path), zap.Error(err))
		return nil
	}
	r.cache[path] = symbols
	return symbols
}
