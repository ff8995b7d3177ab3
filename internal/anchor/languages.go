package anchor

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// language describes which tree-sitter nodes count as declarations.
type language struct {
	name       string
	grammar    func() *sitter.Language
	kinds      map[string]string // node type -> symbol kind
	containers map[string]bool   // node types whose children are declarations too
}

var cKinds = map[string]string{
	"function_definition":  "function",
	"declaration":          "declaration",
	"struct_specifier":     "struct",
	"union_specifier":      "union",
	"enum_specifier":       "enum",
	"type_definition":      "typedef",
	"preproc_def":          "macro",
	"preproc_function_def": "macro",
}

var cContainers = map[string]bool{
	"preproc_ifdef":   true,
	"preproc_if":      true,
	"preproc_else":    true,
	"preproc_elif":    true,
	"preproc_elifdef": true,
}

var (
	langC = &language{
		name:       "c",
		grammar:    c.GetLanguage,
		kinds:      cKinds,
		containers: cContainers,
	}
	langCPP = &language{
		name:    "cpp",
		grammar: cpp.GetLanguage,
		kinds: merge(cKinds, map[string]string{
			"class_specifier": "class",
		}),
		containers: mergeSet(cContainers, map[string]bool{
			"namespace_definition":  true,
			"declaration_list":      true,
			"template_declaration":  true,
			"linkage_specification": true,
		}),
	}
	langGo = &language{
		name:    "go",
		grammar: golang.GetLanguage,
		kinds: map[string]string{
			"function_declaration": "func",
			"method_declaration":   "method",
			"type_declaration":     "type",
			"var_declaration":      "var",
			"const_declaration":    "const",
		},
	}
	langJS = &language{
		name:    "javascript",
		grammar: javascript.GetLanguage,
		kinds: map[string]string{
			"function_declaration":           "function",
			"generator_function_declaration": "function",
			"class_declaration":              "class",
			"lexical_declaration":            "variable",
			"variable_declaration":           "variable",
		},
		containers: map[string]bool{"export_statement": true},
	}
	langTS = &language{
		name:    "typescript",
		grammar: typescript.GetLanguage,
		kinds: merge(langJS.kinds, map[string]string{
			"abstract_class_declaration": "class",
			"interface_declaration":      "interface",
			"type_alias_declaration":     "type",
			"enum_declaration":           "enum",
		}),
		containers: langJS.containers,
	}
	langRust = &language{
		name:    "rust",
		grammar: rust.GetLanguage,
		kinds: map[string]string{
			"function_item": "function",
			"struct_item":   "struct",
			"enum_item":     "enum",
			"trait_item":    "trait",
			"impl_item":     "impl",
			"const_item":    "const",
			"static_item":   "static",
		},
		containers: map[string]bool{"mod_item": true, "declaration_list": true},
	}
)

var byExtension = map[string]*language{
	".c":   langC,
	".h":   langC,
	".m":   langC,
	".cc":  langCPP,
	".cpp": langCPP,
	".cxx": langCPP,
	".hpp": langCPP,
	".hh":  langCPP,
	".go":  langGo,
	".js":  langJS,
	".mjs": langJS,
	".jsx": langJS,
	".ts":  langTS,
	".rs":  langRust,
}

func languageFor(path string) (*language, bool) {
	lang, ok := byExtension[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

func merge(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func mergeSet(base, extra map[string]bool) map[string]bool {
	out := make(map[string]bool, len(base)+len(extra))
	for k := range base {
		out[k] = true
	}
	for k := range extra {
		out[k] = true
	}
	return out
}
