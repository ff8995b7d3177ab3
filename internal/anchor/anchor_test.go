package anchor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/morozRed/crumbtrail/internal/crumb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cSource = `#include <exec/types.h>

/*
 * AI_PHASE: BLIT
 */
static int blit_rect(int x, int y)
{
    return x + y;
}

struct BitMap {
    int width;
};

#define MAX_DEPTH 8
`

const goSource = `package gfx

// AI_PHASE: INIT
func Init() {}

type Pipeline struct{}

func (p *Pipeline) Run() {}
`

func names(symbols []Symbol) []string {
	out := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		out = append(out, sym.Name)
	}
	return out
}

func TestDeclarationsC(t *testing.T) {
	symbols, err := Declarations("blit.c", []byte(cSource))
	require.NoError(t, err)

	assert.Equal(t, []string{"blit_rect", "BitMap", "MAX_DEPTH"}, names(symbols))
	assert.Equal(t, "function", symbols[0].Kind)
	assert.Equal(t, 6, symbols[0].Line)
	assert.Equal(t, 9, symbols[0].EndLine)
}

func TestDeclarationsGo(t *testing.T) {
	symbols, err := Declarations("gfx.go", []byte(goSource))
	require.NoError(t, err)

	assert.Equal(t, []string{"Init", "Pipeline", "Run"}, names(symbols))
	assert.Equal(t, "method", symbols[2].Kind)
}

func TestDeclarationsUnsupported(t *testing.T) {
	_, err := Declarations("notes.txt", []byte("hello"))
	assert.Error(t, err)
	assert.False(t, Supported("notes.txt"))
	assert.True(t, Supported("gfx/BLIT.C"))
}

func TestResolver(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "blit.c"), []byte(cSource), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("// AI_PHASE: X\n"), 0644))

	r := NewResolver(root, nil)
	at := func(path string, line int) crumb.Breadcrumb {
		return crumb.Build(path, line, map[string]string{crumb.TagPhase: "P"}, nil)
	}

	sym, ok := r.Resolve(at("blit.c", 4))
	require.True(t, ok)
	assert.Equal(t, "blit_rect", sym.Name)

	assert.Equal(t, "blit_rect", r.Name(at("blit.c", 8)))
	assert.Equal(t, "BitMap", r.Name(at("blit.c", 10)))

	_, ok = r.Resolve(at("blit.c", 100))
	assert.False(t, ok)
	assert.Equal(t, "", r.Name(at("notes.txt", 1)))
	assert.Equal(t, "", r.Name(at("missing.c", 1)))
}
