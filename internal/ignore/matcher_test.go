package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherRules(t *testing.T) {
	m := NewMatcher([]string{
		"*.gen.c",
		"/third_party/",
		"docs/**/*.h",
		"generated/",
		"!generated/keep.c",
	})

	cases := []struct {
		path   string
		isDir  bool
		ignore bool
	}{
		{path: ".git", isDir: true, ignore: true},
		{path: ".crumbtrail/state.json", ignore: true},
		{path: "src/vendor/lib.c", ignore: true},
		{path: "src/main.c", ignore: false},
		{path: "src/blit.gen.c", ignore: true},
		{path: "third_party", isDir: true, ignore: true},
		{path: "src/third_party/x.c", ignore: false},
		{path: "docs/api/v1/gfx.h", ignore: true},
		{path: "docs/readme.c", ignore: false},
		{path: "generated/out.c", ignore: true},
		{path: "generated/keep.c", ignore: false},
		{path: "src/generated", isDir: true, ignore: true},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.ignore, m.ShouldIgnore(tc.path, tc.isDir))
		})
	}
}

func TestMatcherNegationOverridesDefault(t *testing.T) {
	m := NewMatcher([]string{"!vendor/"})

	assert.False(t, m.ShouldIgnore("vendor/lib.c", false))
	assert.False(t, m.ShouldIgnore("", true))
}

func TestLoadRules(t *testing.T) {
	root := t.TempDir()

	rules, err := LoadRules(root)
	require.NoError(t, err)
	assert.Empty(t, rules)

	content := "# comment\n\n*.o\n  !keep.o  \n"
	require.NoError(t, os.WriteFile(filepath.Join(root, File), []byte(content), 0644))

	rules, err = LoadRules(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.o", "!keep.o"}, rules)
}
