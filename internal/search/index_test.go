package search

import (
	"testing"

	"github.com/morozRed/crumbtrail/internal/crumb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bc(file string, line int, tags map[string]string) crumb.Breadcrumb {
	return crumb.Build(file, line, tags, nil)
}

func TestSearchRanksPhaseMatches(t *testing.T) {
	all := []crumb.Breadcrumb{
		bc("gfx/blit.c", 3, map[string]string{
			crumb.TagPhase: "BLITTER_COPY",
			crumb.TagNote:  "uses the copper list for timing",
		}),
		bc("gfx/copper.c", 10, map[string]string{
			crumb.TagPhase:   "COPPER_INIT",
			crumb.TagDetails: "builds the copper list before the first frame",
		}),
		bc("sound/mix.c", 1, map[string]string{crumb.TagPhase: "AUDIO_MIX"}),
	}

	results := Search(Build(all), "copper", 5)
	require.Len(t, results, 2)
	assert.Equal(t, "gfx/copper.c:10", results[0].Key)
	assert.Equal(t, 1, results[0].Index)
	assert.Equal(t, "gfx/blit.c:3", results[1].Key)
}

func TestSearchTypoFallback(t *testing.T) {
	all := []crumb.Breadcrumb{
		bc("gfx/blit.c", 3, map[string]string{crumb.TagPhase: "BLITTER"}),
	}

	results := Search(Build(all), "BLITER", 3)
	require.Len(t, results, 1)
	assert.Equal(t, "gfx/blit.c:3", results[0].Key)
}

func TestSearchDeterministicOrdering(t *testing.T) {
	all := []crumb.Breadcrumb{
		bc("b.c", 1, map[string]string{crumb.TagPhase: "ALPHA"}),
		bc("a.c", 1, map[string]string{crumb.TagPhase: "ALPHA"}),
	}

	results := Search(Build(all), "alpha", 2)
	require.Len(t, results, 2)
	assert.Equal(t, []int{0, 1}, []int{results[0].Index, results[1].Index})
}

func TestSearchEmpty(t *testing.T) {
	assert.Nil(t, Search(Build(nil), "alpha", 3))
	assert.Nil(t, Search(Build([]crumb.Breadcrumb{bc("a.c", 1, map[string]string{crumb.TagPhase: "X"})}), "  ", 3))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("blit", "blit"))
	assert.Equal(t, 1, levenshteinDistance("blit", "blits"))
	assert.Equal(t, 4, levenshteinDistance("", "blit"))
}
