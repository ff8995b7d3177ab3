package graph

import (
	"testing"

	"github.com/morozRed/crumbtrail/internal/crumb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bc(file string, line int, tags map[string]string) crumb.Breadcrumb {
	return crumb.Build(file, line, tags, nil)
}

func phases(bs []crumb.Breadcrumb) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, crumb.Value(b.Phase))
	}
	return out
}

func shaderPipeline() []crumb.Breadcrumb {
	return []crumb.Breadcrumb{
		bc("gfx/init.c", 3, map[string]string{
			crumb.TagPhase:  "SHADER_INIT",
			crumb.TagStatus: "IMPLEMENTED",
			crumb.TagMarker: "graphics_pipeline_v2",
		}),
		bc("gfx/compile.c", 10, map[string]string{
			crumb.TagPhase:        "SHADER_COMPILE",
			crumb.TagStatus:       "IMPLEMENTED",
			crumb.TagMarker:       "graphics_pipeline_v2",
			crumb.TagDependencies: "SHADER_INIT",
		}),
	}
}

func TestMapGroupsByMarker(t *testing.T) {
	all := append(shaderPipeline(),
		bc("gfx/tex.c", 1, map[string]string{crumb.TagPhase: "TEX", crumb.TagMarker: "texture_system_v1"}),
		bc("gfx/none.c", 1, map[string]string{crumb.TagPhase: "NONE"}),
	)

	groups := Map(all)

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"SHADER_INIT", "SHADER_COMPILE"}, phases(groups["graphics_pipeline_v2"]))
	assert.Equal(t, []string{"TEX"}, phases(groups["texture_system_v1"]))
	assert.Equal(t, []string{"graphics_pipeline_v2", "texture_system_v1"}, Markers(all))
}

func TestFindRelatedScenario(t *testing.T) {
	all := shaderPipeline()

	assert.Len(t, Map(all)["graphics_pipeline_v2"], 2)
	assert.Equal(t, []string{"SHADER_COMPILE"}, phases(FindRelated(all[0], all)))

	relations := Relate(all[0], all)
	require.Len(t, relations, 1)
	assert.Equal(t, []Rule{RuleMarker, RuleDependency}, relations[0].Rules)
	assert.Equal(t, 1, relations[0].Index)
}

func TestFindRelatedDependencyIsSymmetric(t *testing.T) {
	a := bc("a.c", 1, map[string]string{crumb.TagPhase: "A_PHASE"})
	b := bc("b.c", 1, map[string]string{crumb.TagPhase: "B_PHASE", crumb.TagDependencies: "X, A_PHASE ,Y"})
	all := []crumb.Breadcrumb{a, b}

	assert.Equal(t, []string{"B_PHASE"}, phases(FindRelated(a, all)))
	assert.Equal(t, []string{"A_PHASE"}, phases(FindRelated(b, all)))
}

func TestFindRelatedBlockingBothDirections(t *testing.T) {
	blocker := bc("a.c", 1, map[string]string{crumb.TagPhase: "MEMORY", crumb.TagBlocks: "DMA, BLIT"})
	blocked := bc("b.c", 1, map[string]string{crumb.TagPhase: "BLIT"})
	other := bc("c.c", 1, map[string]string{crumb.TagPhase: "AUDIO"})
	all := []crumb.Breadcrumb{blocker, blocked, other}

	assert.Equal(t, []string{"BLIT"}, phases(FindRelated(blocker, all)))
	assert.Equal(t, []string{"MEMORY"}, phases(FindRelated(blocked, all)))
	assert.Empty(t, FindRelated(other, all))
}

func TestFindRelatedSharedReference(t *testing.T) {
	a := bc("a.c", 1, map[string]string{crumb.TagPhase: "A", crumb.TagLinuxRef: "drivers/gpu/drm/drm_gem.c"})
	b := bc("b.c", 7, map[string]string{crumb.TagPhase: "B", crumb.TagLinuxRef: "drivers/gpu/drm/drm_gem.c"})
	c := bc("c.c", 2, map[string]string{crumb.TagPhase: "C", crumb.TagAmigaOSRef: "drivers/gpu/drm/drm_gem.c"})
	all := []crumb.Breadcrumb{a, b, c}

	relations := Relate(a, all)
	require.Len(t, relations, 1)
	assert.Equal(t, "B", crumb.Value(relations[0].Breadcrumb.Phase))
	assert.Equal(t, []Rule{RuleReference}, relations[0].Rules)
}

func TestFindRelatedIgnoresAbsentValues(t *testing.T) {
	a := bc("a.c", 1, map[string]string{crumb.TagNote: "x"})
	b := bc("b.c", 1, map[string]string{crumb.TagNote: "y"})

	assert.Empty(t, FindRelated(a, []crumb.Breadcrumb{a, b}))
}

func TestFindRelatedDedupesAndKeepsOrder(t *testing.T) {
	target := bc("t.c", 1, map[string]string{
		crumb.TagPhase:    "T",
		crumb.TagMarker:   "m",
		crumb.TagLinuxRef: "ref",
	})
	all := []crumb.Breadcrumb{
		bc("z.c", 1, map[string]string{crumb.TagPhase: "Z", crumb.TagMarker: "m", crumb.TagLinuxRef: "ref", crumb.TagBlocks: "T"}),
		target,
		target,
		bc("a.c", 1, map[string]string{crumb.TagPhase: "A", crumb.TagDependencies: "T"}),
	}

	related := Relate(target, all)
	require.Len(t, related, 2)
	assert.Equal(t, "Z", crumb.Value(related[0].Breadcrumb.Phase))
	assert.Equal(t, []Rule{RuleMarker, RuleBlocking, RuleReference}, related[0].Rules)
	assert.Equal(t, "A", crumb.Value(related[1].Breadcrumb.Phase))
}

func TestBuildView(t *testing.T) {
	all := shaderPipeline()
	all = append(all, all[0])

	view := BuildView(all, func(b crumb.Breadcrumb) string {
		return "fn_" + crumb.Value(b.Phase)
	})

	require.Len(t, view.Nodes, 3)
	assert.Equal(t, "gfx/init.c:3", view.Nodes[0].ID)
	assert.Equal(t, "gfx/init.c:3#2", view.Nodes[2].ID)
	assert.Equal(t, "fn_SHADER_INIT", view.Nodes[0].Symbol)

	// pair (0,1): marker + dependency; pair (1,2): marker + dependency;
	// pair (0,2) shares a key and is skipped.
	require.Len(t, view.Edges, 4)
	assert.Equal(t, Edge{From: "gfx/init.c:3", To: "gfx/compile.c:10", Label: RuleMarker, Direction: DirectionShared}, view.Edges[0])
	assert.Equal(t, Edge{From: "gfx/compile.c:10", To: "gfx/init.c:3", Label: RuleDependency, Direction: DirectionDependsOn}, view.Edges[1])
	assert.Equal(t, "gfx/init.c:3#2", view.Edges[3].To)
}

func TestFindByKey(t *testing.T) {
	all := shaderPipeline()

	b, ok := FindByKey(all, "gfx/compile.c:10")
	require.True(t, ok)
	assert.Equal(t, "SHADER_COMPILE", crumb.Value(b.Phase))

	_, ok = FindByKey(all, "gfx/compile.c:11")
	assert.False(t, ok)
}
