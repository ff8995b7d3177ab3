package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/morozRed/crumbtrail/internal/graph"
	"github.com/morozRed/crumbtrail/internal/parser"
	"github.com/morozRed/crumbtrail/internal/validate"
)

func BenchmarkParseAndGraph_MediumRepo(b *testing.B) {
	root := b.TempDir()
	createSyntheticCRepo(b, root, 250)
	filter := parser.NewFilter([]string{".c"}, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := parser.New()
		result := p.ParseDirectory(root, filter)
		if len(result.Issues) > 0 {
			b.Fatalf("unexpected issues: %v", result.Issues)
		}
		all := p.Breadcrumbs()
		if len(all) != 500 {
			b.Fatalf("expected 500 breadcrumbs, got %d", len(all))
		}
		view := graph.BuildView(all, nil)
		if len(view.Edges) == 0 {
			b.Fatalf("expected graph edges")
		}
	}
}

func BenchmarkValidate_MediumRepo(b *testing.B) {
	root := b.TempDir()
	createSyntheticCRepo(b, root, 250)
	p := parser.New()
	p.ParseDirectory(root, parser.NewFilter([]string{".c"}, nil))
	all := p.Breadcrumbs()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if r := validate.Validate(all); !r.Valid {
			b.Fatalf("expected valid fixture, got %d errors", len(r.Errors))
		}
	}
}

func BenchmarkFindRelated_MediumRepo(b *testing.B) {
	root := b.TempDir()
	createSyntheticCRepo(b, root, 250)
	p := parser.New()
	p.ParseDirectory(root, parser.NewFilter([]string{".c"}, nil))
	all := p.Breadcrumbs()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		graph.FindRelated(all[i%len(all)], all)
	}
}

// createSyntheticCRepo writes files with two breadcrumbs each: a block
// comment with a multi-line context and a line-comment group that depends
// on the previous file's phase.
func createSyntheticCRepo(tb testing.TB, root string, files int) {
	tb.Helper()

	for i := 0; i < files; i++ {
		dir := filepath.Join(root, fmt.Sprintf("mod%d", i%10))
		if err := os.MkdirAll(dir, 0755); err != nil {
			tb.Fatalf("mkdir failed: %v", err)
		}

		filePath := filepath.Join(dir, fmt.Sprintf("unit_%03d.c", i))
		src := fmt.Sprintf(`/*
 * AI_PHASE: SETUP_%d
 * AI_STATUS: IMPLEMENTED
 * AI_BREADCRUMB: MOD_%d
 * AI_CONTEXT: {"unit": %d,
 *   "stage": "setup"}
 */
int setup_%d(void)
{
    return %d;
}

// AI_PHASE: RUN_%d
// AI_STATUS: PARTIAL
// AI_DEPENDENCIES: SETUP_%d, RUN_%d
int run_%d(void) { return setup_%d(); }
`, i, i%10, i, i, i, i, i, i-1, i, i)

		if err := os.WriteFile(filePath, []byte(src), 0644); err != nil {
			tb.Fatalf("write failed: %v", err)
		}
	}
}
