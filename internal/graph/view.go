package graph

import (
	"fmt"

	"github.com/morozRed/crumbtrail/internal/crumb"
)

// Edge directions.
const (
	DirectionDependsOn = "depends_on"
	DirectionBlocks    = "blocks"
	DirectionShared    = "shared"
)

// View is the node/edge rendering of a breadcrumb collection.
type View struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

type Node struct {
	ID     string  `json:"id" yaml:"id"`
	Phase  *string `json:"phase" yaml:"phase"`
	Status *string `json:"status" yaml:"status"`
	File   string  `json:"file" yaml:"file"`
	Line   int     `json:"line" yaml:"line"`
	Marker *string `json:"marker" yaml:"marker"`
	Symbol string  `json:"symbol,omitempty" yaml:"symbol,omitempty"`
}

type Edge struct {
	From      string `json:"from" yaml:"from"`
	To        string `json:"to" yaml:"to"`
	Label     Rule   `json:"label" yaml:"label"`
	Direction string `json:"direction" yaml:"direction"`
}

// SymbolFunc names the declaration a breadcrumb annotates, or "".
type SymbolFunc func(crumb.Breadcrumb) string

// BuildView renders every breadcrumb as a node and every related pair as one
// edge per matching rule. Dependency and blocking edges point from the
// declaring breadcrumb; marker and reference edges follow collection order.
// symbols may be nil.
func BuildView(breadcrumbs []crumb.Breadcrumb, symbols SymbolFunc) View {
	view := View{
		Nodes: make([]Node, 0, len(breadcrumbs)),
		Edges: make([]Edge, 0),
	}

	ids := NodeIDs(breadcrumbs)
	for i, b := range breadcrumbs {
		node := Node{
			ID:     ids[i],
			Phase:  b.Phase,
			Status: b.Status,
			File:   b.FilePath,
			Line:   b.LineNumber,
			Marker: b.Marker,
		}
		if symbols != nil {
			node.Symbol = symbols(b)
		}
		view.Nodes = append(view.Nodes, node)
	}

	for i := range breadcrumbs {
		for j := i + 1; j < len(breadcrumbs); j++ {
			a, b := breadcrumbs[i], breadcrumbs[j]
			if a.Key() == b.Key() {
				continue
			}
			for _, rule := range Match(a, b) {
				view.Edges = append(view.Edges, edgesFor(rule, a, b, ids[i], ids[j])...)
			}
		}
	}

	return view
}

func edgesFor(rule Rule, a, b crumb.Breadcrumb, aID, bID string) []Edge {
	switch rule {
	case RuleDependency:
		return directed(rule, DirectionDependsOn, a.Dependencies, b.Dependencies, a.Phase, b.Phase, aID, bID)
	case RuleBlocking:
		return directed(rule, DirectionBlocks, a.Blocks, b.Blocks, a.Phase, b.Phase, aID, bID)
	default:
		return []Edge{{From: aID, To: bID, Label: rule, Direction: DirectionShared}}
	}
}

func directed(rule Rule, direction string, aList, bList, aPhase, bPhase *string, aID, bID string) []Edge {
	out := make([]Edge, 0, 2)
	if declares(aList, bPhase) {
		out = append(out, Edge{From: aID, To: bID, Label: rule, Direction: direction})
	}
	if declares(bList, aPhase) {
		out = append(out, Edge{From: bID, To: aID, Label: rule, Direction: direction})
	}
	return out
}

// NodeIDs returns a stable id per breadcrumb: its file:line key, with "#n"
// appended to repeated keys.
func NodeIDs(breadcrumbs []crumb.Breadcrumb) []string {
	seen := make(map[string]int, len(breadcrumbs))
	ids := make([]string, len(breadcrumbs))
	for i, b := range breadcrumbs {
		key := b.Key()
		seen[key]++
		if n := seen[key]; n > 1 {
			ids[i] = fmt.Sprintf("%s#%d", key, n)
			continue
		}
		ids[i] = key
	}
	return ids
}
