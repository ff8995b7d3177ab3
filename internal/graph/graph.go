package graph

import (
	"github.com/morozRed/crumbtrail/internal/crumb"
)

// Rule names the reason two breadcrumbs are related.
type Rule string

const (
	RuleMarker     Rule = "marker"
	RuleDependency Rule = "dependency"
	RuleBlocking   Rule = "blocking"
	RuleReference  Rule = "reference"
)

// Relation is a breadcrumb related to a query target, with the rules that
// matched in rule order. Index is its position in the queried collection.
type Relation struct {
	Breadcrumb crumb.Breadcrumb `json:"breadcrumb"`
	Index      int              `json:"index"`
	Rules      []Rule           `json:"rules"`
}

// Map groups breadcrumbs by marker in a single pass. Each group keeps
// collection order; breadcrumbs without a marker are left out.
func Map(breadcrumbs []crumb.Breadcrumb) map[string][]crumb.Breadcrumb {
	groups := make(map[string][]crumb.Breadcrumb)
	for _, b := range breadcrumbs {
		if b.Marker == nil {
			continue
		}
		groups[*b.Marker] = append(groups[*b.Marker], b)
	}
	return groups
}

// Markers returns the distinct markers in first-seen order.
func Markers(breadcrumbs []crumb.Breadcrumb) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, b := range breadcrumbs {
		if b.Marker == nil || seen[*b.Marker] {
			continue
		}
		seen[*b.Marker] = true
		out = append(out, *b.Marker)
	}
	return out
}

// FindRelated returns the breadcrumbs related to target in collection order,
// each at most once. Records at the target's location are never returned.
func FindRelated(target crumb.Breadcrumb, breadcrumbs []crumb.Breadcrumb) []crumb.Breadcrumb {
	relations := Relate(target, breadcrumbs)
	out := make([]crumb.Breadcrumb, 0, len(relations))
	for _, rel := range relations {
		out = append(out, rel.Breadcrumb)
	}
	return out
}

// Relate is FindRelated with the matching rules attached.
func Relate(target crumb.Breadcrumb, breadcrumbs []crumb.Breadcrumb) []Relation {
	targetKey := target.Key()
	out := make([]Relation, 0)
	for i, candidate := range breadcrumbs {
		if candidate.Key() == targetKey {
			continue
		}
		rules := Match(target, candidate)
		if len(rules) == 0 {
			continue
		}
		out = append(out, Relation{Breadcrumb: candidate, Index: i, Rules: rules})
	}
	return out
}

// Match lists the rules relating a and b. The result is symmetric.
func Match(a, b crumb.Breadcrumb) []Rule {
	rules := make([]Rule, 0, 4)
	if sameValue(a.Marker, b.Marker) {
		rules = append(rules, RuleMarker)
	}
	if declares(a.Dependencies, b.Phase) || declares(b.Dependencies, a.Phase) {
		rules = append(rules, RuleDependency)
	}
	if declares(a.Blocks, b.Phase) || declares(b.Blocks, a.Phase) {
		rules = append(rules, RuleBlocking)
	}
	if sameValue(a.LinuxRef, b.LinuxRef) {
		rules = append(rules, RuleReference)
	}
	return rules
}

func sameValue(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

// declares reports whether the comma-separated list names phase.
func declares(list, phase *string) bool {
	if list == nil || phase == nil {
		return false
	}
	for _, name := range crumb.PhaseList(list) {
		if name == *phase {
			return true
		}
	}
	return false
}

// FindByKey returns the first breadcrumb at key ("file:line").
func FindByKey(breadcrumbs []crumb.Breadcrumb, key string) (crumb.Breadcrumb, bool) {
	for _, b := range breadcrumbs {
		if b.Key() == key {
			return b, true
		}
	}
	return crumb.Breadcrumb{}, false
}
