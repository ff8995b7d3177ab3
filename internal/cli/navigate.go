package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/morozRed/crumbtrail/internal/anchor"
	"github.com/morozRed/crumbtrail/internal/crumb"
	"github.com/morozRed/crumbtrail/internal/graph"
	"github.com/morozRed/crumbtrail/internal/report"
	"github.com/morozRed/crumbtrail/internal/search"
	"github.com/spf13/cobra"
)

type MarkerGroup struct {
	Marker      string          `json:"marker" yaml:"marker"`
	Count       int             `json:"count" yaml:"count"`
	Breadcrumbs []report.Record `json:"breadcrumbs" yaml:"breadcrumbs"`
}

type RelatedEntry struct {
	Breadcrumb report.Record `json:"breadcrumb" yaml:"breadcrumb"`
	Rules      []graph.Rule  `json:"rules" yaml:"rules"`
}

type RelatedResult struct {
	Target  report.Record  `json:"target" yaml:"target"`
	Related []RelatedEntry `json:"related" yaml:"related"`
}

type ShowResult struct {
	Breadcrumb report.Record  `json:"breadcrumb" yaml:"breadcrumb"`
	Tags       []TagValue     `json:"tags" yaml:"tags"`
	Anchor     *anchor.Symbol `json:"anchor" yaml:"anchor"`
}

type TagValue struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// MarkerGroups orders Map's groups by first appearance.
func MarkerGroups(all []crumb.Breadcrumb) []MarkerGroup {
	groups := graph.Map(all)
	out := make([]MarkerGroup, 0, len(groups))
	for _, marker := range graph.Markers(all) {
		members := groups[marker]
		records := make([]report.Record, 0, len(members))
		for _, b := range members {
			records = append(records, report.NewRecord(b))
		}
		out = append(out, MarkerGroup{Marker: marker, Count: len(records), Breadcrumbs: records})
	}
	return out
}

func RunMap(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()

	format, err := ParseOutputFormat(cmd, s.cfg)
	if err != nil {
		return err
	}

	all := s.breadcrumbs()
	groups := MarkerGroups(all)
	w := cmd.OutOrStdout()
	switch format {
	case FormatJSON, FormatYAML:
		return printStructured(w, format, groups)
	case FormatJSONL:
		return printJSONL(w, groups)
	}

	if len(groups) == 0 {
		fmt.Fprintln(w, "no markers found")
		return nil
	}
	members := graph.Map(all)
	for _, group := range groups {
		fmt.Fprintf(w, "%s (%d)\n", headingText(group.Marker), group.Count)
		for _, b := range members[group.Marker] {
			fmt.Fprintf(w, "  %s\n", describe(b))
		}
	}
	return nil
}

func RunRelated(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args[1:])
	if err != nil {
		return err
	}
	defer s.close()

	format, err := ParseOutputFormat(cmd, s.cfg)
	if err != nil {
		return err
	}

	target, all, err := s.locate(args[0])
	if err != nil {
		return err
	}

	relations := graph.Relate(target, all)
	result := RelatedResult{
		Target:  report.NewRecord(target),
		Related: make([]RelatedEntry, 0, len(relations)),
	}
	for _, rel := range relations {
		result.Related = append(result.Related, RelatedEntry{
			Breadcrumb: report.NewRecord(rel.Breadcrumb),
			Rules:      rel.Rules,
		})
	}

	w := cmd.OutOrStdout()
	switch format {
	case FormatJSON, FormatYAML:
		return printStructured(w, format, result)
	case FormatJSONL:
		return printJSONL(w, result.Related)
	}

	fmt.Fprintf(w, "%s\n", describe(target))
	if len(relations) == 0 {
		fmt.Fprintln(w, "  no related breadcrumbs")
		return nil
	}
	for _, rel := range relations {
		fmt.Fprintf(w, "  %s  %s\n", describe(rel.Breadcrumb), dimText(formatRules(rel.Rules)))
	}
	return nil
}

func formatRules(rules []graph.Rule) string {
	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		names = append(names, string(rule))
	}
	return "(" + strings.Join(names, ", ") + ")"
}

// RunGraph prints the node/edge view. Text format falls back to JSON since
// the view has no line-oriented form.
func RunGraph(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()

	format, err := ParseOutputFormat(cmd, s.cfg)
	if err != nil {
		return err
	}
	noSymbols, err := OptionalBoolFlag(cmd, "no-symbols")
	if err != nil {
		return err
	}

	var symbols graph.SymbolFunc
	if !noSymbols {
		symbols = anchor.NewResolver(s.root, s.logger).Name
	}
	view := graph.BuildView(s.breadcrumbs(), symbols)

	if format == FormatText {
		format = FormatJSON
	}
	return printStructured(cmd.OutOrStdout(), format, view)
}

func RunShow(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args[1:])
	if err != nil {
		return err
	}
	defer s.close()

	format, err := ParseOutputFormat(cmd, s.cfg)
	if err != nil {
		return err
	}

	target, _, err := s.locate(args[0])
	if err != nil {
		return err
	}

	result := ShowResult{
		Breadcrumb: report.NewRecord(target),
		Tags:       SortedTags(target),
	}
	if sym, ok := anchor.NewResolver(s.root, s.logger).Resolve(target); ok {
		result.Anchor = &sym
	}

	w := cmd.OutOrStdout()
	if format != FormatText {
		return printStructured(w, format, result)
	}
	return printShowText(w, target, result)
}

// SortedTags lists the recognized tags present on b by name.
func SortedTags(b crumb.Breadcrumb) []TagValue {
	tags := make([]TagValue, 0, len(b.RawTags))
	for name, value := range b.RawTags {
		tags = append(tags, TagValue{Name: name, Value: value})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags
}

func printShowText(w io.Writer, b crumb.Breadcrumb, result ShowResult) error {
	fmt.Fprintf(w, "%s\n", headingText(b.Key()))
	if result.Anchor != nil {
		fmt.Fprintf(w, "  anchor: %s %s (lines %d-%d)\n",
			result.Anchor.Kind, result.Anchor.Name, result.Anchor.Line, result.Anchor.EndLine)
	}
	for _, tag := range result.Tags {
		if tag.Name == crumb.TagContext {
			continue
		}
		fmt.Fprintf(w, "  %-28s %s\n", tag.Name, tag.Value)
	}
	if b.Context != nil {
		data, err := json.MarshalIndent(b.Context, "  ", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s\n  %s\n", crumb.TagContext, data)
	}
	return nil
}

type SearchHit struct {
	Score      float64       `json:"score" yaml:"score"`
	Breadcrumb report.Record `json:"breadcrumb" yaml:"breadcrumb"`
}

func RunSearch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args[1:])
	if err != nil {
		return err
	}
	defer s.close()

	format, err := ParseOutputFormat(cmd, s.cfg)
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("failed to read --limit flag: %w", err)
	}

	all := s.breadcrumbs()
	results := search.Search(search.Build(all), args[0], limit)
	hits := make([]SearchHit, 0, len(results))
	for _, result := range results {
		hits = append(hits, SearchHit{Score: result.Score, Breadcrumb: report.NewRecord(all[result.Index])})
	}

	w := cmd.OutOrStdout()
	switch format {
	case FormatJSON, FormatYAML:
		return printStructured(w, format, hits)
	case FormatJSONL:
		return printJSONL(w, hits)
	}

	if len(results) == 0 {
		fmt.Fprintf(w, "no breadcrumbs match %q\n", args[0])
		return nil
	}
	for _, result := range results {
		fmt.Fprintf(w, "%6.3f  %s\n", result.Score, describe(all[result.Index]))
	}
	return nil
}
