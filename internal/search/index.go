package search

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/morozRed/crumbtrail/internal/crumb"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9_]+`)

// Document is the indexed text of one breadcrumb.
type Document struct {
	Index  int
	Key    string
	Phase  string
	Length int
	Terms  map[string]int
}

// Index is a BM25 index over a breadcrumb collection.
type Index struct {
	DocumentCount int
	AvgDocLength  float64
	DocFreq       map[string]int
	Documents     []Document
}

// Result is a scored match. Index is the breadcrumb's position in the
// indexed collection.
type Result struct {
	Index int     `json:"index"`
	Key   string  `json:"key"`
	Score float64 `json:"score"`
}

// Build indexes phase, marker, file path and the free-text tags of every
// breadcrumb. Breadcrumbs with no indexable text are left out.
func Build(breadcrumbs []crumb.Breadcrumb) *Index {
	documents := make([]Document, 0, len(breadcrumbs))
	docFreq := make(map[string]int)
	totalLength := 0

	for i, b := range breadcrumbs {
		terms := buildTerms(b)
		length := 0
		for _, count := range terms {
			length += count
		}
		if length == 0 {
			continue
		}

		documents = append(documents, Document{
			Index:  i,
			Key:    b.Key(),
			Phase:  crumb.Value(b.Phase),
			Length: length,
			Terms:  terms,
		})
		totalLength += length

		for term := range terms {
			docFreq[term]++
		}
	}

	avgDocLength := 0.0
	if len(documents) > 0 {
		avgDocLength = float64(totalLength) / float64(len(documents))
	}

	return &Index{
		DocumentCount: len(documents),
		AvgDocLength:  avgDocLength,
		DocFreq:       docFreq,
		Documents:     documents,
	}
}

// Search ranks documents against query with BM25. When nothing scores, it
// falls back to a fuzzy match on phase names.
func Search(index *Index, query string, limit int) []Result {
	if index == nil || len(index.Documents) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	queryTerms := tokenize(query)
	if len(queryTerms) == 0 {
		return nil
	}

	seenTerms := make(map[string]bool, len(queryTerms))
	uniqueTerms := make([]string, 0, len(queryTerms))
	for _, term := range queryTerms {
		if seenTerms[term] {
			continue
		}
		seenTerms[term] = true
		uniqueTerms = append(uniqueTerms, term)
	}

	k1 := 1.2
	b := 0.75
	n := float64(index.DocumentCount)
	avgLen := index.AvgDocLength
	if avgLen <= 0 {
		avgLen = 1
	}

	results := make([]Result, 0)
	for _, doc := range index.Documents {
		score := 0.0
		docLen := float64(doc.Length)
		for _, term := range uniqueTerms {
			tf := float64(doc.Terms[term])
			if tf <= 0 {
				continue
			}
			df := float64(index.DocFreq[term])
			if df <= 0 {
				continue
			}
			idf := math.Log(1.0 + ((n - df + 0.5) / (df + 0.5)))
			numerator := tf * (k1 + 1.0)
			denominator := tf + k1*(1.0-b+b*(docLen/avgLen))
			score += idf * (numerator / denominator)
		}
		if score > 0 {
			results = append(results, Result{Index: doc.Index, Key: doc.Key, Score: score})
		}
	}

	if len(results) == 0 {
		return fuzzyPhaseFallback(index.Documents, query, limit)
	}
	return rank(results, limit)
}

func rank(results []Result, limit int) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Index < results[j].Index
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func buildTerms(b crumb.Breadcrumb) map[string]int {
	terms := make(map[string]int)
	addWeighted(terms, crumb.Value(b.Phase), 4)
	addWeighted(terms, crumb.Value(b.Marker), 3)
	addWeighted(terms, b.FilePath, 2)
	addWeighted(terms, crumb.Value(b.Pattern), 2)
	for _, field := range []*string{
		b.Strategy, b.Details, b.AINote, b.AIHistory, b.AIChange,
		b.CompilerErr, b.RuntimeErr, b.FixReason,
		b.LinuxRef, b.AmigaOSRef, b.AROSImpl,
	} {
		addWeighted(terms, crumb.Value(field), 1)
	}
	return terms
}

func addWeighted(terms map[string]int, value string, weight int) {
	if weight <= 0 {
		return
	}
	for _, token := range tokenize(value) {
		terms[token] += weight
	}
}

func tokenize(value string) []string {
	value = strings.ToLower(value)
	if value == "" {
		return nil
	}
	return tokenPattern.FindAllString(value, -1)
}

func fuzzyPhaseFallback(documents []Document, query string, limit int) []Result {
	needle := normalizeForFuzzy(query)
	if needle == "" {
		return nil
	}

	results := make([]Result, 0)
	for _, doc := range documents {
		candidate := normalizeForFuzzy(doc.Phase)
		if candidate == "" {
			continue
		}
		distance := levenshteinDistance(needle, candidate)
		threshold := len(candidate) / 3
		if threshold < 2 {
			threshold = 2
		}
		if distance > threshold {
			continue
		}
		results = append(results, Result{Index: doc.Index, Key: doc.Key, Score: 1.0 / float64(1+distance)})
	}
	return rank(results, limit)
}

func normalizeForFuzzy(value string) string {
	tokens := tokenize(value)
	if len(tokens) == 0 {
		return ""
	}
	return strings.Join(tokens, "")
}

func levenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		current := make([]int, len(b)+1)
		current[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			current[j] = min(current[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev = current
	}

	return prev[len(b)]
}
