/*
Package benchmark measures catalog search quality and speed.

Relevance runs labelled cases against a corpus and reports:
  - hit@1: the first result is one of the expected records
  - MRR: mean reciprocal rank of the first expected record
  - recall: share of expected records present anywhere in the results
  - fallback rate: share of queries answered by the substring fallback

A case with no expected ids asserts that the query returns nothing.

Cases are YAML:

	cases:
	  - query: 碳中和
	    expect: [1]
	  - query: xyz-notfound
	    expect: []
*/
package benchmark

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/khanglvm/catalog-search/internal/search"
)

// Case is one labelled query.
type Case struct {
	Query  string `yaml:"query" json:"query"`
	Expect []int  `yaml:"expect" json:"expect"`
}

type casesFile struct {
	Cases []Case `yaml:"cases"`
}

// CaseResult is the outcome of one case.
type CaseResult struct {
	Query    string          `json:"query"`
	Strategy search.Strategy `json:"strategy"`
	Expect   []int           `json:"expect"`
	Got      []int           `json:"got"`
	// Rank is the 1-based position of the first expected record, 0 if absent.
	Rank   int     `json:"rank"`
	Hit    bool    `json:"hit"`
	Recall float64 `json:"recall"`
}

// RelevanceResult aggregates a relevance run.
type RelevanceResult struct {
	Cases        int          `json:"cases"`
	HitAt1       float64      `json:"hitAt1"`
	MRR          float64      `json:"mrr"`
	Recall       float64      `json:"recall"`
	FallbackRate float64      `json:"fallbackRate"`
	Details      []CaseResult `json:"details"`
}

// LoadCases reads benchmark cases from a YAML file.
func LoadCases(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cases: %w", err)
	}

	var file casesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse cases %s: %w", path, err)
	}
	if len(file.Cases) == 0 {
		return nil, fmt.Errorf("no cases in %s", path)
	}
	return file.Cases, nil
}

// SelfCases builds one case per record that queries the record's title and
// expects the record back. Useful when no labelled cases exist.
func SelfCases(corpus []search.Record) []Case {
	cases := make([]Case, 0, len(corpus))
	for _, r := range corpus {
		cases = append(cases, Case{Query: r.Title, Expect: []int{r.ID}})
	}
	return cases
}

// RunRelevance evaluates every case against corpus.
func RunRelevance(corpus []search.Record, cases []Case) *RelevanceResult {
	result := &RelevanceResult{
		Cases:   len(cases),
		Details: make([]CaseResult, 0, len(cases)),
	}
	if len(cases) == 0 {
		return result
	}

	var hits, rr, recall, fallbacks float64
	for _, c := range cases {
		records, strategy := search.SearchWithStrategy(c.Query, corpus)
		cr := evaluate(c, records, strategy)

		if cr.Hit {
			hits++
		}
		if cr.Rank > 0 {
			rr += 1 / float64(cr.Rank)
		}
		recall += cr.Recall
		if strategy == search.StrategyFuzzy {
			fallbacks++
		}
		result.Details = append(result.Details, cr)
	}

	n := float64(len(cases))
	result.HitAt1 = hits / n
	result.MRR = rr / n
	result.Recall = recall / n
	result.FallbackRate = fallbacks / n
	return result
}

func evaluate(c Case, records []search.Record, strategy search.Strategy) CaseResult {
	got := make([]int, len(records))
	for i, r := range records {
		got[i] = r.ID
	}

	cr := CaseResult{
		Query:    c.Query,
		Strategy: strategy,
		Expect:   c.Expect,
		Got:      got,
	}

	// Negative case: success means nothing came back.
	if len(c.Expect) == 0 {
		if len(got) == 0 {
			cr.Rank, cr.Hit, cr.Recall = 1, true, 1
		}
		return cr
	}

	for i, id := range got {
		if slices.Contains(c.Expect, id) {
			cr.Rank = i + 1
			break
		}
	}
	cr.Hit = cr.Rank == 1

	found := 0
	for _, id := range c.Expect {
		if slices.Contains(got, id) {
			found++
		}
	}
	cr.Recall = float64(found) / float64(len(c.Expect))
	return cr
}
