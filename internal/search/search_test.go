package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCorpus() []Record {
	return []Record{
		{
			ID:          1,
			Title:       "碳中和预测实验",
			Description: "基于历史排放数据预测碳中和时间点",
			Category:    CategoryExperiment,
			TargetURL:   "/experiments/1",
			Tags:        []string{"碳中和", "预测"},
			Keywords:    []string{"carbon neutrality"},
		},
		{
			ID:          2,
			Title:       "Carbon Accounting Basics",
			Description: "An introductory course on greenhouse gas inventories.",
			Category:    CategoryCourse,
			TargetURL:   "/courses/2",
			Tags:        []string{"carbon", "accounting"},
		},
		{
			ID:          3,
			Title:       "全球排放数据集",
			Description: "Global emission dataset, 1990-2024",
			Category:    CategoryDataset,
			TargetURL:   "/datasets/3",
			Tags:        []string{"排放", "data"},
			Keywords:    []string{"emission", "CO2"},
		},
		{
			ID:          4,
			Title:       "Policy news: carbon market expands",
			Description: "",
			Category:    CategoryNews,
			TargetURL:   "/news/4",
			Tags:        []string{"policy", "carbon"},
		},
		{
			ID:          5,
			Title:       "Reading list",
			Description: "Articles about energy-transition pathways",
			Category:    CategoryArticle,
			TargetURL:   "/articles/5",
			Tags:        []string{"energy"},
		},
	}
}

func ids(records []Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestSearch_SingleCJKRecordScoresAllRules(t *testing.T) {
	corpus := []Record{{
		ID:       1,
		Title:    "碳中和预测实验",
		Category: CategoryExperiment,
		Tags:     []string{"碳中和", "预测"},
	}}

	assert.Equal(t, []string{"碳中和"}, Segment("碳中和"))
	assert.Equal(t, TitleWeight+TokenWeight+TagWeight, Score("碳中和", corpus[0]))
	assert.Equal(t, 150, Score("碳中和", corpus[0]))

	ranked := Rank("碳中和", corpus)
	require.Len(t, ranked, 1)
	assert.Equal(t, 150, ranked[0].Score)

	assert.Equal(t, []int{1}, ids(Search("碳中和", corpus)))
}

func TestSearch_NoMatchFallsBackToEmpty(t *testing.T) {
	corpus := sampleCorpus()
	q := "xyz-notfound-marker"

	assert.Empty(t, ScoreSearch(q, corpus))
	assert.Empty(t, FuzzyMatch(q, corpus))

	results, strategy := SearchWithStrategy(q, corpus)
	assert.Empty(t, results)
	assert.Equal(t, StrategyFuzzy, strategy)
}

func TestSearch_WhitespaceQueryReturnsCorpus(t *testing.T) {
	corpus := sampleCorpus()

	results, strategy := SearchWithStrategy("   ", corpus)
	assert.Equal(t, corpus, results)
	assert.Equal(t, StrategyAll, strategy)
}

func TestBlankQueryIdentity(t *testing.T) {
	corpus := sampleCorpus()

	for _, q := range []string{"", " ", "\t\n"} {
		assert.Equal(t, corpus, Search(q, corpus))
		assert.Equal(t, corpus, ScoreSearch(q, corpus))
		assert.Equal(t, corpus, FuzzyMatch(q, corpus))
		assert.Empty(t, Suggest(q, corpus))
	}
}

func TestBlankQueryDoesNotAliasCorpus(t *testing.T) {
	corpus := sampleCorpus()
	results := Search("", corpus)
	require.NotEmpty(t, results)

	results[0].Title = "changed"
	assert.Equal(t, "碳中和预测实验", corpus[0].Title)
}

func TestEmptyCorpus(t *testing.T) {
	assert.Empty(t, Search("carbon", nil))
	assert.Empty(t, ScoreSearch("carbon", []Record{}))
	assert.Empty(t, FuzzyMatch("carbon", nil))
	assert.Empty(t, Suggest("carbon", nil))
	assert.Empty(t, Search("", nil))
}

func TestScoreRules(t *testing.T) {
	t.Run("title contains whole query", func(t *testing.T) {
		r := Record{ID: 1, Title: "Carbon Market", Category: CategoryNews}
		// +100 title, +20 "carbon", +20 "market"
		assert.Equal(t, 140, Score("carbon market", r))
	})

	t.Run("tokens found in description", func(t *testing.T) {
		r := Record{ID: 1, Title: "Untitled", Description: "carbon and market data", Category: CategoryNews}
		assert.Equal(t, 2*TokenWeight, Score("market carbon", r))
	})

	t.Run("repeated token counts per occurrence", func(t *testing.T) {
		r := Record{ID: 1, Title: "x", Description: "data", Category: CategoryDataset}
		assert.Equal(t, 3*TokenWeight, Score("data, data; data", r))
	})

	t.Run("tag embedded in query", func(t *testing.T) {
		r := Record{ID: 1, Title: "x", Category: CategoryCourse, Tags: []string{"policy"}}
		// token "policy" is found via the joined tags as well
		assert.Equal(t, TokenWeight+TagWeight, Score("policy", r))
	})

	t.Run("tag longer than query does not match", func(t *testing.T) {
		r := Record{ID: 1, Title: "x", Category: CategoryCourse, Tags: []string{"policy analysis"}}
		// the token still hits the index text, the reversed tag test does not
		assert.Equal(t, TokenWeight, Score("policy", r))
	})

	t.Run("keyword embedded in query", func(t *testing.T) {
		r := Record{ID: 1, Title: "x", Category: CategoryDataset, Keywords: []string{"CO2"}}
		// "co" is a token found in "co2"; keyword "co2" is inside the query
		assert.Equal(t, TokenWeight+KeywordWeight, Score("co2 levels", r))
	})

	t.Run("empty tags and keywords never score", func(t *testing.T) {
		r := Record{ID: 1, Title: "x", Category: CategoryDataset, Tags: []string{""}, Keywords: []string{""}}
		assert.Equal(t, 0, Score("anything", r))
	})

	t.Run("case insensitive", func(t *testing.T) {
		r := Record{ID: 1, Title: "CARBON", Category: CategoryNews, Tags: []string{"Carbon"}}
		assert.Equal(t, TitleWeight+TokenWeight+TagWeight, Score("carbon", r))
	})

	t.Run("blank query scores zero", func(t *testing.T) {
		r := Record{ID: 1, Title: "carbon", Category: CategoryNews}
		assert.Equal(t, 0, Score("  ", r))
	})
}

func TestScoreSearch_OrdersByScore(t *testing.T) {
	corpus := sampleCorpus()

	ranked := Rank("carbon", corpus)
	require.NotEmpty(t, ranked)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
	for _, sr := range ranked {
		assert.Positive(t, sr.Score)
	}

	// 2 and 4 both have "carbon" in title and as a tag: 100+20+30 each.
	// 1 only hits through the "carbon neutrality" keyword text.
	assert.Equal(t, []int{2, 4, 1}, ids(ScoreSearch("carbon", corpus)))
}

func TestScoreSearch_TrailingSpaceKeepsTitleRuleStrict(t *testing.T) {
	corpus := []Record{
		{ID: 1, Title: "low carbon", Category: CategoryNews},
		{ID: 2, Title: "carbon capture", Category: CategoryNews},
	}

	// "carbon " is only inside "carbon capture"; both still hit the token.
	assert.Equal(t, TokenWeight, Score("carbon ", corpus[0]))
	assert.Equal(t, TitleWeight+TokenWeight, Score("carbon ", corpus[1]))
	assert.Equal(t, []int{2, 1}, ids(ScoreSearch("carbon ", corpus)))

	// Without the space both titles match and corpus order decides.
	assert.Equal(t, []int{1, 2}, ids(ScoreSearch("carbon", corpus)))
}

func TestScoreSearch_StableTies(t *testing.T) {
	corpus := []Record{
		{ID: 10, Title: "a", Description: "solar", Category: CategoryArticle},
		{ID: 11, Title: "b", Description: "solar", Category: CategoryArticle},
		{ID: 12, Title: "solar", Category: CategoryArticle},
		{ID: 13, Title: "c", Description: "solar", Category: CategoryArticle},
	}

	assert.Equal(t, []int{12, 10, 11, 13}, ids(ScoreSearch("solar", corpus)))
}

func TestTitleMatchMonotonicity(t *testing.T) {
	base := Record{ID: 1, Title: "Annual report", Description: "emission trends", Category: CategoryArticle}
	withTitle := base
	withTitle.Title = "Annual report on emission trends"

	q := "emission trends"
	assert.GreaterOrEqual(t, Score(q, withTitle)-Score(q, base), TitleWeight)
}

func TestFuzzyMatch(t *testing.T) {
	corpus := sampleCorpus()

	t.Run("description substring", func(t *testing.T) {
		assert.Equal(t, []int{2}, ids(FuzzyMatch("GREENHOUSE", corpus)))
	})

	t.Run("keyword substring", func(t *testing.T) {
		assert.Equal(t, []int{3}, ids(FuzzyMatch("co2", corpus)))
	})

	t.Run("literal punctuation kept", func(t *testing.T) {
		assert.Equal(t, []int{3}, ids(FuzzyMatch("1990-2024", corpus)))
	})

	t.Run("preserves corpus order", func(t *testing.T) {
		assert.Equal(t, []int{1, 2, 4}, ids(FuzzyMatch("carbon", corpus)))
	})

	t.Run("surrounding whitespace is part of the query", func(t *testing.T) {
		assert.Empty(t, FuzzyMatch("carbon ", []Record{{ID: 1, Title: "low carbon", Category: CategoryNews}}))
		assert.Equal(t, []int{5}, ids(FuzzyMatch("energy-transition ", corpus)))
		// "pathways" ends the description, so the trailing space misses.
		assert.Empty(t, FuzzyMatch("pathways ", corpus))
		assert.Equal(t, []int{5}, ids(FuzzyMatch("pathways", corpus)))
	})
}

func TestSearch_FallsBackToFuzzy(t *testing.T) {
	corpus := sampleCorpus()

	// Only digits and punctuation: no tokens, no title/tag/keyword hit,
	// but the literal string is in a description.
	q := "1990-2024"
	require.Empty(t, ScoreSearch(q, corpus))

	results, strategy := SearchWithStrategy(q, corpus)
	assert.Equal(t, StrategyFuzzy, strategy)
	assert.Equal(t, []int{3}, ids(results))
}

func TestSearch_CompositionLaw(t *testing.T) {
	corpus := sampleCorpus()
	queries := []string{"carbon", "碳中和", "1990-2024", "nothing here", "", "数据 data", "Policy", "energy-transition"}

	for _, q := range queries {
		scored := ScoreSearch(q, corpus)
		got := Search(q, corpus)
		if len(scored) > 0 {
			assert.Equal(t, scored, got, "query %q", q)
		} else {
			assert.Equal(t, FuzzyMatch(q, corpus), got, "query %q", q)
		}
		assert.LessOrEqual(t, len(got), len(corpus))
	}
}

func TestSearch_Deterministic(t *testing.T) {
	corpus := sampleCorpus()
	for _, q := range []string{"carbon", "碳", "data"} {
		assert.Equal(t, Search(q, corpus), Search(q, corpus))
	}
}

func TestSearch_DoesNotMutateCorpus(t *testing.T) {
	corpus := sampleCorpus()
	snapshot := sampleCorpus()

	Search("carbon 碳中和 data", corpus)
	Suggest("carbon", corpus)

	assert.Equal(t, snapshot, corpus)
}

func TestRanker_CustomSegmenter(t *testing.T) {
	corpus := []Record{{ID: 1, Title: "x", Description: "中和", Category: CategoryArticle}}

	// The default segmenter keeps "碳中和" whole, so it does not hit "中和".
	assert.Empty(t, ScoreSearch("碳中和", corpus))

	bigrams := segmenterFunc(func(text string) []string {
		runes := []rune(strings.TrimSpace(text))
		var out []string
		for i := 0; i+1 < len(runes); i++ {
			out = append(out, string(runes[i:i+2]))
		}
		return out
	})

	rk := Ranker{Segmenter: bigrams}
	assert.Equal(t, TokenWeight, rk.Score("碳中和", corpus[0]))
	assert.Equal(t, []int{1}, ids(rk.Search("碳中和", corpus)))
}

type segmenterFunc func(string) []string

func (f segmenterFunc) Segment(text string) []string { return f(text) }
