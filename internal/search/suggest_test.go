package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	corpus := sampleCorpus()

	t.Run("blank partial returns nothing", func(t *testing.T) {
		assert.Empty(t, Suggest("", corpus))
		assert.Empty(t, Suggest("  ", corpus))
	})

	t.Run("title then tags then keywords, original case", func(t *testing.T) {
		got := Suggest("CARBON", corpus)
		assert.Equal(t, []string{
			"carbon neutrality",
			"Carbon Accounting Basics",
			"carbon",
			"Policy news: carbon market expands",
		}, got)
	})

	t.Run("cjk partial", func(t *testing.T) {
		assert.Equal(t, []string{"碳中和预测实验", "碳中和"}, Suggest("碳中", corpus))
	})

	t.Run("trailing space is matched literally", func(t *testing.T) {
		assert.Equal(t, []string{
			"carbon neutrality",
			"Carbon Accounting Basics",
			"Policy news: carbon market expands",
		}, Suggest("carbon ", corpus))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, Suggest("zzz", corpus))
	})
}

func TestSuggest_DedupesKeepingFirst(t *testing.T) {
	corpus := []Record{
		{ID: 1, Title: "Solar", Category: CategoryArticle, Tags: []string{"solar", "Solar"}},
		{ID: 2, Title: "solar", Category: CategoryArticle, Keywords: []string{"Solar"}},
	}

	assert.Equal(t, []string{"Solar", "solar"}, Suggest("sol", corpus))
}

func TestSuggest_CapsAtFive(t *testing.T) {
	corpus := []Record{
		{ID: 1, Title: "data one", Category: CategoryDataset, Tags: []string{"data two", "data three"}},
		{ID: 2, Title: "data four", Category: CategoryDataset, Keywords: []string{"data five", "data six"}},
		{ID: 3, Title: "data seven", Category: CategoryDataset},
	}

	got := Suggest("data", corpus)
	assert.Equal(t, []string{"data one", "data two", "data three", "data four", "data five"}, got)
}

func TestSuggest_Properties(t *testing.T) {
	corpus := sampleCorpus()
	for _, q := range []string{"a", "c", "数据", "排", "E", "o"} {
		got := Suggest(q, corpus)
		assert.LessOrEqual(t, len(got), MaxSuggestions)

		seen := map[string]bool{}
		for _, s := range got {
			assert.False(t, seen[s], "duplicate suggestion %q for %q", s, q)
			seen[s] = true
			assert.Contains(t, strings.ToLower(s), strings.ToLower(q))
		}
	}
}
