package search

// Strategy names the path that produced a search result.
type Strategy string

const (
	// StrategyAll means the query was blank and the corpus came back as is.
	StrategyAll Strategy = "all"

	// StrategyScored means the relevance scorer found at least one record.
	StrategyScored Strategy = "scored"

	// StrategyFuzzy means the scorer found nothing and the substring
	// fallback ran. Its result may be empty.
	StrategyFuzzy Strategy = "fuzzy"
)

// SearchWithStrategy runs the scorer and falls back to FuzzyMatch when the
// scorer returns nothing. It also reports which path produced the result.
func (rk Ranker) SearchWithStrategy(query string, corpus []Record) ([]Record, Strategy) {
	if _, ok := foldQuery(query); !ok {
		return rk.ScoreSearch(query, corpus), StrategyAll
	}

	if scored := rk.ScoreSearch(query, corpus); len(scored) > 0 {
		return scored, StrategyScored
	}

	return FuzzyMatch(query, corpus), StrategyFuzzy
}

// Search returns the ranked records for query, falling back to FuzzyMatch
// when the scorer finds nothing.
func (rk Ranker) Search(query string, corpus []Record) []Record {
	results, _ := rk.SearchWithStrategy(query, corpus)
	return results
}

// Search ranks corpus against query with the default segmenter.
func Search(query string, corpus []Record) []Record {
	return Ranker{}.Search(query, corpus)
}

// SearchWithStrategy is Search that also reports the strategy used.
func SearchWithStrategy(query string, corpus []Record) ([]Record, Strategy) {
	return Ranker{}.SearchWithStrategy(query, corpus)
}
