package search

import (
	"sort"
	"strings"
)

const (
	// TitleWeight is added when the title contains the whole query.
	TitleWeight = 100

	// TokenWeight is added for each query token found in the record text.
	TokenWeight = 20

	// TagWeight is added for each tag the query contains.
	TagWeight = 30

	// KeywordWeight is added for each keyword the query contains.
	KeywordWeight = 25
)

// Ranker scores and orders records. The zero value segments queries with
// ScriptSegmenter.
type Ranker struct {
	Segmenter Segmenter
}

func (rk Ranker) segment(text string) []string {
	if rk.Segmenter == nil {
		return Segment(text)
	}
	return rk.Segmenter.Segment(text)
}

// Rank scores every record against query, drops zero scores and returns the
// rest by descending score. Equal scores keep corpus order.
//
// A blank query returns every record, unscored, in corpus order.
func (rk Ranker) Rank(query string, corpus []Record) []ScoredRecord {
	q, ok := foldQuery(query)
	if !ok {
		all := make([]ScoredRecord, len(corpus))
		for i, r := range corpus {
			all[i] = ScoredRecord{Record: r}
		}
		return all
	}

	tokens := rk.segment(query)

	ranked := make([]ScoredRecord, 0)
	for _, r := range corpus {
		if score := scoreRecord(q, tokens, r); score > 0 {
			ranked = append(ranked, ScoredRecord{Record: r, Score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// ScoreSearch returns the records Rank keeps, without their scores.
func (rk Ranker) ScoreSearch(query string, corpus []Record) []Record {
	ranked := rk.Rank(query, corpus)
	records := make([]Record, len(ranked))
	for i, sr := range ranked {
		records[i] = sr.Record
	}
	return records
}

// Score computes the relevance score of a single record. A blank query
// scores 0.
func (rk Ranker) Score(query string, r Record) int {
	q, ok := foldQuery(query)
	if !ok {
		return 0
	}
	return scoreRecord(q, rk.segment(query), r)
}

// scoreRecord applies the four scoring rules. q is the folded, untrimmed query.
func scoreRecord(q string, tokens []string, r Record) int {
	score := 0

	if strings.Contains(fold(r.Title), q) {
		score += TitleWeight
	}

	text := indexText(r)
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			score += TokenWeight
		}
	}

	// Tags and keywords match when the query embeds them, not the reverse.
	for _, tag := range r.Tags {
		if tag != "" && strings.Contains(q, fold(tag)) {
			score += TagWeight
		}
	}
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(q, fold(kw)) {
			score += KeywordWeight
		}
	}

	return score
}

// indexText concatenates the searchable fields of r into one folded string.
func indexText(r Record) string {
	parts := []string{
		r.Title,
		r.Description,
		strings.Join(r.Tags, " "),
		strings.Join(r.Keywords, " "),
	}
	return fold(strings.Join(parts, " "))
}

// Rank ranks corpus against query with the default segmenter.
func Rank(query string, corpus []Record) []ScoredRecord {
	return Ranker{}.Rank(query, corpus)
}

// ScoreSearch ranks corpus against query with the default segmenter and
// drops the scores.
func ScoreSearch(query string, corpus []Record) []Record {
	return Ranker{}.ScoreSearch(query, corpus)
}

// Score scores a single record with the default segmenter.
func Score(query string, r Record) int {
	return Ranker{}.Score(query, r)
}
