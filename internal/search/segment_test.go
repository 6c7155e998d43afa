package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: []string{}},
		{name: "whitespace only", text: "   \t\n", want: []string{}},
		{name: "single cjk run", text: "碳中和", want: []string{"碳中和"}},
		{name: "digits and spaces dropped", text: "2025 carbon data", want: []string{"carbon", "data"}},
		{name: "cjk then latin then digits", text: "碳data2025", want: []string{"碳", "data"}},
		{name: "latin lower-cased", text: "Carbon NEUTRAL", want: []string{"carbon", "neutral"}},
		{name: "mixed scripts", text: "AI碳排放Model", want: []string{"ai", "碳排放", "model"}},
		{name: "punctuation splits runs", text: "碳中和，预测-model!", want: []string{"碳中和", "预测", "model"}},
		{name: "duplicates kept", text: "data 数据 data", want: []string{"data", "数据", "data"}},
		{name: "long cjk run not split", text: "全球碳中和路径预测实验", want: []string{"全球碳中和路径预测实验"}},
		{name: "only symbols", text: "123 -- !!", want: []string{}},
		{name: "non-ascii latin is a delimiter", text: "café", want: []string{"caf"}},
		{name: "kana is a delimiter", text: "データdata", want: []string{"data"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segment(tt.text))
		})
	}
}

func TestSegment_NoEmptyTokens(t *testing.T) {
	inputs := []string{"", " a ", "碳 碳", "...x...", " 漢字　abc"}
	for _, in := range inputs {
		for _, tok := range Segment(in) {
			assert.NotEmpty(t, tok, "input %q produced an empty token", in)
		}
	}
}

func TestSegment_InvalidUTF8(t *testing.T) {
	assert.NotPanics(t, func() {
		got := Segment("ab\xffcd")
		assert.Equal(t, []string{"ab", "cd"}, got)
	})
}

func TestScriptSegmenter(t *testing.T) {
	var seg Segmenter = ScriptSegmenter{}
	assert.Equal(t, Segment("碳data2025"), seg.Segment("碳data2025"))
}
