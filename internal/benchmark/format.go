package benchmark

import (
	"fmt"
	"strings"
	"time"
)

const boxWidth = 62

func boxLine(sb *strings.Builder, format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	pad := boxWidth - len([]rune(text))
	if pad < 0 {
		pad = 0
	}
	sb.WriteString("║" + text + strings.Repeat(" ", pad) + "║\n")
}

func boxRule(sb *strings.Builder, left, right string) {
	sb.WriteString(left + strings.Repeat("═", boxWidth) + right + "\n")
}

// FormatResult formats a relevance run for display.
func FormatResult(result *RelevanceResult) string {
	var sb strings.Builder

	boxRule(&sb, "╔", "╗")
	boxLine(&sb, "           SEARCH RELEVANCE BENCHMARK RESULTS")
	boxRule(&sb, "╠", "╣")
	boxLine(&sb, "")
	boxLine(&sb, "  Cases:          %d", result.Cases)
	boxLine(&sb, "  Hit@1:          %.1f%%", result.HitAt1*100)
	boxLine(&sb, "  MRR:            %.3f", result.MRR)
	boxLine(&sb, "  Recall:         %.1f%%", result.Recall*100)
	boxLine(&sb, "  Fallback rate:  %.1f%%", result.FallbackRate*100)
	boxLine(&sb, "")
	boxRule(&sb, "╚", "╝")

	var misses []CaseResult
	for _, d := range result.Details {
		if !d.Hit {
			misses = append(misses, d)
		}
	}
	if len(misses) > 0 {
		fmt.Fprintf(&sb, "\nMissed cases (%d):\n", len(misses))
		for _, m := range misses {
			fmt.Fprintf(&sb, "  • %q expected %v, got %v (%s)\n", m.Query, m.Expect, head(m.Got, 5), m.Strategy)
		}
	}

	return sb.String()
}

// FormatSpeed formats a speed run for display.
func FormatSpeed(result *SpeedResult) string {
	var sb strings.Builder

	boxRule(&sb, "╔", "╗")
	boxLine(&sb, "              SPEED BENCHMARK (Search latency)")
	boxRule(&sb, "╠", "╣")
	boxLine(&sb, "")
	boxLine(&sb, "  Queries: %d × %d iterations on %d workers", result.Queries, result.Iterations, result.Workers)
	boxLine(&sb, "  Searches:    %d", result.Searches)
	boxLine(&sb, "  Mean:        %v", result.Mean.Round(time.Microsecond/10))
	boxLine(&sb, "  p50:         %v", result.P50.Round(time.Microsecond/10))
	boxLine(&sb, "  p95:         %v", result.P95.Round(time.Microsecond/10))
	boxLine(&sb, "  Max:         %v", result.Max.Round(time.Microsecond/10))
	boxLine(&sb, "  Throughput:  %.0f searches/s", result.Throughput)
	boxLine(&sb, "")
	boxRule(&sb, "╚", "╝")

	return sb.String()
}

func head(ids []int, n int) []int {
	if len(ids) > n {
		return ids[:n]
	}
	return ids
}
