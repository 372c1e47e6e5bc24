package server

import (
	"regexp"
	"sort"
	"strings"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

// Word tokens are unicode letters/digits/underscore runs.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// stopWords are excluded from the frequency statistics. Matches the viewer's
// historical list.
var stopWords = map[string]struct{}{
	"the": {}, "is": {}, "at": {}, "which": {}, "on": {}, "and": {}, "a": {},
	"an": {}, "to": {}, "in": {}, "it": {}, "for": {}, "of": {}, "with": {},
	"as": {}, "by": {}, "be": {}, "you": {}, "this": {}, "that": {},
	"was": {}, "i": {}, "my": {}, "me": {},
}

// WordFrequency tokenizes message bodies, drops stop words and tokens of two
// characters or fewer, and returns the top limit words by count, most
// frequent first. Ties are broken alphabetically so output is deterministic.
func WordFrequency(contents []string, limit int) []models.WordCount {
	counts := make(map[string]int)
	for _, c := range contents {
		for _, tok := range wordPattern.FindAllString(strings.ToLower(c), -1) {
			if _, stop := stopWords[tok]; stop {
				continue
			}
			if len([]rune(tok)) <= 2 {
				continue
			}
			counts[tok]++
		}
	}

	out := make([]models.WordCount, 0, len(counts))
	for w, n := range counts {
		out = append(out, models.WordCount{Word: w, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
