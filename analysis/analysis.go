// Package analysis computes descriptive statistics on the mentions of NER datasets: entity
// type distributions, ambiguous mentions, and the overlap of mentions between a training and
// a test set.
package analysis

import (
	"cmp"
	"maps"
	"slices"

	"github.com/gbcolborne/ner-eval/tags"
)

// Count is a key with its frequency.
type Count struct {
	Key   string
	Count int
}

// Ratio is a part of a total.
type Ratio struct {
	Part, Total int
}

// Value returns Part/Total, or 0 if Total is 0.
func (r Ratio) Value() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Part) / float64(r.Total)
}

// Percent returns the ratio as a percentage.
func (r Ratio) Percent() float64 {
	return 100 * r.Value()
}

// MentionCount is a surface mention with its frequency as one entity type, and its frequency
// overall.
type MentionCount struct {
	Text  string
	Count int
	Total int
}

// AmbiguousMention is a surface mention labeled with more than one entity type.
type AmbiguousMention struct {
	Text  string
	Types []Count
	// Entropy, in bits, of the distribution of its types.
	Entropy float64
}

// Analysis describes the mentions of a dataset.
type Analysis struct {
	NumMentions int
	NumUnique   int

	// TypeCounts is sorted by decreasing frequency, then by type.
	TypeCounts []Count
	// TopMentions maps each entity type to its most frequent mentions, most frequent first.
	TopMentions map[string][]MentionCount
	// NumMentionsPerType maps each entity type to its number of distinct surface mentions.
	NumMentionsPerType map[string]int

	// Ambiguous is sorted by text.
	Ambiguous []AmbiguousMention
	// AmbiguousTokens is the number of mention occurrences whose surface form is ambiguous.
	AmbiguousTokens int
}

// Analyze computes the statistics of mentions, keeping the topN most frequent mentions of
// each type. Each mention counts with its declared type.
func Analyze(mentions []tags.Mention, topN int) *Analysis {
	typeFreq := make(map[string]int)
	mentionFreq := make(map[string]int)
	tupleFreq := make(map[string]map[string]int) // type -> mention -> freq
	mentionTypes := make(map[string]map[string]int)
	for _, m := range mentions {
		text, etype := m.Text(), m.DeclaredType()
		typeFreq[etype]++
		mentionFreq[text]++
		addCount(tupleFreq, etype, text)
		addCount(mentionTypes, text, etype)
	}

	a := &Analysis{
		NumMentions:        len(mentions),
		NumUnique:          len(mentionFreq),
		TypeCounts:         sortedCounts(typeFreq),
		TopMentions:        make(map[string][]MentionCount, len(typeFreq)),
		NumMentionsPerType: make(map[string]int, len(typeFreq)),
	}
	for etype, freqs := range tupleFreq {
		counts := sortedCounts(freqs)
		a.NumMentionsPerType[etype] = len(counts)
		top := make([]MentionCount, 0, min(topN, len(counts)))
		for _, c := range counts[:min(topN, len(counts))] {
			top = append(top, MentionCount{Text: c.Key, Count: c.Count, Total: mentionFreq[c.Key]})
		}
		a.TopMentions[etype] = top
	}
	for _, text := range slices.Sorted(maps.Keys(mentionTypes)) {
		types := mentionTypes[text]
		if len(types) < 2 {
			continue
		}
		counts := sortedCounts(types)
		a.Ambiguous = append(a.Ambiguous, AmbiguousMention{
			Text:    text,
			Types:   counts,
			Entropy: Entropy(countValues(counts), 2),
		})
		a.AmbiguousTokens += mentionFreq[text]
	}
	return a
}

// Types returns the entity types in sorted order.
func (a *Analysis) Types() []string {
	types := make([]string, len(a.TypeCounts))
	for i, c := range a.TypeCounts {
		types[i] = c.Key
	}
	slices.Sort(types)
	return types
}

// AmbiguousRatio is the fraction of mention occurrences that are ambiguous.
func (a *Analysis) AmbiguousRatio() Ratio {
	return Ratio{Part: a.AmbiguousTokens, Total: a.NumMentions}
}

// AmbiguousUniqueRatio is the fraction of distinct surface mentions that are ambiguous.
func (a *Analysis) AmbiguousUniqueRatio() Ratio {
	return Ratio{Part: len(a.Ambiguous), Total: a.NumUnique}
}

func addCount(m map[string]map[string]int, outer, inner string) {
	counts, found := m[outer]
	if !found {
		counts = make(map[string]int)
		m[outer] = counts
	}
	counts[inner]++
}

// sortedCounts returns the entries of freq by decreasing count, then increasing key.
func sortedCounts(freq map[string]int) []Count {
	counts := make([]Count, 0, len(freq))
	for key, count := range freq {
		counts = append(counts, Count{Key: key, Count: count})
	}
	slices.SortFunc(counts, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return counts
}

func countValues(counts []Count) []int {
	values := make([]int, len(counts))
	for i, c := range counts {
		values[i] = c.Count
	}
	return values
}

func sum(counts []Count) int {
	var total int
	for _, c := range counts {
		total += c.Count
	}
	return total
}
