package analysis

import (
	"math"
	"slices"

	"github.com/gbcolborne/ner-eval/columns"
	"github.com/gbcolborne/ner-eval/tags"
	"gonum.org/v1/gonum/stat"
)

// Stats are the headline numbers of a dataset.
type Stats struct {
	Sentences   int
	Mentions    int
	EntityTypes int
}

// ComputeStats counts the sentences of f (document separators excluded), and the mentions
// and entity types of mentions.
func ComputeStats(f *columns.File, mentions []tags.Mention) Stats {
	types := make(map[string]bool)
	for _, m := range mentions {
		types[m.DeclaredType()] = true
	}
	return Stats{
		Sentences:   f.CountSentences(true),
		Mentions:    len(mentions),
		EntityTypes: len(types),
	}
}

// Labels returns the distinct values of column col, sorted.
func Labels(f *columns.File, col int) ([]string, error) {
	values, err := f.Column(col)
	if err != nil {
		return nil, err
	}
	slices.Sort(values)
	return slices.Compact(values), nil
}

// EntityTypes returns the distinct entity types of the labels in column col, sorted.
func EntityTypes(f *columns.File, col int) ([]string, error) {
	values, err := f.Column(col)
	if err != nil {
		return nil, err
	}
	return tags.UniqueTypes(values), nil
}

// Entropy returns the entropy, in the given logarithm base, of the distribution given by
// counts. It is 0 when fewer than two counts are non-zero.
func Entropy(counts []int, base float64) float64 {
	var total, nonZero int
	for _, c := range counts {
		total += c
		if c > 0 {
			nonZero++
		}
	}
	if nonZero < 2 {
		return 0
	}
	p := make([]float64, len(counts))
	for i, c := range counts {
		p[i] = float64(c) / float64(total)
	}
	return stat.Entropy(p) / math.Log(base)
}
