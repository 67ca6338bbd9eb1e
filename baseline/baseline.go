// Package baseline implements a dictionary lookup NER baseline: every surface mention seen in
// training is tagged with its most frequent entity type wherever it occurs in the test data.
package baseline

import (
	"slices"
	"strings"

	"github.com/gbcolborne/ner-eval/tags"
)

// Dictionary maps surface mentions to an entity type.
type Dictionary struct {
	types  map[string]string
	maxLen int

	// Discarded is the number of ambiguous mentions left out by Train.
	Discarded int
}

// Train builds a dictionary from training mentions, mapping each surface form to its most
// frequent declared type. On ties, the type first seen last wins. With excludeAmbiguous,
// surface forms seen with more than one type are left out.
func Train(mentions []tags.Mention, excludeAmbiguous bool) *Dictionary {
	type typeFreq struct {
		etype string
		count int
	}
	freqs := make(map[string][]typeFreq)
	for _, m := range mentions {
		text, etype := m.Text(), m.DeclaredType()
		list := freqs[text]
		idx := slices.IndexFunc(list, func(tf typeFreq) bool { return tf.etype == etype })
		if idx < 0 {
			list = append(list, typeFreq{etype: etype})
			idx = len(list) - 1
		}
		list[idx].count++
		freqs[text] = list
	}

	d := &Dictionary{types: make(map[string]string, len(freqs))}
	for text, list := range freqs {
		if excludeAmbiguous && len(list) > 1 {
			d.Discarded++
			continue
		}
		var best typeFreq
		for _, tf := range list {
			if tf.count >= best.count {
				best = tf
			}
		}
		d.types[text] = best.etype
		d.maxLen = max(d.maxLen, len(strings.Fields(text)))
	}
	return d
}

// Len returns the number of surface mentions in the dictionary.
func (d *Dictionary) Len() int { return len(d.types) }

// MaxLen returns the number of tokens of the longest mention in the dictionary.
func (d *Dictionary) MaxLen() int { return d.maxLen }

// Lookup returns the entity type of a surface mention, given as tokens joined by spaces.
func (d *Dictionary) Lookup(text string) (string, bool) {
	etype, found := d.types[text]
	return etype, found
}

// Predict returns BIO-2 labels for the tokens of one sentence. Every token n-gram found in
// the dictionary is a candidate mention; candidates are kept longest first, then left to
// right, skipping those that overlap a mention already kept.
func (d *Dictionary) Predict(tokens []string) []string {
	type candidate struct {
		start, size int
		etype       string
	}
	var candidates []candidate
	for size := d.maxLen; size >= 1; size-- {
		for start := 0; start+size <= len(tokens); start++ {
			if etype, found := d.types[strings.Join(tokens[start:start+size], " ")]; found {
				candidates = append(candidates, candidate{start, size, etype})
			}
		}
	}

	labels := make([]string, len(tokens))
	for i := range labels {
		labels[i] = tags.Outside
	}
	taken := make([]bool, len(tokens))
	for _, c := range candidates {
		if slices.Contains(taken[c.start:c.start+c.size], true) {
			continue
		}
		labels[c.start] = tags.Make(tags.PrefixB, c.etype)
		taken[c.start] = true
		for i := c.start + 1; i < c.start+c.size; i++ {
			labels[i] = tags.Make(tags.PrefixI, c.etype)
			taken[i] = true
		}
	}
	return labels
}
