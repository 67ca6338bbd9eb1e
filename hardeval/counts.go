package hardeval

import (
	"maps"
	"slices"
)

// WordLabelCount maps a word to the number of times it was seen with each label.
type WordLabelCount map[string]map[string]int

// NewWordLabelCount counts the labels of each word. tokens and labels are aligned; extra
// elements of the longer slice are ignored.
func NewWordLabelCount(tokens, labels []string) WordLabelCount {
	counts := make(WordLabelCount)
	for i := range min(len(tokens), len(labels)) {
		counts.Add(tokens[i], labels[i])
	}
	return counts
}

// Add increments the count of label for word, creating entries as needed.
func (c WordLabelCount) Add(word, label string) {
	labelCounts, found := c[word]
	if !found {
		labelCounts = make(map[string]int)
		c[word] = labelCounts
	}
	labelCounts[label]++
}

// Count returns how many times word was seen with label.
func (c WordLabelCount) Count(word, label string) int {
	return c[word][label]
}

// Seen reports whether word was seen at all.
func (c WordLabelCount) Seen(word string) bool {
	_, found := c[word]
	return found
}

// Max returns the count of the most frequent label of word, or 0 for unseen words.
func (c WordLabelCount) Max(word string) int {
	var best int
	for _, count := range c[word] {
		best = max(best, count)
	}
	return best
}

// Words returns the words in sorted order.
func (c WordLabelCount) Words() []string {
	return slices.Sorted(maps.Keys(c))
}

// Labels returns every label seen with any word, in sorted order.
func (c WordLabelCount) Labels() []string {
	set := make(map[string]bool)
	for _, labelCounts := range c {
		for label := range labelCounts {
			set[label] = true
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// DiffIndices returns the indices i of the test tokens whose label was never seen with that
// word (strict), or was not the most frequent label of that word (lax). A label tied for the
// highest count is not different. Words absent from counts are never selected.
func DiffIndices(counts WordLabelCount, tokens, labels []string, strict bool) []int {
	var keep []int
	for i := range min(len(tokens), len(labels)) {
		word, label := tokens[i], labels[i]
		if !counts.Seen(word) {
			continue
		}
		count := counts.Count(word, label)
		if count == 0 || (!strict && count < counts.Max(word)) {
			keep = append(keep, i)
		}
	}
	return keep
}
