package analysis

import (
	"github.com/gbcolborne/ner-eval/tags"
)

// TypedCount is a (mention, entity type) pair with its frequency.
type TypedCount struct {
	Text, Type string
	Count      int
}

// Overlap splits the mentions of a test set into those seen and unseen in a training set.
// All lists are sorted by decreasing frequency in the test set.
type Overlap struct {
	// SeenTuples and UnseenTuples compare (mention, type) pairs.
	SeenTuples, UnseenTuples []TypedCount
	// SeenMentions and UnseenMentions compare surface mentions, whatever their type.
	SeenMentions, UnseenMentions []Count
}

// CompareMentions computes the overlap of test mentions with train mentions.
func CompareMentions(train, test []tags.Mention) *Overlap {
	trainTuples := make(map[[2]string]bool)
	trainMentions := make(map[string]bool)
	for _, m := range train {
		trainTuples[[2]string{m.Text(), m.DeclaredType()}] = true
		trainMentions[m.Text()] = true
	}

	tupleFreq := make(map[[2]string]int)
	mentionFreq := make(map[string]int)
	for _, m := range test {
		tupleFreq[[2]string{m.Text(), m.DeclaredType()}]++
		mentionFreq[m.Text()]++
	}

	o := &Overlap{}
	seenTuples := make(map[string]int)
	unseenTuples := make(map[string]int)
	byKey := make(map[string][2]string)
	for tuple, freq := range tupleFreq {
		key := tuple[0] + "\x00" + tuple[1]
		byKey[key] = tuple
		if trainTuples[tuple] {
			seenTuples[key] = freq
		} else {
			unseenTuples[key] = freq
		}
	}
	for _, c := range sortedCounts(seenTuples) {
		o.SeenTuples = append(o.SeenTuples, TypedCount{Text: byKey[c.Key][0], Type: byKey[c.Key][1], Count: c.Count})
	}
	for _, c := range sortedCounts(unseenTuples) {
		o.UnseenTuples = append(o.UnseenTuples, TypedCount{Text: byKey[c.Key][0], Type: byKey[c.Key][1], Count: c.Count})
	}

	seen := make(map[string]int)
	unseen := make(map[string]int)
	for text, freq := range mentionFreq {
		if trainMentions[text] {
			seen[text] = freq
		} else {
			unseen[text] = freq
		}
	}
	o.SeenMentions = sortedCounts(seen)
	o.UnseenMentions = sortedCounts(unseen)
	return o
}

// UnseenMentionRatio returns the fraction of test mention occurrences whose surface form is
// unseen.
func (o *Overlap) UnseenMentionRatio() Ratio {
	return Ratio{Part: sum(o.UnseenMentions), Total: sum(o.UnseenMentions) + sum(o.SeenMentions)}
}

// UnseenUniqueMentionRatio returns the fraction of distinct test surface forms that are
// unseen.
func (o *Overlap) UnseenUniqueMentionRatio() Ratio {
	return Ratio{Part: len(o.UnseenMentions), Total: len(o.UnseenMentions) + len(o.SeenMentions)}
}

// UnseenTupleRatio returns the fraction of test (mention, type) occurrences that are unseen.
func (o *Overlap) UnseenTupleRatio() Ratio {
	unseen := sumTyped(o.UnseenTuples)
	return Ratio{Part: unseen, Total: unseen + sumTyped(o.SeenTuples)}
}

// UnseenUniqueTupleRatio returns the fraction of distinct test (mention, type) pairs that are
// unseen.
func (o *Overlap) UnseenUniqueTupleRatio() Ratio {
	return Ratio{Part: len(o.UnseenTuples), Total: len(o.UnseenTuples) + len(o.SeenTuples)}
}

func sumTyped(counts []TypedCount) int {
	var total int
	for _, c := range counts {
		total += c.Count
	}
	return total
}
