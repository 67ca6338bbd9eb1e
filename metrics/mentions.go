package metrics

import (
	"slices"

	"github.com/gbcolborne/ner-eval/tags"
	"github.com/pkg/errors"
)

// ErrCountMismatch is returned when the classified mentions do not add up to the number of
// gold or predicted mentions.
var ErrCountMismatch = errors.New("mention counts do not add up")

// Pair links a gold mention to a predicted mention, by index in Classification.Gold and
// Classification.Pred.
type Pair struct {
	Gold, Pred int
}

// Classification is the mention-level comparison of predicted mentions against gold mentions.
//
// Gold holds all gold mentions; Pred holds the valid predicted mentions, Invalid the
// predicted mentions whose first label has an invalid prefix. Every other field indexes
// into Gold and/or Pred.
type Classification struct {
	Encoding tags.Encoding

	Gold    []tags.Mention
	Pred    []tags.Mention
	Invalid []tags.Mention

	// TruePositives have identical span and type.
	TruePositives []Pair
	// Misclassifications have identical span but different (or inconsistent) type.
	Misclassifications []Pair
	// PartialMatches overlap without identical span. A gold mention overlapping several
	// predicted mentions gets one pair per predicted mention.
	PartialMatches []Pair
	// FalseNegatives are gold mentions with no overlapping predicted mention.
	FalseNegatives []int
	// FalsePositives are predicted mentions with no overlapping gold mention.
	FalsePositives []int
	// TypeInconsistencies are predicted mentions whose labels carry more than one entity
	// type, whatever their span.
	TypeInconsistencies []int
}

// Classify compares predicted mentions against gold mentions. Both lists must use the same
// offset coordinates and be in left-to-right order. Gold mentions are expected to come from a
// strict scan and predicted mentions from a relaxed one (see ClassifyLabels).
//
// A predicted mention is invalid if its first label has the wrong prefix: in BIO-2 it does
// not start with B; in BIO-1 it starts with B but does not directly follow another predicted
// mention. Invalid mentions are excluded from every other category.
//
// The count identities are checked before returning, and ErrCountMismatch is returned if
// they do not hold.
func Classify(gold, pred []tags.Mention, encoding tags.Encoding) (*Classification, error) {
	c := &Classification{Encoding: encoding, Gold: gold}
	c.Pred, c.Invalid = splitInvalid(pred, encoding)

	predAt := offsetIndex(c.Pred)
	goldAt := offsetIndex(c.Gold)

	for goldIdx, g := range c.Gold {
		hits := overlapping(g, predAt)
		switch len(hits) {
		case 0:
			c.FalseNegatives = append(c.FalseNegatives, goldIdx)
		case 1:
			predIdx := hits[0]
			p := c.Pred[predIdx]
			pair := Pair{Gold: goldIdx, Pred: predIdx}
			if !g.SameSpan(p) {
				c.PartialMatches = append(c.PartialMatches, pair)
			} else if sameType(g, p) {
				c.TruePositives = append(c.TruePositives, pair)
			} else {
				c.Misclassifications = append(c.Misclassifications, pair)
			}
		default:
			for _, predIdx := range hits {
				c.PartialMatches = append(c.PartialMatches, Pair{Gold: goldIdx, Pred: predIdx})
			}
		}
	}

	for predIdx, p := range c.Pred {
		if _, ok := p.Type().(tags.Ambiguous); ok {
			c.TypeInconsistencies = append(c.TypeInconsistencies, predIdx)
		}
		if len(overlapping(p, goldAt)) == 0 {
			c.FalsePositives = append(c.FalsePositives, predIdx)
		}
	}

	if err := c.Check(); err != nil {
		return nil, err
	}
	return c, nil
}

// ClassifyLabels segments gold labels strictly and predicted labels in relaxed mode, then
// classifies the predicted mentions. Both sequences cover the same tokens.
func ClassifyLabels(gold, pred []string, encoding tags.Encoding) (*Classification, error) {
	if len(gold) != len(pred) {
		return nil, &ShapeMismatchError{Predicted: len(pred), Gold: len(gold)}
	}
	goldMentions, err := tags.Strict(encoding).Segment(gold)
	if err != nil {
		return nil, errors.WithMessage(err, "gold labels")
	}
	predMentions, err := tags.Relaxed(encoding).Segment(pred)
	if err != nil {
		return nil, errors.WithMessage(err, "predicted labels")
	}
	return Classify(goldMentions, predMentions, encoding)
}

// Check verifies that gold mentions split exactly into true positives, misclassifications,
// partially matched and missed mentions, and that predicted mentions split exactly into true
// positives, misclassifications, partially matching, false positives and invalid mentions.
func (c *Classification) Check() error {
	goldClassified := len(c.TruePositives) + len(c.Misclassifications) +
		c.PartiallyMatchedGold() + len(c.FalseNegatives)
	if goldClassified != len(c.Gold) {
		return errors.WithMessagef(ErrCountMismatch, "%d gold mentions, %d classified", len(c.Gold), goldClassified)
	}
	predClassified := len(c.Invalid) + len(c.TruePositives) + len(c.Misclassifications) +
		c.PartiallyMatchingPred() + len(c.FalsePositives)
	if predClassified != c.NumPredicted() {
		return errors.WithMessagef(ErrCountMismatch, "%d predicted mentions, %d classified", c.NumPredicted(), predClassified)
	}
	return nil
}

// NumPredicted returns the number of predicted mentions, valid and invalid.
func (c *Classification) NumPredicted() int {
	return len(c.Pred) + len(c.Invalid)
}

// PartiallyMatchedGold returns the number of distinct gold mentions in PartialMatches.
func (c *Classification) PartiallyMatchedGold() int {
	return countDistinct(c.PartialMatches, func(p Pair) int { return p.Gold })
}

// PartiallyMatchingPred returns the number of distinct predicted mentions in PartialMatches.
func (c *Classification) PartiallyMatchingPred() int {
	return countDistinct(c.PartialMatches, func(p Pair) int { return p.Pred })
}

// Scores returns exact-match precision, recall and F1, counting invalid predicted mentions as
// predictions.
func (c *Classification) Scores() Scores {
	return ComputeScores(len(c.TruePositives), c.NumPredicted(), len(c.Gold))
}

func splitInvalid(pred []tags.Mention, encoding tags.Encoding) (valid, invalid []tags.Mention) {
	ends := make(map[int]bool, len(pred))
	for _, p := range pred {
		ends[p.End] = true
	}
	for _, p := range pred {
		var bad bool
		switch encoding {
		case tags.BIO1:
			bad = p.FirstPrefix() == tags.PrefixB && !ends[p.Start-1]
		case tags.BIO2:
			bad = p.FirstPrefix() != tags.PrefixB
		}
		if bad {
			invalid = append(invalid, p)
		} else {
			valid = append(valid, p)
		}
	}
	return valid, invalid
}

// offsetIndex maps every token offset covered by a mention to the mention index.
func offsetIndex(mentions []tags.Mention) map[int]int {
	index := make(map[int]int)
	for i, m := range mentions {
		for offset := m.Start; offset <= m.End; offset++ {
			index[offset] = i
		}
	}
	return index
}

// overlapping returns the sorted indices of the mentions in index that overlap m.
func overlapping(m tags.Mention, index map[int]int) []int {
	var hits []int
	for offset := m.Start; offset <= m.End; offset++ {
		if i, ok := index[offset]; ok && !slices.Contains(hits, i) {
			hits = append(hits, i)
		}
	}
	slices.Sort(hits)
	return hits
}

func sameType(gold, pred tags.Mention) bool {
	single, ok := pred.Type().(tags.Single)
	return ok && string(single) == gold.DeclaredType()
}

func countDistinct(pairs []Pair, key func(Pair) int) int {
	seen := make(map[int]bool)
	for _, p := range pairs {
		seen[key(p)] = true
	}
	return len(seen)
}
