// Package hardeval selects the "hard" test tokens of an NER evaluation set with respect to a
// training set, and computes the token error rate of predictions on each of those subsets.
//
// Hard tokens are either unseen (their word never occurs in training) or different (their
// gold label diverges from what the word usually gets in training). Labels are compared in
// BILOU encoding; IO labels collapse every in-mention label to "I".
package hardeval

import (
	"maps"
	"slices"
	"strconv"

	"github.com/gbcolborne/ner-eval/tags"
	"github.com/pkg/errors"
)

// Subset names, in the order SelectSubsets returns them.
const (
	All          = "all"
	UnseenI      = "unseen-I"
	UnseenO      = "unseen-O"
	UnseenAll    = "unseen-all"
	DiffI        = "diff-I"
	DiffO        = "diff-O"
	DiffEtype    = "diff-etype"
	DiffAll      = "diff-all"
	UnseenOrDiff = "all-unseen+diff"
)

// SubsetNames lists the subsets in evaluation order.
var SubsetNames = []string{All, UnseenI, UnseenO, UnseenAll, DiffI, DiffO, DiffEtype, DiffAll, UnseenOrDiff}

// Data is a sequence of tokens with their BIO-2 labels.
type Data struct {
	Tokens []string
	Labels []string
}

// Len returns the number of tokens.
func (d Data) Len() int { return len(d.Tokens) }

// Options configure the subset selection.
type Options struct {
	// Strict only flags labels never seen with a word in training. Otherwise labels that are
	// seen but less frequent than the word's most frequent label are also flagged.
	Strict bool

	// Normalize, if set, maps tokens to the form used for vocabulary lookups (see
	// textutil.ToASCII). Tokens are reported unchanged.
	Normalize func(string) string
}

// Subset is a named set of test token indices, in increasing order.
type Subset struct {
	Name    string
	Indices []int
}

// Selection holds the test data and its hard token subsets.
type Selection struct {
	Options Options

	// Test is the test data as given; Words are the normalized test tokens, and Gold the test
	// labels converted to BILOU.
	Test  Data
	Words []string
	Gold  []string

	Subsets []Subset

	// IOCounts and EtypeCounts are the training frequency tables: IO labels of all words, and
	// entity types of in-mention words.
	IOCounts    WordLabelCount
	EtypeCounts WordLabelCount

	// SeenWords are the normalized test words that also occur in training, sorted.
	SeenWords []string
}

// SelectSubsets validates train and test labels (both must be well-formed BIO-2), and
// computes the hard subsets of the test tokens.
func SelectSubsets(train, test Data, opts Options) (*Selection, error) {
	if err := checkData(train, "training"); err != nil {
		return nil, err
	}
	if err := checkData(test, "test"); err != nil {
		return nil, err
	}
	trainGold, err := tags.BIO2ToBILOU(train.Labels)
	if err != nil {
		return nil, errors.WithMessage(err, "training labels")
	}
	testGold, err := tags.BIO2ToBILOU(test.Labels)
	if err != nil {
		return nil, errors.WithMessage(err, "test labels")
	}
	trainWords := normalize(train.Tokens, opts.Normalize)
	testWords := normalize(test.Tokens, opts.Normalize)
	trainIO := tags.ToIOPrefix(trainGold)
	testIO := tags.ToIOPrefix(testGold)

	s := &Selection{
		Options:  opts,
		Test:     test,
		Words:    testWords,
		Gold:     testGold,
		IOCounts: NewWordLabelCount(trainWords, trainIO),
	}

	// Entity types of in-mention training tokens.
	s.EtypeCounts = make(WordLabelCount)
	for i, io := range trainIO {
		if io == tags.Inside {
			s.EtypeCounts.Add(trainWords[i], tags.EntityTypeOf(trainGold[i]))
		}
	}

	all := make([]int, len(testWords))
	var unseenI, unseenO, unseen, insideIdx, outsideIdx []int
	seen := make(map[string]bool)
	for i, word := range testWords {
		all[i] = i
		if testIO[i] == tags.Inside {
			insideIdx = append(insideIdx, i)
		} else {
			outsideIdx = append(outsideIdx, i)
		}
		if !s.IOCounts.Seen(word) {
			unseen = append(unseen, i)
			if testIO[i] == tags.Inside {
				unseenI = append(unseenI, i)
			} else {
				unseenO = append(unseenO, i)
			}
			continue
		}
		seen[word] = true
	}
	s.SeenWords = slices.Sorted(maps.Keys(seen))

	diffI := s.diffIO(insideIdx, tags.Inside)
	diffO := s.diffIO(outsideIdx, tags.Outside)

	// Only words usually inside a mention in training are considered for entity type
	// divergence.
	var usuallyI []int
	for _, i := range insideIdx {
		word := testWords[i]
		if s.IOCounts.Count(word, tags.Inside) >= s.IOCounts.Count(word, tags.Outside) {
			usuallyI = append(usuallyI, i)
		}
	}
	etypes := make([]string, len(usuallyI))
	for j, i := range usuallyI {
		etypes[j] = tags.EntityTypeOf(testGold[i])
	}
	diffEtype := pick(usuallyI, DiffIndices(s.EtypeCounts, pick(testWords, usuallyI), etypes, opts.Strict))

	diffAll := union(diffI, diffO, diffEtype)
	s.Subsets = []Subset{
		{All, all},
		{UnseenI, unseenI},
		{UnseenO, unseenO},
		{UnseenAll, unseen},
		{DiffI, diffI},
		{DiffO, diffO},
		{DiffEtype, diffEtype},
		{DiffAll, diffAll},
		{UnseenOrDiff, union(diffAll, unseen)},
	}
	return s, nil
}

// diffIO returns the indices (from candidates) of test tokens whose IO label, ioLabel, is
// different from what the word usually gets in training.
func (s *Selection) diffIO(candidates []int, ioLabel string) []int {
	labels := make([]string, len(candidates))
	for j := range labels {
		labels[j] = ioLabel
	}
	return pick(candidates, DiffIndices(s.IOCounts, pick(s.Words, candidates), labels, s.Options.Strict))
}

// Subset returns the indices of the named subset.
func (s *Selection) Subset(name string) ([]int, bool) {
	for _, subset := range s.Subsets {
		if subset.Name == name {
			return subset.Indices, true
		}
	}
	return nil, false
}

// IOTable returns the training IO label frequencies of the seen test words, as a header and
// rows of strings.
func (s *Selection) IOTable() (header []string, rows [][]string) {
	header = []string{"Word", tags.Inside, tags.Outside}
	for _, word := range s.SeenWords {
		rows = append(rows, []string{
			word,
			strconv.Itoa(s.IOCounts.Count(word, tags.Inside)),
			strconv.Itoa(s.IOCounts.Count(word, tags.Outside)),
		})
	}
	return header, rows
}

// EtypeTable returns the training entity type frequencies of the test words seen inside a
// mention in training, as a header and rows of strings.
func (s *Selection) EtypeTable() (header []string, rows [][]string) {
	etypes := s.EtypeCounts.Labels()
	header = append([]string{"Word"}, etypes...)
	for _, word := range s.SeenWords {
		if !s.EtypeCounts.Seen(word) {
			continue
		}
		row := []string{word}
		for _, etype := range etypes {
			row = append(row, strconv.Itoa(s.EtypeCounts.Count(word, etype)))
		}
		rows = append(rows, row)
	}
	return header, rows
}

// TokenTable returns the test tokens of the named subset with their original labels.
func (s *Selection) TokenTable(name string) (header []string, rows [][]string, err error) {
	indices, found := s.Subset(name)
	if !found {
		return nil, nil, errors.Errorf("unknown subset %q", name)
	}
	header = []string{"Line", "Token", "Label"}
	for _, i := range indices {
		rows = append(rows, []string{strconv.Itoa(i), s.Test.Tokens[i], s.Test.Labels[i]})
	}
	return header, rows, nil
}

func checkData(d Data, name string) error {
	if len(d.Tokens) != len(d.Labels) {
		return errors.Errorf("%s data has %d tokens but %d labels", name, len(d.Tokens), len(d.Labels))
	}
	if len(d.Tokens) == 0 {
		return errors.Errorf("%s data has no tokens", name)
	}
	if err := tags.ValidateBIO2(d.Labels); err != nil {
		return errors.WithMessagef(err, "%s labels", name)
	}
	return nil
}

func normalize(tokens []string, fn func(string) string) []string {
	if fn == nil {
		return tokens
	}
	words := make([]string, len(tokens))
	for i, token := range tokens {
		words[i] = fn(token)
	}
	return words
}

// pick returns values[i] for each i in indices.
func pick[T any](values []T, indices []int) []T {
	picked := make([]T, len(indices))
	for j, i := range indices {
		picked[j] = values[i]
	}
	return picked
}

// union merges index lists into one sorted list without duplicates.
func union(lists ...[]int) []int {
	var merged []int
	for _, list := range lists {
		merged = append(merged, list...)
	}
	slices.Sort(merged)
	return slices.Compact(merged)
}
