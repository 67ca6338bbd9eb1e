package columns

import (
	"github.com/gbcolborne/ner-eval/tags"
	"github.com/pkg/errors"
)

// TokenColumn is the column holding the tokens.
const TokenColumn = 0

// Mentions segments the labels in column labelCol into mentions, with tokens from the first
// column. Offsets are token offsets from the start of the file, and each mention's Line is the
// file line of its first token.
//
// Sentences are segmented independently unless ignoreBoundaries is set, in which case the
// whole file is a single sequence and mentions may cross blank lines. A *tags.LabelSequenceError
// is returned with its Index relative to the file and its Line set.
func (f *File) Mentions(seg tags.Segmenter, labelCol int, ignoreBoundaries bool) ([]tags.Mention, error) {
	sequences := f.Sentences
	if ignoreBoundaries {
		var all Sentence
		for _, s := range f.Sentences {
			all = append(all, s...)
		}
		sequences = []Sentence{all}
	}

	var mentions []tags.Mention
	offset := 0
	for _, records := range sequences {
		if len(records) == 0 {
			continue
		}
		tokens, err := records.Column(TokenColumn)
		if err != nil {
			return nil, err
		}
		labels, err := records.Column(labelCol)
		if err != nil {
			return nil, err
		}
		found, err := seg.SegmentTokens(tokens, labels)
		if err != nil {
			var seqErr *tags.LabelSequenceError
			if errors.As(err, &seqErr) {
				// The end of sequence error of BILOU points one past the last record.
				seqErr.Line = records[min(seqErr.Index, len(records)-1)].Line
				seqErr.Index += offset
			}
			return nil, err
		}
		for _, m := range found {
			m.Line = records[m.Start].Line
			mentions = append(mentions, m.Shift(offset))
		}
		offset += len(records)
	}
	return mentions, nil
}
