package tags

import (
	"github.com/pkg/errors"
)

// BIO2ToBILOU converts a well-formed BIO-2 sequence to BILOU: single-token mentions become
// U-X, longer ones B-X I-X* L-X. An inconsistent input is reported as a *LabelSequenceError.
func BIO2ToBILOU(labels []string) ([]string, error) {
	return Strict(BIO2).ToBILOU(labels)
}

// BILOUToBIO2 converts a BILOU sequence back to BIO-2.
func BILOUToBIO2(labels []string) ([]string, error) {
	mentions, err := Strict(BILOU).Segment(labels)
	if err != nil {
		return nil, err
	}
	return renderBIO2(len(labels), mentions), nil
}

// ToBILOU segments labels with s and renders the mentions in BILOU. Each mention is written
// with its declared type, so a relaxed Segmenter yields a consistent BILOU sequence even for
// mentions with mixed types.
func (s Segmenter) ToBILOU(labels []string) ([]string, error) {
	mentions, err := s.Segment(labels)
	if err != nil {
		return nil, err
	}
	return renderBILOU(len(labels), mentions), nil
}

// PredictionsToBILOU converts possibly inconsistent BIO-2 predictions to BILOU, looking only
// at prefixes. A mention starts at B-X and extends over the following I-* labels whatever
// their type; it takes the type of its B-X. Every other label, orphan I-X and foreign
// prefixes such as U-X included, becomes "O".
func PredictionsToBILOU(labels []string) []string {
	var mentions []Mention
	for i := 0; i < len(labels); i++ {
		prefix, etype := Parse(labels[i])
		if prefix != PrefixB {
			continue
		}
		end := i
		for end+1 < len(labels) && labels[end+1] != "" && Prefix(labels[end+1][0]) == PrefixI {
			end++
		}
		mentions = append(mentions, Mention{Start: i, End: end, declared: etype})
		i = end
	}
	return renderBILOU(len(labels), mentions)
}

// IOToBIO converts an IO sequence (bare entity types or I-X labels) of one sentence to BIO-1
// or BIO-2.
//
// A non-"O" token starts a new mention if the previous token was "O" or had another entity
// type. In BIO-2 that token is written B-X. In BIO-1 it is written I-X: this converter never
// emits B in BIO-1, since IO cannot express two adjacent mentions of the same type.
func IOToBIO(labels []string, encoding Encoding) ([]string, error) {
	if encoding != BIO1 && encoding != BIO2 {
		return nil, errors.Errorf("IOToBIO: target encoding must be BIO-1 or BIO-2, got %s", encoding)
	}
	out := make([]string, len(labels))
	inside := false
	prevType := ""
	for i, label := range labels {
		if label == Outside {
			out[i] = Outside
			inside = false
			prevType = ""
			continue
		}
		etype := ioType(label)
		if inside && etype == prevType {
			out[i] = Make(PrefixI, etype)
		} else if encoding == BIO2 {
			out[i] = Make(PrefixB, etype)
		} else {
			out[i] = Make(PrefixI, etype)
		}
		inside = true
		prevType = etype
	}
	return out, nil
}

// BIOToIO strips the B-/I- prefixes, leaving the bare entity type (or "O") as the label.
func BIOToIO(labels []string) []string {
	out := make([]string, len(labels))
	for i, label := range labels {
		if label == Outside {
			out[i] = Outside
			continue
		}
		out[i] = EntityTypeOf(label)
	}
	return out
}

// ToIOPrefix collapses labels to "I" (inside a mention) or "O".
func ToIOPrefix(labels []string) []string {
	out := make([]string, len(labels))
	for i, label := range labels {
		if label == Outside {
			out[i] = Outside
		} else {
			out[i] = Inside
		}
	}
	return out
}

// Convert converts labels of one sentence from one encoding to another. Source sequences
// are segmented strictly, except IO sources which go through IOToBIO when the target is
// BIO-1 or BIO-2.
func Convert(labels []string, from, to Encoding) ([]string, error) {
	if from == to {
		return append([]string(nil), labels...), nil
	}
	if from == IO && (to == BIO1 || to == BIO2) {
		return IOToBIO(labels, to)
	}
	if to == IO && (from == BIO1 || from == BIO2) {
		return BIOToIO(labels), nil
	}
	mentions, err := Strict(from).Segment(labels)
	if err != nil {
		return nil, err
	}
	switch to {
	case IO:
		return renderIO(len(labels), mentions), nil
	case BIO1:
		return renderBIO1(len(labels), mentions), nil
	case BIO2:
		return renderBIO2(len(labels), mentions), nil
	case BILOU:
		return renderBILOU(len(labels), mentions), nil
	default:
		return nil, errors.Errorf("unsupported target encoding %s", to)
	}
}

func outsideLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = Outside
	}
	return out
}

func renderBILOU(n int, mentions []Mention) []string {
	out := outsideLabels(n)
	for _, m := range mentions {
		etype := m.DeclaredType()
		if m.Start == m.End {
			out[m.Start] = Make(PrefixU, etype)
			continue
		}
		out[m.Start] = Make(PrefixB, etype)
		for i := m.Start + 1; i < m.End; i++ {
			out[i] = Make(PrefixI, etype)
		}
		out[m.End] = Make(PrefixL, etype)
	}
	return out
}

func renderBIO2(n int, mentions []Mention) []string {
	out := outsideLabels(n)
	for _, m := range mentions {
		etype := m.DeclaredType()
		out[m.Start] = Make(PrefixB, etype)
		for i := m.Start + 1; i <= m.End; i++ {
			out[i] = Make(PrefixI, etype)
		}
	}
	return out
}

// renderBIO1 writes B-X only on the first token of a mention that directly follows another
// mention of the same type.
func renderBIO1(n int, mentions []Mention) []string {
	out := outsideLabels(n)
	for k, m := range mentions {
		etype := m.DeclaredType()
		for i := m.Start; i <= m.End; i++ {
			out[i] = Make(PrefixI, etype)
		}
		if k > 0 && mentions[k-1].End == m.Start-1 && mentions[k-1].DeclaredType() == etype {
			out[m.Start] = Make(PrefixB, etype)
		}
	}
	return out
}

func renderIO(n int, mentions []Mention) []string {
	out := outsideLabels(n)
	for _, m := range mentions {
		etype := m.DeclaredType()
		for i := m.Start; i <= m.End; i++ {
			out[i] = etype
		}
	}
	return out
}
