package tags

import (
	"github.com/pkg/errors"
)

// Segmenter splits label sequences into mentions according to an Encoding.
//
// The two tolerance flags only apply to BIO-1 and BIO-2; IO sequences cannot be inconsistent,
// and BILOU inconsistencies are always fatal.
//
//   - AllowPrefixErrors: a mention-internal prefix found right after "O" (I-X in BIO-2, B-X in
//     BIO-1) starts a new mention instead of failing. The stored label is not rewritten.
//   - AllowTypeErrors: in BIO-2, an I-X following a label of another entity type continues
//     the open mention (the prefix takes precedence), so the mention ends up with mixed types.
//     In BIO-1, a B-X following a label of another type starts a new mention.
type Segmenter struct {
	Encoding          Encoding
	AllowPrefixErrors bool
	AllowTypeErrors   bool
}

// Strict returns a Segmenter that fails on any labeling inconsistency.
func Strict(encoding Encoding) Segmenter {
	return Segmenter{Encoding: encoding}
}

// Relaxed returns a Segmenter that tolerates both prefix and type errors, as needed for
// predicted (noisy) label sequences.
func Relaxed(encoding Encoding) Segmenter {
	return Segmenter{Encoding: encoding, AllowPrefixErrors: true, AllowTypeErrors: true}
}

// Segment returns the mentions of labels, left to right, with offsets relative to labels.
// The returned mentions have no tokens.
func (s Segmenter) Segment(labels []string) ([]Mention, error) {
	return s.SegmentTokens(nil, labels)
}

// SegmentTokens is like Segment, but also fills in the tokens of each mention. tokens must be
// nil or have the same length as labels.
//
// In strict mode the first inconsistency stops the scan and is returned as a
// *LabelSequenceError; no partial result is returned.
func (s Segmenter) SegmentTokens(tokens, labels []string) ([]Mention, error) {
	if tokens != nil && len(tokens) != len(labels) {
		return nil, errors.Errorf("got %d tokens but %d labels", len(tokens), len(labels))
	}
	sc := &scanner{tokens: tokens, labels: labels}
	var err error
	switch s.Encoding {
	case IO:
		sc.scanIO()
	case BIO1:
		err = sc.scanBIO1(s.AllowPrefixErrors, s.AllowTypeErrors)
	case BIO2:
		err = sc.scanBIO2(s.AllowPrefixErrors, s.AllowTypeErrors)
	case BILOU:
		err = sc.scanBILOU()
	default:
		return nil, errors.Errorf("unsupported encoding %s", s.Encoding)
	}
	if err != nil {
		return nil, err
	}
	return sc.mentions, nil
}

// scanner holds the state of one left-to-right scan. A mention is open while inside is true;
// prevType is the entity type of the previous label (not necessarily the declared type of the
// open mention, when type errors are tolerated).
type scanner struct {
	tokens, labels []string
	mentions       []Mention

	inside       bool
	start        int
	declaredType string
	prevType     string
}

func (sc *scanner) begin(i int, etype string) {
	sc.inside = true
	sc.start = i
	sc.declaredType = etype
	sc.prevType = etype
}

// emit closes the open mention, whose last token is at end.
func (sc *scanner) emit(end int) {
	if !sc.inside {
		return
	}
	m := Mention{Start: sc.start, End: end, Line: -1, declared: sc.declaredType}
	m.Labels = append([]string(nil), sc.labels[sc.start:end+1]...)
	if sc.tokens != nil {
		m.Tokens = append([]string(nil), sc.tokens[sc.start:end+1]...)
	}
	sc.mentions = append(sc.mentions, m)
	sc.inside = false
	sc.prevType = ""
}

func (sc *scanner) previous(i int) string {
	if i == 0 {
		return Outside
	}
	return sc.labels[i-1]
}

func (sc *scanner) scanBIO2(allowPrefixErrors, allowTypeErrors bool) error {
	for i, label := range sc.labels {
		prefix, etype := Parse(label)
		switch prefix {
		case PrefixO:
			sc.emit(i - 1)
		case PrefixB:
			sc.emit(i - 1)
			sc.begin(i, etype)
		case PrefixI:
			switch {
			case !sc.inside:
				if !allowPrefixErrors {
					return newSequenceError(PrefixError, i, label, sc.previous(i))
				}
				sc.begin(i, etype)
			case etype != sc.prevType:
				if !allowTypeErrors {
					return newSequenceError(TypeError, i, label, sc.previous(i))
				}
				sc.prevType = etype
			}
		default:
			return newSequenceError(PrefixError, i, label, sc.previous(i))
		}
	}
	sc.emit(len(sc.labels) - 1)
	return nil
}

func (sc *scanner) scanBIO1(allowPrefixErrors, allowTypeErrors bool) error {
	for i, label := range sc.labels {
		prefix, etype := Parse(label)
		switch prefix {
		case PrefixO:
			sc.emit(i - 1)
		case PrefixB:
			if !sc.inside {
				if !allowPrefixErrors {
					return newSequenceError(PrefixError, i, label, sc.previous(i))
				}
			} else if etype != sc.prevType && !allowTypeErrors {
				return newSequenceError(TypeError, i, label, sc.previous(i))
			}
			sc.emit(i - 1)
			sc.begin(i, etype)
		case PrefixI:
			if sc.inside && etype == sc.prevType {
				continue
			}
			sc.emit(i - 1)
			sc.begin(i, etype)
		default:
			return newSequenceError(PrefixError, i, label, sc.previous(i))
		}
	}
	sc.emit(len(sc.labels) - 1)
	return nil
}

// scanIO accepts both bare entity types ("PER") and I-prefixed labels ("I-PER").
func (sc *scanner) scanIO() {
	for i, label := range sc.labels {
		if label == Outside {
			sc.emit(i - 1)
			continue
		}
		etype := ioType(label)
		if sc.inside && etype == sc.prevType {
			continue
		}
		sc.emit(i - 1)
		sc.begin(i, etype)
	}
	sc.emit(len(sc.labels) - 1)
}

func ioType(label string) string {
	if len(label) > 2 && label[1] == '-' {
		return label[2:]
	}
	return label
}

func (sc *scanner) scanBILOU() error {
	for i, label := range sc.labels {
		prefix, etype := Parse(label)
		switch prefix {
		case PrefixO, PrefixU, PrefixB:
			if sc.inside {
				return newSequenceError(BILOUError, i, label, sc.previous(i))
			}
			if prefix == PrefixU {
				sc.begin(i, etype)
				sc.emit(i)
			} else if prefix == PrefixB {
				sc.begin(i, etype)
			}
		case PrefixI, PrefixL:
			if !sc.inside {
				return newSequenceError(PrefixError, i, label, sc.previous(i))
			}
			if etype != sc.prevType {
				return newSequenceError(TypeError, i, label, sc.previous(i))
			}
			if prefix == PrefixL {
				sc.emit(i)
			}
		default:
			return newSequenceError(PrefixError, i, label, sc.previous(i))
		}
	}
	if sc.inside {
		n := len(sc.labels)
		return newSequenceError(BILOUError, n, "end of sequence", sc.previous(n))
	}
	return nil
}
