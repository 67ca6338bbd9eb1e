package tags

import (
	"fmt"
)

// ErrorKind identifies which labeling rule a LabelSequenceError violates.
type ErrorKind int

const (
	// PrefixError is a mention-internal prefix following "O": I-X after O in BIO-2, B-X after
	// O in BIO-1, I-X or L-X outside a B-X run in BILOU.
	PrefixError ErrorKind = iota
	// TypeError is a continuation label whose entity type differs from the open mention.
	TypeError
	// BILOUError is a B-X run that is not closed by an L-X.
	BILOUError
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case PrefixError:
		return "prefix error"
	case TypeError:
		return "type error"
	case BILOUError:
		return "BILOU error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// LabelSequenceError reports a labeling inconsistency found while scanning a label sequence
// in strict mode.
//
// Index is the 0-based position of the offending label in the scanned sequence. Line is the
// 0-based line of the offending label in its source file, or -1 when the sequence did not
// come from a file. Error reports lines 1-based.
type LabelSequenceError struct {
	Index    int
	Line     int
	Kind     ErrorKind
	Label    string
	Previous string
}

// Error implements error.
func (e *LabelSequenceError) Error() string {
	where := fmt.Sprintf("token %d", e.Index)
	if e.Line >= 0 {
		where = fmt.Sprintf("line %d", e.Line+1)
	}
	switch e.Kind {
	case PrefixError, TypeError:
		return fmt.Sprintf("%s at %s: %s found after %s", e.Kind, where, e.Label, e.Previous)
	default:
		return fmt.Sprintf("%s at %s: expected L after %s, found %s", e.Kind, where, e.Previous, e.Label)
	}
}

func newSequenceError(kind ErrorKind, index int, label, previous string) *LabelSequenceError {
	if previous == "" {
		previous = Outside
	}
	return &LabelSequenceError{Index: index, Line: -1, Kind: kind, Label: label, Previous: previous}
}
