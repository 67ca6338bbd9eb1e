package tags

import (
	"fmt"
	"strings"
)

// EntityType is the type of a Mention: either Single, when all of its labels agree, or
// Ambiguous, when a relaxed scan merged labels of different entity types into one mention.
//
// Callers are expected to type-switch:
//
//	switch t := m.Type().(type) {
//	case tags.Single:
//	case tags.Ambiguous:
//	}
type EntityType interface {
	fmt.Stringer
	isEntityType()
}

// Single is the EntityType of a mention whose labels all share one entity type.
type Single string

// Ambiguous is the EntityType of a mention whose labels carry more than one entity type.
// It holds the entity type of every label of the mention, in order.
type Ambiguous []string

func (Single) isEntityType()    {}
func (Ambiguous) isEntityType() {}

// String implements fmt.Stringer.
func (s Single) String() string { return string(s) }

// String implements fmt.Stringer, e.g. "[PER LOC]".
func (a Ambiguous) String() string { return "[" + strings.Join(a, " ") + "]" }

// Mention is a maximal span of tokens labeled as one named entity.
//
// Start and End are inclusive token offsets, relative to whatever sequence was segmented (a
// sentence, or a whole file when the caller accumulates offsets). Line is the 0-based
// source-file line of the first token, or -1 if unknown.
type Mention struct {
	Start, End int
	Line       int
	Tokens     []string
	Labels     []string

	// declared is set by the Segmenter; IO labels carry no prefix to parse the type from.
	declared string
}

// Len returns the number of tokens in the mention.
func (m Mention) Len() int {
	return m.End - m.Start + 1
}

// Text returns the tokens of the mention joined by single spaces.
func (m Mention) Text() string {
	return strings.Join(m.Tokens, " ")
}

// DeclaredType is the entity type of the first label: the nominal type of the mention.
func (m Mention) DeclaredType() string {
	if m.declared != "" {
		return m.declared
	}
	if len(m.Labels) == 0 {
		return ""
	}
	return ioType(m.Labels[0])
}

// Type returns Single if every label of the mention has the same entity type, Ambiguous
// with the per-label types otherwise.
func (m Mention) Type() EntityType {
	if len(m.Labels) == 0 {
		return Single("")
	}
	first := ioType(m.Labels[0])
	types := make([]string, len(m.Labels))
	consistent := true
	for i, label := range m.Labels {
		types[i] = ioType(label)
		if types[i] != first {
			consistent = false
		}
	}
	if consistent {
		return Single(first)
	}
	return Ambiguous(types)
}

// FirstPrefix returns the prefix of the first label of the mention.
func (m Mention) FirstPrefix() Prefix {
	if len(m.Labels) == 0 {
		return PrefixO
	}
	prefix, _ := Parse(m.Labels[0])
	return prefix
}

// Contains reports whether offset falls inside the mention span.
func (m Mention) Contains(offset int) bool {
	return offset >= m.Start && offset <= m.End
}

// SameSpan reports whether both mentions cover exactly the same offsets.
func (m Mention) SameSpan(other Mention) bool {
	return m.Start == other.Start && m.End == other.End
}

// Shift returns a copy of the mention with offsets moved by delta.
func (m Mention) Shift(delta int) Mention {
	m.Start += delta
	m.End += delta
	return m
}
