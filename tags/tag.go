// Package tags implements the token-level label machinery for NER datasets: parsing of
// prefixed labels ("B-PER", "I-LOC", "U-ORG", "O"), segmentation of label sequences into
// mentions, validation, and conversion between the IO, BIO-1, BIO-2 and BILOU encodings.
//
// Everything in this package is pure: functions take label slices and return new slices,
// mentions or typed errors. Nothing is logged.
package tags

import (
	"slices"
)

const (
	// Outside is the label of tokens that are not part of any mention.
	Outside = "O"
	// Inside is the collapsed label of tokens inside a mention, see ToIOPrefix.
	Inside = "I"
)

// Prefix is the boundary marker of a label: the first character of a prefixed label.
type Prefix byte

const (
	PrefixO Prefix = 'O'
	PrefixB Prefix = 'B'
	PrefixI Prefix = 'I'
	PrefixL Prefix = 'L'
	PrefixU Prefix = 'U'
)

// String implements fmt.Stringer.
func (p Prefix) String() string {
	return string(p)
}

// Parse splits a label into its prefix and entity type.
//
// "O" yields (PrefixO, ""). Otherwise the prefix is the first character and the entity type
// is everything after the first two characters ("B-PER" -> 'B', "PER"). Labels are not
// validated: a label shorter than 3 characters yields an empty entity type, and detecting
// malformed prefixes is the job of the Segmenter or ValidateBIO2.
func Parse(label string) (Prefix, string) {
	if label == Outside || label == "" {
		return PrefixO, ""
	}
	if len(label) < 3 {
		return Prefix(label[0]), ""
	}
	return Prefix(label[0]), label[2:]
}

// Make builds a label from a prefix and an entity type. PrefixO always yields "O".
func Make(prefix Prefix, etype string) string {
	if prefix == PrefixO {
		return Outside
	}
	return string(prefix) + "-" + etype
}

// EntityTypeOf returns the entity type of label, or "" for "O".
func EntityTypeOf(label string) string {
	_, etype := Parse(label)
	return etype
}

// IsOutside reports whether label is "O".
func IsOutside(label string) bool {
	return label == Outside
}

// StripTypes returns the prefix-only version of labels ("B-PER" -> "B"), used to evaluate
// mention detection without entity types.
func StripTypes(labels []string) []string {
	out := make([]string, len(labels))
	for i, label := range labels {
		if label == "" {
			continue
		}
		out[i] = label[:1]
	}
	return out
}

// TypeMap maps source entity types to target entity types, e.g. "GPE" -> "LOC".
type TypeMap map[string]string

// MapTypes rewrites the entity type of every prefixed label through m, keeping the prefix.
// Labels whose entity type is not in m become "O"; the unknown types are returned sorted.
func MapTypes(labels []string, m TypeMap) (mapped []string, unknown []string) {
	mapped = make([]string, len(labels))
	seen := make(map[string]bool)
	for i, label := range labels {
		if label == Outside {
			mapped[i] = Outside
			continue
		}
		prefix, etype := Parse(label)
		target, ok := m[etype]
		if !ok {
			mapped[i] = Outside
			if !seen[etype] {
				seen[etype] = true
				unknown = append(unknown, etype)
			}
			continue
		}
		mapped[i] = Make(prefix, target)
	}
	slices.Sort(unknown)
	return mapped, unknown
}

// UniqueTypes returns the sorted set of entity types found in labels.
func UniqueTypes(labels []string) []string {
	seen := make(map[string]bool)
	var types []string
	for _, label := range labels {
		if label == Outside {
			continue
		}
		etype := EntityTypeOf(label)
		if !seen[etype] {
			seen[etype] = true
			types = append(types, etype)
		}
	}
	slices.Sort(types)
	return types
}
