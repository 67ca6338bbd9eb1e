package tags

import (
	"github.com/pkg/errors"
)

// Encoding is an enum of the label encodings understood by this package.
type Encoding int

const (
	// IO labels carry no boundary information: a mention is a run of tokens sharing a type.
	IO Encoding = iota
	// BIO1 only uses B-X when a mention directly follows another mention.
	BIO1
	// BIO2 starts every mention with B-X.
	BIO2
	// BILOU marks single-token mentions with U-X and the last token of longer ones with L-X.
	BILOU
)

var encodingNames = [...]string{
	IO:    "IO",
	BIO1:  "BIO-1",
	BIO2:  "BIO-2",
	BILOU: "BILOU",
}

// String implements fmt.Stringer, using the conventional names ("BIO-2", ...).
func (e Encoding) String() string {
	if e < 0 || int(e) >= len(encodingNames) {
		return "Encoding(?)"
	}
	return encodingNames[e]
}

// ParseEncoding returns the Encoding with the given conventional name.
func ParseEncoding(name string) (Encoding, error) {
	for i, n := range encodingNames {
		if n == name {
			return Encoding(i), nil
		}
	}
	return 0, errors.Errorf("unrecognized label encoding %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (e Encoding) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Encoding) UnmarshalText(text []byte) error {
	parsed, err := ParseEncoding(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Prefixes returns the legal prefix alphabet of the encoding, excluding PrefixO.
func (e Encoding) Prefixes() []Prefix {
	switch e {
	case BIO1, BIO2:
		return []Prefix{PrefixB, PrefixI}
	case BILOU:
		return []Prefix{PrefixB, PrefixI, PrefixL, PrefixU}
	default:
		return nil
	}
}
