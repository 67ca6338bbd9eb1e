package tags

// ValidateBIO2 checks that labels form a well-formed BIO-2 sequence: every I-X follows a B-X
// or I-X of the same entity type. The first violation is returned as a *LabelSequenceError.
//
// It is the gate used before computations that assume clean gold data.
func ValidateBIO2(labels []string) error {
	prevPrefix := PrefixO
	prevType := ""
	for i, label := range labels {
		prefix, etype := Parse(label)
		switch prefix {
		case PrefixO, PrefixB:
		case PrefixI:
			if prevPrefix == PrefixO {
				return newSequenceError(PrefixError, i, label, previousLabel(labels, i))
			}
			if etype != prevType {
				return newSequenceError(TypeError, i, label, previousLabel(labels, i))
			}
		default:
			return newSequenceError(PrefixError, i, label, previousLabel(labels, i))
		}
		prevPrefix = prefix
		prevType = etype
	}
	return nil
}

// Validate checks labels against the rules of encoding by running a strict Segmenter.
func Validate(labels []string, encoding Encoding) error {
	if encoding == BIO2 {
		return ValidateBIO2(labels)
	}
	_, err := Strict(encoding).Segment(labels)
	return err
}

func previousLabel(labels []string, i int) string {
	if i == 0 {
		return Outside
	}
	return labels[i-1]
}
