package columns

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Relabel returns a copy of the file where column col of every sentence is replaced by
// fn(values). fn must return as many values as it is given.
func (f *File) Relabel(col int, fn func(values []string) ([]string, error)) (*File, error) {
	out := &File{Sentences: make([]Sentence, len(f.Sentences))}
	for i, s := range f.Sentences {
		values, err := s.Column(col)
		if err != nil {
			return nil, err
		}
		newValues, err := fn(values)
		if err != nil {
			return nil, errors.WithMessagef(err, "sentence starting at line %d", s[0].Line+1)
		}
		if len(newValues) != len(values) {
			return nil, errors.Errorf("sentence starting at line %d: got %d values for %d tokens",
				s[0].Line+1, len(newValues), len(values))
		}
		sentence := make(Sentence, len(s))
		for j, r := range s {
			fields := append([]string(nil), r.Fields...)
			k, _ := resolveColumn(col, len(fields))
			fields[k] = newValues[j]
			sentence[j] = Record{Line: r.Line, Fields: fields}
		}
		out.Sentences[i] = sentence
	}
	return out, nil
}

// AppendColumn returns a copy of the file with one more column, whose values for each
// sentence are given by fn.
func (f *File) AppendColumn(fn func(s Sentence) ([]string, error)) (*File, error) {
	out := &File{Sentences: make([]Sentence, len(f.Sentences))}
	for i, s := range f.Sentences {
		values, err := fn(s)
		if err != nil {
			return nil, errors.WithMessagef(err, "sentence starting at line %d", s[0].Line+1)
		}
		if len(values) != len(s) {
			return nil, errors.Errorf("sentence starting at line %d: got %d values for %d tokens",
				s[0].Line+1, len(values), len(s))
		}
		sentence := make(Sentence, len(s))
		for j, r := range s {
			fields := make([]string, len(r.Fields), len(r.Fields)+1)
			copy(fields, r.Fields)
			sentence[j] = Record{Line: r.Line, Fields: append(fields, values[j])}
		}
		out.Sentences[i] = sentence
	}
	return out, nil
}

// Write writes the file in column format: fields separated by a space, and a blank line after
// each sentence.
func Write(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)
	for _, s := range f.Sentences {
		for _, r := range s {
			if _, err := bw.WriteString(strings.Join(r.Fields, " ") + "\n"); err != nil {
				return errors.Wrap(err, "writing columns")
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "writing columns")
		}
	}
	return errors.Wrap(bw.Flush(), "writing columns")
}

// WriteFile writes f to path atomically, see WriteFileAtomic.
func WriteFile(path string, f *File) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return Write(w, f)
	})
}

// WriteTSV writes a tab separated table to path atomically, with an optional header row.
func WriteTSV(path string, header []string, rows [][]string) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		if len(header) > 0 {
			if _, err := bw.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
				return err
			}
		}
		for _, row := range rows {
			if _, err := bw.WriteString(strings.Join(row, "\t") + "\n"); err != nil {
				return err
			}
		}
		return bw.Flush()
	})
}
