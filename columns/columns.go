// Package columns reads and writes NER datasets in whitespace separated column format: one
// token per line (the token in the first column, labels in later columns) and blank lines
// between sentences.
package columns

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// DocStart is the token of the document separator lines of CoNLL-style datasets.
const DocStart = "-DOCSTART-"

// Record is one non-blank line: its 0-based line number in the file, and its fields.
type Record struct {
	Line   int
	Fields []string
}

// Sentence is a non-empty run of records between blank lines.
type Sentence []Record

// File is the parsed content of a column file. Blank lines are not kept: consecutive blank
// lines do not create empty sentences.
type File struct {
	Sentences []Sentence
}

// Read parses column data from r.
func Read(r io.Reader) (*File, error) {
	f := &File{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var current Sentence
	line := 0
	for scanner.Scan() {
		current = f.addLine(current, line, scanner.Bytes())
		line++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading line %d", line+1)
	}
	f.flush(current)
	return f, nil
}

// Parse parses column data held in memory.
func Parse(data []byte) *File {
	f := &File{}
	var current Sentence
	line := 0
	for len(data) > 0 {
		lineBytes := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			lineBytes, data = data[:i], data[i+1:]
		} else {
			data = nil
		}
		current = f.addLine(current, line, lineBytes)
		line++
	}
	f.flush(current)
	return f
}

// ReadFile maps the file at path in memory and parses it.
func ReadFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q", path)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat %q", path)
	}
	if info.Size() == 0 {
		return &File{}, nil
	}
	contents, err := mmap.MapRegion(file, int(info.Size()), mmap.RDONLY, 0, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "mapping %q", path)
	}
	defer contents.Unmap()
	// Parse copies every field out of the mapped region.
	return Parse(contents), nil
}

func (f *File) addLine(current Sentence, line int, text []byte) Sentence {
	fields := bytes.Fields(text)
	if len(fields) == 0 {
		f.flush(current)
		return nil
	}
	record := Record{Line: line, Fields: make([]string, len(fields))}
	for i, field := range fields {
		record.Fields[i] = string(field)
	}
	return append(current, record)
}

func (f *File) flush(current Sentence) {
	if len(current) > 0 {
		f.Sentences = append(f.Sentences, current)
	}
}

// NumTokens returns the number of records in the file.
func (f *File) NumTokens() int {
	var n int
	for _, s := range f.Sentences {
		n += len(s)
	}
	return n
}

// IsDocStart reports whether the sentence is a single document separator line.
func (s Sentence) IsDocStart() bool {
	return len(s) == 1 && len(s[0].Fields) > 0 && s[0].Fields[0] == DocStart
}

// CountSentences returns the number of sentences, optionally not counting document separator
// sentences.
func (f *File) CountSentences(skipDocStart bool) int {
	var n int
	for _, s := range f.Sentences {
		if skipDocStart && s.IsDocStart() {
			continue
		}
		n++
	}
	return n
}

// resolveColumn maps col to an index into fields: negative indices count from the end (-1 is
// the last column).
func resolveColumn(col, numFields int) (int, bool) {
	if col < 0 {
		col += numFields
	}
	return col, col >= 0 && col < numFields
}

// Field returns the field at column col (negative counts from the end).
func (r Record) Field(col int) (string, error) {
	i, ok := resolveColumn(col, len(r.Fields))
	if !ok {
		return "", errors.Errorf("line %d has %d columns, no column %d", r.Line+1, len(r.Fields), col)
	}
	return r.Fields[i], nil
}

// Column returns the values of column col of the sentence.
func (s Sentence) Column(col int) ([]string, error) {
	values := make([]string, len(s))
	for i, r := range s {
		value, err := r.Field(col)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

// Column returns the values of column col for the whole file, ignoring sentence boundaries.
func (f *File) Column(col int) ([]string, error) {
	values := make([]string, 0, f.NumTokens())
	for _, s := range f.Sentences {
		sentValues, err := s.Column(col)
		if err != nil {
			return nil, err
		}
		values = append(values, sentValues...)
	}
	return values, nil
}

// SentenceColumns returns the values of column col, one slice per sentence.
func (f *File) SentenceColumns(col int) ([][]string, error) {
	values := make([][]string, len(f.Sentences))
	for i, s := range f.Sentences {
		var err error
		values[i], err = s.Column(col)
		if err != nil {
			return nil, err
		}
	}
	return values, nil
}
