package columns

import (
	"io"

	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
)

// TokenRow is the table form of one record, as exported to parquet.
type TokenRow struct {
	Sentence int      `parquet:"sentence"`
	Position int      `parquet:"position"`
	Line     int      `parquet:"line"`
	Token    string   `parquet:"token"`
	Label    string   `parquet:"label"`
	Fields   []string `parquet:"fields,list"`
}

// TokenRows returns one row per record, with the label taken from column labelCol.
func (f *File) TokenRows(labelCol int) ([]TokenRow, error) {
	rows := make([]TokenRow, 0, f.NumTokens())
	for sentIdx, s := range f.Sentences {
		for pos, r := range s {
			label, err := r.Field(labelCol)
			if err != nil {
				return nil, err
			}
			rows = append(rows, TokenRow{
				Sentence: sentIdx,
				Position: pos,
				Line:     r.Line,
				Token:    r.Fields[TokenColumn],
				Label:    label,
				Fields:   r.Fields,
			})
		}
	}
	return rows, nil
}

// FromTokenRows rebuilds a File from rows ordered by sentence and position. Lines are taken
// from the rows.
func FromTokenRows(rows []TokenRow) *File {
	f := &File{}
	var current Sentence
	currentIdx := -1
	for _, row := range rows {
		if row.Sentence != currentIdx {
			f.flush(current)
			current = nil
			currentIdx = row.Sentence
		}
		current = append(current, Record{Line: row.Line, Fields: append([]string(nil), row.Fields...)})
	}
	f.flush(current)
	return f
}

// WriteParquet writes rows to a parquet file at path, atomically. The schema is derived from
// the struct tags of T.
func WriteParquet[T any](path string, rows []T) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return parquet.Write(w, rows)
	})
}

// ReadParquet reads all rows of the parquet file at path.
func ReadParquet[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading parquet file %q", path)
	}
	return rows, nil
}
