// Package report renders evaluation and analysis results as text for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// Table renders rows under header as a bordered table. Columns whose cells all look like
// numbers are right aligned.
func Table(header []string, rows [][]string) string {
	numeric := numericColumns(rows, len(header))
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col < len(numeric) && numeric[col] {
				return numberStyle
			}
			return cellStyle
		})
	return t.Render()
}

func numericColumns(rows [][]string, numCols int) []bool {
	numeric := make([]bool, numCols)
	for col := range numeric {
		numeric[col] = len(rows) > 0
		for _, row := range rows {
			if col >= len(row) || !isNumber(row[col]) {
				numeric[col] = false
				break
			}
		}
	}
	return numeric
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	return err == nil
}

// Title renders a section title.
func Title(title string) string {
	return titleStyle.Render(title)
}

// printer accumulates the first write error, so rendering code can write freely.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(s string) {
	p.printf("%s\n", s)
}

func (p *printer) done() error {
	return errors.Wrap(p.err, "writing report")
}
