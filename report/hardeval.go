package report

import (
	"io"

	"github.com/gbcolborne/ner-eval/hardeval"
)

// WriteHardEval renders the results table of a HardEval evaluation and its summary score.
func WriteHardEval(w io.Writer, e *hardeval.Evaluation) error {
	p := &printer{w: w}
	mode := "OFF"
	if e.Selection.Options.Strict {
		mode = "ON"
	}
	p.printf("\nStrict mode: %s\n\n", mode)
	header, rows := e.ResultsTable()
	p.println(Table(header, rows))
	p.printf("\nAvg TER on unseen and diff: %.4f\n", e.Score())
	return p.done()
}
