package main

import (
	"os"

	"github.com/gbcolborne/ner-eval/metrics"
	"github.com/gbcolborne/ner-eval/report"
	"github.com/gbcolborne/ner-eval/tags"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

type errorsCommand struct {
	EncodingOption
	Args struct {
		Path string `positional-arg-name:"PATH" description:"Predictions in column format, gold and predicted labels in the last two columns"`
	} `positional-args:"yes" required:"yes"`
}

// Execute classifies predicted mentions against gold mentions. Gold labels must be
// consistent; predicted labels are segmented leniently, so that their errors are reported
// rather than fatal.
func (c *errorsCommand) Execute([]string) error {
	encoding, err := c.parse()
	if err != nil {
		return err
	}
	f, err := readColumns(c.Args.Path)
	if err != nil {
		return err
	}
	gold, err := f.Mentions(tags.Strict(encoding), goldCol, false)
	if err != nil {
		return errors.WithMessage(err, "gold labels")
	}
	pred, err := f.Mentions(tags.Relaxed(encoding), predCol, false)
	if err != nil {
		return errors.WithMessage(err, "predicted labels")
	}
	klog.V(1).Infof("%d gold mentions, %d predicted mentions", len(gold), len(pred))
	classification, err := metrics.Classify(gold, pred, encoding)
	if err != nil {
		return err
	}
	return report.WriteClassification(os.Stdout, classification)
}

func init() {
	addCommand("errors", "Analyze the errors of predicted mentions",
		"Lists false positives, false negatives, partial matches, misclassifications and invalid "+
			"predicted mentions, and summarizes how gold and predicted mentions were classified.",
		&errorsCommand{})
}
