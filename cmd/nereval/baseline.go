package main

import (
	"github.com/gbcolborne/ner-eval/baseline"
	"github.com/gbcolborne/ner-eval/columns"
	"github.com/gbcolborne/ner-eval/tags"
	"k8s.io/klog/v2"
)

type baselineCommand struct {
	ExcludeAmbiguous bool `short:"x" long:"exclude-ambiguous" description:"Keep only training mentions seen with a single entity type"`
	Args             struct {
		Train  string `positional-arg-name:"TRAIN" description:"Training set, BIO-2 labels in the last column"`
		Test   string `positional-arg-name:"TEST" description:"Test set, same format as the training set"`
		Output string `positional-arg-name:"OUTPUT" description:"Test set with an extra column of predicted labels"`
	} `positional-args:"yes" required:"yes"`
}

func (c *baselineCommand) Execute([]string) error {
	if err := checkDistinct(c.Args.Test, c.Args.Output); err != nil {
		return err
	}
	// Training data is gold: its labels must be consistent.
	_, mentions, err := readMentions(c.Args.Train, tags.Strict(tags.BIO2), labelCol, false)
	if err != nil {
		return err
	}
	dict := baseline.Train(mentions, c.ExcludeAmbiguous)
	klog.Infof("Dictionary of %d mentions, up to %d tokens long", dict.Len(), dict.MaxLen())
	if c.ExcludeAmbiguous {
		klog.V(1).Infof("Discarded %d ambiguous mentions", dict.Discarded)
	}

	test, err := readColumns(c.Args.Test)
	if err != nil {
		return err
	}
	out, err := test.AppendColumn(func(s columns.Sentence) ([]string, error) {
		tokens, err := s.Column(columns.TokenColumn)
		if err != nil {
			return nil, err
		}
		return dict.Predict(tokens), nil
	})
	if err != nil {
		return err
	}
	if err := columns.WriteFile(c.Args.Output, out); err != nil {
		return err
	}
	klog.Infof("Baseline predictions written to %s", c.Args.Output)
	return nil
}

func init() {
	addCommand("baseline", "Predict labels with a dictionary of training mentions",
		"Labels every test n-gram that is a training mention with its most frequent type, "+
			"longest mentions first.", &baselineCommand{})
}
