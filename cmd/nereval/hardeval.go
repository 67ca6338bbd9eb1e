package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gbcolborne/ner-eval/columns"
	"github.com/gbcolborne/ner-eval/hardeval"
	"github.com/gbcolborne/ner-eval/report"
	"github.com/gbcolborne/ner-eval/textutil"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// HardevalOptions are the subset selection options of the hardeval and subsets commands.
type HardevalOptions struct {
	Strict bool `short:"s" long:"strict" description:"Only select tokens whose test label was never observed in training"`
	ASCII  bool `long:"ascii" description:"Fold words to ASCII before vocabulary lookups"`
}

func (o HardevalOptions) options() hardeval.Options {
	opts := hardeval.Options{Strict: o.Strict}
	if o.ASCII {
		opts.Normalize = textutil.ToASCII
	}
	return opts
}

type hardevalCommand struct {
	HardevalOptions
	WriteDir string `short:"w" long:"write-dir" description:"Directory where the evaluation, vocabulary and token tables of every subset are written"`
	Parquet  bool   `long:"parquet" description:"Also write the token evaluations and the results as parquet files"`
	Args     struct {
		Train string `positional-arg-name:"TRAIN" description:"Training set, BIO-2 labels in the last column"`
		Pred  string `positional-arg-name:"PRED" description:"Predictions, gold and predicted BIO-2 labels in the last two columns"`
	} `positional-args:"yes" required:"yes"`
}

func (c *hardevalCommand) Execute([]string) error {
	if c.WriteDir != "" {
		if err := columns.CreateDir(c.WriteDir); err != nil {
			return err
		}
	}
	predFile, err := readColumns(c.Args.Pred)
	if err != nil {
		return err
	}
	test, err := fileData(predFile, goldCol)
	if err != nil {
		return err
	}
	pred, err := predFile.Column(predCol)
	if err != nil {
		return err
	}
	klog.Infof("Nb tokens in test set: %d", test.Len())
	train, err := readData(c.Args.Train, labelCol)
	if err != nil {
		return err
	}
	klog.Infof("Nb tokens in training set: %d", train.Len())

	sel, err := hardeval.SelectSubsets(train, test, c.options())
	if err != nil {
		return err
	}
	eval, err := hardeval.Evaluate(sel, pred)
	if err != nil {
		return err
	}
	if c.WriteDir != "" {
		if err := c.write(eval); err != nil {
			return err
		}
	}
	return report.WriteHardEval(os.Stdout, eval)
}

func (c *hardevalCommand) write(eval *hardeval.Evaluation) error {
	if err := writeSelectionTables(c.WriteDir, eval.Selection); err != nil {
		return err
	}
	for _, subset := range eval.Selection.Subsets {
		header, rows, err := eval.TokensTable(subset.Name)
		if err != nil {
			return err
		}
		if err := columns.WriteTSV(filepath.Join(c.WriteDir, fmt.Sprintf("eval-%s.tsv", subset.Name)), header, rows); err != nil {
			return err
		}
		header, rows, err = eval.VocabTable(subset.Name)
		if err != nil {
			return err
		}
		if err := columns.WriteTSV(filepath.Join(c.WriteDir, fmt.Sprintf("vocab-%s.tsv", subset.Name)), header, rows); err != nil {
			return err
		}
		if c.Parquet {
			tokens, err := eval.Tokens(subset.Name)
			if err != nil {
				return err
			}
			if err := columns.WriteParquet(filepath.Join(c.WriteDir, fmt.Sprintf("eval-%s.parquet", subset.Name)), tokens); err != nil {
				return err
			}
		}
	}
	header, rows := eval.ResultsTable()
	if err := columns.WriteTSV(filepath.Join(c.WriteDir, "results.tsv"), header, rows); err != nil {
		return err
	}
	if c.Parquet {
		if err := columns.WriteParquet(filepath.Join(c.WriteDir, "results.parquet"), eval.Results); err != nil {
			return err
		}
	}
	klog.Infof("Wrote evaluation tables to %s", c.WriteDir)
	return nil
}

// writeSelectionTables writes the label frequency tables of the seen test words.
func writeSelectionTables(dir string, sel *hardeval.Selection) error {
	header, rows := sel.IOTable()
	if err := columns.WriteTSV(filepath.Join(dir, "class_freqs_for_seen_words_IO.tsv"), header, rows); err != nil {
		return err
	}
	header, rows = sel.EtypeTable()
	return columns.WriteTSV(filepath.Join(dir, "class_freqs_for_seen_words_etype.tsv"), header, rows)
}

// writeSubsets writes the label frequency tables and the tokens of every subset of sel.
func writeSubsets(dir string, sel *hardeval.Selection) error {
	if err := writeSelectionTables(dir, sel); err != nil {
		return err
	}
	for _, subset := range sel.Subsets {
		header, rows, err := sel.TokenTable(subset.Name)
		if err != nil {
			return err
		}
		if err := columns.WriteTSV(filepath.Join(dir, fmt.Sprintf("tokens_%s.tsv", subset.Name)), header, rows); err != nil {
			return err
		}
		klog.V(1).Infof("%s: %d tokens", subset.Name, len(subset.Indices))
	}
	return nil
}

type subsetsCommand struct {
	HardevalOptions
	Train  string `long:"train" required:"yes" description:"Training set, BIO-2 labels in the last column"`
	Test   string `long:"test" description:"Test set, BIO-2 labels in the last column. Without it, subsets are computed by cross-validation on the training set"`
	Output string `long:"out" required:"yes" description:"Output directory, must not exist"`
	Folds  int    `short:"k" long:"folds" default:"5" description:"Number of cross-validation folds"`
}

func (c *subsetsCommand) Execute([]string) error {
	if err := columns.CreateDir(c.Output); err != nil {
		return err
	}
	if c.Test != "" {
		train, err := readData(c.Train, labelCol)
		if err != nil {
			return err
		}
		test, err := readData(c.Test, labelCol)
		if err != nil {
			return err
		}
		sel, err := hardeval.SelectSubsets(train, test, c.options())
		if err != nil {
			return err
		}
		return writeSubsets(c.Output, sel)
	}

	f, err := readColumns(c.Train)
	if err != nil {
		return err
	}
	sentences, err := sentenceData(f, labelCol)
	if err != nil {
		return err
	}
	klog.Infof("Computing subsets on %d folds of %d sentences", c.Folds, len(sentences))
	folds, err := hardeval.CrossValidate(context.Background(), sentences, c.Folds, c.options())
	if err != nil {
		return err
	}
	for i, fold := range folds {
		dir := filepath.Join(c.Output, fmt.Sprintf("fold-%d", i))
		if err := columns.CreateDir(dir); err != nil {
			return err
		}
		klog.V(1).Infof("Fold %d: sentences [%d, %d)", i, fold.Sentences[0], fold.Sentences[1])
		if err := writeSubsets(dir, fold.Selection); err != nil {
			return errors.WithMessagef(err, "fold %d", i)
		}
	}
	klog.Infof("Wrote subsets to %s", c.Output)
	return nil
}

// sentenceData splits f into one hardeval.Data per sentence.
func sentenceData(f *columns.File, col int) ([]hardeval.Data, error) {
	tokens, err := f.SentenceColumns(columns.TokenColumn)
	if err != nil {
		return nil, err
	}
	labels, err := f.SentenceColumns(col)
	if err != nil {
		return nil, err
	}
	sentences := make([]hardeval.Data, len(tokens))
	for i := range tokens {
		sentences[i] = hardeval.Data{Tokens: tokens[i], Labels: labels[i]}
	}
	return sentences, nil
}

func init() {
	addCommand("hardeval", "Evaluate predictions on hard subsets of test tokens",
		"Computes the token error rate on unseen test words and on words whose test label differs "+
			"from their usual training label, and summarizes both as the average of their error rates.",
		&hardevalCommand{})
	addCommand("subsets", "Compute the hard subsets of test tokens",
		"Writes the tokens of every subset, and the training label frequencies of seen test words.",
		&subsetsCommand{})
}
