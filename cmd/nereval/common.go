package main

import (
	"path/filepath"

	"github.com/gbcolborne/ner-eval/columns"
	"github.com/gbcolborne/ner-eval/hardeval"
	"github.com/gbcolborne/ner-eval/tags"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	labelCol = -1
	goldCol  = -2
	predCol  = -1
)

// EncodingOption is the value of the --encoding option of commands reading BIO files.
type EncodingOption struct {
	Encoding string `short:"e" long:"encoding" choice:"BIO-1" choice:"BIO-2" default:"BIO-2" description:"Label encoding"`
}

func (e EncodingOption) parse() (tags.Encoding, error) {
	return tags.ParseEncoding(e.Encoding)
}

func readColumns(path string) (*columns.File, error) {
	klog.Infof("Reading %s...", path)
	f, err := columns.ReadFile(path)
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("%s: %d sentences, %d tokens", path, f.CountSentences(false), f.NumTokens())
	return f, nil
}

// segmenter returns the strict segmenter of encoding, or the relaxed one with --relax.
func segmenter(encoding tags.Encoding) tags.Segmenter {
	if options.Relax {
		return tags.Relaxed(encoding)
	}
	return tags.Strict(encoding)
}

// readMentions reads path and extracts the mentions of column col.
func readMentions(path string, seg tags.Segmenter, col int, ignoreBoundaries bool) (*columns.File, []tags.Mention, error) {
	f, err := readColumns(path)
	if err != nil {
		return nil, nil, err
	}
	mentions, err := f.Mentions(seg, col, ignoreBoundaries)
	if err != nil {
		var seqErr *tags.LabelSequenceError
		if errors.As(err, &seqErr) && !seg.AllowPrefixErrors {
			err = errors.WithMessage(err, "fix errors in data or use --relax")
		}
		return nil, nil, errors.WithMessagef(err, "extracting mentions of %s", path)
	}
	klog.V(1).Infof("%s: %d mentions", path, len(mentions))
	return f, mentions, nil
}

// readData reads path as HardEval data: tokens in the first column, labels in column col.
func readData(path string, col int) (hardeval.Data, error) {
	f, err := readColumns(path)
	if err != nil {
		return hardeval.Data{}, err
	}
	return fileData(f, col)
}

func fileData(f *columns.File, col int) (hardeval.Data, error) {
	tokens, err := f.Column(columns.TokenColumn)
	if err != nil {
		return hardeval.Data{}, err
	}
	labels, err := f.Column(col)
	if err != nil {
		return hardeval.Data{}, err
	}
	return hardeval.Data{Tokens: tokens, Labels: labels}, nil
}

// checkDistinct refuses to overwrite the input file.
func checkDistinct(input, output string) error {
	in, err := filepath.Abs(input)
	if err != nil {
		return errors.Wrapf(err, "resolving %q", input)
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return errors.Wrapf(err, "resolving %q", output)
	}
	if in == out {
		return errors.Errorf("output %q must be different from input", output)
	}
	return nil
}
