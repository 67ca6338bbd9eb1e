package main

import (
	"maps"
	"slices"

	"github.com/gbcolborne/ner-eval/columns"
	"github.com/gbcolborne/ner-eval/tags"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

type inOutArgs struct {
	Input  string `positional-arg-name:"INPUT" description:"Input dataset in column format"`
	Output string `positional-arg-name:"OUTPUT" description:"Output path"`
}

// relabelFile rewrites column col of the input through fn and writes the result.
func relabelFile(args inOutArgs, col int, fn func([]string) ([]string, error)) error {
	if err := checkDistinct(args.Input, args.Output); err != nil {
		return err
	}
	f, err := readColumns(args.Input)
	if err != nil {
		return err
	}
	out, err := f.Relabel(col, fn)
	if err != nil {
		return errors.WithMessagef(err, "relabeling %s", args.Input)
	}
	if err := columns.WriteFile(args.Output, out); err != nil {
		return err
	}
	klog.Infof("Wrote %s", args.Output)
	return nil
}

type convertCommand struct {
	From string    `long:"from" required:"yes" choice:"IO" choice:"BIO-1" choice:"BIO-2" choice:"BILOU" description:"Encoding of the input labels"`
	To   string    `long:"to" required:"yes" choice:"IO" choice:"BIO-1" choice:"BIO-2" choice:"BILOU" description:"Encoding of the output labels"`
	Args inOutArgs `positional-args:"yes" required:"yes"`
}

func (c *convertCommand) Execute([]string) error {
	from, err := tags.ParseEncoding(c.From)
	if err != nil {
		return err
	}
	to, err := tags.ParseEncoding(c.To)
	if err != nil {
		return err
	}
	klog.V(1).Infof("Converting %s to %s", from, to)
	return relabelFile(c.Args, labelCol, func(labels []string) ([]string, error) {
		return tags.Convert(labels, from, to)
	})
}

type mapLabelsCommand struct {
	Config string    `short:"c" long:"config" description:"YAML label map, defaults to the CoNLL-2003 map"`
	Args   inOutArgs `positional-args:"yes" required:"yes"`
}

func (c *mapLabelsCommand) Execute([]string) error {
	typeMap, err := LoadLabelMap(c.Config)
	if err != nil {
		return err
	}
	discarded := make(map[string]bool)
	err = relabelFile(c.Args, labelCol, func(labels []string) ([]string, error) {
		mapped, unknown := tags.MapTypes(labels, typeMap)
		for _, etype := range unknown {
			discarded[etype] = true
		}
		return mapped, nil
	})
	if err != nil {
		return err
	}
	if len(discarded) > 0 {
		klog.Warningf("Labels discarded because not in map: %v", slices.Sorted(maps.Keys(discarded)))
	}
	return nil
}

type stripTypesCommand struct {
	Args inOutArgs `positional-args:"yes" required:"yes"`
}

func (c *stripTypesCommand) Execute([]string) error {
	if err := checkDistinct(c.Args.Input, c.Args.Output); err != nil {
		return err
	}
	f, err := readColumns(c.Args.Input)
	if err != nil {
		return err
	}
	strip := func(labels []string) ([]string, error) {
		return tags.StripTypes(labels), nil
	}
	for _, col := range []int{goldCol, predCol} {
		if f, err = f.Relabel(col, strip); err != nil {
			return errors.WithMessagef(err, "relabeling %s", c.Args.Input)
		}
	}
	if err := columns.WriteFile(c.Args.Output, f); err != nil {
		return err
	}
	klog.Infof("Wrote %s", c.Args.Output)
	return nil
}

type exportCommand struct {
	Args inOutArgs `positional-args:"yes" required:"yes"`
}

func (c *exportCommand) Execute([]string) error {
	f, err := readColumns(c.Args.Input)
	if err != nil {
		return err
	}
	rows, err := f.TokenRows(labelCol)
	if err != nil {
		return err
	}
	if err := columns.WriteParquet(c.Args.Output, rows); err != nil {
		return err
	}
	klog.Infof("Wrote %d tokens to %s", len(rows), c.Args.Output)
	return nil
}

func init() {
	addCommand("convert", "Convert the label encoding of a dataset",
		"Converts the labels in the last column between IO, BIO-1, BIO-2 and BILOU.", &convertCommand{})
	addCommand("map-labels", "Map the entity types of a dataset",
		"Maps entity types through a YAML label map. Labels whose type is not in the map become O.",
		&mapLabelsCommand{})
	addCommand("strip-types", "Remove entity types from gold and predicted labels",
		"Keeps only the prefixes of the last two columns, to evaluate mention detection only.",
		&stripTypesCommand{})
	addCommand("export", "Export a dataset to a parquet token table", "", &exportCommand{})
}
