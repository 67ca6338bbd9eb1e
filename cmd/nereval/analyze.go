package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gbcolborne/ner-eval/analysis"
	"github.com/gbcolborne/ner-eval/report"
	"github.com/gbcolborne/ner-eval/tags"
)

type pathArg struct {
	Path string `positional-arg-name:"PATH" description:"Dataset in column format, labels in the last column"`
}

type analyzeCommand struct {
	IgnoreBoundaries bool    `short:"i" long:"ignore-boundaries" description:"Ignore sentence boundaries"`
	Top              int     `short:"n" long:"top" default:"20" description:"Number of entries shown per list"`
	Args             pathArg `positional-args:"yes" required:"yes"`
}

func (c *analyzeCommand) Execute([]string) error {
	_, mentions, err := readMentions(c.Args.Path, segmenter(tags.BIO2), labelCol, c.IgnoreBoundaries)
	if err != nil {
		return err
	}
	return report.WriteAnalysis(os.Stdout, analysis.Analyze(mentions, c.Top), c.Top)
}

type statsCommand struct {
	EncodingOption
	Args pathArg `positional-args:"yes" required:"yes"`
}

func (c *statsCommand) Execute([]string) error {
	encoding, err := c.parse()
	if err != nil {
		return err
	}
	f, mentions, err := readMentions(c.Args.Path, segmenter(encoding), labelCol, false)
	if err != nil {
		return err
	}
	stats := analysis.ComputeStats(f, mentions)
	fmt.Printf("Nb sentences: %d\n", stats.Sentences)
	fmt.Printf("Nb mentions: %d\n", stats.Mentions)
	fmt.Printf("Nb entity types: %d\n", stats.EntityTypes)
	return nil
}

type labelsCommand struct {
	Args pathArg `positional-args:"yes" required:"yes"`
}

func (c *labelsCommand) Execute([]string) error {
	f, err := readColumns(c.Args.Path)
	if err != nil {
		return err
	}
	labels, err := analysis.Labels(f, labelCol)
	if err != nil {
		return err
	}
	fmt.Printf("Labels (%d): %s\n", len(labels), strings.Join(labels, ", "))
	return nil
}

type entityTypesCommand struct {
	Args pathArg `positional-args:"yes" required:"yes"`
}

func (c *entityTypesCommand) Execute([]string) error {
	f, err := readColumns(c.Args.Path)
	if err != nil {
		return err
	}
	etypes, err := analysis.EntityTypes(f, labelCol)
	if err != nil {
		return err
	}
	fmt.Printf("Entity types (%d): %s\n", len(etypes), strings.Join(etypes, ", "))
	return nil
}

type unseenCommand struct {
	Top  int `short:"n" long:"top" default:"20" description:"Number of entries shown per table"`
	Args struct {
		Train string `positional-arg-name:"TRAIN" description:"Training set"`
		Test  string `positional-arg-name:"TEST" description:"Test set"`
	} `positional-args:"yes" required:"yes"`
}

func (c *unseenCommand) Execute([]string) error {
	seg := segmenter(tags.BIO2)
	_, train, err := readMentions(c.Args.Train, seg, labelCol, false)
	if err != nil {
		return err
	}
	_, test, err := readMentions(c.Args.Test, seg, labelCol, false)
	if err != nil {
		return err
	}
	return report.WriteOverlap(os.Stdout, analysis.CompareMentions(train, test), c.Top)
}

func init() {
	addCommand("analyze", "Analyze the mentions of a BIO-2 dataset",
		"Counts mentions and entity types, lists the most frequent mentions of each type and the ambiguous mentions.",
		&analyzeCommand{})
	addCommand("stats", "Print the number of sentences, mentions and entity types",
		"Sentences exclude -DOCSTART- lines.", &statsCommand{})
	addCommand("labels", "Print the labels of a dataset", "", &labelsCommand{})
	addCommand("etypes", "Print the entity types of a dataset", "", &entityTypesCommand{})
	addCommand("unseen", "Count test mentions unseen in training",
		"Lists seen and unseen (mention, type) tuples and surface mentions of the test set.",
		&unseenCommand{})
}
