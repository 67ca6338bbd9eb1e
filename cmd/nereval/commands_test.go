package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gbcolborne/ner-eval/columns"
	"github.com/gbcolborne/ner-eval/hardeval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trainData = `Paris B-LOC
is O
in O
France B-LOC

Acme B-ORG
hired O
John B-PER
Smith I-PER

Washington B-PER
visited O
Paris B-LOC

in O
Washington B-LOC
`

const predData = `Berlin B-LOC B-LOC
is O O
in O O
Paris B-ORG B-LOC

Washington B-LOC B-PER
hired O O
Jane B-PER B-PER
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, args ...string) {
	t.Helper()
	_, err := parser.ParseArgs(args)
	require.NoError(t, err)
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "train.txt", trainData)
	out := filepath.Join(dir, "train.bilou")
	run(t, "convert", "--from", "BIO-2", "--to", "BILOU", in, out)

	f, err := columns.ReadFile(out)
	require.NoError(t, err)
	labels, err := f.Column(-1)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"U-LOC", "O", "O", "U-LOC",
		"U-ORG", "O", "B-PER", "L-PER",
		"U-PER", "O", "U-LOC",
		"O", "U-LOC",
	}, labels)

	_, err = parser.ParseArgs([]string{"convert", "--from", "BIO-2", "--to", "BILOU", in, in})
	require.Error(t, err)
}

func TestMapLabelsCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", "Obama B-person\nvisited O\nthe B-FOO\nUN B-ORGANIZATION\n")
	out := filepath.Join(dir, "out.txt")
	run(t, "map-labels", in, out)

	f, err := columns.ReadFile(out)
	require.NoError(t, err)
	labels, err := f.Column(-1)
	require.NoError(t, err)
	assert.Equal(t, []string{"B-PER", "O", "O", "B-ORG"}, labels)
}

func TestStripTypesCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "pred.txt", predData)
	out := filepath.Join(dir, "out.txt")
	run(t, "strip-types", in, out)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "Berlin B B\nis O O\n"))
}

func TestBaselineCommand(t *testing.T) {
	dir := t.TempDir()
	train := writeFile(t, dir, "train.txt", trainData)
	test := writeFile(t, dir, "test.txt", "John O\nSmith O\nvisited O\nParis O\n")
	out := filepath.Join(dir, "out.txt")
	run(t, "baseline", train, test, out)

	f, err := columns.ReadFile(out)
	require.NoError(t, err)
	pred, err := f.Column(-1)
	require.NoError(t, err)
	assert.Equal(t, []string{"B-PER", "I-PER", "O", "B-LOC"}, pred)
}

func TestHardevalCommand(t *testing.T) {
	dir := t.TempDir()
	train := writeFile(t, dir, "train.txt", trainData)
	pred := writeFile(t, dir, "pred.txt", predData)
	out := filepath.Join(dir, "eval")
	run(t, "hardeval", "-w", out, "--parquet", train, pred)

	for _, name := range []string{"results.tsv", "eval-unseen-all.tsv", "vocab-diff-all.tsv", "class_freqs_for_seen_words_IO.tsv"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	rows, err := columns.ReadParquet[hardeval.TokenRow](filepath.Join(out, "eval-unseen-all.parquet"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Berlin", rows[0].Token)
	assert.True(t, rows[0].Correct)
	assert.Equal(t, "Jane", rows[1].Token)

	results, err := columns.ReadParquet[hardeval.Result](filepath.Join(out, "results.parquet"))
	require.NoError(t, err)
	assert.Len(t, results, len(hardeval.SubsetNames))

	// The output directory must not exist.
	_, err = parser.ParseArgs([]string{"hardeval", "-w", out, train, pred})
	require.Error(t, err)
}

func TestSubsetsCommandCrossValidation(t *testing.T) {
	dir := t.TempDir()
	train := writeFile(t, dir, "train.txt", trainData)
	out := filepath.Join(dir, "subsets")
	run(t, "subsets", "--train", train, "--out", out, "-k", "2")

	for _, fold := range []string{"fold-0", "fold-1"} {
		content, err := os.ReadFile(filepath.Join(out, fold, "tokens_all.tsv"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(content), "Line\tToken\tLabel\n"))
	}
}
