package columns

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gbcolborne/ner-eval/tags"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// columnsBuilder writes column format text, one sentence at a time.
type columnsBuilder struct {
	buf bytes.Buffer
}

func (b *columnsBuilder) docStart() *columnsBuilder {
	b.buf.WriteString(DocStart + " O\n\n")
	return b
}

// sentence adds one line per token, with fields separated by spaces, and a blank line.
func (b *columnsBuilder) sentence(lines ...string) *columnsBuilder {
	for _, line := range lines {
		b.buf.WriteString(line + "\n")
	}
	b.buf.WriteString("\n")
	return b
}

func (b *columnsBuilder) blank() *columnsBuilder {
	b.buf.WriteString("\n")
	return b
}

func (b *columnsBuilder) String() string { return b.buf.String() }

func (b *columnsBuilder) writeTo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, b.buf.Bytes(), 0644))
	return path
}

func sampleData() *columnsBuilder {
	b := &columnsBuilder{}
	b.docStart()
	b.sentence("John NNP B-PER", "Smith NNP I-PER", "visited VBD O", "Paris NNP B-LOC")
	b.blank()
	b.sentence("He PRP O", "works VBZ O", "at IN O", "Acme NNP B-ORG", "Corp NNP I-ORG")
	return b
}

func TestRead(t *testing.T) {
	f, err := Read(strings.NewReader(sampleData().String()))
	require.NoError(t, err)
	require.Len(t, f.Sentences, 3)
	assert.Equal(t, 3, f.CountSentences(false))
	assert.Equal(t, 2, f.CountSentences(true))
	assert.Equal(t, 10, f.NumTokens())
	assert.True(t, f.Sentences[0].IsDocStart())

	// Lines are 0-based and count blank lines.
	assert.Equal(t, 2, f.Sentences[1][0].Line)
	assert.Equal(t, 8, f.Sentences[2][0].Line)

	labels, err := f.Column(-1)
	require.NoError(t, err)
	assert.Equal(t, []string{"O", "B-PER", "I-PER", "O", "B-LOC", "O", "O", "O", "B-ORG", "I-ORG"}, labels)

	pos, err := f.Sentences[1].Column(-2)
	require.NoError(t, err)
	assert.Equal(t, []string{"NNP", "NNP", "VBD", "NNP"}, pos)

	_, err = f.Column(2)
	require.Error(t, err, "the DOCSTART line has only 2 columns")
	assert.Contains(t, err.Error(), "line 1")

	perSentence, err := f.SentenceColumns(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"He", "works", "at", "Acme", "Corp"}, perSentence[2])
}

func TestReadFileMatchesRead(t *testing.T) {
	b := sampleData()
	path := b.writeTo(t)
	fromFile, err := ReadFile(path)
	require.NoError(t, err)
	fromReader, err := Read(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Equal(t, fromReader, fromFile)

	// No trailing newline, Windows line ends.
	f := Parse([]byte("a O\r\nb B-PER"))
	require.Len(t, f.Sentences, 1)
	assert.Equal(t, []string{"b", "B-PER"}, f.Sentences[0][1].Fields)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	f, err = ReadFile(empty)
	require.NoError(t, err)
	assert.Empty(t, f.Sentences)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestMentions(t *testing.T) {
	f, err := Read(strings.NewReader(sampleData().String()))
	require.NoError(t, err)

	mentions, err := f.Mentions(tags.Strict(tags.BIO2), -1, false)
	require.NoError(t, err)
	require.Len(t, mentions, 3)

	assert.Equal(t, "John Smith", mentions[0].Text())
	assert.Equal(t, [2]int{1, 2}, [2]int{mentions[0].Start, mentions[0].End})
	assert.Equal(t, 2, mentions[0].Line)
	assert.Equal(t, "Paris", mentions[1].Text())
	assert.Equal(t, 5, mentions[1].Line)
	assert.Equal(t, "Acme Corp", mentions[2].Text())
	assert.Equal(t, [2]int{8, 9}, [2]int{mentions[2].Start, mentions[2].End})
	assert.Equal(t, 11, mentions[2].Line)
	assert.Equal(t, "ORG", mentions[2].DeclaredType())
}

func TestMentionsBoundaries(t *testing.T) {
	b := &columnsBuilder{}
	b.sentence("New B-LOC", "York I-LOC")
	b.sentence("City I-LOC", "is O")
	f := Parse([]byte(b.String()))

	// An I-LOC starting a sentence is a prefix error, reported at its file line.
	_, err := f.Mentions(tags.Strict(tags.BIO2), -1, false)
	var seqErr *tags.LabelSequenceError
	require.True(t, errors.As(err, &seqErr))
	assert.Equal(t, tags.PrefixError, seqErr.Kind)
	assert.Equal(t, 3, seqErr.Line)
	assert.Equal(t, 2, seqErr.Index)
	assert.Contains(t, err.Error(), "line 4")

	mentions, err := f.Mentions(tags.Strict(tags.BIO2), -1, true)
	require.NoError(t, err)
	require.Len(t, mentions, 1)
	assert.Equal(t, "New York City", mentions[0].Text())

	mentions, err = f.Mentions(tags.Relaxed(tags.BIO2), -1, false)
	require.NoError(t, err)
	require.Len(t, mentions, 2)
	assert.Equal(t, "City", mentions[1].Text())
	assert.Equal(t, 3, mentions[1].Line)
}

func TestMentionsBILOUEndOfSequence(t *testing.T) {
	f := Parse([]byte("New B-LOC\nYork I-LOC\n\nNext O\n"))
	_, err := f.Mentions(tags.Strict(tags.BILOU), -1, false)
	var seqErr *tags.LabelSequenceError
	require.True(t, errors.As(err, &seqErr))
	assert.Equal(t, tags.BILOUError, seqErr.Kind)
	assert.Equal(t, 1, seqErr.Line)
}

func TestRelabelAndWrite(t *testing.T) {
	f, err := Read(strings.NewReader(sampleData().String()))
	require.NoError(t, err)

	bilou, err := f.Relabel(-1, func(labels []string) ([]string, error) {
		return tags.Convert(labels, tags.BIO2, tags.BILOU)
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, bilou))
	want := &columnsBuilder{}
	want.docStart()
	want.sentence("John NNP B-PER", "Smith NNP L-PER", "visited VBD O", "Paris NNP U-LOC")
	want.sentence("He PRP O", "works VBZ O", "at IN O", "Acme NNP B-ORG", "Corp NNP L-ORG")
	assert.Equal(t, want.String(), buf.String())

	// The source file is unchanged.
	labels, err := f.Sentences[1].Column(-1)
	require.NoError(t, err)
	assert.Equal(t, "I-PER", labels[1])

	_, err = f.Relabel(-1, func(labels []string) ([]string, error) { return labels[:1], nil })
	require.Error(t, err)

	_, err = f.Relabel(-1, func(labels []string) ([]string, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestAppendColumn(t *testing.T) {
	f, err := Read(strings.NewReader(sampleData().String()))
	require.NoError(t, err)

	withLen, err := f.AppendColumn(func(s Sentence) ([]string, error) {
		tokens, err := s.Column(TokenColumn)
		if err != nil {
			return nil, err
		}
		values := make([]string, len(tokens))
		for i, token := range tokens {
			values[i] = strconv.Itoa(len(token))
		}
		return values, nil
	})
	require.NoError(t, err)
	require.Len(t, withLen.Sentences, len(f.Sentences))
	assert.Equal(t, []string{"Paris", "NNP", "B-LOC", "5"}, withLen.Sentences[1][3].Fields)
	assert.Equal(t, f.Sentences[1][3].Line, withLen.Sentences[1][3].Line)
	// The source file is unchanged.
	assert.Len(t, f.Sentences[1][3].Fields, 3)

	_, err = f.AppendColumn(func(s Sentence) ([]string, error) { return nil, nil })
	require.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "out.tsv")
	require.NoError(t, WriteTSV(path, []string{"Word", "I", "O"}, [][]string{{"Paris", "6", "0"}}))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Word\tI\tO\nParis\t6\t0\n", string(content))

	// A failed write leaves the previous content and no temporary files.
	err = WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("failed")
	})
	require.Error(t, err)
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Word\tI\tO\nParis\t6\t0\n", string(content))
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), e.Name())
	}
}

func TestWriteFileAtomicConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			content := strings.Repeat(string(rune('a'+i)), 1000)
			assert.NoError(t, WriteFileAtomic(path, func(w io.Writer) error {
				_, err := io.WriteString(w, content)
				return err
			}))
		}()
	}
	wg.Wait()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, content, 1000)
	assert.Equal(t, strings.Repeat(string(content[:1]), 1000), string(content))

	// The lock file outlives the writers, so later writers lock the same file.
	assert.FileExists(t, path+".lock")
	require.NoError(t, WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "done")
		return err
	}))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "done", string(content))
	assert.FileExists(t, path+".lock")
}

func TestCreateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	require.NoError(t, CreateDir(dir))
	err := CreateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestParquetRoundTrip(t *testing.T) {
	f, err := Read(strings.NewReader(sampleData().String()))
	require.NoError(t, err)
	rows, err := f.TokenRows(-1)
	require.NoError(t, err)
	require.Len(t, rows, 10)
	assert.Equal(t, TokenRow{
		Sentence: 1, Position: 3, Line: 5, Token: "Paris", Label: "B-LOC",
		Fields: []string{"Paris", "NNP", "B-LOC"},
	}, rows[4])

	path := filepath.Join(t.TempDir(), "tokens.parquet")
	require.NoError(t, WriteParquet(path, rows))
	got, err := ReadParquet[TokenRow](path)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
	assert.Equal(t, f, FromTokenRows(got))
}
