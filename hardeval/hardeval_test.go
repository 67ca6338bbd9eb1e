package hardeval

import (
	"context"
	"strings"
	"testing"

	"github.com/gbcolborne/ner-eval/tags"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dataBuilder accumulates tokens and labels.
type dataBuilder struct {
	d Data
}

func (b *dataBuilder) add(token, label string, times int) *dataBuilder {
	for range times {
		b.d.Tokens = append(b.d.Tokens, token)
		b.d.Labels = append(b.d.Labels, label)
	}
	return b
}

func trainingData() Data {
	b := &dataBuilder{}
	b.add("Paris", "B-LOC", 5).add("Paris", "B-ORG", 1)
	b.add("Washington", "B-PER", 1).add("Washington", "O", 2)
	b.add("in", "O", 3)
	return b.d
}

func testData() Data {
	b := &dataBuilder{}
	b.add("Paris", "B-ORG", 1)
	b.add("in", "O", 1)
	b.add("Washington", "B-LOC", 1)
	b.add("Berlin", "B-LOC", 1)
	b.add("the", "O", 1)
	b.add("in", "B-MISC", 1)
	return b.d
}

func TestWordLabelCount(t *testing.T) {
	counts := NewWordLabelCount([]string{"Paris", "Paris", "in"}, []string{"LOC", "ORG", "O"})
	counts.Add("Paris", "LOC")
	assert.Equal(t, 2, counts.Count("Paris", "LOC"))
	assert.Equal(t, 2, counts.Max("Paris"))
	assert.Zero(t, counts.Max("Berlin"))
	assert.True(t, counts.Seen("in"))
	assert.False(t, counts.Seen("Berlin"))
	assert.Equal(t, []string{"Paris", "in"}, counts.Words())
	assert.Equal(t, []string{"LOC", "O", "ORG"}, counts.Labels())
}

func TestDiffIndicesStrictVersusLax(t *testing.T) {
	counts := WordLabelCount{"Paris": {"LOC": 5, "ORG": 1}}
	tokens := []string{"Paris", "Paris", "Paris", "Berlin"}
	labels := []string{"ORG", "LOC", "PER", "ORG"}

	// ORG was seen, but less often than LOC.
	assert.Equal(t, []int{0, 2}, DiffIndices(counts, tokens, labels, false))
	// Only never seen labels are flagged in strict mode.
	assert.Equal(t, []int{2}, DiffIndices(counts, tokens, labels, true))

	// Ties at the maximum are not different.
	tied := WordLabelCount{"Paris": {"LOC": 3, "ORG": 3}}
	assert.Empty(t, DiffIndices(tied, []string{"Paris", "Paris"}, []string{"LOC", "ORG"}, false))
}

func subsetsOf(t *testing.T, sel *Selection) map[string][]int {
	t.Helper()
	got := make(map[string][]int)
	for _, s := range sel.Subsets {
		got[s.Name] = s.Indices
	}
	return got
}

func TestSelectSubsets(t *testing.T) {
	testCases := []struct {
		name   string
		strict bool
		want   map[string][]int
	}{
		{
			name: "lax",
			want: map[string][]int{
				All:          {0, 1, 2, 3, 4, 5},
				UnseenI:      {3},
				UnseenO:      {4},
				UnseenAll:    {3, 4},
				DiffI:        {2, 5},
				DiffO:        nil,
				DiffEtype:    {0},
				DiffAll:      {0, 2, 5},
				UnseenOrDiff: {0, 2, 3, 4, 5},
			},
		},
		{
			name:   "strict",
			strict: true,
			want: map[string][]int{
				All:          {0, 1, 2, 3, 4, 5},
				UnseenI:      {3},
				UnseenO:      {4},
				UnseenAll:    {3, 4},
				DiffI:        {5},
				DiffO:        nil,
				DiffEtype:    nil,
				DiffAll:      {5},
				UnseenOrDiff: {3, 4, 5},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sel, err := SelectSubsets(trainingData(), testData(), Options{Strict: tc.strict})
			require.NoError(t, err)
			got := subsetsOf(t, sel)
			for name, want := range tc.want {
				if len(want) == 0 {
					assert.Empty(t, got[name], name)
					continue
				}
				assert.Equal(t, want, got[name], name)
			}
			names := make([]string, len(sel.Subsets))
			for i, s := range sel.Subsets {
				names[i] = s.Name
			}
			assert.Equal(t, SubsetNames, names)
		})
	}
}

func TestDiffEtypeRequiresUsuallyInside(t *testing.T) {
	// "Washington" is usually O in training, so its unexpected LOC type is not flagged even
	// though LOC was never seen with it.
	sel, err := SelectSubsets(trainingData(), testData(), Options{Strict: true})
	require.NoError(t, err)
	diffEtype, found := sel.Subset(DiffEtype)
	require.True(t, found)
	assert.NotContains(t, diffEtype, 2)
}

func TestUnseenAndDiffAreDisjoint(t *testing.T) {
	sel, err := SelectSubsets(trainingData(), testData(), Options{})
	require.NoError(t, err)
	unseen, _ := sel.Subset(UnseenAll)
	diff, _ := sel.Subset(DiffAll)
	for _, i := range unseen {
		assert.NotContains(t, diff, i)
	}
}

func TestSelectionTables(t *testing.T) {
	sel, err := SelectSubsets(trainingData(), testData(), Options{})
	require.NoError(t, err)

	header, rows := sel.IOTable()
	assert.Equal(t, []string{"Word", "I", "O"}, header)
	assert.Equal(t, [][]string{
		{"Paris", "6", "0"},
		{"Washington", "1", "2"},
		{"in", "0", "3"},
	}, rows)

	header, rows = sel.EtypeTable()
	assert.Equal(t, []string{"Word", "LOC", "ORG", "PER"}, header)
	assert.Equal(t, [][]string{
		{"Paris", "5", "1", "0"},
		{"Washington", "0", "0", "1"},
	}, rows)

	header, rows, err = sel.TokenTable(UnseenAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"Line", "Token", "Label"}, header)
	assert.Equal(t, [][]string{{"3", "Berlin", "B-LOC"}, {"4", "the", "O"}}, rows)

	_, _, err = sel.TokenTable("easy")
	require.Error(t, err)
}

func TestSelectSubsetsValidates(t *testing.T) {
	bad := Data{Tokens: []string{"a", "b"}, Labels: []string{"O", "I-PER"}}
	_, err := SelectSubsets(trainingData(), bad, Options{})
	var seqErr *tags.LabelSequenceError
	require.True(t, errors.As(err, &seqErr))
	assert.Equal(t, tags.PrefixError, seqErr.Kind)
	assert.Contains(t, err.Error(), "test labels")

	_, err = SelectSubsets(Data{}, testData(), Options{})
	require.Error(t, err)

	_, err = SelectSubsets(trainingData(), Data{Tokens: []string{"a"}}, Options{})
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	test := Data{Tokens: []string{"PARIS"}, Labels: []string{"B-LOC"}}
	sel, err := SelectSubsets(trainingData(), test, Options{Normalize: strings.ToLower})
	require.NoError(t, err)
	unseen, _ := sel.Subset(UnseenAll)
	assert.Empty(t, unseen, "normalization applies to both sides")

	sel, err = SelectSubsets(trainingData(), test, Options{})
	require.NoError(t, err)
	unseen, _ = sel.Subset(UnseenAll)
	assert.Equal(t, []int{0}, unseen)
}

func TestEvaluate(t *testing.T) {
	sel, err := SelectSubsets(trainingData(), testData(), Options{})
	require.NoError(t, err)
	eval, err := Evaluate(sel, []string{"B-LOC", "O", "B-LOC", "O", "O", "O"})
	require.NoError(t, err)
	assert.Equal(t, []string{"U-LOC", "O", "U-LOC", "O", "O", "O"}, eval.Pred)

	all, found := eval.Result(All)
	require.True(t, found)
	assert.Equal(t, Result{Name: All, TokenCount: 6, WordCount: 5, ErrorCount: 3, ErrorRate: 0.5}, all)

	unseen, _ := eval.Result(UnseenAll)
	assert.Equal(t, 1, unseen.ErrorCount)
	diff, _ := eval.Result(DiffAll)
	assert.Equal(t, 2, diff.ErrorCount)
	assert.InDelta(t, (0.5+2.0/3.0)/2, eval.Score(), 1e-9)

	// Empty subsets evaluate to zero.
	diffO, _ := eval.Result(DiffO)
	assert.Equal(t, Result{Name: DiffO}, diffO)

	header, rows, err := eval.TokensTable(DiffAll)
	require.NoError(t, err)
	assert.Equal(t, "Correct?", header[4])
	assert.Equal(t, []string{"0", "Paris", "U-ORG", "U-LOC", "WRONG"}, rows[0])
	assert.Equal(t, []string{"2", "Washington", "U-LOC", "U-LOC", "CORRECT"}, rows[1])

	_, rows, err = eval.VocabTable(All)
	require.NoError(t, err)
	assert.Equal(t, []string{"in", "2"}, rows[0])

	_, rows = eval.ResultsTable()
	require.Len(t, rows, len(SubsetNames))
	assert.Equal(t, []string{"all", "6", "5", "3", "0.5000"}, rows[0])

	_, err = Evaluate(sel, []string{"O"})
	require.Error(t, err)
}

func TestEvaluateRelaxedPredictions(t *testing.T) {
	sel, err := SelectSubsets(trainingData(), testData(), Options{})
	require.NoError(t, err)
	eval, err := Evaluate(sel, []string{"I-ORG", "O", "B-LOC", "I-ORG", "O", "U-PER"})
	require.NoError(t, err)
	// The orphan I-ORG and the foreign U-PER are predicted as "O".
	assert.Equal(t, []string{"O", "O", "B-LOC", "L-LOC", "O", "O"}, eval.Pred)
	all, found := eval.Result(All)
	require.True(t, found)
	// Paris and in are missed, Washington and Berlin get one two-token mention.
	assert.Equal(t, 4, all.ErrorCount)
}

func TestCrossValidate(t *testing.T) {
	sentences := []Data{
		{Tokens: []string{"Paris", "is", "big"}, Labels: []string{"B-LOC", "O", "O"}},
		{Tokens: []string{"John", "Smith"}, Labels: []string{"B-PER", "I-PER"}},
		{Tokens: []string{"Paris", "Hilton"}, Labels: []string{"B-PER", "I-PER"}},
		{Tokens: []string{"is", "here"}, Labels: []string{"O", "O"}},
		{Tokens: []string{"Smith"}, Labels: []string{"B-PER"}},
	}
	folds, err := CrossValidate(context.Background(), sentences, 2, Options{})
	require.NoError(t, err)
	require.Len(t, folds, 2)
	assert.Equal(t, [2]int{0, 2}, folds[0].Sentences)
	assert.Equal(t, [2]int{2, 5}, folds[1].Sentences)

	all, _ := folds[0].Selection.Subset(All)
	assert.Len(t, all, 5)
	unseen, _ := folds[0].Selection.Subset(UnseenAll)
	// "big" and "John" only occur in the first fold.
	assert.Equal(t, []int{2, 3}, unseen)

	all, _ = folds[1].Selection.Subset(All)
	assert.Len(t, all, 5)

	_, err = CrossValidate(context.Background(), sentences, 1, Options{})
	require.Error(t, err)
	_, err = CrossValidate(context.Background(), sentences, 6, Options{})
	require.Error(t, err)

	sentences[4].Labels = []string{"I-PER"}
	_, err = CrossValidate(context.Background(), sentences, 2, Options{})
	require.Error(t, err)
}
