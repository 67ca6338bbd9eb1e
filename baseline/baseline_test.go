package baseline

import (
	"strings"
	"testing"

	"github.com/gbcolborne/ner-eval/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainMentions(t *testing.T) []tags.Mention {
	t.Helper()
	tokens := strings.Fields("Paris Paris Paris New York New York City Washington Washington")
	labels := []string{"B-LOC", "B-LOC", "B-ORG", "B-LOC", "I-LOC", "B-ORG", "I-ORG", "I-ORG", "B-PER", "B-LOC"}
	mentions, err := tags.Strict(tags.BIO2).SegmentTokens(tokens, labels)
	require.NoError(t, err)
	return mentions
}

func TestTrain(t *testing.T) {
	d := Train(trainMentions(t), false)
	assert.Equal(t, 4, d.Len())
	assert.Equal(t, 3, d.MaxLen())
	assert.Zero(t, d.Discarded)

	etype, found := d.Lookup("Paris")
	require.True(t, found)
	assert.Equal(t, "LOC", etype)

	// Tie between PER and LOC: the type seen first last wins.
	etype, _ = d.Lookup("Washington")
	assert.Equal(t, "LOC", etype)

	_, found = d.Lookup("Berlin")
	assert.False(t, found)

	strict := Train(trainMentions(t), true)
	assert.Equal(t, 2, strict.Discarded)
	assert.Equal(t, 2, strict.Len())
	_, found = strict.Lookup("Paris")
	assert.False(t, found)
}

func TestPredict(t *testing.T) {
	d := Train(trainMentions(t), false)
	testCases := []struct {
		sentence string
		want     []string
	}{
		{"I love New York City", []string{"O", "O", "B-ORG", "I-ORG", "I-ORG"}},
		{"New York and Paris", []string{"B-LOC", "I-LOC", "O", "B-LOC"}},
		{"Paris Paris", []string{"B-LOC", "B-LOC"}},
		{"Paris", []string{"B-LOC"}},
		{"nothing here", []string{"O", "O"}},
		{"", []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.sentence, func(t *testing.T) {
			got := d.Predict(strings.Fields(tc.sentence))
			assert.Equal(t, tc.want, got)
			require.NoError(t, tags.ValidateBIO2(got))
		})
	}
}
