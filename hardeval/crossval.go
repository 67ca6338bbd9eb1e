package hardeval

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Fold is the subset selection of one cross-validation fold: Sentences is the [start, end)
// range of sentences held out as test data.
type Fold struct {
	Sentences [2]int
	Selection *Selection
}

// CrossValidate splits sentences into k contiguous folds of near equal size, and selects
// the hard subsets of each fold using the remaining folds as training data. Folds are
// computed concurrently; the first error cancels the rest.
func CrossValidate(ctx context.Context, sentences []Data, k int, opts Options) ([]Fold, error) {
	if k < 2 {
		return nil, errors.Errorf("cross-validation needs at least 2 folds, got %d", k)
	}
	if k > len(sentences) {
		return nil, errors.Errorf("cannot split %d sentences into %d folds", len(sentences), k)
	}
	folds := make([]Fold, k)
	g, ctx := errgroup.WithContext(ctx)
	for i := range k {
		start, end := i*len(sentences)/k, (i+1)*len(sentences)/k
		folds[i].Sentences = [2]int{start, end}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			train := concat(sentences[:start], sentences[end:])
			test := concat(sentences[start:end])
			sel, err := SelectSubsets(train, test, opts)
			if err != nil {
				return errors.WithMessagef(err, "fold %d", i)
			}
			folds[i].Selection = sel
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return folds, nil
}

func concat(parts ...[]Data) Data {
	var d Data
	for _, part := range parts {
		for _, sentence := range part {
			d.Tokens = append(d.Tokens, sentence.Tokens...)
			d.Labels = append(d.Labels, sentence.Labels...)
		}
	}
	return d
}
