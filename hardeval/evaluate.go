package hardeval

import (
	"sort"
	"strconv"

	"github.com/gbcolborne/ner-eval/metrics"
	"github.com/gbcolborne/ner-eval/tags"
	"github.com/pkg/errors"
)

// Result is the evaluation of predictions on one subset of test tokens.
type Result struct {
	Name       string  `parquet:"subset"`
	TokenCount int     `parquet:"token_count"`
	WordCount  int     `parquet:"word_count"`
	ErrorCount int     `parquet:"error_count"`
	ErrorRate  float64 `parquet:"error_rate"`
}

// Evaluation holds the predictions converted to BILOU and the result of each subset, in the
// order of Selection.Subsets.
type Evaluation struct {
	Selection *Selection
	Pred      []string
	Results   []Result
}

// Evaluate computes the token error rate of the predicted labels on each subset of sel.
//
// Predicted labels are BIO-2, but may be inconsistent. They are converted to BILOU from their
// prefixes alone: an orphan I-X is predicted as "O".
func Evaluate(sel *Selection, pred []string) (*Evaluation, error) {
	if len(pred) != len(sel.Gold) {
		return nil, &metrics.ShapeMismatchError{Predicted: len(pred), Gold: len(sel.Gold)}
	}
	predBILOU := tags.PredictionsToBILOU(pred)
	e := &Evaluation{Selection: sel, Pred: predBILOU}
	for _, subset := range sel.Subsets {
		var err error
		result := Result{Name: subset.Name, TokenCount: len(subset.Indices)}
		words := make(map[string]bool)
		for _, i := range subset.Indices {
			words[sel.Words[i]] = true
		}
		result.WordCount = len(words)
		result.ErrorRate, result.ErrorCount, err = metrics.ComputeTER(
			pick(predBILOU, subset.Indices), pick(sel.Gold, subset.Indices))
		if err != nil {
			return nil, errors.WithMessagef(err, "subset %s", subset.Name)
		}
		e.Results = append(e.Results, result)
	}
	return e, nil
}

// Result returns the result of the named subset.
func (e *Evaluation) Result(name string) (Result, bool) {
	for _, r := range e.Results {
		if r.Name == name {
			return r, true
		}
	}
	return Result{}, false
}

// Score is the average token error rate on the unseen and the diff tokens.
func (e *Evaluation) Score() float64 {
	unseen, _ := e.Result(UnseenAll)
	diff, _ := e.Result(DiffAll)
	return (unseen.ErrorRate + diff.ErrorRate) / 2
}

// TokenRow is one evaluated token of a subset.
type TokenRow struct {
	Index     int    `parquet:"index"`
	Token     string `parquet:"token"`
	Gold      string `parquet:"gold"`
	Predicted string `parquet:"predicted"`
	Correct   bool   `parquet:"correct"`
}

// Tokens returns the evaluated tokens of the named subset.
func (e *Evaluation) Tokens(name string) ([]TokenRow, error) {
	indices, found := e.Selection.Subset(name)
	if !found {
		return nil, errors.Errorf("unknown subset %q", name)
	}
	rows := make([]TokenRow, len(indices))
	for j, i := range indices {
		rows[j] = TokenRow{
			Index:     i,
			Token:     e.Selection.Test.Tokens[i],
			Gold:      e.Selection.Gold[i],
			Predicted: e.Pred[i],
			Correct:   e.Selection.Gold[i] == e.Pred[i],
		}
	}
	return rows, nil
}

// TokensTable is Tokens formatted as strings.
func (e *Evaluation) TokensTable(name string) (header []string, rows [][]string, err error) {
	tokens, err := e.Tokens(name)
	if err != nil {
		return nil, nil, err
	}
	header = []string{"Index", "Token", "Gold", "Predicted", "Correct?"}
	for _, t := range tokens {
		correct := "WRONG"
		if t.Correct {
			correct = "CORRECT"
		}
		rows = append(rows, []string{strconv.Itoa(t.Index), t.Token, t.Gold, t.Predicted, correct})
	}
	return header, rows, nil
}

// VocabTable returns the words of the named subset with the number of times each was
// evaluated, most frequent first (ties in word order).
func (e *Evaluation) VocabTable(name string) (header []string, rows [][]string, err error) {
	indices, found := e.Selection.Subset(name)
	if !found {
		return nil, nil, errors.Errorf("unknown subset %q", name)
	}
	freq := make(map[string]int)
	for _, i := range indices {
		freq[e.Selection.Test.Tokens[i]]++
	}
	words := make([]string, 0, len(freq))
	for word := range freq {
		words = append(words, word)
	}
	sort.Slice(words, func(a, b int) bool {
		if freq[words[a]] != freq[words[b]] {
			return freq[words[a]] > freq[words[b]]
		}
		return words[a] < words[b]
	})
	header = []string{"Word", "NbEvaluated"}
	for _, word := range words {
		rows = append(rows, []string{word, strconv.Itoa(freq[word])})
	}
	return header, rows, nil
}

// ResultsTable formats the results as strings, with error rates to 4 decimal places.
func (e *Evaluation) ResultsTable() (header []string, rows [][]string) {
	header = []string{"Test tokens", "Nb tokens", "Nb words", "Nb errors", "Token error rate"}
	for _, r := range e.Results {
		rows = append(rows, []string{
			r.Name,
			strconv.Itoa(r.TokenCount),
			strconv.Itoa(r.WordCount),
			strconv.Itoa(r.ErrorCount),
			strconv.FormatFloat(r.ErrorRate, 'f', 4, 64),
		})
	}
	return header, rows
}
