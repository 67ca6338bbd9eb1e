// Package metrics compares predicted label sequences against gold ones: token error rate and
// mention-level classification of errors (true positives, misclassifications, partial
// matches, false positives and negatives, invalid predicted mentions).
package metrics

import (
	"fmt"
)

// ShapeMismatchError is returned when predicted and gold sequences differ in length. Sequences
// are never truncated to a common length.
type ShapeMismatchError struct {
	Predicted, Gold int
}

// Error implements error.
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("length mismatch between predicted (%d) and gold (%d) labels", e.Predicted, e.Gold)
}

// ComputeTER returns the token error rate of pred w.r.t. gold (the fraction of positions where
// labels differ, compared as exact strings) and the number of errors.
//
// Both sequences must use the same encoding. Empty input yields (0, 0, nil).
func ComputeTER(pred, gold []string) (rate float64, numErrors int, err error) {
	if len(pred) != len(gold) {
		return 0, 0, &ShapeMismatchError{Predicted: len(pred), Gold: len(gold)}
	}
	if len(pred) == 0 {
		return 0, 0, nil
	}
	for i := range pred {
		if pred[i] != gold[i] {
			numErrors++
		}
	}
	return float64(numErrors) / float64(len(pred)), numErrors, nil
}

// Scores holds exact-match mention scores.
type Scores struct {
	Precision, Recall, F1 float64
}

// ComputeScores returns precision, recall and F1 given the number of correct mentions and the
// number of predicted and gold mentions. Undefined ratios are 0.
func ComputeScores(correct, predicted, gold int) Scores {
	var s Scores
	if predicted > 0 {
		s.Precision = float64(correct) / float64(predicted)
	}
	if gold > 0 {
		s.Recall = float64(correct) / float64(gold)
	}
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	return s
}
