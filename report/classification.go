package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gbcolborne/ner-eval/metrics"
	"github.com/gbcolborne/ner-eval/tags"
)

// where locates a mention for the reader: its 1-based file line if known, else its token
// offset.
func where(m tags.Mention) string {
	if m.Line >= 0 {
		return fmt.Sprintf("Line %d", m.Line+1)
	}
	return fmt.Sprintf("Token %d", m.Start)
}

// WriteClassification lists the errors of a mention classification, section by section,
// followed by a summary of how gold and predicted mentions were classified.
func WriteClassification(w io.Writer, c *metrics.Classification) error {
	p := &printer{w: w}
	section := func(title string, lines []string) {
		p.printf("\n%s\n", Title(title))
		if len(lines) == 0 {
			p.println("[NONE]")
			return
		}
		for _, line := range lines {
			p.println(line)
		}
	}

	var lines []string
	for _, m := range c.Invalid {
		lines = append(lines, fmt.Sprintf("%s: '%s' --> %v", where(m), m.Text(), m.Labels))
	}
	section("INVALID PREDICTED MENTIONS (mentions with invalid initial prefix):", lines)

	lines = nil
	for _, i := range c.FalsePositives {
		m := c.Pred[i]
		lines = append(lines, fmt.Sprintf("%s: '%s' (%s)", where(m), m.Text(), m.Type()))
	}
	section("FALSE POSITIVES (predicted mentions that do not overlap a gold mention):", lines)

	lines = nil
	for _, i := range c.FalseNegatives {
		m := c.Gold[i]
		lines = append(lines, fmt.Sprintf("%s: '%s' (%s)", where(m), m.Text(), m.DeclaredType()))
	}
	section("FALSE NEGATIVES (gold mentions that do not overlap a predicted mention):", lines)

	lines = nil
	for _, pair := range c.PartialMatches {
		g, pred := c.Gold[pair.Gold], c.Pred[pair.Pred]
		lines = append(lines, fmt.Sprintf("%s: Gold mention '%s' (%s) --> '%s' (%s)",
			where(g), g.Text(), g.DeclaredType(), pred.Text(), pred.Type()))
	}
	section("PARTIAL MATCHES (partial overlap between gold and predicted mentions):", lines)

	lines = nil
	for _, pair := range c.Misclassifications {
		g, pred := c.Gold[pair.Gold], c.Pred[pair.Pred]
		switch etype := pred.Type().(type) {
		case tags.Ambiguous:
			lines = append(lines, fmt.Sprintf("%s: Predicted mention '%s' has correct span, but inconsistent types %s",
				where(pred), pred.Text(), etype))
		case tags.Single:
			lines = append(lines, fmt.Sprintf("%s: Gold mention '%s' is a %s not a %s",
				where(g), g.Text(), g.DeclaredType(), etype))
		}
	}
	section("MISCLASSIFICATIONS (correct span, but incorrect type):", lines)

	if c.Encoding == tags.BIO2 {
		lines = nil
		for _, i := range c.TypeInconsistencies {
			m := c.Pred[i]
			lines = append(lines, fmt.Sprintf("%s: Predicted mention '%s' has types %s", where(m), m.Text(), m.Type()))
		}
		section("TYPE INCONSISTENCIES (predicted mentions with inconsistent entity types, ignoring span):", lines)
	}

	misclassified := "misclassifications"
	if c.Encoding == tags.BIO2 {
		misclassified += " (includes type inconsistencies assuming span is correct)"
	}
	rule := strings.Repeat("-", 18)
	p.printf("\n%s\n%s\n%s\n", rule, Title("-----SUMMARY------"), rule)

	p.println("Gold mentions")
	p.println(rule)
	width := len(strconv.Itoa(len(c.Gold)))
	p.printf("  %*d true positives\n", width, len(c.TruePositives))
	p.printf("+ %*d %s\n", width, len(c.Misclassifications), misclassified)
	p.printf("+ %*d partially matched\n", width, c.PartiallyMatchedGold())
	p.printf("+ %*d false negatives\n", width, len(c.FalseNegatives))
	p.printf("= %*d total gold mentions\n", width, len(c.Gold))
	p.println(rule)

	p.println("Predicted mentions")
	p.println(rule)
	width = len(strconv.Itoa(c.NumPredicted()))
	p.printf("  %*d true positives\n", width, len(c.TruePositives))
	p.printf("+ %*d %s\n", width, len(c.Misclassifications), misclassified)
	p.printf("+ %*d partially matching\n", width, c.PartiallyMatchingPred())
	p.printf("+ %*d false positives\n", width, len(c.FalsePositives))
	p.printf("+ %*d invalid mentions (prefix errors)\n", width, len(c.Invalid))
	p.printf("= %*d total predicted mentions\n", width, c.NumPredicted())
	p.println(rule)

	scores := c.Scores()
	p.printf("Exact match: precision %.4f, recall %.4f, F1 %.4f\n", scores.Precision, scores.Recall, scores.F1)
	return p.done()
}
