package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gbcolborne/ner-eval/analysis"
)

func ratio(r analysis.Ratio) string {
	return fmt.Sprintf("%.1f%% (%d/%d)", r.Percent(), r.Part, r.Total)
}

// WriteAnalysis renders the mention analysis of a dataset, showing at most maxShown entries
// per list.
func WriteAnalysis(w io.Writer, a *analysis.Analysis, maxShown int) error {
	p := &printer{w: w}
	p.printf("Nb mentions: %d\n", a.NumMentions)
	p.printf("Nb unique mentions: %d\n", a.NumUnique)
	types := a.Types()
	p.printf("Nb entity types: %d\n", len(types))
	p.printf("Entity types: %s\n", strings.Join(types, ", "))

	p.println(Title("Entity type frequency distribution:"))
	for _, c := range a.TypeCounts {
		p.printf("- %s: %d (%.1f%%)\n", c.Key, c.Count, analysis.Ratio{Part: c.Count, Total: a.NumMentions}.Percent())
	}

	for _, c := range a.TypeCounts {
		p.printf("\n%s\n", Title(fmt.Sprintf("Most frequent %s mentions:", c.Key)))
		top := a.TopMentions[c.Key]
		for _, m := range top[:min(maxShown, len(top))] {
			p.printf("- %s (%d as %s, %d total)\n", m.Text, m.Count, c.Key, m.Total)
		}
		if more := a.NumMentionsPerType[c.Key] - min(maxShown, len(top)); more > 0 {
			p.printf("- ... (%d more)\n", more)
		}
	}

	p.printf("\n%% ambiguous mentions: %s\n", ratio(a.AmbiguousRatio()))
	p.printf("%% ambiguous unique mentions: %s\n", ratio(a.AmbiguousUniqueRatio()))
	p.println(Title("Ambiguous mentions:"))
	for _, amb := range a.Ambiguous[:min(maxShown, len(a.Ambiguous))] {
		counts := make([]string, len(amb.Types))
		for i, c := range amb.Types {
			counts[i] = fmt.Sprintf("%s:%d", c.Key, c.Count)
		}
		p.printf("- %s: %s (entropy %.3f)\n", amb.Text, strings.Join(counts, ", "), amb.Entropy)
	}
	if more := len(a.Ambiguous) - maxShown; more > 0 {
		p.printf("- ... (%d more)\n", more)
	}
	return p.done()
}

// WriteOverlap renders the seen and unseen test mentions, at most maxShown per table, and a
// summary of unseen ratios.
func WriteOverlap(w io.Writer, o *analysis.Overlap, maxShown int) error {
	p := &printer{w: w}
	header := []string{"", "Freq in test set"}

	var rows [][]string
	var total int
	for _, c := range o.SeenTuples {
		total += c.Count
	}
	for _, c := range o.SeenTuples[:min(maxShown, len(o.SeenTuples))] {
		rows = append(rows, []string{fmt.Sprintf("(%s, %s)", c.Text, c.Type), strconv.Itoa(c.Count)})
	}
	p.println(countsTable("Seen tuples", header, rows, len(o.SeenTuples), total))

	rows, total = nil, 0
	for _, c := range o.UnseenTuples {
		total += c.Count
	}
	for _, c := range o.UnseenTuples[:min(maxShown, len(o.UnseenTuples))] {
		rows = append(rows, []string{fmt.Sprintf("(%s, %s)", c.Text, c.Type), strconv.Itoa(c.Count)})
	}
	p.println(countsTable("Unseen tuples", header, rows, len(o.UnseenTuples), total))

	for _, list := range []struct {
		name   string
		counts []analysis.Count
	}{
		{"Seen mentions", o.SeenMentions},
		{"Unseen mentions", o.UnseenMentions},
	} {
		rows, total = nil, 0
		for _, c := range list.counts {
			total += c.Count
		}
		for _, c := range list.counts[:min(maxShown, len(list.counts))] {
			rows = append(rows, []string{c.Key, strconv.Itoa(c.Count)})
		}
		p.println(countsTable(list.name, header, rows, len(list.counts), total))
	}

	p.printf("\n%s\n", Title("SUMMARY"))
	p.printf("Ratio of unseen mentions: %s\n", ratio(o.UnseenMentionRatio()))
	p.printf("Ratio of unseen unique mentions: %s\n", ratio(o.UnseenUniqueMentionRatio()))
	p.printf("Ratio of unseen tuples: %s\n", ratio(o.UnseenTupleRatio()))
	p.printf("Ratio of unseen unique tuples: %s\n", ratio(o.UnseenUniqueTupleRatio()))
	return p.done()
}

func countsTable(name string, header []string, rows [][]string, numKeys, total int) string {
	header = append([]string{name}, header[1:]...)
	if more := numKeys - len(rows); more > 0 {
		rows = append(rows, []string{fmt.Sprintf("... (%d more)", more), ""})
	}
	rows = append(rows, []string{fmt.Sprintf("ALL %d %s", numKeys, strings.ToUpper(name)), strconv.Itoa(total)})
	return "\n" + Table(header, rows)
}
