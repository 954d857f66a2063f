package nlu

import (
	"sort"
	"strings"

	"dialcore/internal/cldb"
	"dialcore/internal/tokens"
)

// Abstraction is the output of one abstraction pass.
type Abstraction struct {
	Tokens tokens.List
	// Labels holds the upper-cased category labels that fired.
	Labels map[string]struct{}
	// Lengths has one entry per abstracted position: the number of original
	// tokens that position consumed.
	Lengths []int
}

// HasLabel reports whether the label fired (or was enabled later).
func (a Abstraction) HasLabel(label string) bool {
	_, ok := a.Labels[label]
	return ok
}

// SortedLabels lists the labels in lexicographic order.
func (a Abstraction) SortedLabels() []string {
	out := make([]string, 0, len(a.Labels))
	for l := range a.Labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

var stopContextWords = []string{
	"zastávka", "zastávky", "zastávku", "zastávce", "zastávkou",
	"stanice", "stanici", "stanicí",
}

var trainContextWords = []string{
	"vlak", "vlakem", "vlaku", "vlaky", "vlaků", "vlakům", "vlacích",
	"jet", "jedu", "jede", "pojede", "jezdí", "jezdit", "jel", "ujel",
	"jela", "ujela", "pojedu", "jelo", "ujelo",
}

// Abstract replaces the longest known form at each position with a
// LABEL=value token. Spans are tried longest first; the first candidate value
// of a matched form wins.
func Abstract(db *cldb.Database, utt tokens.List) Abstraction {
	out := Abstraction{
		Tokens:  make(tokens.List, 0, len(utt)),
		Labels:  make(map[string]struct{}),
		Lengths: make([]int, 0, len(utt)),
	}
	start := 0
	for start < len(utt) {
		end := len(utt)
		if maxEnd := start + db.MaxFormLen(); maxEnd < end {
			end = maxEnd
		}
		matched := false
		for ; end > start; end-- {
			cands, ok := db.Lookup(utt[start:end])
			if !ok || len(cands) == 0 {
				continue
			}
			c := cands[0]
			label := c.Labels[0]
			if c.Ambiguous() {
				label = disambiguate(utt, start, c.Labels)
			}
			label = strings.ToUpper(label)
			out.Tokens = append(out.Tokens, label+"="+c.Value)
			out.Lengths = append(out.Lengths, end-start)
			out.Labels[label] = struct{}{}
			start = end
			matched = true
			break
		}
		if !matched {
			out.Tokens = append(out.Tokens, utt[start])
			out.Lengths = append(out.Lengths, 1)
			start++
		}
	}
	return out
}

// disambiguate picks one label for a multi-label value by looking at the
// original tokens just before the match. labels is sorted.
func disambiguate(utt tokens.List, start int, labels []string) string {
	has := func(l string) bool {
		for _, cur := range labels {
			if cur == l {
				return true
			}
		}
		return false
	}
	if len(labels) == 2 && labels[0] == cldb.LabelCity && labels[1] == cldb.LabelStop {
		if utt.Window(start-2, start).AnyWordOf(stopContextWords) {
			return cldb.LabelStop
		}
		return cldb.LabelCity
	}
	if has(cldb.LabelTrainName) && (has(cldb.LabelCity) || has(cldb.LabelStop)) {
		if utt.Window(start-1, start).AnyWordOf(trainContextWords) {
			return cldb.LabelTrainName
		}
		return labels[0]
	}
	return labels[0]
}
