package nlu

import (
	"strings"

	"dialcore/internal/da"
)

var (
	greetKeywords   = []string{"hello", "hey", "hi", "ola", "ciao", "ahoj"}
	goodbyeKeywords = []string{"bye", "goodbye", "good bye", "see ya", "see you"}
)

// KeywordParser is a substring matcher for greetings and farewells. A
// farewell wins over a greeting in the same utterance.
type KeywordParser struct{}

func (KeywordParser) Parse(utterance string) *da.Act {
	text := strings.ToLower(utterance)
	out := da.New()
	if containsAny(text, goodbyeKeywords) {
		out.Append(da.NewItem("goodbye", "", ""))
	} else if containsAny(text, greetKeywords) {
		out.Append(da.NewItem("greet", "", ""))
	}
	return out
}

func containsAny(text string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
