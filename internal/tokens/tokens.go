// Package tokens provides the token sequence used by the preprocessor,
// abstractor and rule engine, with windowed word and phrase lookups.
//
// Phrases given as strings are split on whitespace; an abstract token that
// contains spaces (STOP=Bílá Hora) can only be matched through the []string
// forms such as Find and ReplaceFirst.
package tokens

import "strings"

type List []string

// Split tokenizes on whitespace.
func Split(s string) List {
	return List(strings.Fields(s))
}

func (l List) String() string {
	return strings.Join(l, " ")
}

// Clone returns an independent copy.
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Window returns l[start:end] with both bounds clamped into range, so callers
// can write Window(i-5, i) or Window(i, i+3) without bounds checks.
func (l List) Window(start, end int) List {
	if start < 0 {
		start = 0
	}
	if end > len(l) {
		end = len(l)
	}
	if start >= end {
		return nil
	}
	return l[start:end]
}

// At returns the token at i, or "" when i is out of range.
func (l List) At(i int) string {
	if i < 0 || i >= len(l) {
		return ""
	}
	return l[i]
}

// Find returns the index of the first occurrence of phrase, or -1.
func (l List) Find(phrase []string) int {
	if len(phrase) == 0 || len(phrase) > len(l) {
		return -1
	}
outer:
	for i := 0; i+len(phrase) <= len(l); i++ {
		for j, w := range phrase {
			if l[i+j] != w {
				continue outer
			}
		}
		return i
	}
	return -1
}

// PhraseIn reports whether the whitespace-separated phrase occurs contiguously.
func (l List) PhraseIn(phrase string) bool {
	return l.Find(strings.Fields(phrase)) >= 0
}

func (l List) AnyPhraseIn(phrases []string) bool {
	for _, p := range phrases {
		if l.PhraseIn(p) {
			return true
		}
	}
	return false
}

// FirstPhraseSpan returns the [start, end) span of the first phrase, in list
// order, that occurs in l; (-1, -1) when none does.
func (l List) FirstPhraseSpan(phrases []string) (int, int) {
	for _, p := range phrases {
		words := strings.Fields(p)
		if pos := l.Find(words); pos >= 0 {
			return pos, pos + len(words)
		}
	}
	return -1, -1
}

// EndingPhrasesIn reports whether l ends with any of the phrases.
func (l List) EndingPhrasesIn(phrases []string) bool {
	for _, p := range phrases {
		words := strings.Fields(p)
		if len(words) == 0 || len(words) > len(l) {
			continue
		}
		if l.Window(len(l)-len(words), len(l)).Find(words) == 0 {
			return true
		}
	}
	return false
}

func (l List) Contains(word string) bool {
	for _, w := range l {
		if w == word {
			return true
		}
	}
	return false
}

// AnyWordIn reports whether any of the whitespace-separated words is a token.
func (l List) AnyWordIn(words string) bool {
	for _, w := range strings.Fields(words) {
		if l.Contains(w) {
			return true
		}
	}
	return false
}

// AnyWordOf is AnyWordIn for a pre-split word list.
func (l List) AnyWordOf(words []string) bool {
	for _, w := range words {
		if l.Contains(w) {
			return true
		}
	}
	return false
}

// AllWordsIn reports whether every whitespace-separated word is a token.
func (l List) AllWordsIn(words string) bool {
	fields := strings.Fields(words)
	if len(fields) == 0 {
		return false
	}
	for _, w := range fields {
		if !l.Contains(w) {
			return false
		}
	}
	return true
}

// HasPrefix reports whether any token starts with prefix.
func (l List) HasPrefix(prefix string) bool {
	for _, w := range l {
		if strings.HasPrefix(w, prefix) {
			return true
		}
	}
	return false
}

// ReplaceFirst returns a copy of l with the first occurrence of orig replaced
// by repl. l is returned unchanged when orig does not occur.
func (l List) ReplaceFirst(orig, repl []string) List {
	pos := l.Find(orig)
	if pos < 0 {
		return l
	}
	out := make(List, 0, len(l)-len(orig)+len(repl))
	out = append(out, l[:pos]...)
	out = append(out, repl...)
	out = append(out, l[pos+len(orig):]...)
	return out
}

// Splice replaces l[start:end] with a single token in place and returns the
// shortened list.
func (l List) Splice(start, end int, token string) List {
	if end > len(l) {
		end = len(l)
	}
	l[start] = token
	return append(l[:start+1], l[end:]...)
}
