// Package preprocess turns a raw utterance into the normalized token list
// the abstractor works on.
package preprocess

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"dialcore/internal/tokens"
)

// Substitution rewrites every occurrence of From with To.
type Substitution struct {
	From []string
	To   []string
}

// DefaultSubstitutions repairs diacritic-less chat spellings of words the
// rules key on.
var DefaultSubstitutions = []Substitution{
	{From: []string{"dekuji"}, To: []string{"děkuji"}},
	{From: []string{"dekuju"}, To: []string{"děkuju"}},
	{From: []string{"diky"}, To: []string{"díky"}},
	{From: []string{"dobry", "den"}, To: []string{"dobrý", "den"}},
	{From: []string{"pul"}, To: []string{"půl"}},
	{From: []string{"ctvrt"}, To: []string{"čtvrt"}},
	{From: []string{"zitra"}, To: []string{"zítra"}},
	{From: []string{"ted"}, To: []string{"teď"}},
	{From: []string{"zastavka"}, To: []string{"zastávka"}},
	{From: []string{"zastavky"}, To: []string{"zastávky"}},
	{From: []string{"spojeni"}, To: []string{"spojení"}},
	{From: []string{"nadrazi"}, To: []string{"nádraží"}},
	{From: []string{"andel"}, To: []string{"anděl"}},
	{From: []string{"prestup"}, To: []string{"přestup"}},
	{From: []string{"prestupu"}, To: []string{"přestupu"}},
}

// Preprocessor is safe for concurrent use; a fresh cases.Caser is built per
// call since casers keep state.
type Preprocessor struct {
	tag   language.Tag
	subst []Substitution
}

// New builds a preprocessor; nil substitutions selects DefaultSubstitutions.
func New(subst []Substitution) *Preprocessor {
	if subst == nil {
		subst = DefaultSubstitutions
	}
	return &Preprocessor{
		tag:   language.Czech,
		subst: subst,
	}
}

// Lower applies NFC normalization and Czech lowercasing without tokenizing.
func (p *Preprocessor) Lower(utterance string) string {
	return lower(p.tag, utterance)
}

// Lower is Preprocessor.Lower for callers without a preprocessor, such as
// lexicon loading.
func Lower(s string) string {
	return lower(language.Czech, s)
}

func lower(tag language.Tag, s string) string {
	return cases.Lower(tag).String(norm.NFC.String(strings.TrimSpace(s)))
}

// Normalize lowercases, strips punctuation and applies the substitution table.
// Non-speech markers such as _noise_ survive untouched.
func (p *Preprocessor) Normalize(utterance string) tokens.List {
	text := p.Lower(utterance)
	text = strings.Map(func(r rune) rune {
		if r == '_' {
			return r
		}
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return r
	}, text)
	toks := tokens.Split(text)
	for _, s := range p.subst {
		toks = replaceAll(toks, s.From, s.To)
	}
	return toks
}

func replaceAll(l tokens.List, from, to []string) tokens.List {
	if len(from) == 0 || l.Find(from) < 0 {
		return l
	}
	out := make(tokens.List, 0, len(l))
	for i := 0; i < len(l); {
		if i+len(from) <= len(l) && l.Window(i, i+len(from)).Find(from) == 0 {
			out = append(out, to...)
			i += len(from)
			continue
		}
		out = append(out, l[i])
		i++
	}
	return out
}
