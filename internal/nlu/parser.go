// Package nlu parses Czech public transport utterances into dialogue acts with
// a lexicon-driven abstraction pass followed by hand-written rules.
package nlu

import (
	"log/slog"
	"strings"

	"dialcore/internal/cldb"
	"dialcore/internal/da"
	"dialcore/internal/preprocess"
	"dialcore/internal/tokens"
)

// Result is everything one parse produced. Only Act is needed downstream;
// the rest is kept for debugging endpoints and tests.
type Result struct {
	Act        *da.Act
	Normalized tokens.List
	Abstracted tokens.List
	Labels     []string
	Lengths    []int
	Override   bool
}

type Parser struct {
	db          *cldb.Database
	pre         *preprocess.Preprocessor
	overrides   Overrides
	corrections []Correction
	logger      *slog.Logger
}

type Option func(*Parser)

func WithOverrides(o Overrides) Option {
	return func(p *Parser) { p.overrides = o }
}

func WithPreprocessor(pre *preprocess.Preprocessor) Option {
	return func(p *Parser) { p.pre = pre }
}

func WithCorrections(table []Correction) Option {
	return func(p *Parser) { p.corrections = table }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// NewParser builds a parser over db. The parser holds no per-call state and
// may be shared between sessions.
func NewParser(db *cldb.Database, opts ...Option) *Parser {
	p := &Parser{db: db}
	for _, opt := range opts {
		opt(p)
	}
	if p.pre == nil {
		p.pre = preprocess.New(nil)
	}
	if p.corrections == nil {
		p.corrections = DefaultCorrections
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

type extractor struct {
	label string
	run   func(u tokens.List, out *da.Act)
}

var extractors = []extractor{
	{label: "STOP", run: func(u tokens.List, out *da.Act) { parseWaypoints(u, out, stopGrammar) }},
	{label: "CITY", run: func(u tokens.List, out *da.Act) { parseWaypoints(u, out, cityGrammar) }},
}

var lateExtractors = []extractor{
	{label: "TIME", run: parseTime},
	{label: "DATE_REL", run: parseDateRel},
	{label: "AMPM", run: parseAMPM},
	{label: "VEHICLE", run: parseVehicle},
	{label: "TASK", run: parseTask},
	{label: "TRAIN_NAME", run: parseTrainName},
}

// Parse never fails; unparseable input yields an empty act. Overrides that
// map to an empty act fall through to the rules.
func (p *Parser) Parse(utterance string) Result {
	if act, ok := p.overrides[p.pre.Lower(utterance)]; ok && act.Len() > 0 {
		p.logger.Debug("nlu override hit", "utterance", utterance, "da", act.String())
		return Result{Act: da.New(act.Items()...), Override: true}
	}

	norm := p.pre.Normalize(utterance)
	abs := Abstract(p.db, norm)
	p.logger.Debug("nlu abstracted", "abstracted", abs.Tokens.String(), "labels", abs.SortedLabels())

	out := da.New()
	nonSpeech(norm, out)

	u := Correct(abs.Tokens, p.corrections)
	for _, l := range []string{"CITY", "VEHICLE", "NUMBER"} {
		abs.Labels[l] = struct{}{}
	}

	if out.Len() == 0 {
		for _, ex := range extractors {
			if abs.HasLabel(ex.label) {
				ex.run(u, out)
			}
		}
		if abs.HasLabel("NUMBER") {
			u = CollapseNumbers(u)
			if u.HasPrefix("TIME") {
				abs.Labels["TIME"] = struct{}{}
			}
		}
		for _, ex := range lateExtractors {
			if abs.HasLabel(ex.label) {
				ex.run(u, out)
			}
		}
		parseMeta(norm, out)
	}

	out.MergeDuplicates()
	return Result{
		Act:        out,
		Normalized: norm,
		Abstracted: u,
		Labels:     abs.SortedLabels(),
		Lengths:    abs.Lengths,
	}
}

var (
	silenceMarkers = []string{"_silence_", "__silence__", "_sil_"}
	noiseMarkers   = []string{"_noise_", "_laugh_", "_ehm_hmm_", "_inhale_"}
	otherMarkers   = []string{"_other_", "__other__"}
)

// nonSpeech maps empty input and recognizer markers to silence, null and other.
func nonSpeech(u tokens.List, out *da.Act) {
	text := strings.TrimSpace(u.String())
	switch {
	case text == "" || contains(silenceMarkers, text):
		out.Append(da.NewItem("silence", "", ""))
	case contains(noiseMarkers, text):
		out.Append(da.NewItem("null", "", ""))
	case contains(otherMarkers, text):
		out.Append(da.NewItem("other", "", ""))
	}
}

func contains(list []string, s string) bool {
	for _, cur := range list {
		if cur == s {
			return true
		}
	}
	return false
}
