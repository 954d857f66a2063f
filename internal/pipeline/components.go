package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"dialcore/internal/cldb"
	"dialcore/internal/config"
	"dialcore/internal/dialogue"
	"dialcore/internal/dst"
	"dialcore/internal/nlu"
)

const (
	PublicTransportNLU = "nlu.public_transport_cs"
	KeywordNLU         = "nlu.keyword"
	RuleDST            = "dst.rule"
)

// DefaultRegistry knows every built-in component.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(PublicTransportNLU, newPublicTransportNLU)
	r.MustRegister(KeywordNLU, newKeywordNLU)
	r.MustRegister(RuleDST, newRuleDST)
	return r
}

type ruleNLU struct {
	parser *nlu.Parser
	logger *slog.Logger
}

// newPublicTransportNLU accepts the option utt2da, a path to an override file.
func newPublicTransportNLU(deps Deps, spec config.ComponentSpec) (Component, error) {
	db := deps.DB
	if db == nil {
		db = cldb.Builtin()
	}
	opts := []nlu.Option{nlu.WithPreprocessor(deps.Preprocessor), nlu.WithLogger(deps.Logger)}
	if path := spec.Option("utt2da", ""); path != "" {
		o, err := nlu.LoadOverrides(path, deps.Preprocessor.Lower)
		if err != nil {
			return nil, err
		}
		opts = append(opts, nlu.WithOverrides(o))
	}
	return &ruleNLU{parser: nlu.NewParser(db, opts...), logger: deps.Logger}, nil
}

func (c *ruleNLU) Name() string { return PublicTransportNLU }

func (c *ruleNLU) Process(_ context.Context, d *dialogue.Dialogue) error {
	res := c.parser.Parse(d.User)
	d.NLU = res.Act
	c.logger.Debug("nlu parsed", "utterance", d.User, "da", res.Act.String())
	return nil
}

type keywordNLU struct {
	parser nlu.KeywordParser
	logger *slog.Logger
}

func newKeywordNLU(deps Deps, _ config.ComponentSpec) (Component, error) {
	return &keywordNLU{logger: deps.Logger}, nil
}

func (c *keywordNLU) Name() string { return KeywordNLU }

func (c *keywordNLU) Process(_ context.Context, d *dialogue.Dialogue) error {
	d.NLU = c.parser.Parse(d.User)
	c.logger.Info("keyword nlu", "da", d.NLU.String())
	return nil
}

type ruleDST struct {
	tracker *dst.Tracker
}

func newRuleDST(deps Deps, _ config.ComponentSpec) (Component, error) {
	return &ruleDST{tracker: dst.NewTracker(deps.Logger)}, nil
}

func (c *ruleDST) Name() string { return RuleDST }

func (c *ruleDST) Process(_ context.Context, d *dialogue.Dialogue) error {
	if d.NLU == nil {
		return fmt.Errorf("no nlu output to track")
	}
	c.tracker.Update(d.State(), d.NLU)
	return nil
}
