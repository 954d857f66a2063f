package pipeline

import (
	"fmt"
	"log/slog"

	"dialcore/internal/cldb"
	"dialcore/internal/config"
	"dialcore/internal/nlu"
	"dialcore/internal/preprocess"
)

// Sources names the files a binary loads at startup. Empty paths select
// the built-in defaults.
type Sources struct {
	PipelinePath string
	CLDBPath     string
	Utt2DAPath   string
}

// Runtime is a built pipeline plus a standalone parser that shares its
// lexicon and override table.
type Runtime struct {
	Pipeline *Pipeline
	Parser   *nlu.Parser
	DB       *cldb.Database
}

func Load(src Sources, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg, err := config.LoadPipeline(src.PipelinePath)
	if err != nil {
		return nil, err
	}
	db, err := cldb.LoadWithBuiltin(src.CLDBPath)
	if err != nil {
		return nil, err
	}
	pre := preprocess.New(nil)

	parserOpts := []nlu.Option{nlu.WithPreprocessor(pre), nlu.WithLogger(logger)}
	if src.Utt2DAPath != "" {
		o, err := nlu.LoadOverrides(src.Utt2DAPath, pre.Lower)
		if err != nil {
			return nil, fmt.Errorf("load utterance overrides: %w", err)
		}
		parserOpts = append(parserOpts, nlu.WithOverrides(o))
		cfg = withDefaultOption(cfg, PublicTransportNLU, "utt2da", src.Utt2DAPath)
	}

	p, err := DefaultRegistry().Build(cfg, Deps{DB: db, Preprocessor: pre, Logger: logger})
	if err != nil {
		return nil, err
	}
	logger.Info("pipeline ready",
		"components", p.Names(),
		"cldb_forms", db.Len(),
		"cldb_labels", db.Labels(),
	)
	return &Runtime{
		Pipeline: p,
		Parser:   nlu.NewParser(db, parserOpts...),
		DB:       db,
	}, nil
}

// withDefaultOption sets key on every component named name that does not
// already carry it.
func withDefaultOption(cfg config.PipelineConfig, name, key, value string) config.PipelineConfig {
	out := config.PipelineConfig{Components: make([]config.ComponentSpec, len(cfg.Components))}
	for i, c := range cfg.Components {
		if c.Name == name && c.Option(key, "") == "" {
			opts := make(map[string]string, len(c.Options)+1)
			for k, v := range c.Options {
				opts[k] = v
			}
			opts[key] = value
			c.Options = opts
		}
		out.Components[i] = c
	}
	return out
}
