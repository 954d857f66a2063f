// Command dialcore parses Czech public transport utterances and runs
// dialogues against the rule pipeline, locally or through a running server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dialcore/internal/client"
	"dialcore/internal/config"
	"dialcore/internal/domain"
	"dialcore/internal/orchestrator"
	"dialcore/internal/pipeline"
	"dialcore/internal/session"
)

type rootOptions struct {
	serverURL    string
	pipelinePath string
	cldbPath     string
	utt2daPath   string
	timeout      time.Duration
	verbose      bool
}

func main() {
	if _, err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "load .env:", err)
	}
	if err := newRootCmd(config.LoadCLIConfig()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg config.CLIConfig) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "dialcore",
		Short:        "Rule-based NLU and belief tracking for Czech public transport dialogues",
		SilenceUsage: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.serverURL, "server", cfg.ServerURL, "dialogue server base URL (env DIALCORE_SERVER_URL); empty runs locally")
	flags.StringVar(&opts.pipelinePath, "config", cfg.PipelinePath, "pipeline YAML file (env DIALCORE_CONFIG)")
	flags.StringVar(&opts.cldbPath, "cldb", cfg.CLDBPath, "extra lexicon file merged into the built-in one (env DIALCORE_CLDB_PATH)")
	flags.StringVar(&opts.utt2daPath, "utt2da", cfg.Utt2DAPath, "utterance override table (env DIALCORE_UTT2DA_PATH)")
	flags.DurationVar(&opts.timeout, "timeout", cfg.Timeout, "server request timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(
		newParseCmd(opts),
		newChatCmd(opts),
		newPredictCmd(opts),
		newEvalCmd(),
	)
	return root
}

// engine answers parses and turns either in-process or over HTTP.
type engine interface {
	Parse(ctx context.Context, text string) (domain.ParseResponse, error)
	CreateSession(ctx context.Context) (string, error)
	Turn(ctx context.Context, sessionID, text string) (domain.TurnResponse, error)
}

func (o *rootOptions) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (o *rootOptions) engine() (engine, error) {
	if o.serverURL != "" {
		return client.NewClient(o.serverURL, o.timeout), nil
	}
	logger := o.logger()
	rt, err := pipeline.Load(pipeline.Sources{
		PipelinePath: o.pipelinePath,
		CLDBPath:     o.cldbPath,
		Utt2DAPath:   o.utt2daPath,
	}, logger)
	if err != nil {
		return nil, err
	}
	return &localEngine{svc: orchestrator.New(rt.Pipeline, rt.Parser, session.NewRegistry(0), logger)}, nil
}

type localEngine struct {
	svc *orchestrator.Service
}

func (e *localEngine) Parse(_ context.Context, text string) (domain.ParseResponse, error) {
	return e.svc.Parse(text), nil
}

func (e *localEngine) CreateSession(context.Context) (string, error) {
	return e.svc.CreateSession().SessionID, nil
}

func (e *localEngine) Turn(ctx context.Context, sessionID, text string) (domain.TurnResponse, error) {
	return e.svc.HandleTurn(ctx, orchestrator.TurnRequest{SessionID: sessionID, Text: text, Source: orchestrator.SourceCLI})
}
