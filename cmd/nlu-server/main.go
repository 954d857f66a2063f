package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dialcore/internal/config"
	"dialcore/internal/httpapi"
	"dialcore/internal/mqtt"
	"dialcore/internal/orchestrator"
	"dialcore/internal/pipeline"
	"dialcore/internal/session"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if path, err := config.LoadDotEnv(); err != nil {
		logger.Error("load .env failed", "error", err)
		os.Exit(1)
	} else if path != "" {
		logger.Info("loaded env file", "path", path)
	}

	cfg, err := config.LoadServerConfig()
	if err != nil {
		logger.Error("load config failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := pipeline.Load(pipeline.Sources{
		PipelinePath: cfg.PipelinePath,
		CLDBPath:     cfg.CLDBPath,
		Utt2DAPath:   cfg.Utt2DAPath,
	}, logger)
	if err != nil {
		logger.Error("build pipeline failed", "error", err)
		os.Exit(1)
	}

	sessions := session.NewRegistry(cfg.SessionTTL)
	orch := orchestrator.New(rt.Pipeline, rt.Parser, sessions, logger)
	go orch.RunSessionSweeper(ctx, cfg.SweepInterval)

	if cfg.MQTTEnabled() {
		hub := mqtt.NewHub(mqtt.HubConfig{
			BrokerURL:   cfg.MQTTBrokerURL,
			ClientID:    cfg.MQTTClientID,
			Username:    cfg.MQTTUsername,
			Password:    cfg.MQTTPassword,
			TopicPrefix: cfg.MQTTTopicPrefix,
		}, orch, logger)
		if err := hub.Start(ctx); err != nil {
			logger.Error("start mqtt hub failed", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("mqtt disabled", "reason", "MQTT_BROKER_URL is empty")
	}

	api := httpapi.NewServer(orch, httpapi.Config{MaxBodyBytes: cfg.MaxBodyBytes}, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("nlu server started", "addr", cfg.HTTPAddr, "session_ttl", cfg.SessionTTL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}
