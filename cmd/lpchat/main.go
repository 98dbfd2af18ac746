// Command lpchat is the interactive loan-pricing chat console.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/loanworks-dev/lpchat/lpchat/chat"
	"github.com/loanworks-dev/lpchat/lpchat/chat/adapters"
	ports "github.com/loanworks-dev/lpchat/lpchat/chat/ports"
	"github.com/loanworks-dev/lpchat/lpchat/config"
	"github.com/loanworks-dev/lpchat/lpchat/db"
	"github.com/loanworks-dev/lpchat/lpchat/retention"
	"github.com/loanworks-dev/lpchat/lpchat/shell"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "lpchat:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.yaml (defaults to standard search paths)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Info().Msg("initializing loan pricing chat")

	conn, err := db.Connect(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Schema creation failure is the one fatal startup error.
	store, err := adapters.NewLibSQLMessageStore(conn, cfg.App.Name, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	retriever := adapters.NewChromaRetriever(cfg.Retrieval.Host, cfg.Retrieval.Port, cfg.Retrieval.Collection, logger)
	if err := retriever.Probe(ctx); err != nil {
		logger.Error().Err(err).Msg("chroma connectivity probe failed")
	}

	provider := adapters.NewAzureProvider(adapters.AzureProviderConfig{
		Endpoint:   cfg.Completion.Endpoint,
		APIKey:     cfg.Completion.APIKey,
		Deployment: cfg.Completion.Deployment,
		APIVersion: cfg.Completion.APIVersion,
	})

	orchestrator := chat.NewOrchestrator(provider, retriever, store, logger, chat.Params{
		HistoryWindow:  cfg.Chat.HistoryWindow,
		ContextResults: cfg.Retrieval.Results,
		Sampling: ports.Options{
			Temperature: cfg.Chat.Temperature,
			MaxTokens:   cfg.Chat.MaxTokens,
		},
	})

	sweeper := retention.New(store, logger, retention.Options{
		MaxAge:       cfg.Retention.MaxAge,
		Interval:     cfg.Retention.Interval,
		ErrorBackoff: cfg.Retention.ErrorBackoff,
	})
	sweeper.Start(ctx)

	logger.Info().Msg("application started successfully")

	runErr := shell.New(os.Stdin, os.Stdout, orchestrator, logger).Run(ctx)

	cancel()
	sweeper.Wait()
	logger.Info().Msg("session closed")
	return runErr
}

// newLogger builds the file-backed operational logger. Nothing it emits
// reaches the console.
func newLogger(cfg config.LogConfig) (zerolog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(file).
		Level(level).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()

	return logger, func() { file.Close() }, nil
}
