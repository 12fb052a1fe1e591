package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bm-github/persona-analyser/internal/analyzer"
	"github.com/bm-github/persona-analyser/internal/chat"
	"github.com/bm-github/persona-analyser/internal/llm"
	"github.com/bm-github/persona-analyser/internal/reddit"
	"github.com/bm-github/persona-analyser/internal/session"
	"github.com/bm-github/persona-analyser/internal/storage"
	"github.com/bm-github/persona-analyser/pkg/config"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath   = pflag.StringP("config", "c", "config.yaml", "path to config file")
		forceRefresh = pflag.Bool("refresh", false, "refresh the user's data before starting")
		fetchLimit   = pflag.Int("limit", 0, "max records per feed (0 = config default)")
		provider     = pflag.String("provider", "", "llm provider: openai, groq or gemini")
	)
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <reddit-username>\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(1)
	}
	username := pflag.Arg(0)

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath, *provider)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", *configPath))
	}
	if *fetchLimit > 0 {
		cfg.Reddit.FetchLimit = *fetchLimit
	}

	// Initialize storage
	var store storage.Store
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	case config.BackendPostgres:
		logger.Info("Using PostgreSQL storage")
		store, err = storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:     cfg.Storage.Database.Host,
			Port:     cfg.Storage.Database.Port,
			User:     cfg.Storage.Database.User,
			Password: cfg.Storage.Database.Password,
			DBName:   cfg.Storage.Database.DBName,
			SSLMode:  cfg.Storage.Database.SSLMode,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	default:
		logger.Info("Using file storage",
			zap.String("cache_dir", cfg.Storage.CacheDir),
			zap.String("history_dir", cfg.Storage.HistoryDir))
		store, err = storage.NewFileStore(cfg.Storage.CacheDir, cfg.Storage.HistoryDir, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize the Reddit fetcher with terminal progress feedback
	client := reddit.NewClient(cfg.Reddit.BaseURL, cfg.Reddit.UserAgent, logger)
	client.Progress = func(fetched int) {
		fmt.Printf("\rFetched %d records...", fetched)
	}

	svc := analyzer.NewService(store, client, cfg.Reddit.FetchLimit, logger)
	mgr := chat.NewManager(store, logger)

	ctx := context.Background()
	completer, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		logger.Fatal("Failed to create completion client", zap.Error(err))
	}

	if *forceRefresh {
		if _, err := svc.FetchUserData(ctx, username, true); err != nil {
			logger.Fatal("Failed to refresh user data", zap.Error(err),
				zap.String("username", username))
		}
		fmt.Println("\nData refreshed.")
	}

	sess := session.New(username, svc, mgr, completer, logger, os.Stdin, os.Stdout)
	if err := sess.Run(ctx); err != nil {
		logger.Fatal("Session error", zap.Error(err))
	}
}
