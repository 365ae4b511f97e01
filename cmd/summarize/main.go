package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"reddigest/db"
	"reddigest/internal/budget"
	"reddigest/internal/config"
	"reddigest/internal/pipeline"
	"reddigest/internal/repository"
	"reddigest/internal/store"
	"reddigest/pkg/llm"
	"reddigest/pkg/reddit"
)

func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var (
		subreddit  = flag.String("subreddit", "", "subreddit to summarize (required)")
		hours      = flag.Int("hours", 24, "look-back window in hours")
		provider   = flag.String("provider", "", "llm provider: openai, claude or ollama (default from config)")
		filter     = flag.String("filter", "", "comma-separated topics, only matching items are kept")
		clean      = flag.Bool("clean", false, "aggressively clean item text before prompting")
		noSave     = flag.Bool("no-save", false, "skip writing run artifacts")
		configPath = flag.String("config", "", "config file path (default ./config.yaml)")
		yes        = flag.Bool("yes", false, "accept the proposed window without confirmation")
	)
	flag.Parse()

	if *subreddit == "" {
		flag.Usage()
		log.Fatalf("missing required -subreddit")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	providerName := cfg.LLM.Provider
	if *provider != "" {
		providerName = *provider
	}
	prov, err := llm.ParseProvider(providerName)
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	confirmed := *hours
	if *yes {
		if confirmed < minHours || confirmed > maxHours {
			log.Fatalf("window must be between %d and %d hours, got %d", minHours, maxHours, confirmed)
		}
	} else {
		confirmed, err = confirmHours(os.Stdin, os.Stderr, confirmed)
		if err != nil {
			log.Fatalf("window confirmation: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := llm.NewClient(prov, cfg.LLMClientConfig())
	if err != nil {
		log.Fatalf("error building %s client: %v", prov, err)
	}

	runner := &pipeline.Runner{
		Source: reddit.NewClient(cfg.RedditClientConfig()),
		Client: client,
		Budget: budget.Budget{
			MaxTokens:           cfg.Budget.MaxTokens,
			ReservedForResponse: cfg.Budget.ReservedForResponse,
		},
		Retry: pipeline.RetryPolicy{
			MaxAttempts: cfg.LLM.MaxAttempts,
			CallTimeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		},
		Location: cfg.Location(),
	}

	if !*noSave {
		blobs, err := newBlobStore(ctx, cfg)
		if err != nil {
			log.Fatalf("error opening %s store: %v", cfg.Storage.Backend, err)
		}
		runner.Store = blobs
	}

	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("error connecting to DB: %v", err)
		}
		defer conn.Close()
		runner.Archive = repository.NewDigestRepository(conn)
	}

	var topics []string
	if *filter != "" {
		topics = strings.Split(*filter, ",")
	}

	result, err := runner.Run(ctx, pipeline.Request{
		Subreddit: *subreddit,
		Hours:     confirmed,
		Clean:     *clean,
		Topics:    topics,
	})
	if errors.Is(err, pipeline.ErrNoContent) {
		slog.Info("nothing to summarize", "subreddit", *subreddit, "hours", confirmed)
		return
	}
	if err != nil {
		slog.Error("summarization run failed", "subreddit", *subreddit, "error", err)
		fmt.Fprintln(os.Stderr, "summarization failed, see logs for details")
		os.Exit(1)
	}

	fmt.Println(result.Summary.Text)

	if result.Keys != nil {
		slog.Info("run complete",
			"subreddit", *subreddit, "items", result.ItemCount, "truncated", result.Summary.Truncated,
			"summary_key", result.Keys.Summary())
	} else {
		slog.Info("run complete",
			"subreddit", *subreddit, "items", result.ItemCount, "truncated", result.Summary.Truncated)
	}
}

func newBlobStore(ctx context.Context, cfg *config.Config) (pipeline.BlobStore, error) {
	switch cfg.Storage.Backend {
	case "s3":
		return store.NewS3Store(ctx, cfg.Storage.S3Bucket, "", cfg.Storage.S3Region)
	case "redis":
		client, err := db.ConnectRedis(ctx, cfg.Storage.RedisURL)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client), nil
	default:
		return store.NewFSStore(cfg.Storage.OutputDir)
	}
}
