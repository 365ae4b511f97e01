package main

import (
	"bufio"
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

	"github.com/joho/godotenv"

	"reddigest/db"
	"reddigest/internal/config"
	"reddigest/internal/followup"
	"reddigest/internal/store"
	"reddigest/pkg/llm"
)

func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var (
		subreddit  = flag.String("subreddit", "", "subreddit whose latest digest to question (required)")
		provider   = flag.String("provider", "", "llm provider: openai, claude or ollama (default from config)")
		question   = flag.String("question", "", "single question to ask, omit for interactive mode")
		configPath = flag.String("config", "", "config file path (default ./config.yaml)")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := llm.NewClient(prov, cfg.LLMClientConfig())
	if err != nil {
		log.Fatalf("error building %s client: %v", prov, err)
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		log.Fatalf("error opening %s store: %v", cfg.Storage.Backend, err)
	}

	session := &followup.Session{Store: blobs, Client: client}

	if *question != "" {
		if !ask(ctx, session, *subreddit, *question) {
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Ask about the latest r/%s digest. Blank line or Ctrl-D quits.\n", *subreddit)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		q := strings.TrimSpace(scanner.Text())
		if q == "" {
			return
		}
		ask(ctx, session, *subreddit, q)
		if ctx.Err() != nil {
			return
		}
	}
}

// ask prints the answer for one question and reports whether it succeeded.
func ask(ctx context.Context, session *followup.Session, subreddit, question string) bool {
	answer, digest, err := session.Ask(ctx, subreddit, question)
	if errors.Is(err, followup.ErrNoDigest) {
		fmt.Fprintf(os.Stderr, "No stored digest for r/%s yet. Run a summarization first.\n", subreddit)
		return false
	}
	if err != nil {
		slog.Error("follow-up failed", "subreddit", subreddit, "error", err)
		fmt.Fprintln(os.Stderr, "follow-up failed, see logs for details")
		return false
	}

	fmt.Println(answer)
	fmt.Println()
	slog.Info("follow-up answered",
		"subreddit", subreddit, "digest_key", digest.Keys.Summary())
	return true
}

func newBlobStore(ctx context.Context, cfg *config.Config) (store.BlobStore, error) {
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
