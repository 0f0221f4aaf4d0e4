package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/example/commerce-agent/internal/agent"
	"github.com/example/commerce-agent/internal/analytics"
	"github.com/example/commerce-agent/internal/api"
	"github.com/example/commerce-agent/internal/auth"
	"github.com/example/commerce-agent/internal/browseai"
	"github.com/example/commerce-agent/internal/cart"
	"github.com/example/commerce-agent/internal/catalog"
	"github.com/example/commerce-agent/internal/llm"
	"github.com/example/commerce-agent/internal/recommend"
	"github.com/example/commerce-agent/internal/vector"
	"github.com/example/commerce-agent/internal/web"
	"github.com/example/commerce-agent/internal/webcache"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Configuration from environment variables
	port := getEnv("PORT", "8080")
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("[API] SESSION_SECRET environment variable is required")
	}
	if len(sessionSecret) < 32 {
		log.Fatal("[API] SESSION_SECRET must be at least 32 characters long")
	}
	adminKeyHash := os.Getenv("ADMIN_KEY_HASH")

	log.Println("[API] ========================================")
	log.Println("[API] Commerce Agent API")
	log.Println("[API] ========================================")
	log.Printf("[API] Catalog: %d products (embedded)", len(catalog.MustLoad()))

	// Web page cache
	cache := buildWebCache(ctx)

	// Fetch allowlist
	allowlist := web.DefaultAllowlist()
	if domains := os.Getenv("WEB_FETCH_ALLOWLIST"); domains != "" {
		allowlist = web.Allowlist{Domains: strings.Split(domains, ",")}
	}
	if getEnv("WEB_FETCH_ALLOW_ALL", "0") == "1" {
		allowlist.AllowAll = true
	}
	fetcher := web.NewFetcher(cache, allowlist)

	// Analytics publisher
	var publisher analytics.Publisher = analytics.NopPublisher{}
	if kafkaBrokersStr := os.Getenv("KAFKA_BROKERS"); kafkaBrokersStr != "" {
		kafkaBrokers := strings.Split(kafkaBrokersStr, ",")
		kafkaTopic := getEnv("KAFKA_TOPIC", "commerce-insights")
		log.Printf("[API] Kafka: %v", kafkaBrokers)
		log.Printf("[API] Topic: %s", kafkaTopic)
		kafkaPublisher := analytics.NewKafkaPublisher(kafkaBrokers, kafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		log.Println("[API] Analytics disabled (KAFKA_BROKERS not set)")
	}

	// Candidate retrieval: pgvector when configured, lexical otherwise
	var retriever recommend.Retriever
	if dsn := os.Getenv("PGVECTOR_DSN"); dsn != "" {
		db, err := vector.Connect(dsn)
		if err != nil {
			log.Printf("[API] pgvector unavailable, falling back to lexical retrieval: %v", err)
		} else {
			defer db.Close()
			embedder := vector.NewHFEmbedder(os.Getenv("HF_TOKEN"))
			retriever = vector.NewRetriever(embedder, vector.NewStore(db))
			log.Println("[API] Retrieval: pgvector + HF embeddings")
		}
	}
	recommender := recommend.New(retriever)

	// Browse.ai extraction
	var extractor agent.Extractor
	if apiKey := os.Getenv("BROWSEAI_API_KEY"); apiKey != "" {
		client := browseai.NewClient(apiKey, cache)
		if base := os.Getenv("BROWSEAI_BASE_URL"); base != "" {
			client = client.WithBaseURL(base)
		}
		extractor = client
		log.Println("[API] Browse.ai extraction enabled")
	}
	defaultExtractor := os.Getenv("BROWSEAI_EXTRACTOR_ID")

	// Session tokens (7 days)
	tokens := auth.NewTokenService(sessionSecret, 7*24*time.Hour)

	chatAgent := agent.New(recommender, fetcher, extractor, publisher, defaultExtractor).
		WithSummarizer(llm.NewSummarizer(os.Getenv("HF_TOKEN"))).
		WithSearcher(web.NewSearcher())
	handlers := api.NewHandlers(chatAgent, recommender, cart.NewStore(), tokens, fetcher, publisher, adminKeyHash)
	router := api.NewRouter(handlers, tokens)

	// Start HTTP server
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Println("[API] ========================================")
		log.Printf("[API] Server started on :%s", port)
		log.Println("[API] ========================================")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
}

// buildWebCache picks the cache backend. The file store is the default; the
// DynamoDB store lets several replicas share one cache.
func buildWebCache(ctx context.Context) webcache.Store {
	switch getEnv("WEB_CACHE_BACKEND", "file") {
	case "dynamo":
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			log.Fatalf("[API] Failed to load AWS config: %v", err)
		}
		table := getEnv("WEB_CACHE_TABLE", "web-cache")
		log.Printf("[API] Web cache: DynamoDB table %s", table)
		return webcache.NewDynamoStore(dynamodb.NewFromConfig(cfg), table)
	default:
		dir := getEnv("WEB_CACHE_DIR", "data/web_cache")
		store, err := webcache.NewFileStore(dir)
		if err != nil {
			log.Fatalf("[API] Failed to create web cache at %s: %v", dir, err)
		}
		log.Printf("[API] Web cache: %s", dir)
		return store
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
