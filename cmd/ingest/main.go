package main

import (
	"context"
	"log"
	"os"

	"github.com/example/commerce-agent/internal/catalog"
	"github.com/example/commerce-agent/internal/vector"
)

func main() {
	ctx := context.Background()

	// Configuration from environment variables
	dsn := os.Getenv("PGVECTOR_DSN")
	if dsn == "" {
		log.Fatal("[Ingest] PGVECTOR_DSN environment variable is required")
	}
	hfToken := os.Getenv("HF_TOKEN")

	products := catalog.MustLoad()

	log.Println("[Ingest] ========================================")
	log.Println("[Ingest] Commerce Agent - Catalog Embedding Ingest")
	log.Println("[Ingest] ========================================")
	log.Printf("[Ingest] Catalog: %d products", len(products))

	db, err := vector.Connect(dsn)
	if err != nil {
		log.Fatalf("[Ingest] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	log.Println("[Ingest] Connected to PostgreSQL")

	store := vector.NewStore(db)
	if err := store.EnsureTable(ctx); err != nil {
		log.Fatalf("[Ingest] Failed to create embeddings table: %v", err)
	}

	embedder := vector.NewHFEmbedder(hfToken)
	written, err := vector.IngestCatalog(ctx, embedder, store, products)
	if err != nil {
		log.Fatalf("[Ingest] Aborted after %d products: %v", written, err)
	}

	log.Printf("[Ingest] Done: %d embeddings written", written)
}
