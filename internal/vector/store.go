package vector

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Match is a nearest-neighbor hit.
type Match struct {
	ID    string
	Score float64
}

// Store persists product embeddings in Postgres with the pgvector extension.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureTable creates the embeddings table if it does not exist.
func (s *Store) EnsureTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS product_embeddings (
			id TEXT PRIMARY KEY,
			embedding vector,
			metadata JSONB
		)`,
	)
	return err
}

// Upsert writes or replaces a product's embedding.
func (s *Store) Upsert(ctx context.Context, id string, embedding []float32, metadata any) error {
	meta, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO product_embeddings (id, embedding, metadata)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET embedding = EXCLUDED.embedding, metadata = EXCLUDED.metadata`,
		id, vectorLiteral(embedding), meta,
	)
	return err
}

// Nearest returns product ids ordered by inner-product similarity.
func (s *Store) Nearest(ctx context.Context, embedding []float32, limit int) ([]Match, error) {
	lit := vectorLiteral(embedding)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, 1 - (embedding <#> $1) AS score
		 FROM product_embeddings
		 ORDER BY embedding <#> $1
		 LIMIT $2`,
		lit, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.Score); err != nil {
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// vectorLiteral renders a vector in pgvector's input syntax.
func vectorLiteral(v []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Connect establishes a connection to PostgreSQL.
func Connect(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
