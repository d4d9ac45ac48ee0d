package store

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
	"golang.org/x/time/rate"

	"github.com/kelvad/textprep/internal/models"
	"github.com/kelvad/textprep/internal/types"
)

var _ types.Store = (*VectorStore)(nil)

type VectorStoreConfig struct {
	ConnString string
	TableName  string
	VectorDim  int
	BatchSize  int
	RateLimit  float64 // batch writes per second, 0 disables pacing
}

// VectorStore persists documents in Postgres. The embedding column is
// provisioned here but written as NULL; the embedding collaborator
// fills it in later, in place, keyed by document id.
type VectorStore struct {
	config  VectorStoreConfig
	pool    *pgxpool.Pool
	limiter *rate.Limiter
}

func NewWithConfig(config VectorStoreConfig) (*VectorStore, error) {
	if config.TableName == "" {
		config.TableName = "documents"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 1536 // Default for OpenAI embeddings
	}
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}

	poolConfig, err := pgxpool.ParseConfig(config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %v", err)
	}
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	vs := &VectorStore{
		config: config,
		pool:   pool,
	}
	if config.RateLimit > 0 {
		vs.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	if err := vs.initialize(); err != nil {
		pool.Close()
		return nil, err
	}

	return vs, nil
}

func (vs *VectorStore) initialize() error {
	ctx := context.Background()

	// Enable pgvector extension
	_, err := vs.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %v", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			content TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			total_chunks INTEGER NOT NULL,
			page_number INTEGER,
			created_at TIMESTAMPTZ NOT NULL,
			embedding vector(%d),
			metadata JSONB
		)`, vs.config.TableName, vs.config.VectorDim)

	_, err = vs.pool.Exec(ctx, createTable)
	if err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		vs.config.TableName, vs.config.TableName)

	_, err = vs.pool.Exec(ctx, createIndex)
	if err != nil {
		return fmt.Errorf("failed to create index: %v", err)
	}

	return nil
}

// Add upserts documents by id and returns how many were written.
// Re-running the same batch leaves the table unchanged, so a failed
// ingest can be retried safely.
func (vs *VectorStore) Add(ctx context.Context, docs []models.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, source, content, chunk_index, total_chunks, page_number, created_at, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			source = EXCLUDED.source,
			content = EXCLUDED.content,
			chunk_index = EXCLUDED.chunk_index,
			total_chunks = EXCLUDED.total_chunks,
			page_number = EXCLUDED.page_number,
			metadata = EXCLUDED.metadata`,
		vs.config.TableName)

	count := 0
	for start := 0; start < len(docs); start += vs.config.BatchSize {
		end := start + vs.config.BatchSize
		if end > len(docs) {
			end = len(docs)
		}

		if vs.limiter != nil {
			if err := vs.limiter.Wait(ctx); err != nil {
				return count, err
			}
		}

		if err := vs.addBatch(ctx, stmt, docs[start:end]); err != nil {
			return count, err
		}
		count += end - start
	}

	return count, nil
}

func (vs *VectorStore) addBatch(ctx context.Context, stmt string, docs []models.Document) error {
	tx, err := vs.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	for _, doc := range docs {
		metadata, err := json.Marshal(doc.Metadata.Extra)
		if err != nil {
			return fmt.Errorf("failed to encode metadata: %v", err)
		}

		var pageNumber any
		if doc.Metadata.PageNumber > 0 {
			pageNumber = doc.Metadata.PageNumber
		}

		_, err = tx.Exec(ctx, stmt,
			doc.ID,
			doc.Metadata.Source,
			sanitizeUTF8(doc.Content),
			doc.Metadata.ChunkIndex,
			doc.Metadata.TotalChunks,
			pageNumber,
			doc.Metadata.CreatedAt,
			metadata,
		)
		if err != nil {
			return fmt.Errorf("failed to insert document: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}

func (vs *VectorStore) Close() {
	if vs.pool != nil {
		vs.pool.Close()
	}
}

func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}
