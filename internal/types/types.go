package types

import (
	"context"

	"github.com/kelvad/textprep/internal/models"
)

// Core interfaces
type Store interface {
	// Add upserts documents by id and returns the number written.
	Add(ctx context.Context, docs []models.Document) (int, error)
	Close()
}

type Ingestor interface {
	IngestText(text, source string, extra models.Meta) []models.Document
	IngestPages(pages []models.Page, source string, extra models.Meta) []models.Document
}

type Splitter interface {
	Split(text string) []string
	ApplyOverlap(chunks []string) []string
}
