package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Meta carries free-form metadata attached to a document. Values are
// restricted to primitives so the bag serializes cleanly to JSONB and
// round-trips across stores.
type Meta map[string]any

func (m Meta) Validate() error {
	for key, value := range m {
		switch value.(type) {
		case string, bool, int, int64, float64:
		default:
			return fmt.Errorf("metadata key %q has unsupported type %T", key, value)
		}
	}
	return nil
}

func (m Meta) Clone() Meta {
	clone := make(Meta, len(m)+1)
	for key, value := range m {
		clone[key] = value
	}
	return clone
}

type DocumentMetadata struct {
	Source      string
	ChunkIndex  int
	TotalChunks int
	CreatedAt   time.Time
	PageNumber  int // 0 when the source is not paginated
	Extra       Meta
}

// Document is one stored chunk plus its metadata, the unit handed to
// the storage collaborator. Content is never empty.
type Document struct {
	ID       string
	Content  string
	Metadata DocumentMetadata
}

func NewDocumentID() string {
	return uuid.NewString()
}

// Page is one page of a paginated source before chunking.
type Page struct {
	Number int
	Text   string
}
