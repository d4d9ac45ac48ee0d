package ingest

import (
	"time"

	"github.com/kelvad/textprep/internal/models"
	"github.com/kelvad/textprep/internal/types"
	"github.com/kelvad/textprep/pkg/splitter"
)

var _ types.Ingestor = (*Ingestor)(nil)

// PageChunkIndexKey is the extra-metadata key under which a chunk's
// ordinal within its own page is recorded for paginated sources. It is
// independent of the global chunk index.
const PageChunkIndexKey = "page_chunk_index"

type IngestorConfig struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

// Ingestor turns raw text into storage-ready documents: normalize,
// split, stitch overlap, assign metadata. It holds no mutable state,
// so one Ingestor may serve concurrent callers.
type Ingestor struct {
	splitter *splitter.Splitter
}

func NewWithConfig(config IngestorConfig) (*Ingestor, error) {
	s, err := splitter.NewWithConfig(splitter.SplitterConfig{
		ChunkSize:    config.ChunkSize,
		ChunkOverlap: config.ChunkOverlap,
		Separators:   config.Separators,
	})
	if err != nil {
		return nil, err
	}
	return &Ingestor{splitter: s}, nil
}

func New() *Ingestor {
	ing, _ := NewWithConfig(IngestorConfig{ChunkOverlap: 50})
	return ing
}

type chunkRef struct {
	text        string
	pageNumber  int
	pageOrdinal int
}

// IngestText chunks a single-text source. Text that normalizes to
// empty yields no documents; that is not an error.
func (ing *Ingestor) IngestText(text, source string, extra models.Meta) []models.Document {
	text = Normalize(text)
	if text == "" {
		return nil
	}

	chunks := ing.splitter.ApplyOverlap(ing.splitter.Split(text))

	refs := make([]chunkRef, len(chunks))
	for i, chunk := range chunks {
		refs[i] = chunkRef{text: chunk}
	}
	return ing.assign(refs, source, extra, false)
}

// IngestPages chunks a paginated source. Each page is normalized and
// split on its own, and overlap never crosses a page boundary. Chunk
// indexes are assigned globally across the whole source in a second
// pass, once the true total is known, so every document carries the
// final count. Buffering one source's chunks before indexing bounds
// peak memory at a single source, not the corpus.
func (ing *Ingestor) IngestPages(pages []models.Page, source string, extra models.Meta) []models.Document {
	var refs []chunkRef
	for _, page := range pages {
		text := Normalize(page.Text)
		if text == "" {
			continue
		}

		chunks := ing.splitter.ApplyOverlap(ing.splitter.Split(text))
		for i, chunk := range chunks {
			refs = append(refs, chunkRef{
				text:        chunk,
				pageNumber:  page.Number,
				pageOrdinal: i,
			})
		}
	}
	return ing.assign(refs, source, extra, true)
}

func (ing *Ingestor) assign(refs []chunkRef, source string, extra models.Meta, paginated bool) []models.Document {
	if len(refs) == 0 {
		return nil
	}

	now := time.Now()
	docs := make([]models.Document, 0, len(refs))

	for i, ref := range refs {
		meta := extra.Clone()
		if paginated {
			meta[PageChunkIndexKey] = ref.pageOrdinal
		}

		docs = append(docs, models.Document{
			ID:      models.NewDocumentID(),
			Content: ref.text,
			Metadata: models.DocumentMetadata{
				Source:      source,
				ChunkIndex:  i,
				TotalChunks: len(refs),
				CreatedAt:   now,
				PageNumber:  ref.pageNumber,
				Extra:       meta,
			},
		})
	}
	return docs
}
