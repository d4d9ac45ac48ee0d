package ingest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvad/textprep/internal/models"
	"github.com/kelvad/textprep/pkg/ingest"
)

func TestIngestTextEmptyInput(t *testing.T) {
	ing := ingest.New()

	assert.Empty(t, ing.IngestText("", "empty.txt", nil))
	assert.Empty(t, ing.IngestText("   \n\t  ", "blank.txt", nil))
}

func TestIngestTextMetadata(t *testing.T) {
	ing, err := ingest.NewWithConfig(ingest.IngestorConfig{ChunkSize: 100})
	require.NoError(t, err)

	text := strings.Repeat("This is a test sentence. ", 40)
	docs := ing.IngestText(text, "notes.txt", models.Meta{"lang": "en"})

	require.Greater(t, len(docs), 1)

	seen := make(map[string]bool)
	for i, doc := range docs {
		assert.NotEmpty(t, doc.Content)
		assert.Equal(t, "notes.txt", doc.Metadata.Source)
		assert.Equal(t, i, doc.Metadata.ChunkIndex)
		assert.Equal(t, len(docs), doc.Metadata.TotalChunks)
		assert.Equal(t, 0, doc.Metadata.PageNumber)
		assert.Equal(t, "en", doc.Metadata.Extra["lang"])
		assert.False(t, doc.Metadata.CreatedAt.IsZero())

		assert.False(t, seen[doc.ID], "document ids must be unique")
		seen[doc.ID] = true
	}
}

func TestIngestTextClonesExtra(t *testing.T) {
	ing, err := ingest.NewWithConfig(ingest.IngestorConfig{ChunkSize: 50})
	require.NoError(t, err)

	extra := models.Meta{"version": 1}
	docs := ing.IngestText(strings.Repeat("word ", 40), "doc.txt", extra)
	require.Greater(t, len(docs), 1)

	docs[0].Metadata.Extra["version"] = 2

	assert.Equal(t, 1, extra["version"])
	assert.Equal(t, 1, docs[1].Metadata.Extra["version"])
}

func TestIngestPagesGlobalIndexing(t *testing.T) {
	ing, err := ingest.NewWithConfig(ingest.IngestorConfig{ChunkSize: 500})
	require.NoError(t, err)

	pages := []models.Page{
		{Number: 1, Text: strings.Repeat("a", 600)},
		{Number: 2, Text: strings.Repeat("b", 10)},
	}

	docs := ing.IngestPages(pages, "report.pdf", nil)
	require.Len(t, docs, 3)

	for i, doc := range docs {
		assert.Equal(t, i, doc.Metadata.ChunkIndex)
		assert.Equal(t, 3, doc.Metadata.TotalChunks)
		assert.Equal(t, "report.pdf", doc.Metadata.Source)
	}

	assert.Equal(t, 1, docs[0].Metadata.PageNumber)
	assert.Equal(t, 1, docs[1].Metadata.PageNumber)
	assert.Equal(t, 2, docs[2].Metadata.PageNumber)

	assert.Equal(t, 0, docs[0].Metadata.Extra[ingest.PageChunkIndexKey])
	assert.Equal(t, 1, docs[1].Metadata.Extra[ingest.PageChunkIndexKey])
	assert.Equal(t, 0, docs[2].Metadata.Extra[ingest.PageChunkIndexKey])
}

func TestIngestPagesSkipsEmptyPages(t *testing.T) {
	ing := ingest.New()

	pages := []models.Page{
		{Number: 1, Text: "first page"},
		{Number: 2, Text: "   \n  "},
		{Number: 3, Text: "third page"},
	}

	docs := ing.IngestPages(pages, "gaps.pdf", nil)
	require.Len(t, docs, 2)
	assert.Equal(t, 1, docs[0].Metadata.PageNumber)
	assert.Equal(t, 3, docs[1].Metadata.PageNumber)
	assert.Equal(t, 2, docs[1].Metadata.TotalChunks)
}

func TestIngestPagesOverlapStaysPageLocal(t *testing.T) {
	ing, err := ingest.NewWithConfig(ingest.IngestorConfig{ChunkSize: 10, ChunkOverlap: 3})
	require.NoError(t, err)

	pages := []models.Page{
		{Number: 1, Text: "aaaa bbbb cccc"},
		{Number: 2, Text: "dddd eeee ffff"},
	}

	docs := ing.IngestPages(pages, "two.pdf", nil)
	require.Len(t, docs, 4)

	// Within a page, the second chunk carries trailing context from
	// the first.
	assert.Equal(t, "aaaa bbbb", docs[0].Content)
	assert.Equal(t, "bbb cccc", docs[1].Content)

	// The first chunk of the next page carries nothing from the
	// previous page.
	assert.Equal(t, "dddd eeee", docs[2].Content)
	assert.Equal(t, "eee ffff", docs[3].Content)
}

func TestIngestPagesAllEmpty(t *testing.T) {
	ing := ingest.New()

	docs := ing.IngestPages([]models.Page{{Number: 1, Text: "  "}}, "empty.pdf", nil)
	assert.Empty(t, docs)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "crlf line endings",
			in:   "one\r\ntwo\rthree",
			want: "one\ntwo\nthree",
		},
		{
			name: "tabs and space runs collapse",
			in:   "a\tb    c",
			want: "a b c",
		},
		{
			name: "blank lines capped at one",
			in:   "a\n\n\n\n\nb",
			want: "a\n\nb",
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  hello  \n",
			want: "hello",
		},
		{
			name: "empty stays empty",
			in:   "   \n\t ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ingest.Normalize(tt.in))
		})
	}
}
