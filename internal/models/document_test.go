package models_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvad/textprep/internal/models"
)

func TestMetaValidate(t *testing.T) {
	valid := models.Meta{
		"filename":  "notes.txt",
		"indexed":   true,
		"pages":     int(12),
		"size":      int64(4096),
		"threshold": 0.5,
	}
	assert.NoError(t, valid.Validate())

	invalid := models.Meta{"tags": []string{"a", "b"}}
	err := invalid.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tags")

	nested := models.Meta{"inner": map[string]string{"k": "v"}}
	assert.Error(t, nested.Validate())

	var nilMeta models.Meta
	assert.NoError(t, nilMeta.Validate())
}

func TestMetaClone(t *testing.T) {
	original := models.Meta{"lang": "en"}
	clone := original.Clone()

	clone["lang"] = "de"
	clone["added"] = true

	assert.Equal(t, "en", original["lang"])
	assert.NotContains(t, original, "added")

	// Cloning a nil bag yields a writable map.
	var nilMeta models.Meta
	nilClone := nilMeta.Clone()
	nilClone["ok"] = true
	assert.Equal(t, true, nilClone["ok"])
}

func TestNewDocumentID(t *testing.T) {
	a := models.NewDocumentID()
	b := models.NewDocumentID()

	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestDocumentFields(t *testing.T) {
	doc := models.Document{
		ID:      models.NewDocumentID(),
		Content: "chunk text",
		Metadata: models.DocumentMetadata{
			Source:      "notes.txt",
			ChunkIndex:  0,
			TotalChunks: 1,
			CreatedAt:   time.Now(),
			Extra:       models.Meta{},
		},
	}

	assert.NotEmpty(t, doc.ID)
	assert.NotEmpty(t, doc.Content)
	assert.Equal(t, "notes.txt", doc.Metadata.Source)
}
