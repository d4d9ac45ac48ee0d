package loader

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kelvad/textprep/internal/models"
)

// extractPDF pulls text out of a PDF page by page, keeping page
// numbers so chunk metadata can cite them. Pages that yield no text
// are dropped; the returned total still counts them.
func extractPDF(data []byte) ([]models.Page, int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, 0, err
	}

	totalPages := reader.NumPage()

	var pages []models.Page
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		pages = append(pages, models.Page{Number: i, Text: text})
	}
	return pages, totalPages, nil
}
