package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelvad/textprep/internal/models"
)

// ErrUnsupportedSource is returned before any chunking when a file's
// extension has no extractor.
var ErrUnsupportedSource = errors.New("unsupported source type")

// Source is one unit of extracted input handed to the ingestor.
// Exactly one of Text or Pages is populated.
type Source struct {
	ID    string
	Text  string
	Pages []models.Page
	Extra models.Meta
}

func (s *Source) Paginated() bool {
	return len(s.Pages) > 0
}

type LoaderConfig struct {
	AllowedExtensions []string
	IgnorePatterns    []string
	OnProgress        func(path string)
}

type Loader struct {
	config LoaderConfig
}

func NewWithConfig(config LoaderConfig) *Loader {
	if len(config.AllowedExtensions) == 0 {
		config.AllowedExtensions = []string{
			".txt", ".text", ".log",
			".md", ".markdown",
			".html", ".htm",
			".pdf",
			".go", ".py", ".json", ".csv",
		}
	}
	return &Loader{config: config}
}

func New() *Loader {
	return NewWithConfig(LoaderConfig{})
}

// Load reads one file and extracts its text, choosing the extractor by
// extension. PDFs come back as pages; everything else as a single
// text.
func (l *Loader) Load(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %v", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	source := &Source{
		ID: filepath.Base(path),
		Extra: models.Meta{
			"filename":        filepath.Base(path),
			"extension":       ext,
			"file_size_bytes": info.Size(),
		},
	}

	switch ext {
	case ".txt", ".text", ".log", ".go", ".py", ".json", ".csv":
		source.Text = string(data)
	case ".md", ".markdown":
		source.Text = extractMarkdown(data)
	case ".html", ".htm":
		text, err := extractHTML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse html: %v", err)
		}
		source.Text = text
	case ".pdf":
		pages, totalPages, err := extractPDF(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pdf: %v", err)
		}
		source.Pages = pages
		source.Extra["total_pages"] = totalPages
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, ext)
	}

	if l.config.OnProgress != nil {
		l.config.OnProgress(path)
	}
	return source, nil
}

// Walk collects ingestable files under dir, honoring the allowed
// extensions and ignore patterns. It only discovers paths; loading and
// chunking each one, and isolating per-file failures, is the caller's
// loop.
func (l *Loader) Walk(dir string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if l.shouldProcess(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %v", err)
	}
	return paths, nil
}

func (l *Loader) shouldProcess(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	validExt := false
	for _, allowed := range l.config.AllowedExtensions {
		if ext == allowed {
			validExt = true
			break
		}
	}
	if !validExt {
		return false
	}

	for _, pattern := range l.config.IgnorePatterns {
		if strings.Contains(path, pattern) {
			return false
		}
	}
	return true
}
