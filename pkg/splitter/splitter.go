package splitter

import (
	"fmt"
	"strings"

	"github.com/kelvad/textprep/internal/types"
)

var _ types.Splitter = (*Splitter)(nil)

// DefaultSeparators lists boundary markers from coarse to fine:
// paragraphs, lines, sentence enders, clause enders, words. The
// trailing empty string enables the character-window fallback.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "? ", "! ", "; ", ", ", " ", ""}

type SplitterConfig struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

type ConfigError struct {
	Field   string
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("splitter config: %s: %s", e.Field, e.Message)
}

type Splitter struct {
	config SplitterConfig
}

// NewWithConfig validates the configuration eagerly so a bad chunk
// size or overlap fails at construction, never mid-split.
func NewWithConfig(config SplitterConfig) (*Splitter, error) {
	if config.ChunkSize == 0 {
		config.ChunkSize = 500
	}
	if len(config.Separators) == 0 {
		config.Separators = DefaultSeparators
	}

	if config.ChunkSize < 0 {
		return nil, ConfigError{Field: "chunk_size", Message: "must be positive"}
	}
	if config.ChunkOverlap < 0 {
		return nil, ConfigError{Field: "chunk_overlap", Message: "must be non-negative"}
	}
	if config.ChunkOverlap >= config.ChunkSize {
		return nil, ConfigError{
			Field:   "chunk_overlap",
			Message: fmt.Sprintf("must be less than chunk_size (%d)", config.ChunkSize),
		}
	}

	return &Splitter{config: config}, nil
}

func New() *Splitter {
	s, _ := NewWithConfig(SplitterConfig{ChunkOverlap: 50})
	return s
}

func (s *Splitter) ChunkSize() int    { return s.config.ChunkSize }
func (s *Splitter) ChunkOverlap() int { return s.config.ChunkOverlap }

// Split breaks text into trimmed, non-empty chunks no longer than the
// configured chunk size, preferring the coarsest separator present in
// the text. Overlap is not applied here; see ApplyOverlap.
func (s *Splitter) Split(text string) []string {
	return s.splitRecursive(text, s.config.Separators)
}

func (s *Splitter) splitRecursive(text string, separators []string) []string {
	if len(text) <= s.config.ChunkSize {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	}

	for i, sep := range separators {
		if sep == "" {
			return s.splitByWindow(text)
		}
		if !strings.Contains(text, sep) {
			continue
		}

		var chunks []string
		current := ""

		for _, frag := range strings.Split(text, sep) {
			joined := frag
			if current != "" {
				joined = current + sep + frag
			}

			if len(joined) <= s.config.ChunkSize {
				current = joined
				continue
			}

			if trimmed := strings.TrimSpace(current); trimmed != "" {
				chunks = append(chunks, trimmed)
			}

			// A fragment exactly at the bound is kept whole; only
			// strictly larger ones recurse on the finer separators.
			if len(frag) > s.config.ChunkSize {
				chunks = append(chunks, s.splitRecursive(frag, separators[i+1:])...)
				current = ""
			} else {
				current = frag
			}
		}

		if trimmed := strings.TrimSpace(current); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		return chunks
	}

	// No separator from the hierarchy occurs in the text and there is
	// no character-level fallback: return the text whole even though
	// it exceeds the chunk size.
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		return []string{trimmed}
	}
	return nil
}

// splitByWindow is the character-level fallback for text where no
// separator applies. The window advances by chunkSize-chunkOverlap,
// which is strictly positive, so the loop always terminates.
func (s *Splitter) splitByWindow(text string) []string {
	step := s.config.ChunkSize - s.config.ChunkOverlap

	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + s.config.ChunkSize
		if end > len(text) {
			end = len(text)
		}
		if trimmed := strings.TrimSpace(text[start:end]); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
	}
	return chunks
}
