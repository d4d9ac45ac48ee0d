package splitter

// ApplyOverlap prefixes each chunk after the first with the trailing
// chunkOverlap characters of its predecessor, joined by a single
// space. It reads from the final merged sequence produced by Split:
// the overlap comes from the previous post-merge chunk, never from an
// intermediate fragment, so it must run only after splitting is done.
// A chunk is left unmodified when prefixing would push it past the
// chunk size.
func (s *Splitter) ApplyOverlap(chunks []string) []string {
	if s.config.ChunkOverlap <= 0 || len(chunks) < 2 {
		return chunks
	}

	result := make([]string, 0, len(chunks))
	result = append(result, chunks[0])

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		overlap := prev
		if len(prev) > s.config.ChunkOverlap {
			overlap = prev[len(prev)-s.config.ChunkOverlap:]
		}

		if len(overlap)+1+len(chunks[i]) <= s.config.ChunkSize {
			result = append(result, overlap+" "+chunks[i])
		} else {
			result = append(result, chunks[i])
		}
	}
	return result
}
