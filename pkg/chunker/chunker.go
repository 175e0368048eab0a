// Package chunker splits source text into bounded, overlapping chunks.
package chunker

import "errors"

// ErrInvalidOptions is returned for chunk parameters that could stall the
// walk (overlap >= chunk size) or make no sense at all.
var ErrInvalidOptions = errors.New("invalid chunk options")

type Options struct {
	ChunkSize int // target chunk size in characters
	Overlap   int // characters shared with the previous chunk
}

func DefaultOptions() Options {
	return Options{
		ChunkSize: 1000,
		Overlap:   200,
	}
}

// TextChunk is one contiguous slice of the source text.
type TextChunk struct {
	Content string
	Index   int
	Start   int // character offset into the source
	End     int
}

// Look-ahead windows for extending a chunk to a natural boundary.
const (
	sentenceLookahead = 100
	newlineLookahead  = 50
)

// Chunk walks text in windows of ChunkSize characters. A window that does
// not end the text is extended forward to just past the next sentence
// terminator within 100 characters, or the next newline within 50, the
// sentence terminator winning when both are in range. Consecutive chunks
// share Overlap characters. Offsets are in runes so multi-byte text never
// splits mid-character.
func Chunk(text string, opts Options) ([]TextChunk, error) {
	if opts.ChunkSize <= 0 || opts.Overlap < 0 || opts.Overlap >= opts.ChunkSize {
		return nil, ErrInvalidOptions
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	var chunks []TextChunk
	idx := 0

	for start := 0; start < len(runes); {
		end := start + opts.ChunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = extendToBoundary(runes, end)
		}

		chunks = append(chunks, TextChunk{
			Content: string(runes[start:end]),
			Index:   idx,
			Start:   start,
			End:     end,
		})
		idx++

		if end >= len(runes) {
			break
		}
		start = end - opts.Overlap
		if start < 0 {
			start = 0
		}
	}

	return chunks, nil
}

// extendToBoundary moves end just past the nearest sentence terminator or
// newline inside the look-ahead windows. It only ever moves end forward.
func extendToBoundary(runes []rune, end int) int {
	nextPeriod := indexFrom(runes, end, '.')
	nextNewline := indexFrom(runes, end, '\n')

	switch {
	case nextPeriod != -1 && nextPeriod < end+sentenceLookahead:
		return nextPeriod + 1
	case nextNewline != -1 && nextNewline < end+newlineLookahead:
		return nextNewline + 1
	}
	return end
}

func indexFrom(runes []rune, from int, r rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
