package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
)

// chatChunk is one line of a streamed chat response.
type chatChunk struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// StreamReader parses a line-framed JSON chat stream.
type StreamReader struct {
	reader      *bufio.Reader
	accumulator strings.Builder
}

// NewStreamReader wraps a response body.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{reader: bufio.NewReader(r)}
}

// Process reads the stream to completion, invoking callback for each
// non-empty content fragment. Malformed lines are skipped rather than
// aborting the stream.
func (s *StreamReader) Process(ctx context.Context, callback func(string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := s.reader.ReadBytes('\n')
		if len(line) > 0 {
			var chunk chatChunk
			if json.Unmarshal(line, &chunk) == nil {
				if chunk.Message.Content != "" {
					s.accumulator.WriteString(chunk.Message.Content)
					callback(chunk.Message.Content)
				}
				if chunk.Done {
					return nil
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// Accumulated returns all content received so far.
func (s *StreamReader) Accumulated() string {
	return s.accumulator.String()
}
