package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Beastly713/hexglitch/pkg/glitch"
)

// Writer handles the writing of a single run record.
type Writer struct {
	w io.Writer
}

// NewWriter creates a new Writer around an io.Writer (usually an os.File).
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write serializes the header and the glitch log to the underlying writer.
func (rw *Writer) Write(header *Header, entries []glitch.Entry) error {
	// 1. Validate the header before writing anything
	if err := header.Validate(); err != nil {
		return fmt.Errorf("invalid header: %w", err)
	}
	if len(entries) != header.Applied {
		return fmt.Errorf("invalid header: %d log entries for %d applied overwrites", len(entries), header.Applied)
	}

	// 2. Magic header text
	if _, err := fmt.Fprintf(rw.w, MagicHeader, header.Applied, header.Input); err != nil {
		return fmt.Errorf("failed to write magic header: %w", err)
	}

	// 3. Header marker and JSON
	if _, err := fmt.Fprintln(rw.w, HeaderMarker); err != nil {
		return fmt.Errorf("failed to write header marker: %w", err)
	}
	headerBytes, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if _, err := rw.w.Write(headerBytes); err != nil {
		return fmt.Errorf("failed to write json header: %w", err)
	}
	if _, err := fmt.Fprintln(rw.w); err != nil {
		return err
	}

	// 4. Log marker and one entry per line
	if _, err := fmt.Fprintln(rw.w, LogMarker); err != nil {
		return fmt.Errorf("failed to write log marker: %w", err)
	}
	enc := json.NewEncoder(rw.w)
	for i, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("failed to write log entry %d: %w", i, err)
		}
	}

	return nil
}
