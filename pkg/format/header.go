package format

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Markers used to delineate sections in the text-friendly record format
const (
	// MagicHeader is the user-friendly introduction found at the top of the file
	MagicHeader = `# THIS FILE IS A HEXGLITCH RUN RECORD.
# IT DESCRIBES %d OVERWRITES APPLIED TO %s.
# RUN AGAIN WITH THE SAME SETTINGS AND SEED TO REPRODUCE THE OUTPUT,
# OR CHECK AN EXISTING OUTPUT WITH:
#   hexglitch verify <record> <output>
`
	// HeaderMarker indicates the start of the JSON metadata
	HeaderMarker = "-- HEADER --"

	// LogMarker indicates the start of the glitch log, one JSON entry per line
	LogMarker = "-- LOG --"

	// Version is the record layout written by this package.
	Version = 1
)

var (
	ErrSizeMismatch   = errors.New("file size does not match record")
	ErrDigestMismatch = errors.New("file digest does not match record")
)

// Header holds everything needed to reproduce or check a run.
type Header struct {
	Version   int    `json:"version"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	Timestamp int64  `json:"timestamp"`

	// Seed reproduces the run together with the settings below.
	Seed        int64    `json:"seed"`
	Strategy    string   `json:"strategy"`
	Value       int      `json:"value"`
	MaxGlitches int      `json:"maxGlitches"`
	Intensity   string   `json:"intensity"`
	Smear       bool     `json:"smear"`
	Patterns    []string `json:"patterns"`

	Size     int   `json:"size"`
	Chunks   int   `json:"chunks"`
	Selected []int `json:"selected"`
	Applied  int   `json:"applied"`

	InputDigest  uint64 `json:"inputDigest"`
	OutputDigest uint64 `json:"outputDigest"`
}

// Validate checks if the header contains sane values.
func (h *Header) Validate() error {
	if h.Version != Version {
		return fmt.Errorf("unsupported record version %d", h.Version)
	}
	if h.Input == "" || h.Output == "" {
		return errors.New("record is missing input or output path")
	}
	if h.Size < 0 || h.Chunks < 0 || h.Applied < 0 {
		return errors.New("record has negative counts")
	}
	if len(h.Selected) > h.Chunks {
		return fmt.Errorf("record selects %d of %d chunks", len(h.Selected), h.Chunks)
	}
	for _, idx := range h.Selected {
		if idx < 0 || idx >= h.Chunks {
			return fmt.Errorf("selected frame %d out of range", idx)
		}
	}
	return nil
}

// Verify compares data with the recorded output, or with the recorded
// input when input is true.
func (h *Header) Verify(data []byte, input bool) error {
	want := h.OutputDigest
	if input {
		want = h.InputDigest
	}
	if len(data) != h.Size {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(data), h.Size)
	}
	if got := xxhash.Sum64(data); got != want {
		return fmt.Errorf("%w: got %016x, want %016x", ErrDigestMismatch, got, want)
	}
	return nil
}
