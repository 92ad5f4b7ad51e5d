package glitch

import (
	"encoding/hex"
	"fmt"
)

// PreviewSize is the number of fill bytes kept in each log entry.
const PreviewSize = 16

// Entry records one applied overwrite.
type Entry struct {
	Offset      uint64 `json:"offset"`
	Size        uint32 `json:"size"`
	Preview     []byte `json:"pattern_preview"`
	ChunkOffset uint64 `json:"chunk_offset"`
}

// End returns the offset one past the last written byte.
func (e Entry) End() uint64 {
	return e.Offset + uint64(e.Size)
}

// PreviewHex renders the preview as hex, with a trailing "..." when the
// write was longer than the preview.
func (e Entry) PreviewHex() string {
	s := hex.EncodeToString(e.Preview)
	if int(e.Size) > len(e.Preview) {
		s += "..."
	}
	return s
}

func (e Entry) String() string {
	return fmt.Sprintf("offset=0x%08x size=%d chunk=0x%08x pattern=%s", e.Offset, e.Size, e.ChunkOffset, e.PreviewHex())
}
