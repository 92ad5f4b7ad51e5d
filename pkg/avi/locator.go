package avi

import (
	"bytes"
	"encoding/binary"
)

// FrameMarker is the chunk id of a compressed video frame in the movi list.
var FrameMarker = []byte("00dc")

// ChunkHeaderSize is the marker plus the little-endian size field.
const ChunkHeaderSize = 8

// Chunk is a frame chunk found by LocateChunks.
type Chunk struct {
	// Offset is the position of the marker in the buffer.
	// The payload starts ChunkHeaderSize bytes later.
	Offset uint64

	// Size is the declared payload size. It is not checked against the
	// buffer, so it may point past the end of a truncated file.
	Size uint32
}

// DataStart returns the offset of the first payload byte.
func (c Chunk) DataStart() uint64 {
	return c.Offset + ChunkHeaderSize
}

// DataEnd returns the offset one past the last declared payload byte.
func (c Chunk) DataEnd() uint64 {
	return c.DataStart() + uint64(c.Size)
}

// LocateChunks scans buf for frame markers and returns every occurrence
// that is followed by a complete size field, in buffer order.
//
// The scan is literal and resumes one byte after each hit, so a marker
// inside another chunk's payload (or overlapping another marker) is
// reported as well. An empty result means no frames were found.
func LocateChunks(buf []byte) []Chunk {
	var chunks []Chunk

	offset := 0
	for offset < len(buf) {
		idx := bytes.Index(buf[offset:], FrameMarker)
		if idx < 0 {
			break
		}
		pos := offset + idx

		if pos+ChunkHeaderSize <= len(buf) {
			chunks = append(chunks, Chunk{
				Offset: uint64(pos),
				Size:   binary.LittleEndian.Uint32(buf[pos+4 : pos+8]),
			})
		}

		offset = pos + 1
	}

	return chunks
}
