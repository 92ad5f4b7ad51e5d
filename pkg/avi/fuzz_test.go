package avi_test

import (
	"testing"

	"github.com/Beastly713/hexglitch/pkg/avi"
)

// FuzzLocateChunks checks that arbitrary input never panics and that every
// reported chunk has a marker and a full size field inside the buffer.
func FuzzLocateChunks(f *testing.F) {
	f.Add([]byte("00dc\x10\x00\x00\x00payload"))
	f.Add([]byte("00dc00dc\x00\x00\x00\x00"))
	f.Add([]byte("00d"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, c := range avi.LocateChunks(data) {
			if c.Offset+avi.ChunkHeaderSize > uint64(len(data)) {
				t.Fatalf("chunk at %d has no room for its size field (len %d)", c.Offset, len(data))
			}
			if string(data[c.Offset:c.Offset+4]) != "00dc" {
				t.Fatalf("chunk at %d does not start with the marker", c.Offset)
			}
		}
	})
}
