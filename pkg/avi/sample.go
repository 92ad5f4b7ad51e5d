package avi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// SampleOptions controls the synthetic file written by WriteSample.
type SampleOptions struct {
	// Frames is the number of 00dc chunks in the movi list.
	Frames int

	// FrameSize is the payload size of every frame. Odd sizes are padded.
	FrameSize int

	// Index appends an idx1 chunk. Its entries repeat the 00dc id, so a
	// literal scan will report them as extra chunks, the same as with
	// real files.
	Index bool
}

// DefaultSampleOptions mirrors the ten 1 KiB frames of the classic demo file.
var DefaultSampleOptions = SampleOptions{Frames: 10, FrameSize: 1024, Index: true}

// samplePayload fills every frame. It never contains the frame marker.
var samplePayload = []byte{0xFF, 0x00, 0x80, 0x40}

// binaryWriter keeps the first error so the layout code stays linear.
type binaryWriter struct {
	w   io.Writer
	err error
}

func (bw *binaryWriter) fourCC(s string) {
	if bw.err != nil {
		return
	}
	_, bw.err = io.WriteString(bw.w, s)
}

func (bw *binaryWriter) u32(v uint32) {
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(bw.w, binary.LittleEndian, v)
}

func (bw *binaryWriter) bytes(b []byte) {
	if bw.err != nil {
		return
	}
	_, bw.err = bw.w.Write(b)
}

// WriteSample writes a minimal RIFF/AVI container with opts.Frames frame
// chunks. It is not meant to be playable; it gives the glitcher something
// with realistic chunk geometry to work on.
func WriteSample(w io.Writer, opts SampleOptions) error {
	if opts.Frames < 1 {
		return errors.New("sample needs at least one frame")
	}
	if opts.FrameSize < 1 {
		return errors.New("frame size must be positive")
	}

	frameSize := uint32(opts.FrameSize)
	padded := frameSize
	if padded%2 != 0 {
		padded++
	}
	frames := uint32(opts.Frames)

	payload := make([]byte, padded)
	for i := range payload {
		payload[i] = samplePayload[i%len(samplePayload)]
	}

	const (
		avihSize = 56
		hdrlSize = 4 + 8 + avihSize // "hdrl" + avih chunk
	)
	moviSize := 4 + frames*(ChunkHeaderSize+padded)
	riffSize := 4 + (8 + hdrlSize) + (8 + moviSize)
	if opts.Index {
		riffSize += 8 + frames*16
	}

	bw := &binaryWriter{w: w}

	bw.fourCC("RIFF")
	bw.u32(riffSize)
	bw.fourCC("AVI ")

	bw.fourCC("LIST")
	bw.u32(hdrlSize)
	bw.fourCC("hdrl")
	bw.fourCC("avih")
	bw.u32(avihSize)
	bw.u32(66666) // microseconds per frame (15 fps)
	bw.u32(frameSize * 15)
	bw.u32(0)
	bw.u32(0x10) // AVIF_HASINDEX
	bw.u32(frames)
	bw.u32(0)
	bw.u32(1)
	bw.u32(frameSize)
	bw.bytes(make([]byte, avihSize-8*4))

	bw.fourCC("LIST")
	bw.u32(moviSize)
	bw.fourCC("movi")
	for i := uint32(0); i < frames; i++ {
		bw.bytes(FrameMarker)
		bw.u32(frameSize)
		bw.bytes(payload)
	}

	if opts.Index {
		bw.fourCC("idx1")
		bw.u32(frames * 16)
		offset := uint32(4)
		for i := uint32(0); i < frames; i++ {
			bw.bytes(FrameMarker)
			bw.u32(0x10) // AVIIF_KEYFRAME
			bw.u32(offset)
			bw.u32(frameSize)
			offset += ChunkHeaderSize + padded
		}
	}

	if bw.err != nil {
		return fmt.Errorf("failed to write sample avi: %w", bw.err)
	}
	return nil
}
