package glitch

import (
	"errors"
	"fmt"

	"github.com/Beastly713/hexglitch/pkg/avi"
	"github.com/Beastly713/hexglitch/pkg/intensity"
	"github.com/RoaringBitmap/roaring"
	"go.uber.org/zap"
)

const (
	// SmearSize is the number of bytes written by every smear.
	SmearSize = 1024

	// SmearFloor is the first absolute file offset a smear may touch.
	// Everything before it (headers and the first key frames) is kept intact.
	SmearFloor = 102400
)

// ErrEmptyPool is returned when the engine has no usable pattern.
var ErrEmptyPool = errors.New("pattern pool is empty")

// Rand is the random source the engine draws from.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Engine applies overwrites to frame chunks of an in-memory file.
// It is not safe for concurrent use; all draws come from one source so a
// seeded source reproduces the same corruption.
type Engine struct {
	rng      Rand
	profile  intensity.Profile
	patterns [][]byte
	log      []Entry
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-chunk debug output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine drawing fill data from patterns.
// Every pattern must be non-empty.
func NewEngine(rng Rand, profile intensity.Profile, patterns [][]byte, opts ...Option) (*Engine, error) {
	if rng == nil {
		return nil, errors.New("random source is required")
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid intensity profile: %w", err)
	}
	if len(patterns) == 0 {
		return nil, ErrEmptyPool
	}
	for i, p := range patterns {
		if len(p) == 0 {
			return nil, fmt.Errorf("%w: pattern %d has no bytes", ErrEmptyPool, i)
		}
	}

	e := &Engine{
		rng:      rng,
		profile:  profile,
		patterns: patterns,
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Log returns every overwrite applied so far, in application order.
func (e *Engine) Log() []Entry {
	return e.log
}

// Profile returns the intensity profile in use.
func (e *Engine) Profile() intensity.Profile {
	return e.profile
}

// between draws uniformly from [lo, hi].
func (e *Engine) between(lo, hi int) int {
	return lo + e.rng.IntN(hi-lo+1)
}

// CorruptChunk walks the payload of the chunk at chunkOffset and overwrites
// randomly sized, randomly spaced runs with stacked patterns. It returns the
// number of overwrites applied.
//
// Writes never leave [chunkOffset+8+SkipHeader, chunkOffset+8+size) nor the
// buffer. Writes that would collide with an earlier write of the same call
// are skipped unless the profile allows overlap.
func (e *Engine) CorruptChunk(buf []byte, chunkOffset uint64, size uint32) int {
	p := e.profile
	chunk := avi.Chunk{Offset: chunkOffset, Size: size}

	dataStart := chunk.DataStart() + uint64(p.SkipHeader)
	dataEnd := chunk.DataEnd()
	bufLen := uint64(len(buf))
	if dataStart >= dataEnd || dataStart >= bufLen {
		return 0
	}
	limit := min(dataEnd, bufLen)
	available := limit - dataStart

	var used *roaring.Bitmap
	if !p.AllowOverlap {
		used = roaring.New()
	}

	applied := 0
	for pos := uint64(0); pos < available; {
		spacing := uint64(e.between(p.SpacingMin, p.SpacingMax))

		chaos := 0
		if p.Chaos > 0 {
			chaos = e.between(0, p.Chaos)
		}

		offset := dataStart + pos + uint64(chaos)
		if offset >= limit {
			break
		}

		n := uint64(e.between(p.SizeMin, p.SizeMax))
		if offset+n > limit {
			n = limit - offset
		}

		stack := e.between(p.StackMin, p.StackMax)
		fill := e.stackedFill(stack, int(n))

		if used != nil {
			// Positions are relative to dataStart so they fit in 32 bits.
			span := roaring.New()
			span.AddRange(offset-dataStart, offset-dataStart+n)
			if used.Intersects(span) {
				pos += spacing
				continue
			}
			used.Or(span)
		}

		copy(buf[offset:offset+n], fill)
		e.record(offset, fill, chunkOffset)
		applied++

		pos += spacing
	}

	e.logger.Debug("corrupted chunk",
		zap.Uint64("chunk_offset", chunkOffset),
		zap.Uint32("declared_size", size),
		zap.Int("applied", applied))

	return applied
}

// SmearChunk writes one SmearSize run of pattern at running bytes into the
// chunk payload. It returns 1 when the write happened and 0 when it was
// skipped because it would start before SmearFloor, cross the end of the
// chunk, or run past the buffer.
func (e *Engine) SmearChunk(buf []byte, chunkOffset uint64, size uint32, running uint64, pattern []byte) int {
	chunk := avi.Chunk{Offset: chunkOffset, Size: size}

	target := chunk.DataStart() + running
	switch {
	case target < SmearFloor:
		return 0
	case target+SmearSize > chunk.DataEnd():
		return 0
	case target+SmearSize > uint64(len(buf)):
		return 0
	case len(pattern) == 0:
		return 0
	}

	fill := repeatTo(pattern, SmearSize)
	copy(buf[target:target+SmearSize], fill)
	e.record(target, fill, chunkOffset)

	e.logger.Debug("smeared chunk",
		zap.Uint64("chunk_offset", chunkOffset),
		zap.Uint64("offset", target))

	return 1
}

// stackedFill concatenates count patterns drawn with replacement and
// truncates or repeats the result to exactly n bytes.
func (e *Engine) stackedFill(count, n int) []byte {
	var stacked []byte
	for i := 0; i < count; i++ {
		stacked = append(stacked, e.patterns[e.rng.IntN(len(e.patterns))]...)
	}
	return repeatTo(stacked, n)
}

// repeatTo returns exactly n bytes of src, repeated cyclically.
func repeatTo(src []byte, n int) []byte {
	out := make([]byte, n)
	for filled := 0; filled < n; {
		filled += copy(out[filled:], src)
	}
	return out
}

func (e *Engine) record(offset uint64, fill []byte, chunkOffset uint64) {
	preview := make([]byte, min(len(fill), PreviewSize))
	copy(preview, fill)

	e.log = append(e.log, Entry{
		Offset:      offset,
		Size:        uint32(len(fill)),
		Preview:     preview,
		ChunkOffset: chunkOffset,
	})
}
