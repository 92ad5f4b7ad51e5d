package patterns

import "bytes"

// Builtin returns the catalog used when no pattern file is available.
func Builtin() *Catalog {
	c, err := NewCatalog(builtinPatterns())
	if err != nil {
		panic(err)
	}
	return c
}

func builtinPatterns() []Pattern {
	return []Pattern{
		{
			Name:        "whiteout",
			Description: "All FF bytes - creates white flash effect",
			Bytes:       bytes.Repeat([]byte{0xFF}, Size),
		},
		{
			Name:        "blackout",
			Description: "All 00 bytes - creates black frames or freezing",
			Bytes:       make([]byte, Size),
		},
		{
			Name:        "checkerboard",
			Description: "Alternating pattern for digital noise",
			Bytes:       bytes.Repeat([]byte{0xAA, 0x55}, Size/2),
		},
		{
			Name:        "rainbow_simple",
			Description: "Simple rainbow gradient",
			Bytes:       ramp(1),
		},
		{
			Name:        "checkerboard_pulse",
			Description: "Blocks of alternating checkerboard phases",
			Bytes:       pulse(),
		},
		{
			Name:        "rainbow_drift",
			Description: "Gradient that drifts three steps per byte",
			Bytes:       ramp(3),
		},
		{
			Name:        "garbage_binary",
			Description: "Pseudo-random bytes for heavy corruption",
			Bytes:       garbage(0x9E3779B9),
		},
	}
}

func ramp(step int) []byte {
	b := make([]byte, Size)
	for i := range b {
		b[i] = byte(i * step)
	}
	return b
}

func pulse() []byte {
	b := make([]byte, Size)
	for i := range b {
		if (i/16)%2 == 0 {
			b[i] = []byte{0xAA, 0x55}[i%2]
		} else {
			b[i] = []byte{0x55, 0xAA}[i%2]
		}
	}
	return b
}

// garbage is a fixed xorshift sequence so the pattern is stable across runs.
func garbage(seed uint32) []byte {
	b := make([]byte, Size)
	x := seed
	for i := range b {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		b[i] = byte(x >> 24)
	}
	return b
}
