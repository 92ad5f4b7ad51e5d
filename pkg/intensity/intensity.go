package intensity

import (
	"fmt"
	"strings"
)

// Level is one of the five named corruption intensities.
type Level int

const (
	Low Level = iota
	Medium
	High
	Extreme
	Fucked
)

// Default is used for names that are not recognized.
const Default = Medium

var levelNames = [...]string{
	Low:     "low",
	Medium:  "medium",
	High:    "high",
	Extreme: "extreme",
	Fucked:  "fucked",
}

// Profile bounds the random draws of the standard corruption engine.
// All ranges are inclusive.
type Profile struct {
	SpacingMin int // distance between successive overwrite cursors
	SpacingMax int
	SizeMin    int // bytes per overwrite
	SizeMax    int
	StackMin   int // patterns concatenated into one fill buffer
	StackMax   int
	Chaos      int // max random jitter added to each write offset

	// AllowOverlap lets a write land on bytes already written to the same
	// chunk during the same call.
	AllowOverlap bool

	// SkipHeader is the number of payload bytes left untouched at the start
	// of every chunk.
	SkipHeader int
}

var profiles = [...]Profile{
	Low: {
		SpacingMin: 512, SpacingMax: 1024,
		SizeMin: 128, SizeMax: 256,
		StackMin: 1, StackMax: 1,
		Chaos:      0,
		SkipHeader: 8,
	},
	Medium: {
		SpacingMin: 256, SpacingMax: 512,
		SizeMin: 256, SizeMax: 512,
		StackMin: 1, StackMax: 2,
		Chaos:      8,
		SkipHeader: 8,
	},
	High: {
		SpacingMin: 128, SpacingMax: 256,
		SizeMin: 384, SizeMax: 768,
		StackMin: 2, StackMax: 3,
		Chaos:        16,
		AllowOverlap: true,
		SkipHeader:   8,
	},
	Extreme: {
		SpacingMin: 64, SpacingMax: 128,
		SizeMin: 512, SizeMax: 1024,
		StackMin: 3, StackMax: 4,
		Chaos:        32,
		AllowOverlap: true,
		SkipHeader:   8,
	},
	Fucked: {
		SpacingMin: 32, SpacingMax: 64,
		SizeMin: 768, SizeMax: 2048,
		StackMin: 4, StackMax: 6,
		Chaos:        64,
		AllowOverlap: true,
		SkipHeader:   8,
	},
}

// Levels returns all levels from the mildest to the most aggressive.
func Levels() []Level {
	return []Level{Low, Medium, High, Extreme, Fucked}
}

// Names returns the level names in the same order as Levels.
func Names() []string {
	return levelNames[:]
}

func (l Level) String() string {
	if l < Low || l > Fucked {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Profile returns the parameters of l. Out-of-range levels get the default.
func (l Level) Profile() Profile {
	if l < Low || l > Fucked {
		return profiles[Default]
	}
	return profiles[l]
}

// ParseLevel maps a name to its level, case-insensitively.
// The boolean is false when the name is unknown and Default was returned.
func ParseLevel(name string) (Level, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range levelNames {
		if n == name {
			return Level(i), true
		}
	}
	return Default, false
}

// Lookup returns the profile for name, falling back to medium.
func Lookup(name string) Profile {
	l, _ := ParseLevel(name)
	return l.Profile()
}

// Validate reports ranges that the engine cannot draw from.
func (p Profile) Validate() error {
	switch {
	case p.SpacingMin < 1 || p.SpacingMax < p.SpacingMin:
		return fmt.Errorf("invalid spacing range %d-%d", p.SpacingMin, p.SpacingMax)
	case p.SizeMin < 1 || p.SizeMax < p.SizeMin:
		return fmt.Errorf("invalid overwrite size range %d-%d", p.SizeMin, p.SizeMax)
	case p.StackMin < 1 || p.StackMax < p.StackMin:
		return fmt.Errorf("invalid pattern stack range %d-%d", p.StackMin, p.StackMax)
	case p.Chaos < 0:
		return fmt.Errorf("chaos offset cannot be negative: %d", p.Chaos)
	case p.SkipHeader < 0:
		return fmt.Errorf("skip header bytes cannot be negative: %d", p.SkipHeader)
	}
	return nil
}
