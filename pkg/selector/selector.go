package selector

import (
	"fmt"
	"slices"
	"strings"
)

// Strategy decides which frame indices get corrupted.
type Strategy int

const (
	// EveryNth targets frames 0, n, 2n, ...
	EveryNth Strategy = iota
	// RandomPercent targets a random p% of all frames.
	RandomPercent
	// TimeOffset targets every frame from a start index to the end.
	TimeOffset
)

var strategyNames = map[Strategy]string{
	EveryNth:      "every_nth",
	RandomPercent: "random",
	TimeOffset:    "time_offset",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Names returns the accepted strategy names.
func Names() []string {
	return []string{"every_nth", "random", "time_offset"}
}

// Parse maps a strategy name to a Strategy.
func Parse(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q (valid: %s)", name, strings.Join(Names(), ", "))
}

// Source is the random source used by RandomPercent.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Select returns the ascending frame indices to corrupt out of total frames.
//
// value is the stride for EveryNth, the percentage for RandomPercent and the
// first frame for TimeOffset. When maxGlitches is positive only the first
// maxGlitches picks are kept. rng is only consulted by RandomPercent.
func Select(total int, s Strategy, value, maxGlitches int, rng Source) []int {
	if total <= 0 {
		return nil
	}

	var selected []int
	switch s {
	case EveryNth:
		n := max(1, value)
		for i := 0; i < total; i += n {
			selected = append(selected, i)
		}

	case RandomPercent:
		p := min(max(value, 0), 100)
		count := total * p / 100
		selected = Sample(rng, total, count)

	case TimeOffset:
		start := min(max(value, 0), total-1)
		for i := start; i < total; i++ {
			selected = append(selected, i)
		}
	}

	if maxGlitches > 0 && len(selected) > maxGlitches {
		selected = selected[:maxGlitches]
	}
	slices.Sort(selected)
	return selected
}

// Sample draws k distinct integers from [0, n) in draw order, using a
// partial Fisher-Yates shuffle. k is capped at n.
func Sample(rng Source, n, k int) []int {
	k = min(k, n)
	if k <= 0 {
		return nil
	}

	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k:k]
}
