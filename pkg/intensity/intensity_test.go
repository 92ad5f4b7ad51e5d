package intensity

import "testing"

func TestLookupKnownNames(t *testing.T) {
	for _, l := range Levels() {
		p := Lookup(l.String())
		if p != l.Profile() {
			t.Errorf("Lookup(%q) returned a different profile", l)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("Profile %s is invalid: %v", l, err)
		}
	}
}

func TestLookupFallsBackToMedium(t *testing.T) {
	for _, name := range []string{"", "ultra", "MEDIUMISH"} {
		if Lookup(name) != Medium.Profile() {
			t.Errorf("Lookup(%q) should fall back to medium", name)
		}
		if _, ok := ParseLevel(name); ok {
			t.Errorf("ParseLevel(%q) should report an unknown name", name)
		}
	}

	// Case and surrounding spaces are ignored.
	if l, ok := ParseLevel("  HIGH "); !ok || l != High {
		t.Errorf("ParseLevel should accept upper case names, got %v %v", l, ok)
	}
}

func TestLevelsAreIncreasinglyAggressive(t *testing.T) {
	levels := Levels()
	for i := 1; i < len(levels); i++ {
		prev, cur := levels[i-1].Profile(), levels[i].Profile()

		if cur.SpacingMax >= prev.SpacingMax || cur.SpacingMin >= prev.SpacingMin {
			t.Errorf("%s should have smaller spacing than %s", levels[i], levels[i-1])
		}
		if cur.SizeMax <= prev.SizeMax {
			t.Errorf("%s should have larger overwrites than %s", levels[i], levels[i-1])
		}
		if cur.StackMax < prev.StackMax {
			t.Errorf("%s should stack at least as many patterns as %s", levels[i], levels[i-1])
		}
		if cur.Chaos <= prev.Chaos {
			t.Errorf("%s should have more chaos than %s", levels[i], levels[i-1])
		}
	}

	for _, l := range levels {
		want := l >= High
		if l.Profile().AllowOverlap != want {
			t.Errorf("%s: AllowOverlap = %v, want %v", l, l.Profile().AllowOverlap, want)
		}
	}
}

func TestLowProfileValues(t *testing.T) {
	p := Low.Profile()
	want := Profile{SpacingMin: 512, SpacingMax: 1024, SizeMin: 128, SizeMax: 256, StackMin: 1, StackMax: 1, SkipHeader: 8}
	if p != want {
		t.Fatalf("Low profile = %+v, want %+v", p, want)
	}
}

func TestValidateRejectsBadRanges(t *testing.T) {
	p := Medium.Profile()
	p.SizeMax = p.SizeMin - 1
	if err := p.Validate(); err == nil {
		t.Error("Expected error for inverted size range")
	}

	p = Medium.Profile()
	p.SpacingMin = 0
	if err := p.Validate(); err == nil {
		t.Error("Expected error for zero spacing")
	}
}

func TestOutOfRangeLevel(t *testing.T) {
	l := Level(42)
	if l.Profile() != Default.Profile() {
		t.Error("Out of range level should use the default profile")
	}
	if l.String() != "Level(42)" {
		t.Errorf("Unexpected string %q", l.String())
	}
}
