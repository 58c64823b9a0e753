package gamedata

import "testing"

func TestNewSkillsStartsAtLevelOneZeroXP(t *testing.T) {
	s := NewSkills()
	for _, skill := range []SkillType{Woodcutting, Fishing, Mining, Combat} {
		d := s.Get(skill)
		if d.Level != 1 || d.Experience != 0 {
			t.Fatalf("%v: got level=%d xp=%d, want level=1 xp=0", skill, d.Level, d.Experience)
		}
	}
}

func TestAddExperienceNeverDecreasesLevel(t *testing.T) {
	s := NewSkills()
	lastLevel := s.Level(Woodcutting)
	for i := 0; i < 200; i++ {
		s.AddExperience(Woodcutting, 37)
		level := s.Level(Woodcutting)
		if level < lastLevel {
			t.Fatalf("level decreased from %d to %d", lastLevel, level)
		}
		if level > MaxLevel {
			t.Fatalf("level %d exceeds cap %d", level, MaxLevel)
		}
		lastLevel = level
	}
}

func TestAddExperienceReportsLevelUpOnlyWhenLevelIncreases(t *testing.T) {
	s := NewSkills()
	leveledUp := s.AddExperience(Woodcutting, 1)
	if leveledUp {
		t.Fatal("1 xp should not be enough to reach level 2")
	}
	// Enough XP to guarantee at least one level up from level 1.
	leveledUp = s.AddExperience(Woodcutting, 100)
	if !leveledUp {
		t.Fatal("expected a level up after accumulating substantial xp")
	}
}

func TestLevelCapsAt99(t *testing.T) {
	s := NewSkills()
	s.AddExperience(Woodcutting, 1<<30)
	if got := s.Level(Woodcutting); got != MaxLevel {
		t.Fatalf("got level %d, want capped at %d", got, MaxLevel)
	}
}

// TestLevelForXPMatchesReferenceThresholds pins levelForXP against the exact
// cumulative thresholds produced by original_source/shared/src/skills.rs's
// calculate_level, which increments its level counter before evaluating the
// formula and starts accumulating at level 2 (xp_needed=91 reaches level 2,
// not 83 as a naive level-1-first accumulation would give).
func TestLevelForXPMatchesReferenceThresholds(t *testing.T) {
	cases := []struct {
		xp        uint32
		wantLevel uint32
	}{
		{0, 1},
		{82, 1},
		{90, 1},
		{91, 2},
		{191, 2},
		{192, 3},
		{303, 3},
		{304, 4},
	}
	for _, c := range cases {
		s := NewSkills()
		s.AddExperience(Woodcutting, c.xp)
		if got := s.Level(Woodcutting); got != c.wantLevel {
			t.Fatalf("xp=%d: got level %d, want %d", c.xp, got, c.wantLevel)
		}
	}
}

func TestSetLevelExperienceOverwritesDirectly(t *testing.T) {
	s := NewSkills()
	s.SetLevelExperience(Mining, 12, 5000)
	d := s.Get(Mining)
	if d.Level != 12 || d.Experience != 5000 {
		t.Fatalf("got level=%d xp=%d, want level=12 xp=5000", d.Level, d.Experience)
	}
}
