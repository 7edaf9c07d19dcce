package placement

import (
	"github.com/novakid/placement/internal/level"
	"github.com/novakid/placement/internal/question"
)

const (
	momentumCorrectDelta   = 0.3
	momentumIncorrectDelta = 0.5
	momentumMin            = -2.0
	momentumMax            = 2.0
)

// Adjust runs the Adjustment Policy (spec §4.3) for one answered
// question: it appends record to History and window, updates momentum
// and streak, and applies the level cascade if cooldown has elapsed.
func Adjust(s *Session, record question.AnsweredRecord) {
	s.History = append(s.History, record)
	pushWindow(s, record.Correct)
	if record.Correct {
		s.streak++
	} else {
		s.streak = 0
	}

	if record.Correct {
		s.Momentum += momentumCorrectDelta
	} else {
		s.Momentum -= momentumIncorrectDelta
	}
	s.Momentum = clampFloat(s.Momentum, momentumMin, momentumMax)

	if level.CategoryOf(record.Mechanic) == level.CategoryAudio {
		s.tally.Audio++
	} else {
		s.tally.Text++
	}

	pushMechanicHistory(s, record.Mechanic)

	s.QIndex++

	if s.CooldownRemaining > 0 {
		s.CooldownRemaining--
		return
	}

	applyLevelCascade(s)
	s.CurrentLevel = level.Clamp(s.CurrentLevel)
}

func pushWindow(s *Session, correct bool) {
	s.window = append(s.window, correct)
	if len(s.window) > WindowSize {
		s.window = s.window[len(s.window)-WindowSize:]
	}
}

func pushMechanicHistory(s *Session, m level.Mechanic) {
	s.mechanicHistory = append(s.mechanicHistory, m)
	if len(s.mechanicHistory) > 2 {
		s.mechanicHistory = s.mechanicHistory[len(s.mechanicHistory)-2:]
	}
}

// applyLevelCascade evaluates the level up/down rules top-to-bottom,
// firing the first match and setting cooldown on any adjustment (spec
// §4.3). It assumes cooldown has already reached zero.
func applyLevelCascade(s *Session) {
	shortAcc := windowAccuracy(s.window, 3)

	switch {
	case s.CurrentLevel == level.Level4 && s.QIndex <= 10 && s.streak >= 2 && shortAcc >= 0.85:
		s.CurrentLevel = level.Level5
		s.CooldownRemaining = AdjustCooldown
		return

	case shortAcc >= 0.90 && s.streak >= 4 && s.CurrentLevel <= level.Level3:
		s.CurrentLevel = level.Clamp(s.CurrentLevel + 2)
		s.CooldownRemaining = AdjustCooldown
		return

	case shortAcc >= 0.75 && s.streak >= 3 && s.CurrentLevel < level.Level5:
		s.CurrentLevel++
		s.CooldownRemaining = AdjustCooldown
		return
	}

	switch {
	case s.CurrentLevel == level.Level5 && incorrectInLastN(s.window, 4) >= 3:
		s.CurrentLevel = level.Level4
		s.CooldownRemaining = AdjustCooldown
		return

	case shortAcc <= 0.30 && s.CurrentLevel > level.Level0 && s.CurrentLevel < level.Level5:
		s.CurrentLevel--
		s.CooldownRemaining = AdjustCooldown
		return
	}
}

func incorrectInLastN(window []bool, n int) int {
	if n > len(window) {
		n = len(window)
	}
	slice := window[len(window)-n:]
	incorrect := 0
	for _, ok := range slice {
		if !ok {
			incorrect++
		}
	}
	return incorrect
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
