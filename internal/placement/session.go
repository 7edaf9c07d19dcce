// Package placement holds the per-session state machine: Selection
// Policy and Adjustment Policy driving one learner through calibration
// and adaptive phases to a placement decision.
package placement

import (
	"github.com/google/uuid"

	"github.com/novakid/placement/internal/level"
	"github.com/novakid/placement/internal/question"
)

// TotalQuestions is the fixed length of a test (spec §4).
const TotalQuestions = 15

// CalibrationQuestions is how many questions the calibration phase serves
// before the adaptive phase begins.
const CalibrationQuestions = 3

// WindowSize is the length of the rolling correctness window.
const WindowSize = 5

// AdjustCooldown is how many questions must pass after an adjustment
// before another is permitted.
const AdjustCooldown = 2

// Phase names the three states a session passes through, driven solely
// by q_index (spec §4.2 state machine summary).
type Phase int

const (
	PhaseCalibrating Phase = iota
	PhaseAdaptive
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseCalibrating:
		return "calibrating"
	case PhaseAdaptive:
		return "adaptive"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// categoryTally is the running per-category served count used for the
// 50/50 balance gate.
type categoryTally struct {
	Audio int
	Text  int
}

// Session is the mutable runtime state for one learner's placement test
// (spec §3 "Session State"). Every exported method belongs to exactly
// one of the Selection Policy or Adjustment Policy; nothing outside this
// package mutates a Session's fields directly.
type Session struct {
	ID string

	CurrentLevel level.Level
	Momentum     float64

	window []bool // oldest first, len <= WindowSize
	streak int

	used map[string]bool

	mechanicHistory []level.Mechanic // oldest first, len <= 2

	tally categoryTally

	History []question.AnsweredRecord

	CooldownRemaining int
	CalibrationIndex  int
	QIndex            int
}

// NewSession creates a fresh session at the spec's default initial
// state: current_level 1, momentum 0, empty history.
func NewSession() *Session {
	return &Session{
		ID:           uuid.NewString(),
		CurrentLevel: level.Level1,
		used:         make(map[string]bool),
	}
}

// Phase reports which state the session is in, derived from QIndex
// alone (spec §4.2 state machine summary).
func (s *Session) Phase() Phase {
	switch {
	case s.QIndex < CalibrationQuestions:
		return PhaseCalibrating
	case s.QIndex < TotalQuestions:
		return PhaseAdaptive
	default:
		return PhaseComplete
	}
}

// Done reports whether the test has served its full question count.
func (s *Session) Done() bool {
	return s.QIndex >= TotalQuestions
}

// OverallAccuracy is correct/total across the whole history so far.
// Returns 0 when no questions have been answered.
func (s *Session) OverallAccuracy() float64 {
	if len(s.History) == 0 {
		return 0
	}
	correct := 0
	for _, r := range s.History {
		if r.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(s.History))
}

// windowAccuracy computes accuracy over the last n outcomes of window
// (fewer if window is shorter). n <= 0 or an empty window yields 0.
func windowAccuracy(window []bool, n int) float64 {
	if n > len(window) {
		n = len(window)
	}
	if n <= 0 {
		return 0
	}
	slice := window[len(window)-n:]
	correct := 0
	for _, ok := range slice {
		if ok {
			correct++
		}
	}
	return float64(correct) / float64(n)
}

// inMechanicHistory reports whether m was served in either of the last
// two slots.
func inMechanicHistory(history []level.Mechanic, m level.Mechanic) bool {
	for _, h := range history {
		if h == m {
			return true
		}
	}
	return false
}
