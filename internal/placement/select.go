package placement

import (
	"sort"

	"github.com/novakid/placement/internal/bank"
	"github.com/novakid/placement/internal/level"
	"github.com/novakid/placement/internal/question"
)

// RandSource is the randomness the Selection Policy needs. *rand.Rand
// from math/rand/v2 satisfies this directly; tests inject a seeded one
// for determinism (spec §5).
type RandSource interface {
	IntN(n int) int
}

// ErrOutOfQuestions is returned by Select when the entire unused pool
// across every level is exhausted (spec §4.2, §7).
type ErrOutOfQuestions struct{}

func (ErrOutOfQuestions) Error() string {
	return "no unused question remains at any level"
}

// calibrationLevels is the fixed level sequence calibration draws from,
// one per served calibration question.
var calibrationLevels = []level.Level{level.Level0, level.Level1, level.Level2}

// Select runs the Selection Policy (spec §4.2) and returns the next
// question to serve, stamping assignedLevel on the caller's behalf
// (callers must pass the returned level into the AnsweredRecord). It
// returns ErrOutOfQuestions when no candidate remains anywhere.
func Select(s *Session, b *bank.Bank, rnd RandSource) (*question.Question, level.Level, error) {
	if s.Phase() == PhaseCalibrating {
		return selectCalibration(s, b, rnd)
	}
	return selectAdaptive(s, b, rnd)
}

func selectCalibration(s *Session, b *bank.Bank, rnd RandSource) (*question.Question, level.Level, error) {
	lv := calibrationLevels[s.CalibrationIndex]
	candidates := unusedAt(s, b, lv)

	var safe []*question.Question
	for _, q := range candidates {
		if level.CalibrationSafe(lv, q.Mechanic) {
			safe = append(safe, q)
		}
	}
	if len(safe) == 0 {
		safe = candidates
	}
	safe = applyCategoryGate(s, safe, true)

	picked := pickTopFive(safe, rnd)
	if picked == nil {
		return widenSearch(s, b, rnd)
	}
	return picked, lv, nil
}

func selectAdaptive(s *Session, b *bank.Bank, rnd RandSource) (*question.Question, level.Level, error) {
	levels := candidateLevels(s)

	var pool []*question.Question
	for _, lv := range levels {
		pool = append(pool, unusedAt(s, b, lv)...)
	}

	filtered := applyCurriculumGate(pool)
	withRecency := applyRecencyGate(s, filtered)
	withCategory := applyCategoryGate(s, withRecency, false)

	picked := pickTopFive(withCategory, rnd)
	if picked != nil {
		return picked, picked.Level, nil
	}

	// Relax gates in reverse order: category -> recency -> exploration radius.
	picked = pickTopFive(withRecency, rnd)
	if picked != nil {
		return picked, picked.Level, nil
	}
	picked = pickTopFive(filtered, rnd)
	if picked != nil {
		return picked, picked.Level, nil
	}

	return widenSearch(s, b, rnd)
}

// candidateLevels builds the candidate level set for the adaptive phase
// (spec §4.2 step-by-step).
func candidateLevels(s *Session) []level.Level {
	set := map[level.Level]bool{s.CurrentLevel: true}

	switch {
	case s.QIndex < 8:
		set[level.Clamp(s.CurrentLevel-1)] = true
		set[level.Clamp(s.CurrentLevel+1)] = true
	case s.QIndex < 13:
		set[level.Clamp(s.CurrentLevel-2)] = true
		set[level.Clamp(s.CurrentLevel+2)] = true
	default:
		acc := s.OverallAccuracy()
		if acc >= 0.85 {
			set[level.Level4] = true
			set[level.Level5] = true
		}
		if acc >= 0.70 && s.CurrentLevel >= level.Level3 {
			set[level.Clamp(s.CurrentLevel+1)] = true
		}
	}

	out := make([]level.Level, 0, len(set))
	for lv := range set {
		out = append(out, lv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func unusedAt(s *Session, b *bank.Bank, lv level.Level) []*question.Question {
	all := b.Questions(lv)
	out := make([]*question.Question, 0, len(all))
	for _, q := range all {
		if !s.used[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

func applyCurriculumGate(candidates []*question.Question) []*question.Question {
	out := candidates[:0:0]
	for _, q := range candidates {
		if level.Allowed(q.Level, q.Mechanic) {
			out = append(out, q)
		}
	}
	return out
}

// applyRecencyGate drops candidates whose mechanic appears in the last
// two served mechanics, but only if doing so leaves at least one
// candidate (spec §4.2 recency gate).
func applyRecencyGate(s *Session, candidates []*question.Question) []*question.Question {
	var fresh []*question.Question
	for _, q := range candidates {
		if !inMechanicHistory(s.mechanicHistory, q.Mechanic) {
			fresh = append(fresh, q)
		}
	}
	if len(fresh) == 0 {
		return candidates
	}
	return fresh
}

// applyCategoryGate biases toward the under-represented category. When
// the imbalance is at least 2, the under-represented side is forced
// deterministically; otherwise the full set passes through (the "coin
// flip" degenerates to pass-through, since RandSource is spent on
// final sampling, not on this gate). If forcing empties the set, the
// gate is a no-op.
func applyCategoryGate(s *Session, candidates []*question.Question, calibration bool) []*question.Question {
	if calibration {
		return candidates
	}
	diff := s.tally.Audio - s.tally.Text
	if diff >= 2 {
		return filterCategory(candidates, level.CategoryText, candidates)
	}
	if diff <= -2 {
		return filterCategory(candidates, level.CategoryAudio, candidates)
	}
	return candidates
}

func filterCategory(candidates []*question.Question, want level.Category, fallback []*question.Question) []*question.Question {
	var out []*question.Question
	for _, q := range candidates {
		if level.CategoryOf(q.Mechanic) == want {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// pickTopFive samples uniformly from the first 5 candidates in bank
// order (spec §4.2). Returns nil if candidates is empty.
func pickTopFive(candidates []*question.Question, rnd RandSource) *question.Question {
	if len(candidates) == 0 {
		return nil
	}
	sorted := make([]*question.Question, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	top := sorted
	if len(top) > 5 {
		top = top[:5]
	}
	return top[rnd.IntN(len(top))]
}

// widenSearch is the last resort: search every level 0..5 (still
// curriculum-gated) for any unused question. Returns ErrOutOfQuestions
// if the whole pool is exhausted.
func widenSearch(s *Session, b *bank.Bank, rnd RandSource) (*question.Question, level.Level, error) {
	var pool []*question.Question
	for _, lv := range bank.AllLevels() {
		pool = append(pool, unusedAt(s, b, lv)...)
	}
	pool = applyCurriculumGate(pool)
	picked := pickTopFive(pool, rnd)
	if picked == nil {
		return nil, 0, ErrOutOfQuestions{}
	}
	return picked, picked.Level, nil
}

// MarkServed records the question as used, removing it from the future
// candidate pool (spec §3 invariants), and advances CalibrationIndex while
// the session is calibrating. The assigned level is the one Select
// returned; MarkServed does not record it. Callers must call this
// immediately after Select picks a question, before rendering it.
func MarkServed(s *Session, q *question.Question) {
	s.used[q.ID] = true
	if s.Phase() == PhaseCalibrating {
		s.CalibrationIndex++
	}
}
