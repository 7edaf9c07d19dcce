package question

import (
	"time"

	"github.com/novakid/placement/internal/level"
)

// SelfAssessment is the learner's post-attempt self-rating for a
// pronunciation mechanic. The renderer captures pronunciation scoring
// upstream (it owns the speech-recognition/scoring surface, out of
// scope here per spec §1) and passes down one of these three buckets.
type SelfAssessment string

const (
	AssessmentWell SelfAssessment = "well"
	AssessmentOK   SelfAssessment = "ok"
	AssessmentPoor SelfAssessment = "poor"
)

// Answer is the tagged union of shapes the renderer may submit, per
// spec §6. Exactly one field is populated for a well-formed submission;
// which one is expected is determined by the Question's Mechanic.
type Answer struct {
	OptionIndex    *int                // choice mechanics (0-based)
	SelfAssessment *SelfAssessment     // pronunciation mechanics
	Order          []int               // sentence-scramble: proposed word order
	Sort           map[string][]string // audio-category-sorting: category -> item IDs
}

// ErrInvalidAnswerShape describes a submitted Answer that doesn't match
// what the question's mechanic expects. Check does not return it: it
// reports the mismatch as CheckResult.Anomalous, which callers copy into
// the history as record.Anomalous. The renderer is expected to prevent this
// class of error; the core still defends against it rather than panic
// or silently miscount (spec §7).
type ErrInvalidAnswerShape struct {
	Mechanic level.Mechanic
}

func (e *ErrInvalidAnswerShape) Error() string {
	return "invalid answer shape for mechanic " + string(e.Mechanic)
}

// CheckResult is the pure outcome of grading one answer.
type CheckResult struct {
	Correct      bool
	ResponseTime time.Duration
	Anomalous    bool
}

// Check grades ans against q and returns {correct, response_time} per
// spec §6. elapsed is how long the learner took to answer, measured by
// the caller; Check never measures time itself. A shape mismatch is
// defensively treated as incorrect rather than propagated as an error,
// matching the InvalidAnswerShape handling policy in spec §7.
func Check(q *Question, ans Answer, elapsed time.Duration) CheckResult {
	correct, ok := checkByMechanic(q, ans)
	return CheckResult{
		Correct:      correct && ok,
		ResponseTime: elapsed,
		Anomalous:    !ok,
	}
}

func checkByMechanic(q *Question, ans Answer) (correct bool, shapeOK bool) {
	switch q.Mechanic {
	case level.MechanicWordPronunciation, level.MechanicSentencePronunciation:
		if ans.SelfAssessment == nil {
			return false, false
		}
		return checkPronunciation(*ans.SelfAssessment), true

	case level.MechanicAudioSingleChoice, level.MechanicImageSingleChoice, level.MechanicMultipleChoiceText:
		if ans.OptionIndex == nil {
			return false, false
		}
		payload, ok := q.Payload.(ChoicePayload)
		if !ok {
			return false, false
		}
		if *ans.OptionIndex < 0 || *ans.OptionIndex >= len(payload.Options) {
			return false, false
		}
		return *ans.OptionIndex == payload.CorrectIndex, true

	case level.MechanicSentenceScramble:
		if ans.Order == nil {
			return false, false
		}
		payload, ok := q.Payload.(ScramblePayload)
		if !ok {
			return false, false
		}
		return checkScramble(ans.Order, payload.CorrectOrder), true

	case level.MechanicAudioCategorySorting:
		if ans.Sort == nil {
			return false, false
		}
		payload, ok := q.Payload.(SortPayload)
		if !ok {
			return false, false
		}
		return checkSort(ans.Sort, payload) >= 0.60, true

	default:
		return false, false
	}
}

// checkPronunciation passes when the self-assessment is Well or OK
// (spec §6). This resolves an inconsistency in the spec's own wording:
// §6 lists the renderer's answer shape as "boolean self-assessment" but
// then grades it against a three-value set {Well, OK, <implicitly Poor>}
// that a bool cannot represent. The three-value SelfAssessment enum is
// adopted as the answer shape since it's what the grading rule actually
// needs; see DESIGN.md.
func checkPronunciation(a SelfAssessment) bool {
	return a == AssessmentWell || a == AssessmentOK
}

// checkScramble reports whether the proposed order exactly matches the
// correct order. Partial credit is not defined for scramble in spec §6
// (only sort has a partial-credit threshold), so any deviation fails.
func checkScramble(proposed, correct []int) bool {
	if len(proposed) != len(correct) {
		return false
	}
	for i := range correct {
		if proposed[i] != correct[i] {
			return false
		}
	}
	return true
}

// checkSort returns the fraction of items placed under their correct
// category. sorted maps category -> item IDs as submitted.
func checkSort(sorted map[string][]string, payload SortPayload) float64 {
	if len(payload.Items) == 0 {
		return 0
	}
	placedCategory := make(map[string]string, len(payload.Items))
	for cat, ids := range sorted {
		for _, id := range ids {
			placedCategory[id] = cat
		}
	}
	correctCount := 0
	for _, item := range payload.Items {
		if placedCategory[item.ID] == item.CorrectCategory {
			correctCount++
		}
	}
	return float64(correctCount) / float64(len(payload.Items))
}
