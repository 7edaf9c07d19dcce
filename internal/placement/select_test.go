package placement

import (
	"strings"
	"testing"
	"time"

	"github.com/novakid/placement/internal/bank"
	"github.com/novakid/placement/internal/level"
	"github.com/novakid/placement/internal/question"
)

// fixedRand always returns 0, picking the first candidate deterministically.
type fixedRand struct{}

func (fixedRand) IntN(n int) int { return 0 }

func testBank(t *testing.T) *bank.Bank {
	t.Helper()
	b, err := bank.Load(strings.NewReader(`{
		"0": [
			{"id":"l0-a","mechanic":"word-pronunciation-practice","skill":"Pronunciation","difficulty":0.1,"target_word":"cat"},
			{"id":"l0-b","mechanic":"word-pronunciation-practice","skill":"Pronunciation","difficulty":0.1,"target_word":"dog"}
		],
		"1": [
			{"id":"l1-a","mechanic":"image-single-choice-from-texts","skill":"Vocabulary","difficulty":0.2,"prompt":"a fruit","options":["apple","car"],"correct_index":0},
			{"id":"l1-b","mechanic":"audio-single-choice-from-images","skill":"Vocabulary","difficulty":0.2,"prompt":"woof","options":["dog","cat"],"correct_index":0}
		],
		"2": [
			{"id":"l2-a","mechanic":"multiple-choice-text-text","skill":"Grammar","difficulty":0.3,"prompt":"She ___.","options":["go","goes"],"correct_index":1},
			{"id":"l2-b","mechanic":"sentence-scramble","skill":"Grammar","difficulty":0.3,"scrambled_words":["a","b"],"correct_order":[0,1]},
			{"id":"l2-c","mechanic":"audio-category-sorting","skill":"Vocabulary","difficulty":0.3,"categories":["x"],"items":[{"id":"i1","correct_category":"x"}]},
			{"id":"l2-d","mechanic":"sentence-pronunciation-practice","skill":"Speaking","difficulty":0.3,"sentence":"Hi there."}
		],
		"3": [
			{"id":"l3-a","mechanic":"multiple-choice-text-text","skill":"Grammar","difficulty":0.4,"prompt":"x","options":["a","b"],"correct_index":0}
		],
		"4": [
			{"id":"l4-a","mechanic":"multiple-choice-text-text","skill":"Grammar","difficulty":0.5,"prompt":"x","options":["a","b"],"correct_index":0}
		],
		"5": [
			{"id":"l5-a","mechanic":"multiple-choice-text-text","skill":"Grammar","difficulty":0.9,"prompt":"x","options":["a","b"],"correct_index":0}
		]
	}`))
	if err != nil {
		t.Fatalf("testBank Load failed: %v", err)
	}
	return b
}

func answeredRecordFor(q *question.Question, assigned level.Level, correct bool) question.AnsweredRecord {
	return question.AnsweredRecord{
		QuestionID:    q.ID,
		Mechanic:      q.Mechanic,
		AssignedLevel: assigned,
		Skill:         q.Skill,
		Correct:       correct,
		ResponseTime:  time.Second,
	}
}

func TestSelect_CalibrationFollowsFixedLevels(t *testing.T) {
	s := NewSession()
	b := testBank(t)

	for i, wantLevel := range []level.Level{level.Level0, level.Level1, level.Level2} {
		if s.Phase() != PhaseCalibrating {
			t.Fatalf("iteration %d: phase = %v, want calibrating", i, s.Phase())
		}
		q, lv, err := Select(s, b, fixedRand{})
		if err != nil {
			t.Fatalf("iteration %d: Select failed: %v", i, err)
		}
		if lv != wantLevel {
			t.Errorf("iteration %d: level = %v, want %v", i, lv, wantLevel)
		}
		MarkServed(s, q)
		Adjust(s, answeredRecordFor(q, lv, true))
	}

	if s.Phase() != PhaseAdaptive {
		t.Errorf("phase after 3 calibration questions = %v, want adaptive", s.Phase())
	}
}

func TestSelect_NeverRepeatsAQuestion(t *testing.T) {
	s := NewSession()
	b := testBank(t)
	seen := map[string]bool{}

	for i := 0; i < 9; i++ {
		q, lv, err := Select(s, b, fixedRand{})
		if err != nil {
			t.Fatalf("iteration %d: Select failed: %v", i, err)
		}
		if seen[q.ID] {
			t.Fatalf("iteration %d: question %q served twice", i, q.ID)
		}
		seen[q.ID] = true
		MarkServed(s, q)
		Adjust(s, answeredRecordFor(q, lv, true))
	}
}

func TestSelect_StampsCurriculumGatedLevel(t *testing.T) {
	s := NewSession()
	b := testBank(t)

	for i := 0; i < 6; i++ {
		q, lv, err := Select(s, b, fixedRand{})
		if err != nil {
			t.Fatalf("iteration %d: Select failed: %v", i, err)
		}
		if !level.Allowed(lv, q.Mechanic) {
			t.Errorf("iteration %d: mechanic %v not permitted at assigned level %v", i, q.Mechanic, lv)
		}
		MarkServed(s, q)
		Adjust(s, answeredRecordFor(q, lv, true))
	}
}

func TestSelect_OutOfQuestions(t *testing.T) {
	s := NewSession()
	b := testBank(t)

	var lastErr error
	for i := 0; i < 12; i++ {
		q, lv, err := Select(s, b, fixedRand{})
		if err != nil {
			lastErr = err
			break
		}
		MarkServed(s, q)
		Adjust(s, answeredRecordFor(q, lv, true))
	}
	if lastErr == nil {
		t.Fatal("expected ErrOutOfQuestions once the 11-question bank is exhausted")
	}
	if _, ok := lastErr.(ErrOutOfQuestions); !ok {
		t.Errorf("err = %T, want ErrOutOfQuestions", lastErr)
	}
}

func TestSelect_RecencyGateAvoidsImmediateRepeatMechanic(t *testing.T) {
	s := NewSession()
	s.QIndex = 3 // adaptive phase
	s.CurrentLevel = level.Level2
	s.mechanicHistory = []level.Mechanic{level.MechanicMultipleChoiceText, level.MechanicMultipleChoiceText}
	b := testBank(t)

	q, _, err := Select(s, b, fixedRand{})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if q.Mechanic == level.MechanicMultipleChoiceText {
		t.Errorf("recency gate should have avoided repeating mechanic %v; other candidates exist at level 2", q.Mechanic)
	}
}
