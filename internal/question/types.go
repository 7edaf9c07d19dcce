// Package question defines the immutable Question record, its
// mechanic-specific payloads, and the pure answer-checking functions
// used to grade a learner's response.
package question

import (
	"time"

	"github.com/novakid/placement/internal/level"
)

// Question is an immutable bank record. The bank's bucket level lives in
// Level; the level a question is served under is recorded on the
// AnsweredRecord as AssignedLevel, not onto the Question itself.
// placement.Select always returns the bucket level the question was drawn
// from, including when the end-test push widens the candidate levels.
type Question struct {
	ID         string
	Mechanic   level.Mechanic
	Level      level.Level
	Skill      level.Skill
	Difficulty float64 // advisory only, [0,1]

	// Payload is exactly one of the mechanic-specific structs below,
	// selected by Mechanic. Dispatch on the tag, not on type-switches
	// scattered through calling code.
	Payload Payload
}

// Payload is the mechanic-specific body of a Question. Each mechanic has
// exactly one concrete payload type implementing it.
type Payload interface {
	isPayload()
}

// PronunciationPayload backs word-pronunciation-practice and
// sentence-pronunciation-practice.
type PronunciationPayload struct {
	Text             string // target word or sentence
	Phonetic         string
	ImageDescription string // empty for sentence-level prompts
}

func (PronunciationPayload) isPayload() {}

// ChoicePayload backs audio-single-choice-from-images,
// image-single-choice-from-texts, and multiple-choice-text-text. Prompt
// is the audio transcript, image description, or sentence depending on
// mechanic; Options are the candidate answers; CorrectIndex is 0-based.
type ChoicePayload struct {
	Prompt       string
	Options      []string
	CorrectIndex int
}

func (ChoicePayload) isPayload() {}

// ScramblePayload backs sentence-scramble.
type ScramblePayload struct {
	ScrambledWords []string
	CorrectOrder   []int // indices into ScrambledWords, target arrangement
}

func (ScramblePayload) isPayload() {}

// SortItem is one draggable item in an audio-category-sorting question.
type SortItem struct {
	ID              string
	Audio           string // word/phrase spoken for this item
	CorrectCategory string
}

// SortPayload backs audio-category-sorting.
type SortPayload struct {
	Categories []string
	Items      []SortItem
}

func (SortPayload) isPayload() {}

// AnsweredRecord is the permanent record of one served-and-answered
// question, appended to Session.History and never mutated after.
type AnsweredRecord struct {
	QuestionID    string
	Mechanic      level.Mechanic
	AssignedLevel level.Level
	Skill         level.Skill
	Correct       bool
	ResponseTime  time.Duration
	IsCalibration bool
	Anomalous     bool // set when InvalidAnswerShape was defensively handled as incorrect
}
