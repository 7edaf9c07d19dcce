package bank

import (
	"fmt"

	"github.com/novakid/placement/internal/level"
	"github.com/novakid/placement/internal/question"
)

// rawToQuestion converts and validates a single raw record against the
// minimum required fields for its mechanic (spec §4.1). All structural
// problems for the record are collected and returned together, the way
// skillgraph.validateSkills batches its findings rather than
// short-circuiting on the first error.
func rawToQuestion(rec rawQuestion, bucketLevel level.Level) (*question.Question, []string) {
	var errs []string

	if rec.ID == "" {
		errs = append(errs, "missing id")
	}

	mech := level.Mechanic(rec.Mechanic)
	if !level.ValidMechanic(mech) {
		errs = append(errs, fmt.Sprintf("unrecognized mechanic %q", rec.Mechanic))
		return nil, errs
	}
	if !level.Allowed(bucketLevel, mech) {
		errs = append(errs, fmt.Sprintf("mechanic %q is not permitted at level %d", mech, bucketLevel))
	}

	skill := level.Skill(rec.Skill)
	if _, ok := level.BucketOf(skill); !ok {
		errs = append(errs, fmt.Sprintf("unrecognized skill %q", rec.Skill))
	}

	if rec.Difficulty < 0 || rec.Difficulty > 1 {
		errs = append(errs, fmt.Sprintf("difficulty %v out of range [0,1]", rec.Difficulty))
	}

	payload, payloadErrs := buildPayload(mech, rec)
	errs = append(errs, payloadErrs...)

	if len(errs) > 0 {
		return nil, errs
	}

	return &question.Question{
		ID:         rec.ID,
		Mechanic:   mech,
		Level:      bucketLevel,
		Skill:      skill,
		Difficulty: rec.Difficulty,
		Payload:    payload,
	}, nil
}

func buildPayload(mech level.Mechanic, rec rawQuestion) (question.Payload, []string) {
	switch mech {
	case level.MechanicWordPronunciation:
		var errs []string
		if rec.TargetWord == "" {
			errs = append(errs, "word-pronunciation-practice requires target_word")
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return question.PronunciationPayload{
			Text:             rec.TargetWord,
			Phonetic:         rec.Phonetic,
			ImageDescription: rec.ImageDescription,
		}, nil

	case level.MechanicSentencePronunciation:
		var errs []string
		if rec.Sentence == "" {
			errs = append(errs, "sentence-pronunciation-practice requires sentence")
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return question.PronunciationPayload{
			Text:     rec.Sentence,
			Phonetic: rec.Phonetic,
		}, nil

	case level.MechanicAudioSingleChoice, level.MechanicImageSingleChoice, level.MechanicMultipleChoiceText:
		return buildChoicePayload(mech, rec)

	case level.MechanicSentenceScramble:
		var errs []string
		if len(rec.ScrambledWords) == 0 {
			errs = append(errs, "sentence-scramble requires scrambled_words")
		}
		if len(rec.CorrectOrder) != len(rec.ScrambledWords) {
			errs = append(errs, "sentence-scramble correct_order must have the same length as scrambled_words")
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return question.ScramblePayload{
			ScrambledWords: rec.ScrambledWords,
			CorrectOrder:   rec.CorrectOrder,
		}, nil

	case level.MechanicAudioCategorySorting:
		var errs []string
		if len(rec.Categories) == 0 {
			errs = append(errs, "audio-category-sorting requires categories")
		}
		if len(rec.Items) == 0 {
			errs = append(errs, "audio-category-sorting requires items")
		}
		for _, item := range rec.Items {
			if item.ID == "" {
				errs = append(errs, "audio-category-sorting item missing id")
			}
			if item.CorrectCategory == "" {
				errs = append(errs, fmt.Sprintf("audio-category-sorting item %q missing correct_category", item.ID))
			}
		}
		if len(errs) > 0 {
			return nil, errs
		}
		items := make([]question.SortItem, len(rec.Items))
		for i, it := range rec.Items {
			items[i] = question.SortItem{ID: it.ID, Audio: it.Audio, CorrectCategory: it.CorrectCategory}
		}
		return question.SortPayload{Categories: rec.Categories, Items: items}, nil

	default:
		return nil, []string{fmt.Sprintf("no payload builder for mechanic %q", mech)}
	}
}

func buildChoicePayload(mech level.Mechanic, rec rawQuestion) (question.Payload, []string) {
	var errs []string
	if rec.Prompt == "" {
		errs = append(errs, fmt.Sprintf("%s requires prompt", mech))
	}
	if len(rec.Options) < 2 {
		errs = append(errs, fmt.Sprintf("%s requires at least 2 options", mech))
	}
	if rec.CorrectIndex == nil {
		errs = append(errs, fmt.Sprintf("%s requires correct_index", mech))
	} else if *rec.CorrectIndex < 0 || *rec.CorrectIndex >= len(rec.Options) {
		errs = append(errs, fmt.Sprintf("%s correct_index %d out of range", mech, *rec.CorrectIndex))
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return question.ChoicePayload{
		Prompt:       rec.Prompt,
		Options:      rec.Options,
		CorrectIndex: *rec.CorrectIndex,
	}, nil
}
