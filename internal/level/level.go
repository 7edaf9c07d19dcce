// Package level defines the Novakid proficiency ladder (0..5) and the
// curriculum gate that restricts which question mechanics may be served
// at each rung.
package level

import "fmt"

// Level is a proficiency rung, 0 (pre-A1) through 5 (B2).
type Level int

const (
	Level0 Level = iota
	Level1
	Level2
	Level3
	Level4
	Level5
)

// Min and Max bound the valid Level range.
const (
	Min = Level0
	Max = Level5
)

// Clamp restricts l to [Min, Max].
func Clamp(l Level) Level {
	if l < Min {
		return Min
	}
	if l > Max {
		return Max
	}
	return l
}

// Valid reports whether l is within [Min, Max].
func Valid(l Level) bool {
	return l >= Min && l <= Max
}

// CEFR returns the CEFR label for a level.
func (l Level) CEFR() string {
	switch l {
	case Level0:
		return "pre-A1"
	case Level1:
		return "A1"
	case Level2:
		return "A1+"
	case Level3:
		return "A2"
	case Level4:
		return "B1"
	case Level5:
		return "B2"
	default:
		return "unknown"
	}
}

func (l Level) String() string {
	return fmt.Sprintf("L%d (%s)", int(l), l.CEFR())
}

// Mechanic is the format of a single question.
type Mechanic string

const (
	MechanicWordPronunciation     Mechanic = "word-pronunciation-practice"
	MechanicSentencePronunciation Mechanic = "sentence-pronunciation-practice"
	MechanicAudioSingleChoice     Mechanic = "audio-single-choice-from-images"
	MechanicAudioCategorySorting  Mechanic = "audio-category-sorting"
	MechanicImageSingleChoice     Mechanic = "image-single-choice-from-texts"
	MechanicMultipleChoiceText    Mechanic = "multiple-choice-text-text"
	MechanicSentenceScramble      Mechanic = "sentence-scramble"
)

// Category is the balancing bucket for a mechanic: audio or text.
// Pronunciation mechanics count as audio for the 50/50 selection balance
// even though they are conceptually their own third category (spec §3).
type Category string

const (
	CategoryAudio Category = "audio"
	CategoryText  Category = "text"
)

// CategoryOf returns the balancing category for a mechanic.
func CategoryOf(m Mechanic) Category {
	switch m {
	case MechanicWordPronunciation,
		MechanicSentencePronunciation,
		MechanicAudioSingleChoice,
		MechanicAudioCategorySorting:
		return CategoryAudio
	default:
		return CategoryText
	}
}

// allMechanics lists every mechanic the bank may contain, used for
// membership checks and iteration order.
var allMechanics = []Mechanic{
	MechanicWordPronunciation,
	MechanicSentencePronunciation,
	MechanicAudioSingleChoice,
	MechanicAudioCategorySorting,
	MechanicImageSingleChoice,
	MechanicMultipleChoiceText,
	MechanicSentenceScramble,
}

// AllMechanics returns every recognized mechanic tag.
func AllMechanics() []Mechanic {
	out := make([]Mechanic, len(allMechanics))
	copy(out, allMechanics)
	return out
}

// ValidMechanic reports whether m is a recognized mechanic tag.
func ValidMechanic(m Mechanic) bool {
	for _, c := range allMechanics {
		if c == m {
			return true
		}
	}
	return false
}

// permitted holds the cumulative set of mechanics unlocked at each level.
// Gating is cumulative: level 2 unlocks everything level 1 has, plus its
// own additions, per spec §3.
var permitted = buildPermitted()

func buildPermitted() map[Level]map[Mechanic]bool {
	m := map[Level]map[Mechanic]bool{
		Level0: {
			MechanicWordPronunciation: true,
		},
		Level1: {
			MechanicImageSingleChoice: true,
			MechanicAudioSingleChoice: true,
		},
		Level2: {
			MechanicMultipleChoiceText:    true,
			MechanicSentencePronunciation: true,
			MechanicAudioCategorySorting:  true,
			MechanicSentenceScramble:      true,
		},
	}

	cumulative := make(map[Level]map[Mechanic]bool, 6)
	running := map[Mechanic]bool{}
	for lv := Level0; lv <= Max; lv++ {
		for mech := range m[lv] {
			running[mech] = true
		}
		snapshot := make(map[Mechanic]bool, len(running))
		for mech := range running {
			snapshot[mech] = true
		}
		cumulative[lv] = snapshot
	}
	return cumulative
}

// Allowed reports whether mechanic m may be served at level lv.
func Allowed(lv Level, m Mechanic) bool {
	set, ok := permitted[Clamp(lv)]
	if !ok {
		return false
	}
	return set[m]
}

// AllowedMechanics returns the sorted set of mechanics permitted at lv,
// in the canonical AllMechanics order.
func AllowedMechanics(lv Level) []Mechanic {
	set := permitted[Clamp(lv)]
	var out []Mechanic
	for _, m := range allMechanics {
		if set[m] {
			out = append(out, m)
		}
	}
	return out
}

// CalibrationSafe reports whether a mechanic may be used during the
// fixed-level calibration phase at the given level (spec §4.2): only
// word-pronunciation-practice at level 0, plus image-single-choice from
// level 1, plus multiple-choice-text-text from level 2.
func CalibrationSafe(lv Level, m Mechanic) bool {
	switch m {
	case MechanicWordPronunciation:
		return true
	case MechanicImageSingleChoice:
		return lv >= Level1
	case MechanicMultipleChoiceText:
		return lv >= Level2
	default:
		return false
	}
}

// Skill is the competency bucket a question exercises.
type Skill string

const (
	SkillPronunciation Skill = "Pronunciation"
	SkillVocabulary    Skill = "Vocabulary"
	SkillGrammar       Skill = "Grammar"
	SkillReading       Skill = "Reading"
	SkillSpeaking      Skill = "Speaking"
)

// ScoreBucket is one of the three skill buckets the Scorer reports on.
type ScoreBucket string

const (
	BucketVocabulary    ScoreBucket = "vocabulary"
	BucketPronunciation ScoreBucket = "pronunciation"
	BucketGrammar       ScoreBucket = "grammar"
)

// BucketOf maps a fine-grained Skill to the coarse reporting bucket used
// by the Scorer (spec §4.4): Reading and Vocabulary fold into Vocabulary,
// Speaking and Pronunciation fold into Pronunciation, Grammar is itself.
func BucketOf(s Skill) (ScoreBucket, bool) {
	switch s {
	case SkillVocabulary, SkillReading:
		return BucketVocabulary, true
	case SkillPronunciation, SkillSpeaking:
		return BucketPronunciation, true
	case SkillGrammar:
		return BucketGrammar, true
	default:
		return "", false
	}
}
