package level

import "testing"

func TestAllowed_CumulativeGating(t *testing.T) {
	if !Allowed(Level0, MechanicWordPronunciation) {
		t.Error("word pronunciation must be allowed at level 0")
	}
	if Allowed(Level0, MechanicImageSingleChoice) {
		t.Error("image single choice must not be allowed at level 0")
	}
	if !Allowed(Level1, MechanicWordPronunciation) {
		t.Error("level 1 must retain level 0 mechanics")
	}
	if !Allowed(Level1, MechanicImageSingleChoice) {
		t.Error("image single choice must be allowed at level 1")
	}
	if Allowed(Level1, MechanicSentenceScramble) {
		t.Error("sentence scramble must not be allowed before level 2")
	}
	for lv := Level2; lv <= Max; lv++ {
		for _, m := range []Mechanic{MechanicMultipleChoiceText, MechanicSentencePronunciation, MechanicAudioCategorySorting, MechanicSentenceScramble} {
			if !Allowed(lv, m) {
				t.Errorf("%s must be allowed at %s", m, lv)
			}
		}
	}
}

func TestAllowed_OutOfRangeClamped(t *testing.T) {
	if !Allowed(Level(99), MechanicSentenceScramble) {
		t.Error("levels above Max should clamp to Max gating")
	}
	if Allowed(Level(-5), MechanicImageSingleChoice) {
		t.Error("levels below Min should clamp to Min gating")
	}
}

func TestCalibrationSafe(t *testing.T) {
	cases := []struct {
		lv   Level
		m    Mechanic
		want bool
	}{
		{Level0, MechanicWordPronunciation, true},
		{Level1, MechanicImageSingleChoice, true},
		{Level0, MechanicImageSingleChoice, false},
		{Level2, MechanicMultipleChoiceText, true},
		{Level1, MechanicMultipleChoiceText, false},
		{Level2, MechanicSentenceScramble, false},
	}
	for _, c := range cases {
		if got := CalibrationSafe(c.lv, c.m); got != c.want {
			t.Errorf("CalibrationSafe(%v, %v) = %v, want %v", c.lv, c.m, got, c.want)
		}
	}
}

func TestCategoryOf(t *testing.T) {
	audio := []Mechanic{MechanicWordPronunciation, MechanicSentencePronunciation, MechanicAudioSingleChoice, MechanicAudioCategorySorting}
	for _, m := range audio {
		if CategoryOf(m) != CategoryAudio {
			t.Errorf("%s should be CategoryAudio", m)
		}
	}
	text := []Mechanic{MechanicImageSingleChoice, MechanicMultipleChoiceText, MechanicSentenceScramble}
	for _, m := range text {
		if CategoryOf(m) != CategoryText {
			t.Errorf("%s should be CategoryText", m)
		}
	}
}

func TestBucketOf(t *testing.T) {
	cases := []struct {
		skill Skill
		want  ScoreBucket
	}{
		{SkillVocabulary, BucketVocabulary},
		{SkillReading, BucketVocabulary},
		{SkillPronunciation, BucketPronunciation},
		{SkillSpeaking, BucketPronunciation},
		{SkillGrammar, BucketGrammar},
	}
	for _, c := range cases {
		got, ok := BucketOf(c.skill)
		if !ok || got != c.want {
			t.Errorf("BucketOf(%s) = (%v, %v), want (%v, true)", c.skill, got, ok, c.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(Level(-1)) != Min {
		t.Error("Clamp should floor at Min")
	}
	if Clamp(Level(10)) != Max {
		t.Error("Clamp should ceiling at Max")
	}
}
