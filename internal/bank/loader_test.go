package bank

import (
	"strings"
	"testing"

	"github.com/novakid/placement/internal/level"
)

func sampleBankJSON() string {
	return `{
		"0": [{"id":"w1","mechanic":"word-pronunciation-practice","skill":"Pronunciation","difficulty":0.1,"target_word":"cat","phonetic":"/kæt/"}],
		"1": [{"id":"i1","mechanic":"image-single-choice-from-texts","skill":"Vocabulary","difficulty":0.2,"prompt":"a red fruit","options":["apple","car","dog"],"correct_index":0}],
		"2": [{"id":"m1","mechanic":"multiple-choice-text-text","skill":"Grammar","difficulty":0.3,"prompt":"She ___ to school.","options":["go","goes","going"],"correct_index":1}],
		"3": [{"id":"s1","mechanic":"sentence-scramble","skill":"Grammar","difficulty":0.4,"scrambled_words":["dog","the","runs"],"correct_order":[1,0,2]}],
		"4": [{"id":"sort1","mechanic":"audio-category-sorting","skill":"Vocabulary","difficulty":0.5,"categories":["fruit","animal"],"items":[{"id":"a","audio":"apple","correct_category":"fruit"},{"id":"b","audio":"dog","correct_category":"animal"}]}],
		"5": [{"id":"p1","mechanic":"sentence-pronunciation-practice","skill":"Speaking","difficulty":0.9,"sentence":"The weather is lovely today."}]
	}`
}

func TestLoad_ValidBank(t *testing.T) {
	b, err := Load(strings.NewReader(sampleBankJSON()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, lv := range AllLevels() {
		if len(b.Questions(lv)) == 0 {
			t.Errorf("expected at least one question at level %d", lv)
		}
	}
}

func TestLoad_LevelGap(t *testing.T) {
	bad := `{"0": [{"id":"w1","mechanic":"word-pronunciation-practice","skill":"Pronunciation","difficulty":0.1,"target_word":"cat"}]}`
	_, err := Load(strings.NewReader(bad))
	if err == nil {
		t.Fatal("expected ErrLevelGap, got nil")
	}
	var gapErr *ErrLevelGap
	if !asErrLevelGap(err, &gapErr) {
		t.Fatalf("expected *ErrLevelGap, got %T: %v", err, err)
	}
	if len(gapErr.MissingLevels) != 5 {
		t.Errorf("expected 5 missing levels, got %d: %v", len(gapErr.MissingLevels), gapErr.MissingLevels)
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	_, err := Load(strings.NewReader("{not json"))
	if err == nil {
		t.Fatal("expected ErrMalformed, got nil")
	}
	var malformedErr *ErrMalformed
	if !asErrMalformed(err, &malformedErr) {
		t.Fatalf("expected *ErrMalformed, got %T: %v", err, err)
	}
}

func TestLoad_MechanicNotPermittedAtLevel(t *testing.T) {
	bad := `{
		"0": [{"id":"w1","mechanic":"sentence-scramble","skill":"Grammar","difficulty":0.1,"scrambled_words":["a","b"],"correct_order":[0,1]}],
		"1": [{"id":"i1","mechanic":"image-single-choice-from-texts","skill":"Vocabulary","difficulty":0.2,"prompt":"x","options":["a","b"],"correct_index":0}],
		"2": [{"id":"m1","mechanic":"multiple-choice-text-text","skill":"Grammar","difficulty":0.3,"prompt":"x","options":["a","b"],"correct_index":0}],
		"3": [{"id":"s1","mechanic":"sentence-scramble","skill":"Grammar","difficulty":0.4,"scrambled_words":["a","b"],"correct_order":[1,0]}],
		"4": [{"id":"sort1","mechanic":"audio-category-sorting","skill":"Vocabulary","difficulty":0.5,"categories":["a"],"items":[{"id":"a","correct_category":"a"}]}],
		"5": [{"id":"p1","mechanic":"sentence-pronunciation-practice","skill":"Speaking","difficulty":0.9,"sentence":"hi"}]
	}`
	_, err := Load(strings.NewReader(bad))
	if err == nil {
		t.Fatal("expected malformed error for disallowed mechanic at level 0")
	}
	if !strings.Contains(err.Error(), "not permitted") {
		t.Errorf("error should mention curriculum gating, got: %v", err)
	}
}

func TestLoad_MissingRequiredField(t *testing.T) {
	bad := `{"0": [{"id":"w1","mechanic":"word-pronunciation-practice","skill":"Pronunciation","difficulty":0.1}]}`
	_, err := Load(strings.NewReader(bad))
	if err == nil || !strings.Contains(err.Error(), "target_word") {
		t.Fatalf("expected error mentioning target_word, got: %v", err)
	}
}

func TestQuestions_OrderedByID(t *testing.T) {
	blob := strings.Replace(sampleBankJSON(),
		`"0": [{"id":"w1",`,
		`"0": [{"id":"w2","mechanic":"word-pronunciation-practice","skill":"Pronunciation","difficulty":0.1,"target_word":"dog"},{"id":"w1",`, 1)
	b, err := Load(strings.NewReader(blob))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	qs := b.Questions(level.Level0)
	if len(qs) != 2 || qs[0].ID != "w1" || qs[1].ID != "w2" {
		t.Errorf("level 0 questions not ordered by ID: %+v", qs)
	}
}

func asErrLevelGap(err error, target **ErrLevelGap) bool {
	e, ok := err.(*ErrLevelGap)
	if ok {
		*target = e
	}
	return ok
}

func asErrMalformed(err error, target **ErrMalformed) bool {
	e, ok := err.(*ErrMalformed)
	if ok {
		*target = e
	}
	return ok
}
