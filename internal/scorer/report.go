// Package scorer computes the end-of-test Placement Report from a
// session's answered-question history (spec §4.4). This package does not
// call the optional Advisory Analyzer; internal/advisor.Resolve does, and
// uses this report as its fallback.
package scorer

import (
	"github.com/novakid/placement/internal/level"
	"github.com/novakid/placement/internal/question"
)

// PlacementReport is the report shape described in spec §6.
type PlacementReport struct {
	Placement       Placement             `json:"placement"`
	SkillAnalysis   map[string]SkillScore `json:"skill_analysis"`
	Recommendations Recommendations       `json:"recommendations"`
}

// Placement is the headline result: the level the learner is placed at.
type Placement struct {
	NovakidLevel       level.Level `json:"novakid_level"`
	Confidence         float64     `json:"confidence"`
	CEFREquivalent     string      `json:"cefr_equivalent"`
	LevelJustification string      `json:"level_justification"`
}

// SkillScore reports one skill bucket's accuracy, or null with an
// evidence tag when no items were seen for it.
type SkillScore struct {
	Score    *float64 `json:"score"`
	Evidence []string `json:"evidence"`
}

// Recommendations is free-text guidance for the learner's next steps.
type Recommendations struct {
	ImmediateFocus         []string `json:"immediate_focus"`
	StrengthsToBuildOn     []string `json:"strengths_to_build_on"`
	SuggestedStartingPoint string   `json:"suggested_starting_point"`
	EstimatedProgress      string   `json:"estimated_progress"`
}

// levelAccuracy is one level's correct/total tally, used to find the
// highest level meeting the placement threshold.
type levelAccuracy struct {
	correct int
	total   int
}

func (la levelAccuracy) accuracy() float64 {
	if la.total == 0 {
		return 0
	}
	return float64(la.correct) / float64(la.total)
}

// Score runs the rule-based Scorer over a finished session's history
// (spec §4.4). currentLevel is the session's current_level at the end
// of the test, used as a fallback placement when no level clears the
// accuracy threshold.
func Score(history []question.AnsweredRecord, currentLevel level.Level, qIndex int) PlacementReport {
	skillAnalysis := scoreSkills(history)
	placementLevel, justification := placementLevelOf(history, currentLevel)
	confidence := confidenceOf(history, qIndex)

	return PlacementReport{
		Placement: Placement{
			NovakidLevel:       placementLevel,
			Confidence:         confidence,
			CEFREquivalent:     placementLevel.CEFR(),
			LevelJustification: justification,
		},
		SkillAnalysis:   skillAnalysis,
		Recommendations: recommendationsFor(placementLevel, skillAnalysis),
	}
}

func scoreSkills(history []question.AnsweredRecord) map[string]SkillScore {
	tally := map[level.ScoreBucket]*levelAccuracy{
		level.BucketVocabulary:    {},
		level.BucketPronunciation: {},
		level.BucketGrammar:       {},
	}

	for _, r := range history {
		bucket, ok := level.BucketOf(r.Skill)
		if !ok {
			continue
		}
		t := tally[bucket]
		t.total++
		if r.Correct {
			t.correct++
		}
	}

	out := make(map[string]SkillScore, 3)
	for bucket, t := range tally {
		if t.total == 0 {
			out[string(bucket)] = SkillScore{Score: nil, Evidence: []string{"insufficient-evidence"}}
			continue
		}
		acc := t.accuracy()
		out[string(bucket)] = SkillScore{
			Score:    &acc,
			Evidence: []string{evidenceFor(t)},
		}
	}
	return out
}

func evidenceFor(t *levelAccuracy) string {
	if t.accuracy() >= 0.70 {
		return "consistent accuracy across attempts"
	}
	return "mixed accuracy across attempts"
}

// placementLevelOf finds the highest level with per-level accuracy >=
// 0.70 over at least 2 items (spec §4.4). Falls back to currentLevel,
// capped by the best level actually attained.
func placementLevelOf(history []question.AnsweredRecord, currentLevel level.Level) (level.Level, string) {
	perLevel := map[level.Level]*levelAccuracy{}
	best := level.Level(-1)
	for _, r := range history {
		t := perLevel[r.AssignedLevel]
		if t == nil {
			t = &levelAccuracy{}
			perLevel[r.AssignedLevel] = t
		}
		t.total++
		if r.Correct {
			t.correct++
		}
		if r.AssignedLevel > best {
			best = r.AssignedLevel
		}
	}

	for lv := level.Max; lv >= level.Min; lv-- {
		t := perLevel[lv]
		if t == nil || t.total < 2 {
			continue
		}
		if t.accuracy() >= 0.70 {
			return lv, "met the 70% accuracy bar at this level with at least 2 attempts"
		}
	}

	placement := currentLevel
	if best >= level.Min && placement > best {
		placement = best
	}
	return level.Clamp(placement), "no level cleared the placement threshold; falling back to the session's ending level"
}

// confidenceOf is min(q_index/15, 1) * overall_accuracy (spec §4.4).
func confidenceOf(history []question.AnsweredRecord, qIndex int) float64 {
	if len(history) == 0 {
		return 0
	}
	correct := 0
	for _, r := range history {
		if r.Correct {
			correct++
		}
	}
	overallAcc := float64(correct) / float64(len(history))

	completeness := float64(qIndex) / 15.0
	if completeness > 1 {
		completeness = 1
	}
	conf := completeness * overallAcc
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return conf
}

// bucketOrder fixes the iteration order over the skill-analysis map so
// recommendations are reproducible for identical history input (map
// iteration in Go is intentionally randomized).
var bucketOrder = []level.ScoreBucket{level.BucketVocabulary, level.BucketPronunciation, level.BucketGrammar}

func recommendationsFor(placement level.Level, skills map[string]SkillScore) Recommendations {
	var focus, strengths []string
	for _, bucket := range bucketOrder {
		score, ok := skills[string(bucket)]
		if !ok || score.Score == nil {
			continue
		}
		if *score.Score < 0.70 {
			focus = append(focus, string(bucket))
		} else {
			strengths = append(strengths, string(bucket))
		}
	}

	return Recommendations{
		ImmediateFocus:         focus,
		StrengthsToBuildOn:     strengths,
		SuggestedStartingPoint: placement.String(),
		EstimatedProgress:      "on track for " + placement.CEFR(),
	}
}
