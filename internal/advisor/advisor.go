// Package advisor wraps an LLM provider to produce a richer placement
// report than the rule-based Scorer can on its own (spec §4.4), and
// falls back cleanly when the LLM is unavailable, slow, or returns
// something the Scorer can't trust.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/template"
	"time"

	"github.com/novakid/placement/internal/level"
	"github.com/novakid/placement/internal/llm"
	"github.com/novakid/placement/internal/question"
	"github.com/novakid/placement/internal/scorer"
)

// ErrUnavailable is returned (wrapped) whenever the advisor could not
// produce a usable report: transport failure, timeout, malformed
// output, or an out-of-range value. Callers should fall back to the
// rule-based report rather than fail the test.
var ErrUnavailable = errors.New("advisor unavailable")

// Config controls whether and how long the Advisory Analyzer runs.
type Config struct {
	Enabled bool
	Timeout time.Duration // default: 30s
}

// DefaultConfig returns the advisor enabled with a 30s timeout.
func DefaultConfig() Config {
	return Config{Enabled: true, Timeout: 30 * time.Second}
}

// Analyzer produces a placement report from a finished session's
// history. Implementations must be safe to call synchronously from the
// end-of-test path and must respect ctx cancellation.
type Analyzer interface {
	Analyze(ctx context.Context, history []question.AnsweredRecord, currentLevel level.Level, qIndex int) (*scorer.PlacementReport, error)
}

// LLMAnalyzer is an Analyzer backed by an llm.Provider.
type LLMAnalyzer struct {
	provider    llm.Provider
	maxTokens   int
	temperature float64
}

// NewLLMAnalyzer wraps provider as an Analyzer.
func NewLLMAnalyzer(provider llm.Provider) *LLMAnalyzer {
	return &LLMAnalyzer{provider: provider, maxTokens: 768, temperature: 0.2}
}

func (a *LLMAnalyzer) Analyze(ctx context.Context, history []question.AnsweredRecord, currentLevel level.Level, qIndex int) (*scorer.PlacementReport, error) {
	ctx = llm.WithPurpose(ctx, "placement-advisory")

	userMsg, err := buildAdvisoryMessage(history, currentLevel, qIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: build prompt: %v", ErrUnavailable, err)
	}

	resp, err := a.provider.Generate(ctx, llm.Request{
		System:      advisorySystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		Schema:      ReportSchema,
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var report scorer.PlacementReport
	if err := json.Unmarshal(resp.Content, &report); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrUnavailable, err)
	}

	if err := validateReport(&report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &report, nil
}

func validateReport(r *scorer.PlacementReport) error {
	if !level.Valid(r.Placement.NovakidLevel) {
		return fmt.Errorf("novakid_level %d out of range", r.Placement.NovakidLevel)
	}
	if r.Placement.Confidence < 0 || r.Placement.Confidence > 1 {
		return fmt.Errorf("confidence %f out of range", r.Placement.Confidence)
	}
	for bucket, score := range r.SkillAnalysis {
		if score.Score == nil {
			continue
		}
		if *score.Score < 0 || *score.Score > 1 {
			return fmt.Errorf("skill_analysis[%s] score %f out of range", bucket, *score.Score)
		}
	}
	return nil
}

const advisorySystemPrompt = `You are an expert English-language placement advisor for a children's online English school. You are given a learner's complete answer history from an adaptive placement test. Produce a placement report: the level the learner should start lessons at (0 through 5, where 0 is pre-A1 and 5 is B2), a confidence score, a CEFR equivalent, a one-to-two sentence justification, a per-skill breakdown (vocabulary, pronunciation, grammar), and recommendations for the learner's first lessons.

Base your placement primarily on accuracy at each level attempted, favoring the highest level where the learner answered consistently well. Weigh recent answers more heavily than early calibration answers. If a skill bucket has no attempts, report its score as null with evidence ["insufficient-evidence"].`

type historyEntry struct {
	Question  int
	Mechanic  string
	Level     int
	Skill     string
	Correct   bool
	Anomalous bool
}

var advisoryUserTemplate = template.Must(template.New("advisory").Parse(`Session ended after {{.QIndex}} questions, final internal level estimate {{.CurrentLevel}}.

Answer history (in order):
{{range .History}}{{.Question}}. mechanic={{.Mechanic}} level={{.Level}} skill={{.Skill}} correct={{.Correct}}{{if .Anomalous}} (anomalous submission){{end}}
{{end}}`))

func buildAdvisoryMessage(history []question.AnsweredRecord, currentLevel level.Level, qIndex int) (string, error) {
	entries := make([]historyEntry, len(history))
	for i, r := range history {
		entries[i] = historyEntry{
			Question:  i + 1,
			Mechanic:  string(r.Mechanic),
			Level:     int(r.AssignedLevel),
			Skill:     string(r.Skill),
			Correct:   r.Correct,
			Anomalous: r.Anomalous,
		}
	}

	var buf bytes.Buffer
	err := advisoryUserTemplate.Execute(&buf, struct {
		QIndex       int
		CurrentLevel int
		History      []historyEntry
	}{QIndex: qIndex, CurrentLevel: int(currentLevel), History: entries})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
