package advisor

import (
	"context"

	"github.com/novakid/placement/internal/level"
	"github.com/novakid/placement/internal/question"
	"github.com/novakid/placement/internal/scorer"
)

// Resolve runs the rule-based Scorer and, when an Analyzer is
// configured and enabled, attempts to replace its output with the
// Analyzer's richer report. The Analyzer's report is used only if it
// returns within cfg.Timeout and passes validation; any failure keeps
// the rule-based report unchanged. The end-of-test flow never blocks
// on or fails because of the advisor.
func Resolve(ctx context.Context, analyzer Analyzer, cfg Config, history []question.AnsweredRecord, currentLevel level.Level, qIndex int) scorer.PlacementReport {
	fallback := scorer.Score(history, currentLevel, qIndex)

	if analyzer == nil || !cfg.Enabled {
		return fallback
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}

	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	report, err := analyzer.Analyze(actx, history, currentLevel, qIndex)
	if err != nil || report == nil {
		return fallback
	}

	return *report
}
