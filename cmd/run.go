package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/novakid/placement/internal/advisor"
	"github.com/novakid/placement/internal/bank"
	"github.com/novakid/placement/internal/config"
	"github.com/novakid/placement/internal/llm"
	"github.com/novakid/placement/internal/placement"
	"github.com/novakid/placement/internal/question"
	"github.com/novakid/placement/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Administer one placement test session against a question bank",
	Long:  "run drives a single learner through the 15-question adaptive placement test end to end, reading answers from stdin, and prints the final placement report as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	runCmd.Flags().String("bank", "", "Path to the question bank JSON file (overrides PLACEMENT_BANK env var)")
}

// runApp opens the advisor-call log, resolves the question bank and LLM
// provider, and drives one session over stdin/stdout to a final
// placement report.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg := config.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	bankPath, _ := cmd.Flags().GetString("bank")
	if bankPath == "" {
		bankPath = os.Getenv("PLACEMENT_BANK")
	}
	if bankPath == "" {
		return fmt.Errorf("no question bank given: pass --bank or set PLACEMENT_BANK")
	}

	b, err := bank.LoadFile(bankPath)
	if err != nil {
		return fmt.Errorf("load question bank: %w", err)
	}

	analyzer, advisorCfg := resolveAnalyzer(ctx, st.AdvisorCallRepo(), cfg)

	sess := placement.NewSession()
	rnd := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	in := bufio.NewReader(os.Stdin)
	out := cmd.OutOrStdout()

	for !sess.Done() {
		q, assignedLevel, err := placement.Select(sess, b, rnd)
		if err != nil {
			fmt.Fprintln(out, "no further questions available; ending test early")
			break
		}
		placement.MarkServed(sess, q)

		ans, elapsed := renderAndCapture(in, out, sess, q)
		result := question.Check(q, ans, elapsed)

		placement.Adjust(sess, question.AnsweredRecord{
			QuestionID:    q.ID,
			Mechanic:      q.Mechanic,
			AssignedLevel: assignedLevel,
			Skill:         q.Skill,
			Correct:       result.Correct,
			ResponseTime:  result.ResponseTime,
			IsCalibration: sess.Phase() == placement.PhaseCalibrating,
			Anomalous:     result.Anomalous,
		})

		verdict := "incorrect"
		if result.Correct {
			verdict = "correct"
		}
		fmt.Fprintf(out, "  -> %s (level %s)\n\n", verdict, sess.CurrentLevel)
	}

	reqCtx := llm.WithSessionID(ctx, sess.ID)
	report := advisor.Resolve(reqCtx, analyzer, advisorCfg, sess.History, sess.CurrentLevel, sess.QIndex)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// resolveAnalyzer builds an Advisory Analyzer from the process-wide
// configuration. PLACEMENT_LLM_PROVIDER, when set, selects the provider
// through llm.ConfigFromEnv; otherwise the standard API key variables are
// probed via llm.DiscoverConfig. If no provider is configured, it returns a nil
// Analyzer, which advisor.Resolve treats as "always use the fallback".
func resolveAnalyzer(ctx context.Context, callRepo store.AdvisorCallRepo, cfg config.Config) (advisor.Analyzer, advisor.Config) {
	advisorCfg := advisor.DefaultConfig()
	advisorCfg.Enabled = cfg.AdvisorEnabled
	advisorCfg.Timeout = time.Duration(cfg.AdvisorTimeoutSeconds) * time.Second

	llmCfg, found := llm.DiscoverConfig()
	if os.Getenv("PLACEMENT_LLM_PROVIDER") != "" {
		llmCfg, found = llm.ConfigFromEnv(), true
	}
	if !advisorCfg.Enabled || !found {
		return nil, advisorCfg
	}

	provider, err := llm.NewProvider(ctx, llmCfg, callRepo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "advisory analyzer not configured:", err)
		return nil, advisorCfg
	}
	return advisor.NewLLMAnalyzer(provider), advisorCfg
}

// renderAndCapture prints q to out in a mechanic-appropriate plain-text
// form and blocks on in for the learner's answer, returning the parsed
// Answer and the time taken. The rendering surface proper (audio/image
// playback, rich input capture) is an external collaborator (spec §1);
// this is the bare CLI stand-in the domain stack section of SPEC_FULL.md
// calls for.
func renderAndCapture(in *bufio.Reader, out io.Writer, sess *placement.Session, q *question.Question) (question.Answer, time.Duration) {
	fmt.Fprintf(out, "Q%d [%s, %s]: ", sess.QIndex+1, q.Mechanic, q.Skill)
	start := time.Now()

	switch payload := q.Payload.(type) {
	case question.PronunciationPayload:
		fmt.Fprintf(out, "say %q\n", payload.Text)
		fmt.Fprint(out, "self-assessment (well/ok/poor): ")
		line := readLine(in)
		sa := question.SelfAssessment(strings.ToLower(strings.TrimSpace(line)))
		return question.Answer{SelfAssessment: &sa}, time.Since(start)

	case question.ChoicePayload:
		fmt.Fprintln(out, payload.Prompt)
		for i, opt := range payload.Options {
			fmt.Fprintf(out, "  %d) %s\n", i, opt)
		}
		fmt.Fprint(out, "choice: ")
		idx, _ := strconv.Atoi(strings.TrimSpace(readLine(in)))
		return question.Answer{OptionIndex: &idx}, time.Since(start)

	case question.ScramblePayload:
		fmt.Fprintf(out, "unscramble: %s\n", strings.Join(payload.ScrambledWords, " / "))
		fmt.Fprint(out, "order (comma-separated indices): ")
		order := parseIntList(readLine(in))
		return question.Answer{Order: order}, time.Since(start)

	case question.SortPayload:
		fmt.Fprintf(out, "sort into categories: %s\n", strings.Join(payload.Categories, ", "))
		placed := make(map[string][]string)
		for _, item := range payload.Items {
			fmt.Fprintf(out, "  %q -> category: ", item.Audio)
			cat := strings.TrimSpace(readLine(in))
			placed[cat] = append(placed[cat], item.ID)
		}
		return question.Answer{Sort: placed}, time.Since(start)

	default:
		return question.Answer{}, time.Since(start)
	}
}

func readLine(in *bufio.Reader) string {
	line, _ := in.ReadString('\n')
	return line
}

func parseIntList(raw string) []int {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if n, err := strconv.Atoi(p); err == nil {
			out = append(out, n)
		}
	}
	return out
}
