package bank

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/novakid/placement/internal/level"
	"github.com/novakid/placement/internal/question"
)

// Bank is the immutable, loaded-once question bank. All readers share it
// without synchronization (spec §5) — nothing here is ever mutated post-load.
type Bank struct {
	byLevel map[level.Level][]*question.Question
}

// Load parses and validates a bank blob from r, per spec §4.1. It
// returns *ErrMalformed when the blob is unreadable or a record is
// structurally invalid, and *ErrLevelGap when any level 0..5 has no
// questions.
func Load(r io.Reader) (*Bank, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ErrMalformed{Reason: err.Error()}
	}

	var raw rawBank
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ErrMalformed{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	byLevel := make(map[level.Level][]*question.Question, 6)
	var malformed []string

	for key, records := range raw {
		lvInt, err := strconv.Atoi(key)
		if err != nil || lvInt < int(level.Min) || lvInt > int(level.Max) {
			malformed = append(malformed, fmt.Sprintf("unrecognized level key %q", key))
			continue
		}
		lv := level.Level(lvInt)

		for i, rec := range records {
			q, errs := rawToQuestion(rec, lv)
			if len(errs) > 0 {
				for _, e := range errs {
					malformed = append(malformed, fmt.Sprintf("level %d record %d (id=%q): %s", lvInt, i, rec.ID, e))
				}
				continue
			}
			byLevel[lv] = append(byLevel[lv], q)
		}
	}

	if len(malformed) > 0 {
		return nil, &ErrMalformed{Reason: joinErrors(malformed)}
	}

	var missing []int
	for lv := level.Min; lv <= level.Max; lv++ {
		if len(byLevel[lv]) == 0 {
			missing = append(missing, int(lv))
		}
	}
	if len(missing) > 0 {
		return nil, &ErrLevelGap{MissingLevels: missing}
	}

	// Stable bank order: by ID within each level. The selection policy's
	// "top-5 by bank order" rule depends on this order being deterministic.
	for lv := range byLevel {
		sort.Slice(byLevel[lv], func(i, j int) bool {
			return byLevel[lv][i].ID < byLevel[lv][j].ID
		})
	}

	return &Bank{byLevel: byLevel}, nil
}

// LoadFile opens path and delegates to Load.
func LoadFile(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ErrMalformed{Reason: err.Error()}
	}
	defer f.Close()
	return Load(f)
}

// Questions returns the ordered question list for a level. The returned
// slice must not be mutated by callers; it is the bank's own backing array.
func (b *Bank) Questions(lv level.Level) []*question.Question {
	return b.byLevel[level.Clamp(lv)]
}

// AllLevels returns 0..5 in order, for iteration.
func AllLevels() []level.Level {
	out := make([]level.Level, 0, 6)
	for lv := level.Min; lv <= level.Max; lv++ {
		out = append(out, lv)
	}
	return out
}

func joinErrors(errs []string) string {
	out := ""
	for i, e := range errs {
		if i > 0 {
			out += "; "
		}
		out += e
	}
	return out
}
