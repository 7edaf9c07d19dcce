package bank

import "fmt"

// ErrMalformed indicates the bank blob could not be parsed or a record
// is missing fields required by its mechanic (spec §4.1, §7).
type ErrMalformed struct {
	Reason string
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("question bank malformed: %s", e.Reason)
}

// ErrLevelGap indicates a required level (0..5) is absent or empty from
// the bank (spec §4.1, §7). The test cannot proceed without at least one
// question at every level.
type ErrLevelGap struct {
	MissingLevels []int
}

func (e *ErrLevelGap) Error() string {
	return fmt.Sprintf("question bank has no questions at level(s) %v", e.MissingLevels)
}
