package store

import (
	"context"
	"time"
)

// QueryOpts configures advisor-call queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = default of 50)
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// AdvisorCallData captures the data for a single Advisory Analyzer call.
type AdvisorCallData struct {
	SessionID    string
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// AdvisorCallRecord is a hydrated advisor call for display (includes ID,
// sequence, and timestamp).
type AdvisorCallRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AdvisorCallData
}

// AdvisorCallRepo provides append and query access to the advisor call log.
type AdvisorCallRepo interface {
	// Append records one Advisory Analyzer call.
	Append(ctx context.Context, data AdvisorCallData) error

	// Query returns advisor calls matching the query options, most
	// recent first.
	Query(ctx context.Context, opts QueryOpts) ([]AdvisorCallRecord, error)

	// Get returns a single advisor call by ID, or nil if not found.
	Get(ctx context.Context, id int) (*AdvisorCallRecord, error)
}

