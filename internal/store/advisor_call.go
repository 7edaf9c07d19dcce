package store

import (
	"context"
	"database/sql"
	"fmt"
)

// advisorCallRepo implements AdvisorCallRepo with a plain database/sql
// table, the way the teacher's eventRepo wraps ent — minus the ORM,
// since a single append-only table doesn't earn one (see DESIGN.md).
type advisorCallRepo struct {
	db *sql.DB
}

func (r *advisorCallRepo) nextSequence(ctx context.Context) (int64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(sequence), 0) + 1 FROM advisor_calls`)
	var next int64
	if err := row.Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

func (r *advisorCallRepo) Append(ctx context.Context, data AdvisorCallData) error {
	seq, err := r.nextSequence(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO advisor_calls
			(sequence, session_id, provider, model, input_tokens, output_tokens,
			 latency_ms, success, error_message, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seq, data.SessionID, data.Provider, data.Model, data.InputTokens, data.OutputTokens,
		data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("save advisor call: %w", err)
	}
	return nil
}

func (r *advisorCallRepo) Query(ctx context.Context, opts QueryOpts) ([]AdvisorCallRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, sequence, timestamp, session_id, provider, model,
			input_tokens, output_tokens, latency_ms, success, error_message,
			request_body, response_body
		FROM advisor_calls
		WHERE (? OR timestamp >= ?) AND (? OR timestamp <= ?)
		ORDER BY id DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query,
		opts.From.IsZero(), opts.From, opts.To.IsZero(), opts.To, limit)
	if err != nil {
		return nil, fmt.Errorf("query advisor calls: %w", err)
	}
	defer rows.Close()

	var records []AdvisorCallRecord
	for rows.Next() {
		var rec AdvisorCallRecord
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.Timestamp, &rec.SessionID,
			&rec.Provider, &rec.Model, &rec.InputTokens, &rec.OutputTokens,
			&rec.LatencyMs, &rec.Success, &rec.ErrorMessage, &rec.RequestBody, &rec.ResponseBody); err != nil {
			return nil, fmt.Errorf("scan advisor call: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate advisor calls: %w", err)
	}
	return records, nil
}

func (r *advisorCallRepo) Get(ctx context.Context, id int) (*AdvisorCallRecord, error) {
	var rec AdvisorCallRecord
	row := r.db.QueryRowContext(ctx, `SELECT id, sequence, timestamp, session_id, provider, model,
			input_tokens, output_tokens, latency_ms, success, error_message,
			request_body, response_body
		FROM advisor_calls WHERE id = ?`, id)
	err := row.Scan(&rec.ID, &rec.Sequence, &rec.Timestamp, &rec.SessionID,
		&rec.Provider, &rec.Model, &rec.InputTokens, &rec.OutputTokens,
		&rec.LatencyMs, &rec.Success, &rec.ErrorMessage, &rec.RequestBody, &rec.ResponseBody)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get advisor call %d: %w", id, err)
	}
	return &rec, nil
}
