package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/goodnatureofminers/subnameclaim-backend/pkg/safe"
)

const attemptEventsQuery = `
SELECT
	attempt_id,
	account,
	chain_id,
	kind,
	label,
	token_id,
	status,
	tx_ref,
	error,
	occurred_at
FROM claim_attempt_events
WHERE account = ?
ORDER BY occurred_at DESC, attempt_id
LIMIT ?`

// AttemptEvents returns the latest journaled transitions for an account, newest first.
func (r *Repository) AttemptEvents(ctx context.Context, account string, limit int) (events []model.AttemptEvent, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("attempt_events", err, start)
	}()

	if limit <= 0 {
		return nil, nil
	}
	l, err := safe.Uint32(limit)
	if err != nil {
		return nil, fmt.Errorf("attempt events limit: %w", err)
	}

	rows, err := r.conn.Query(ctx, attemptEventsQuery, account, l)
	if err != nil {
		return nil, fmt.Errorf("query attempt events: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	events = make([]model.AttemptEvent, 0, l)
	for rows.Next() {
		var (
			event               model.AttemptEvent
			kind, status, txRef string
			tokenID             uint64
		)
		if err = rows.Scan(
			&event.AttemptID,
			&event.Account,
			&event.ChainID,
			&kind,
			&event.Label,
			&tokenID,
			&status,
			&txRef,
			&event.Error,
			&event.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan attempt event: %w", err)
		}
		event.Kind = model.ActionKind(kind)
		event.TokenID = model.TokenID(tokenID)
		event.Status = model.AttemptStatus(status)
		event.TxRef = model.TxRef(txRef)
		events = append(events, event)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempt events: %w", err)
	}

	return events, nil
}
