package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
)

const insertAttemptEventsQuery = `
INSERT INTO claim_attempt_events (
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
) VALUES`

// InsertAttemptEvents appends attempt transitions to the journal.
func (r *Repository) InsertAttemptEvents(ctx context.Context, events []model.AttemptEvent) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_attempt_events", err, start)
	}()

	if len(events) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertAttemptEventsQuery)
	if err != nil {
		return fmt.Errorf("prepare attempt events batch: %w", err)
	}

	for _, event := range events {
		if err = batch.Append(
			event.AttemptID,
			event.Account,
			event.ChainID,
			string(event.Kind),
			event.Label,
			uint64(event.TokenID),
			string(event.Status),
			string(event.TxRef),
			event.Error,
			event.OccurredAt.UTC(),
		); err != nil {
			return fmt.Errorf("append attempt event: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert attempt events: %w", err)
	}
	return nil
}
