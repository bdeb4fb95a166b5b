package reminder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/jamdungjobs/reminder-dispatcher/internal/model"
)

var (
	// ErrAlreadyProcessed is returned when the source reminder was consumed before this call.
	ErrAlreadyProcessed = errors.New("reminder already processed")
	// ErrMissingSource is returned when a notification has no source reminder to consume.
	ErrMissingSource = errors.New("notification has no source reminder")
)

// Cursor is a keyset position in the due-reminder ordering (scheduled_for, id).
// The zero value starts from the beginning.
type Cursor struct {
	ScheduledFor time.Time
	ID           uuid.UUID
}

// After returns the cursor positioned on r.
func After(r model.ScheduledReminder) Cursor {
	return Cursor{ScheduledFor: r.ScheduledFor, ID: r.ID}
}

// Repository provides methods to interact with scheduled_reminders and the
// notifications they produce.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new reminder repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// FindDue returns at most limit unprocessed reminders scheduled at or before now,
// strictly after the cursor, ordered by scheduled_for then id.
//
// Reads go to the master node so freshly processed rows are not returned by a lagging replica.
func (r *Repository) FindDue(ctx context.Context, now time.Time, after Cursor, limit int) ([]model.ScheduledReminder, error) {
	query := `
		SELECT id, user_id, type, scheduled_for, content, processed, created_at
		FROM scheduled_reminders
		WHERE processed = FALSE
		  AND scheduled_for <= $1
		  AND (scheduled_for, id) > ($2, $3)
		ORDER BY scheduled_for, id
		LIMIT $4;
    `

	rows, err := r.db.Master.QueryContext(ctx, query, now, after.ScheduledFor, after.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	var reminders []model.ScheduledReminder
	for rows.Next() {
		var (
			rem     model.ScheduledReminder
			content []byte
		)

		if err := rows.Scan(
			&rem.ID, &rem.UserID, &rem.Type, &rem.ScheduledFor, &content, &rem.Processed, &rem.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}

		rem.Content = json.RawMessage(content)
		reminders = append(reminders, rem)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due reminders: %w", err)
	}

	return reminders, nil
}

// Materialize consumes the notification's source reminder and inserts the
// notification in a single transaction, returning the new notification ID.
//
// If the reminder is already processed nothing is written and ErrAlreadyProcessed is returned.
func (r *Repository) Materialize(ctx context.Context, n model.Notification) (uuid.UUID, error) {
	if n.SourceReminderID == nil {
		return uuid.Nil, ErrMissingSource
	}

	markQuery := `
		UPDATE scheduled_reminders
		SET processed = TRUE
		WHERE id = $1 AND processed = FALSE;
    `

	insertQuery := `
		INSERT INTO notifications (
		    recipient_id, type, status, title, message, related_entity_ids, metadata, source_reminder_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (source_reminder_id) DO NOTHING
		RETURNING id;
    `

	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	res, err := tx.ExecContext(ctx, markQuery, *n.SourceReminderID)
	if err != nil {
		_ = tx.Rollback()
		return uuid.Nil, fmt.Errorf("failed to mark reminder processed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return uuid.Nil, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		_ = tx.Rollback()
		return uuid.Nil, ErrAlreadyProcessed
	}

	var id uuid.UUID
	err = tx.QueryRowContext(
		ctx, insertQuery,
		n.RecipientID, n.Type, string(n.Status), n.Title, n.Message,
		jsonArg(n.RelatedEntityIDs), jsonArg(n.Metadata), *n.SourceReminderID,
	).Scan(&id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		// A notification for this reminder exists already; keep the processed flag.
		if err := tx.Commit(); err != nil {
			return uuid.Nil, fmt.Errorf("failed to commit transaction: %w", err)
		}

		return uuid.Nil, ErrAlreadyProcessed
	case err != nil:
		_ = tx.Rollback()
		return uuid.Nil, fmt.Errorf("failed to insert notification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// jsonArg passes JSON to lib/pq as text so it is accepted by JSONB columns.
func jsonArg(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}

	return string(raw)
}
