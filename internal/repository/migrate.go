package repository

import (
	"context"
	"fmt"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

// schema is applied in order; every statement must be idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS scheduled_reminders (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id       TEXT        NOT NULL,
		type          TEXT        NOT NULL,
		scheduled_for TIMESTAMPTZ NOT NULL,
		content       JSONB       NOT NULL DEFAULT '{}'::jsonb,
		processed     BOOLEAN     NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_scheduled_reminders_due
		ON scheduled_reminders (scheduled_for, id)
		WHERE processed = FALSE`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id                 UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		recipient_id       TEXT        NOT NULL,
		type               TEXT        NOT NULL,
		status             TEXT        NOT NULL DEFAULT 'UNREAD',
		title              TEXT        NOT NULL,
		message            TEXT        NOT NULL,
		related_entity_ids JSONB,
		metadata           JSONB,
		source_reminder_id UUID UNIQUE REFERENCES scheduled_reminders (id),
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient
		ON notifications (recipient_id, created_at DESC)`,
}

// Migrate creates the reminder and notification tables if they do not exist.
func Migrate(ctx context.Context, db *dbpg.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}

	zlog.Logger.Info().Int("statements", len(schema)).Msg("database schema is up to date")

	return nil
}
