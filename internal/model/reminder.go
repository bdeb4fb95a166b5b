package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ScheduledReminder is a persisted obligation to notify a user at or after ScheduledFor.
type ScheduledReminder struct {
	ID           uuid.UUID       `json:"id"`
	UserID       string          `json:"user_id"`
	Type         string          `json:"type"`
	ScheduledFor time.Time       `json:"scheduled_for"`
	Content      json.RawMessage `json:"content"`
	Processed    bool            `json:"processed"`
	CreatedAt    time.Time       `json:"created_at"`
}
