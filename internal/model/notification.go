package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotificationStatus is the read state of a notification.
type NotificationStatus string

const (
	StatusUnread NotificationStatus = "UNREAD"
	StatusRead   NotificationStatus = "READ"
)

// TypeReminder tags notifications produced from scheduled reminders.
const TypeReminder = "REMINDER"

// Notification represents a user-visible notification row.
type Notification struct {
	ID               uuid.UUID          `json:"id"`                           // unique identifier
	RecipientID      string             `json:"recipient_id"`                 // owner of the notification
	Type             string             `json:"type"`                         // e.g. "REMINDER"
	Status           NotificationStatus `json:"status"`                       // "UNREAD" or "READ"
	Title            string             `json:"title"`                        // short heading
	Message          string             `json:"message"`                      // body text
	RelatedEntityIDs json.RawMessage    `json:"related_entity_ids,omitempty"` // opaque references, e.g. job or application ids
	Metadata         json.RawMessage    `json:"metadata,omitempty"`           // opaque payload copied from the producer
	SourceReminderID *uuid.UUID         `json:"source_reminder_id,omitempty"` // reminder this notification was built from
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}
