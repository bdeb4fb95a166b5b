package reminder

import (
	"encoding/json"

	"github.com/jamdungjobs/reminder-dispatcher/internal/model"
)

const (
	// DefaultMessage is used when the reminder content carries no usable message.
	DefaultMessage = "You have a reminder"

	titlePrefix = "Reminder: "
)

var emptyObject = json.RawMessage(`{}`)

// BuildNotification turns a due reminder into the unread notification that represents it.
//
// Content is opaque: only "message" and "related_entity_ids" are read from it, and it is
// copied unchanged into the notification metadata.
func BuildNotification(r model.ScheduledReminder) model.Notification {
	fields := contentFields(r.Content)
	sourceID := r.ID

	n := model.Notification{
		RecipientID:      r.UserID,
		Type:             model.TypeReminder,
		Status:           model.StatusUnread,
		Title:            titlePrefix + r.Type,
		Message:          DefaultMessage,
		RelatedEntityIDs: emptyObject,
		Metadata:         r.Content,
		SourceReminderID: &sourceID,
	}

	if msg := stringField(fields, "message"); msg != "" {
		n.Message = msg
	}

	if raw, ok := fields["related_entity_ids"]; ok && string(raw) != "null" {
		n.RelatedEntityIDs = raw
	}

	return n
}

// deliveryTarget reports the external channel and address named in the content, if any.
func deliveryTarget(content json.RawMessage) (channel, to string, ok bool) {
	fields := contentFields(content)

	channel = stringField(fields, "channel")
	to = stringField(fields, "to")

	return channel, to, channel != "" && to != ""
}

// contentFields decodes a JSON object; anything else yields no fields.
func contentFields(content json.RawMessage) map[string]json.RawMessage {
	var fields map[string]json.RawMessage
	if len(content) == 0 || json.Unmarshal(content, &fields) != nil {
		return nil
	}

	return fields
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}

	return s
}
