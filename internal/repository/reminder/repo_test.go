package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/dbpg"

	"github.com/jamdungjobs/reminder-dispatcher/internal/model"
)

const (
	findDueQuery = `
		SELECT id, user_id, type, scheduled_for, content, processed, created_at
		FROM scheduled_reminders
		WHERE processed = FALSE
		  AND scheduled_for <= $1
		  AND (scheduled_for, id) > ($2, $3)
		ORDER BY scheduled_for, id
		LIMIT $4;
    `

	markQuery = `
		UPDATE scheduled_reminders
		SET processed = TRUE
		WHERE id = $1 AND processed = FALSE;
    `

	insertQuery = `
		INSERT INTO notifications (
		    recipient_id, type, status, title, message, related_entity_ids, metadata, source_reminder_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (source_reminder_id) DO NOTHING
		RETURNING id;
    `
)

var reminderColumns = []string{"id", "user_id", "type", "scheduled_for", "content", "processed", "created_at"}

func setupMockDB(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(&dbpg.DB{Master: db}), mock
}

func reminderNotification(reminderID uuid.UUID) model.Notification {
	return model.Notification{
		RecipientID:      "u1",
		Type:             model.TypeReminder,
		Status:           model.StatusUnread,
		Title:            "Reminder: FOLLOWUP",
		Message:          "Check your application",
		RelatedEntityIDs: json.RawMessage(`{}`),
		Metadata:         json.RawMessage(`{"message":"Check your application"}`),
		SourceReminderID: &reminderID,
	}
}

func TestFindDue(t *testing.T) {
	repo, mock := setupMockDB(t)

	now := time.Now().UTC()
	id1, id2 := uuid.New(), uuid.New()

	rows := sqlmock.NewRows(reminderColumns).
		AddRow(id1.String(), "u1", "FOLLOWUP", now.Add(-2*time.Minute), []byte(`{"message":"hi"}`), false, now.Add(-time.Hour)).
		AddRow(id2.String(), "u2", "INTERVIEW", now.Add(-time.Minute), []byte(`{}`), false, now.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(findDueQuery)).
		WithArgs(now, time.Time{}, uuid.Nil, 10).
		WillReturnRows(rows)

	list, err := repo.FindDue(context.Background(), now, Cursor{}, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, id1, list[0].ID)
	assert.Equal(t, "u1", list[0].UserID)
	assert.Equal(t, "FOLLOWUP", list[0].Type)
	assert.JSONEq(t, `{"message":"hi"}`, string(list[0].Content))
	assert.Equal(t, id2, list[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindDue_WithCursor(t *testing.T) {
	repo, mock := setupMockDB(t)

	now := time.Now().UTC()
	cursor := Cursor{ScheduledFor: now.Add(-time.Minute), ID: uuid.New()}

	mock.ExpectQuery(regexp.QuoteMeta(findDueQuery)).
		WithArgs(now, cursor.ScheduledFor, cursor.ID, 5).
		WillReturnRows(sqlmock.NewRows(reminderColumns))

	list, err := repo.FindDue(context.Background(), now, cursor, 5)
	assert.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindDue_QueryError(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(findDueQuery)).WillReturnError(errors.New("connection reset"))

	_, err := repo.FindDue(context.Background(), time.Now(), Cursor{}, 10)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterialize(t *testing.T) {
	repo, mock := setupMockDB(t)

	reminderID := uuid.New()
	notificationID := uuid.New()
	n := reminderNotification(reminderID)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(markQuery)).
		WithArgs(reminderID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(insertQuery)).
		WithArgs(n.RecipientID, n.Type, string(n.Status), n.Title, n.Message, `{}`, `{"message":"Check your application"}`, reminderID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(notificationID.String()))
	mock.ExpectCommit()

	id, err := repo.Materialize(context.Background(), n)
	assert.NoError(t, err)
	assert.Equal(t, notificationID, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterialize_AlreadyProcessed(t *testing.T) {
	repo, mock := setupMockDB(t)

	reminderID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(markQuery)).
		WithArgs(reminderID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Materialize(context.Background(), reminderNotification(reminderID))
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterialize_NotificationExists(t *testing.T) {
	repo, mock := setupMockDB(t)

	reminderID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(markQuery)).
		WithArgs(reminderID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(insertQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	_, err := repo.Materialize(context.Background(), reminderNotification(reminderID))
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterialize_InsertFailsRollsBack(t *testing.T) {
	repo, mock := setupMockDB(t)

	reminderID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(markQuery)).
		WithArgs(reminderID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(insertQuery)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.Materialize(context.Background(), reminderNotification(reminderID))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyProcessed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterialize_MissingSource(t *testing.T) {
	repo, mock := setupMockDB(t)

	_, err := repo.Materialize(context.Background(), model.Notification{RecipientID: "u1"})
	assert.ErrorIs(t, err, ErrMissingSource)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAfter(t *testing.T) {
	r := model.ScheduledReminder{ID: uuid.New(), ScheduledFor: time.Now()}

	c := After(r)
	assert.Equal(t, r.ID, c.ID)
	assert.True(t, r.ScheduledFor.Equal(c.ScheduledFor))
}
