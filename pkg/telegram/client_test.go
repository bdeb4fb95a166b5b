package telegram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Send(t *testing.T) {
	var got sendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient("TOKEN")
	c.baseURL = srv.URL

	err := c.Send("12345", "Reminder: FOLLOWUP", "Check your application")
	require.NoError(t, err)

	assert.Equal(t, "12345", got.ChatID)
	assert.Equal(t, "Reminder: FOLLOWUP\n\nCheck your application", got.Text)
}

func TestClient_Send_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("TOKEN")
	c.baseURL = srv.URL

	err := c.Send("12345", "", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
