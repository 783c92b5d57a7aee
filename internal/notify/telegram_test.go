package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestTelegramNotifyUpdate(t *testing.T) {
	var got struct {
		ChatID    string `json:"chat_id"`
		Text      string `json:"text"`
		ParseMode string `json:"parse_mode"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ok":true,"result":{"message_id":1}}`)
	}))
	defer srv.Close()

	notifier, err := NewTelegramNotifier("test-token", "-100500", zaptest.NewLogger(t))
	require.NoError(t, err)
	notifier.baseURL = srv.URL + "/bot"

	require.NoError(t, notifier.NotifyUpdate(context.Background(), sampleUpdate(t)))

	assert.Equal(t, "-100500", got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.Contains(t, got.Text, "Power outage schedule updated")
	assert.Contains(t, got.Text, "08:00 – 12:00")
}

func TestTelegramAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ok":false,"description":"Bad Request: chat not found"}`)
	}))
	defer srv.Close()

	notifier, err := NewTelegramNotifier("test-token", "-100500", zaptest.NewLogger(t))
	require.NoError(t, err)
	notifier.baseURL = srv.URL + "/bot"

	err = notifier.NotifyUpdate(context.Background(), sampleUpdate(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestTelegramHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	notifier, err := NewTelegramNotifier("test-token", "-100500", zaptest.NewLogger(t))
	require.NoError(t, err)
	notifier.baseURL = srv.URL + "/bot"

	err = notifier.NotifyUpdate(context.Background(), sampleUpdate(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestNewTelegramNotifierValidation(t *testing.T) {
	log := zaptest.NewLogger(t)

	_, err := NewTelegramNotifier("", "-100500", log)
	require.Error(t, err)

	_, err = NewTelegramNotifier("test-token", "", log)
	require.Error(t, err)
}
