package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotProvider_PostMessage(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(sendMessageResponse{OK: true})
	}))
	defer srv.Close()

	provider := NewBotProvider("TOKEN")
	provider.apiBase = srv.URL

	err := provider.PostMessage(context.Background(), "12345", "hello")
	require.NoError(t, err)
	assert.Equal(t, "12345", got.ChatID)
	assert.Equal(t, "hello", got.Text)
}

func TestBotProvider_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(sendMessageResponse{OK: false, Description: "chat not found"})
	}))
	defer srv.Close()

	provider := NewBotProvider("TOKEN")
	provider.apiBase = srv.URL

	err := provider.PostMessage(context.Background(), "missing", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
