package jira

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientAuthHeader(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeJSON(w, `{}`)
	}))
	t.Cleanup(server.Close)

	// Email plus token selects basic auth.
	client := NewClient(server.URL, "dev@example.com", "tok", time.Second)
	require.NoError(t, client.Get(context.Background(), "/x", nil))
	assert.True(t, strings.HasPrefix(got, "Basic "))

	// Token alone is sent as a bearer credential.
	client = NewClient(server.URL, "", "tok", time.Second)
	require.NoError(t, client.Get(context.Background(), "/x", nil))
	assert.Equal(t, "Bearer tok", got)
}

func TestClientRetriesRateLimit(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(w, `{"ok": true}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "dev@example.com", "tok", 5*time.Second)
	var result map[string]any
	require.NoError(t, client.Get(context.Background(), "/x", &result))
	assert.Equal(t, 2, attempts)
	assert.Equal(t, true, result["ok"])
}

func TestClientParsesJiraErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, `{"errorMessages": ["Field 'priority' is invalid"], "errors": {}}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "dev@example.com", "tok", time.Second)
	err := client.Get(context.Background(), "/x", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Field 'priority' is invalid")
}

func TestClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(w, `{}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "dev@example.com", "tok", 20*time.Millisecond)
	err := client.Get(context.Background(), "/x", nil)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestAPIErrorTruncatesBody(t *testing.T) {
	err := &APIError{
		StatusCode: 500,
		Op:         "GET /x",
		Body:       strings.Repeat("x", maxErrorBody+100),
	}
	msg := err.Error()
	assert.Contains(t, msg, "...")
	assert.Less(t, len(msg), maxErrorBody+100)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&APIError{StatusCode: 404}))
	assert.True(t, IsNotFound(&APIError{StatusCode: 410}))
	assert.False(t, IsNotFound(&APIError{StatusCode: 405}))
	assert.False(t, IsNotFound(errors.New("plain")))
}
