package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jira-lens/internal/model"
)

// commentServer fakes the comment endpoint over a fixed set of n
// comments, honoring startAt and maxResults.
func commentServer(t *testing.T, n int) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/3/issue/CORE-1/comment", func(w http.ResponseWriter, r *http.Request) {
		startAt, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
		maxResults, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))

		comments := []map[string]any{}
		for i := startAt; i < n && len(comments) < maxResults; i++ {
			comments = append(comments, map[string]any{
				"id": fmt.Sprintf("%d", i+1),
				"body": map[string]any{
					"type":    "doc",
					"version": 1,
					"content": []any{map[string]any{
						"type": "paragraph",
						"content": []any{map[string]any{
							"type": "text",
							"text": fmt.Sprintf("comment %d", i+1),
						}},
					}},
				},
				"author": map[string]any{
					"accountId":   "acc-1",
					"displayName": "Dana Dev",
				},
				"created": "2026-01-01T00:00:00.000+0000",
				"updated": "2026-01-02T00:00:00.000+0000",
			})
		}

		resp := map[string]any{
			"startAt":    startAt,
			"maxResults": maxResults,
			"total":      n,
			"comments":   comments,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	return mux
}

func TestLoadCommentsSkip(t *testing.T) {
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("skip mode must not issue requests, got %s %s", r.Method, r.URL.Path)
	}))

	comments, meta, err := adapter.loadComments(
		context.Background(), "CORE-1", model.CommentModeSkip,
	)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.Equal(t, model.CommentsMeta{Mode: "skip"}, meta)
}

func TestLoadCommentsLastThree(t *testing.T) {
	tests := []struct {
		total        int
		wantReturned int
		wantFirstID  string
	}{
		{0, 0, ""},
		{1, 1, "1"},
		{2, 2, "1"},
		{3, 3, "1"},
		{10, 3, "8"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("total=%d", tt.total), func(t *testing.T) {
			adapter := newTestAdapter(t, commentServer(t, tt.total))

			comments, meta, err := adapter.loadComments(
				context.Background(), "CORE-1", model.CommentModeLast,
			)
			require.NoError(t, err)

			assert.Equal(t, model.CommentModeLast, meta.Mode)
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.wantReturned, meta.Returned)
			assert.Len(t, comments, tt.wantReturned)

			if tt.wantReturned > 0 {
				assert.Equal(t, tt.wantFirstID, comments[0].ID)
				assert.Equal(t, "Dana Dev", comments[0].AuthorName)
				assert.Equal(t, "comment "+tt.wantFirstID, comments[0].Body)
				require.NotNil(t, comments[0].Created)
			}
		})
	}
}

func TestLoadCommentsAll(t *testing.T) {
	// 230 comments force three pages at the fixed page size of 100.
	adapter := newTestAdapter(t, commentServer(t, 230))

	comments, meta, err := adapter.loadComments(
		context.Background(), "CORE-1", model.CommentModeAll,
	)
	require.NoError(t, err)

	assert.Equal(t, model.CommentModeAll, meta.Mode)
	assert.Equal(t, 230, meta.Total)
	assert.Equal(t, 230, meta.Returned)
	require.Len(t, comments, 230)
	assert.Equal(t, "1", comments[0].ID)
	assert.Equal(t, "230", comments[229].ID)
}

func TestLoadCommentsAllEmpty(t *testing.T) {
	adapter := newTestAdapter(t, commentServer(t, 0))

	comments, meta, err := adapter.loadComments(
		context.Background(), "CORE-1", model.CommentModeAll,
	)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.Equal(t, 0, meta.Total)
}

func TestProjectCommentsDefaults(t *testing.T) {
	projected := projectComments([]rawComment{
		{Body: "plain text body"},
	})
	require.Len(t, projected, 1)

	// Absent ids become the "unknown" literal; absent author and
	// timestamps stay empty or nil.
	assert.Equal(t, "unknown", projected[0].ID)
	assert.Equal(t, "plain text body", projected[0].Body)
	assert.Empty(t, projected[0].AuthorName)
	assert.Nil(t, projected[0].Created)
	assert.Nil(t, projected[0].Updated)
}
