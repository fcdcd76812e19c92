package jira

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nhle/jira-lens/internal/model"
)

const (
	// lastCommentWindow is how many trailing comments the last_3 policy
	// returns.
	lastCommentWindow = 3

	// commentPageSize is the page size used by the all policy.
	commentPageSize = 100
)

// loadComments fetches the comments of an issue under the given policy
// and projects them into the canonical shape, oldest first.
func (a *Adapter) loadComments(
	ctx context.Context,
	key string,
	mode string,
) ([]model.IssueComment, model.CommentsMeta, error) {
	switch mode {
	case model.CommentModeSkip:
		return []model.IssueComment{}, model.CommentsMeta{
			Mode: model.CommentModeSkip,
		}, nil
	case model.CommentModeLast:
		return a.loadLastComments(ctx, key)
	case model.CommentModeAll:
		return a.loadAllComments(ctx, key)
	default:
		return nil, model.CommentsMeta{}, validationf(
			"unknown comment mode %q", mode,
		)
	}
}

// loadLastComments returns the newest comments, at most
// lastCommentWindow of them, in ascending order. One probe request
// learns the total; a second fetches exactly the trailing window.
func (a *Adapter) loadLastComments(
	ctx context.Context,
	key string,
) ([]model.IssueComment, model.CommentsMeta, error) {
	probe, err := a.fetchCommentPage(ctx, key, 0, 1)
	if err != nil {
		return nil, model.CommentsMeta{}, err
	}

	if probe.Total <= 0 {
		return []model.IssueComment{}, model.CommentsMeta{
			Mode: model.CommentModeLast,
		}, nil
	}

	offset := probe.Total - lastCommentWindow
	if offset < 0 {
		offset = 0
	}

	page, err := a.fetchCommentPage(ctx, key, offset, lastCommentWindow)
	if err != nil {
		return nil, model.CommentsMeta{}, err
	}

	comments := projectComments(page.Comments)
	return comments, model.CommentsMeta{
		Mode:     model.CommentModeLast,
		Total:    probe.Total,
		Returned: len(comments),
	}, nil
}

// loadAllComments pages through every comment in fixed-size pages. The
// aggregate total is whatever the most recent page reported.
func (a *Adapter) loadAllComments(
	ctx context.Context,
	key string,
) ([]model.IssueComment, model.CommentsMeta, error) {
	var comments []model.IssueComment
	total := 0

	for offset := 0; ; {
		page, err := a.fetchCommentPage(ctx, key, offset, commentPageSize)
		if err != nil {
			return nil, model.CommentsMeta{}, err
		}
		total = page.Total

		if len(page.Comments) == 0 {
			break
		}
		comments = append(comments, projectComments(page.Comments)...)
		offset += len(page.Comments)

		if len(comments) >= total {
			break
		}
	}

	if comments == nil {
		comments = []model.IssueComment{}
	}
	return comments, model.CommentsMeta{
		Mode:     model.CommentModeAll,
		Total:    total,
		Returned: len(comments),
	}, nil
}

// fetchCommentPage requests one page of comments in ascending creation
// order.
func (a *Adapter) fetchCommentPage(
	ctx context.Context,
	key string,
	startAt int,
	maxResults int,
) (*commentPage, error) {
	path := fmt.Sprintf(
		"/rest/api/3/issue/%s/comment?startAt=%d&maxResults=%d&orderBy=created",
		url.PathEscape(key), startAt, maxResults,
	)

	var page commentPage
	if err := a.client.Get(ctx, path, &page); err != nil {
		return nil, fmt.Errorf("fetching comments for %s: %w", key, err)
	}
	return &page, nil
}

// projectComments converts raw comments into the canonical shape.
func projectComments(raw []rawComment) []model.IssueComment {
	comments := make([]model.IssueComment, 0, len(raw))
	for _, c := range raw {
		comment := model.IssueComment{
			ID:   c.ID,
			Body: commentBodyText(c.Body),
		}
		if comment.ID == "" {
			comment.ID = "unknown"
		}
		if c.Author != nil {
			comment.AuthorID = c.Author.AccountID
			comment.AuthorName = c.Author.DisplayName
		}
		if c.Created != "" {
			created := c.Created
			comment.Created = &created
		}
		if c.Updated != "" {
			updated := c.Updated
			comment.Updated = &updated
		}
		comments = append(comments, comment)
	}
	return comments
}

// commentBodyText renders a comment body that may be either a plain
// string (API v2) or a rich-text document (API v3).
func commentBodyText(body any) string {
	if s, ok := body.(string); ok {
		return s
	}
	return DocToPlainText(body)
}
