package jira

import (
	"context"
	"fmt"
	"net/url"
	"sort"
)

// sprintFetchResult carries one board's sprints off its fetch
// goroutine. A failed board degrades to an empty result.
type sprintFetchResult struct {
	boardID int
	sprints []rawSprint
	err     error
}

// fetchProjectSprints collects the sprints in the given states across
// every board of the project. Boards are fetched concurrently and the
// results merged by sprint id; a failure on one board degrades that
// board to an empty contribution.
func (a *Adapter) fetchProjectSprints(
	ctx context.Context,
	projectKey string,
	states string,
) ([]rawSprint, error) {
	boardsPath := fmt.Sprintf(
		"/rest/agile/1.0/board?projectKeyOrId=%s&maxResults=50",
		url.QueryEscape(projectKey),
	)
	var boards boardsResponse
	if err := a.client.Get(ctx, boardsPath, &boards); err != nil {
		return nil, fmt.Errorf("fetching boards for %s: %w", projectKey, err)
	}
	if len(boards.Values) == 0 {
		return []rawSprint{}, nil
	}

	results := make(chan sprintFetchResult, len(boards.Values))
	for _, board := range boards.Values {
		go func(boardID int) {
			sprints, err := a.fetchBoardSprints(ctx, boardID, states)
			results <- sprintFetchResult{
				boardID: boardID,
				sprints: sprints,
				err:     err,
			}
		}(board.ID)
	}

	seen := make(map[int]bool)
	var merged []rawSprint
	for range boards.Values {
		result := <-results
		if result.err != nil {
			// Some board types have no sprints; the branch degrades to
			// an empty result instead of failing the whole call.
			continue
		}
		for _, sprint := range result.sprints {
			if seen[sprint.ID] {
				continue
			}
			seen[sprint.ID] = true
			if sprint.OriginBoardID == 0 {
				sprint.OriginBoardID = result.boardID
			}
			merged = append(merged, sprint)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].ID < merged[j].ID
	})
	if merged == nil {
		merged = []rawSprint{}
	}
	return merged, nil
}

// fetchBoardSprints retrieves the sprints of one board.
func (a *Adapter) fetchBoardSprints(
	ctx context.Context,
	boardID int,
	states string,
) ([]rawSprint, error) {
	path := fmt.Sprintf(
		"/rest/agile/1.0/board/%d/sprint?state=%s&maxResults=50",
		boardID, url.QueryEscape(states),
	)
	var resp sprintsResponse
	if err := a.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching sprints for board %d: %w", boardID, err)
	}
	return resp.Values, nil
}

// describeSprint generates the human-readable sprint summary.
func describeSprint(sprint rawSprint) string {
	desc := fmt.Sprintf(
		"Sprint %q (%s) on board %d", sprint.Name, sprint.State,
		sprint.OriginBoardID,
	)
	if sprint.StartDate != "" && sprint.EndDate != "" {
		desc += fmt.Sprintf(
			", %s to %s", sprint.StartDate[:min(10, len(sprint.StartDate))],
			sprint.EndDate[:min(10, len(sprint.EndDate))],
		)
	}
	return desc
}
