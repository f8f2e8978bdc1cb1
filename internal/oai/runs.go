package oai

import (
	"context"
	"fmt"
)

func (c *Client) PostRun(ctx context.Context, threadID, assistantID string) (*Run, error) {
	body := []byte(fmt.Sprintf(`{"assistant_id": %q}`, assistantID))
	path := fmt.Sprintf("/threads/%s/runs", threadID)

	return request[Run](ctx, c, reqConfig{Method: "POST", Path: path, Body: body}, 200)
}

func (c *Client) GetRun(ctx context.Context, threadID, runID string) (*Run, error) {
	path := fmt.Sprintf("/threads/%s/runs/%s", threadID, runID)

	return request[Run](ctx, c, reqConfig{Method: "GET", Path: path}, 200)
}

func (c *Client) CancelRun(ctx context.Context, threadID, runID string) error {
	path := fmt.Sprintf("/threads/%s/runs/%s/cancel", threadID, runID)

	_, err := request[Run](ctx, c, reqConfig{Method: "POST", Path: path}, 200)
	return err
}
