package oai

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetAssistant retrieves an assistant by ID; a non-200 is the caller's cue to
// create a fresh one.
func (c *Client) GetAssistant(ctx context.Context, assistantID string) (*Assistant, error) {
	path := fmt.Sprintf("/assistants/%s", assistantID)

	return request[Assistant](ctx, c, reqConfig{Method: "GET", Path: path}, 200)
}

func (c *Client) PostAssistant(ctx context.Context, proto AssistantProto) (*Assistant, error) {
	body, err := json.Marshal(proto)
	if err != nil {
		return nil, err
	}

	return request[Assistant](ctx, c, reqConfig{Method: "POST", Path: "/assistants", Body: body}, 200)
}
