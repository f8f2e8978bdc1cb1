package oai

import (
	"context"
	"encoding/json"
	"fmt"
)

// PostThread creates a thread. vectorStoreIDs, when present, attach a
// file-search index to the whole thread so every run on it can ground its
// answers in the uploaded documents.
func (c *Client) PostThread(ctx context.Context, vectorStoreIDs ...string) (string, error) {
	var body []byte
	if len(vectorStoreIDs) > 0 {
		payload := struct {
			ToolResources ToolResources `json:"tool_resources"`
		}{ToolResources{FileSearch: &FileSearchResources{VectorStoreIDs: vectorStoreIDs}}}

		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return "", err
		}
	}

	thread, err := request[Thread](ctx, c, reqConfig{Method: "POST", Path: "/threads", Body: body}, 200)
	if err != nil {
		return "", err
	}
	return thread.ID, nil
}

func (c *Client) DeleteThread(ctx context.Context, threadID string) error {
	path := fmt.Sprintf("/threads/%s", threadID)
	_, err := request[deleted](ctx, c, reqConfig{Method: "DELETE", Path: path}, 200)
	return err
}

// PostMsg appends a message to a thread. Content is JSON-encoded here so the
// caller can pass raw prompt text with newlines and quotes.
func (c *Client) PostMsg(ctx context.Context, threadID, role, content string) (string, error) {
	encoded, err := json.Marshal(content)
	if err != nil {
		return "", err
	}
	body := []byte(fmt.Sprintf(`{"role": %q, "content": %s}`, role, encoded))
	path := fmt.Sprintf("/threads/%s/messages", threadID)

	msg, err := request[Message](ctx, c, reqConfig{Method: "POST", Path: path, Body: body}, 200)
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

// GetMsgs lists a thread's messages, newest first.
func (c *Client) GetMsgs(ctx context.Context, threadID string) ([]Message, error) {
	path := fmt.Sprintf("/threads/%s/messages", threadID)

	msgs, err := request[MessageListing](ctx, c, reqConfig{Method: "GET", Path: path}, 200)
	if err != nil {
		return nil, err
	}
	return msgs.Data, nil
}
