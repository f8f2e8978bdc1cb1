package oai

import (
	"context"
	"encoding/json"
	"errors"
)

// ChatMessage is one turn in a plain chat completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// ChatComplete runs a single chat completion and returns the reply text. The
// code-generation agents use this instead of the assistants surface: they
// need no retrieval index, just one round trip.
func (c *Client) ChatComplete(ctx context.Context, model string, temperature float64, messages []ChatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{Model: model, Messages: messages, Temperature: temperature})
	if err != nil {
		return "", err
	}

	resp, err := request[chatResponse](ctx, c, reqConfig{Method: "POST", Path: "/chat/completions", Body: body}, 200)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("oai: chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
