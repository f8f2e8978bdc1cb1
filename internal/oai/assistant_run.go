package oai

import (
	"context"
	"errors"
	"fmt"
)

// RunAssistant appends userPrompt to the thread, runs the assistant on it,
// waits for completion and returns the newest assistant reply text.
func (c *Client) RunAssistant(ctx context.Context, cfg AwaitConfig, threadID, assistantID, userPrompt string) (string, error) {
	if _, err := c.PostMsg(ctx, threadID, "user", userPrompt); err != nil {
		return "", err
	}

	run, err := c.PostRun(ctx, threadID, assistantID)
	if err != nil {
		return "", err
	}

	if _, err := c.AwaitRun(ctx, cfg, threadID, run.ID); err != nil {
		return "", err
	}

	msgs, err := c.GetMsgs(ctx, threadID)
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 {
		return "", errors.New("oai: thread has no messages after run")
	}

	// Listing is newest first; the head must be the assistant's answer.
	for _, msg := range msgs {
		if msg.Role != "assistant" {
			break
		}
		for _, content := range msg.Content {
			if content.Type == "" || content.Type == "text" {
				return content.Text.Value, nil
			}
		}
	}
	return "", fmt.Errorf("oai: no assistant reply found on thread %s", threadID)
}
