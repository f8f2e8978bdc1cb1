package oai

import "encoding/json"

// Run statuses reported by the assistants API.
const (
	RunQueued     = "queued"
	RunInProgress = "in_progress"
	RunCompleted  = "completed"
	RunFailed     = "failed"
	RunCancelled  = "cancelled"
)

// TerminalRunStatus reports whether a run is finished, successfully or not.
// requires_action and expired never resolve on their own, so they are
// terminal failures for this client.
func TerminalRunStatus(status string) bool {
	switch status {
	case RunCompleted, RunFailed, RunCancelled, "expired", "requires_action", "incomplete":
		return true
	}
	return false
}

type Thread struct {
	ID string `json:"id"`
}

type Run struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type MessageContentText struct {
	Value string `json:"value"`
}

type MessageContent struct {
	Type string             `json:"type"`
	Text MessageContentText `json:"text"`
}

type Message struct {
	ID      string           `json:"id"`
	Role    string           `json:"role"`
	Content []MessageContent `json:"content"`
}

type MessageListing struct {
	Data []Message `json:"data"`
}

type Assistant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AssistantProto is the creation payload for a file-search assistant.
type AssistantProto struct {
	Name          string          `json:"name"`
	Instructions  string          `json:"instructions"`
	Model         string          `json:"model"`
	Tools         []Tool          `json:"tools,omitempty"`
	ToolResources *ToolResources  `json:"tool_resources,omitempty"`
	Temperature   float64         `json:"temperature,omitempty"`
	TopP          float64         `json:"top_p,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
}

type Tool struct {
	Type string `json:"type"`
}

type ToolResources struct {
	FileSearch *FileSearchResources `json:"file_search,omitempty"`
}

type FileSearchResources struct {
	VectorStoreIDs []string `json:"vector_store_ids"`
}

type VectorStore struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type VectorStoreFile struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type File struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

type deleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
