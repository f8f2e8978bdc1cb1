package oai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrIngestFailed reports that a file attached to a vector store never
// reached the completed state.
var ErrIngestFailed = errors.New("oai: vector store file ingestion failed")

func (c *Client) PostVectorStore(ctx context.Context, name string) (string, error) {
	body := []byte(fmt.Sprintf(`{"name": %q}`, name))

	store, err := request[VectorStore](ctx, c, reqConfig{Method: "POST", Path: "/vector_stores", Body: body}, 200)
	if err != nil {
		return "", err
	}
	return store.ID, nil
}

func (c *Client) DeleteVectorStore(ctx context.Context, storeID string) error {
	path := fmt.Sprintf("/vector_stores/%s", storeID)
	_, err := request[deleted](ctx, c, reqConfig{Method: "DELETE", Path: path}, 200)
	return err
}

// UploadFile pushes raw bytes to the files endpoint with purpose
// "assistants" and returns the file ID.
func (c *Client) UploadFile(ctx context.Context, filename string, content []byte) (string, error) {
	body, contentType, err := multipartBody("file", filename, content, map[string]string{"purpose": "assistants"})
	if err != nil {
		return "", err
	}

	file, err := request[File](ctx, c, reqConfig{Method: "POST", Path: "/files", Body: body, ContentType: contentType}, 200)
	if err != nil {
		return "", err
	}
	return file.ID, nil
}

func (c *Client) PostVectorStoreFile(ctx context.Context, storeID, fileID string) (*VectorStoreFile, error) {
	body := []byte(fmt.Sprintf(`{"file_id": %q}`, fileID))
	path := fmt.Sprintf("/vector_stores/%s/files", storeID)

	return request[VectorStoreFile](ctx, c, reqConfig{Method: "POST", Path: path, Body: body}, 200)
}

func (c *Client) GetVectorStoreFile(ctx context.Context, storeID, fileID string) (*VectorStoreFile, error) {
	path := fmt.Sprintf("/vector_stores/%s/files/%s", storeID, fileID)

	return request[VectorStoreFile](ctx, c, reqConfig{Method: "GET", Path: path}, 200)
}

// AddFileAndAwait uploads content, attaches it to the store and polls until
// ingestion settles. Retrieval queries against a store whose files are still
// in_progress return nothing, so callers always want the wait.
func (c *Client) AddFileAndAwait(ctx context.Context, storeID, filename string, content []byte) error {
	fileID, err := c.UploadFile(ctx, filename, content)
	if err != nil {
		return err
	}

	vsf, err := c.PostVectorStoreFile(ctx, storeID, fileID)
	if err != nil {
		return err
	}

	poll := AwaitConfig{Interval: time.Second, MaxInterval: 5 * time.Second, Budget: 2 * time.Minute}
	status, err := c.await(ctx, poll, func(ctx context.Context) (string, error) {
		cur, err := c.GetVectorStoreFile(ctx, storeID, fileID)
		if err != nil {
			return "", err
		}
		return cur.Status, nil
	}, func(status string) bool {
		return status == "completed" || status == "failed" || status == "cancelled"
	})
	if err != nil {
		return err
	}
	if status != "completed" {
		return fmt.Errorf("%w: file %s status %s", ErrIngestFailed, fileID, status)
	}

	slog.Debug("vector store file ingested", "store", storeID, "file", vsf.ID)
	return nil
}
