// Package oai is a thin client for the OpenAI assistants API surface this
// project needs: threads, messages, runs, assistants, files and vector
// stores, plus plain chat completions. Everything goes through one generic
// request helper so the call sites stay declarative.
package oai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// Client talks to one OpenAI account. The zero value is not usable; build it
// with NewClient so headers and limiter are set.
type Client struct {
	BaseURL string
	Headers []string
	HTTP    *http.Client
	Limiter *rate.Limiter
	Clock   Clock
}

// NewClient builds a client authenticated with apiKey. The limiter guards
// against hammering the API from parallel retrievers; the default allows
// bursts but keeps sustained traffic under ~5 req/s.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		Headers: []string{
			"Content-Type:application/json",
			"OpenAI-Beta:assistants=v2",
			fmt.Sprintf("Authorization:Bearer %s", apiKey),
		},
		HTTP:    &http.Client{Timeout: 90 * time.Second},
		Limiter: rate.NewLimiter(rate.Limit(5), 10),
		Clock:   RealClock{},
	}
}

type reqConfig struct {
	Method      string
	Path        string
	Body        []byte
	ContentType string
}

func request[T any](ctx context.Context, c *Client, config reqConfig, expectedResCode int) (*T, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, config.Method, c.BaseURL+config.Path, bytes.NewBuffer(config.Body))
	if err != nil {
		return nil, err
	}

	for _, proto := range c.Headers {
		headerKV := strings.SplitN(proto, ":", 2)
		if len(headerKV) != 2 {
			continue
		}
		req.Header.Set(strings.TrimSpace(headerKV[0]), strings.TrimSpace(headerKV[1]))
	}
	if config.ContentType != "" {
		req.Header.Set("Content-Type", config.ContentType)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	body, err := read(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != expectedResCode {
		return nil, fmt.Errorf("oai: %s %s: unexpected status %d: %s",
			config.Method, config.Path, resp.StatusCode, truncate(body, 300))
	}

	return readJSON[T](body)
}

// multipartBody assembles a file upload form for the /files endpoint.
func multipartBody(fieldName, fileName string, content []byte, extra map[string]string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range extra {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	part, err := w.CreateFormFile(fieldName, fileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func read(reader io.ReadCloser) ([]byte, error) {
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, errors.New("oai: empty response body")
	}
	return content, nil
}

func readJSON[T any](content []byte) (*T, error) {
	var t *T
	if err := json.Unmarshal(content, &t); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.New("oai: null response payload")
	}
	return t, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
