package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"campusmarket/pkg/models"
)

// RemoteSource talks to a posts API exposing the same contract this module
// serves: GET /posts returns {items: [...]} or a bare array, POST /posts
// accepts a canonical post.
type RemoteSource struct {
	BaseURL string
	Client  *http.Client
}

func NewRemoteSource(baseURL string, timeout time.Duration) *RemoteSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

func (r *RemoteSource) Name() string { return "remote" }

type remoteListResponse struct {
	Items    []map[string]any `json:"items"`
	Anuncios []map[string]any `json:"anuncios"`
}

func (r *RemoteSource) FetchAll(ctx context.Context) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"/posts?limit=100", nil)
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("remote: status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("remote: read body: %w", err)
	}

	var wrapped remoteListResponse
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if wrapped.Items != nil {
			return wrapped.Items, nil
		}
		if wrapped.Anuncios != nil {
			return wrapped.Anuncios, nil
		}
	}
	var bare []map[string]any
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, fmt.Errorf("remote: decode list: %w", err)
	}
	return bare, nil
}

// Create mirrors a locally stored post to the remote backend.
func (r *RemoteSource) Create(ctx context.Context, p models.Post) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("remote: marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/posts", bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("remote: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("remote: create status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
