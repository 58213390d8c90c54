package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/CrowderSoup/workbench/board"
)

// Function names of the managed backend deployment.
const (
	convexGetDocument     = "documents:get"
	convexReplaceDocument = "documents:replace"
)

var ErrConvexFunction = errors.New("managed backend function failed")

// ConvexStore stores board documents through the query and mutation HTTP
// endpoints of a managed backend deployment.
type ConvexStore struct {
	url    string
	client *http.Client
}

func NewConvexStore(url string, timeout time.Duration) *ConvexStore {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &ConvexStore{
		url:    strings.TrimRight(url, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

type convexRequest struct {
	Path   string         `json:"path"`
	Args   map[string]any `json:"args"`
	Format string         `json:"format"`
}

type convexResponse struct {
	Status       string          `json:"status"`
	Value        json.RawMessage `json:"value"`
	ErrorMessage string          `json:"errorMessage"`
}

// Fetch runs the get query. A null value means the document does not exist.
func (s *ConvexStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	value, err := s.call(ctx, "query", convexGetDocument, map[string]any{"name": name})
	if err != nil {
		return nil, err
	}

	if len(value) == 0 || string(value) == "null" {
		return nil, board.ErrDocumentNotFound
	}

	var content string
	if err := json.Unmarshal(value, &content); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", name, err)
	}
	return []byte(content), nil
}

// Replace runs the replace mutation.
func (s *ConvexStore) Replace(ctx context.Context, name string, data []byte) error {
	_, err := s.call(ctx, "mutation", convexReplaceDocument, map[string]any{
		"name":    name,
		"content": string(data),
	})
	return err
}

func (s *ConvexStore) call(ctx context.Context, kind, path string, args map[string]any) (json.RawMessage, error) {
	if s.url == "" {
		return nil, fmt.Errorf("%w: CONVEX_URL not configured", board.ErrNotConfigured)
	}

	body, err := json.Marshal(convexRequest{Path: path, Args: args, Format: "json"})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url+"/api/"+kind, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", kind, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, path); err != nil {
		return nil, err
	}

	var out convexResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	if out.Status != "success" {
		return nil, fmt.Errorf("%w: %s: %s", ErrConvexFunction, path, out.ErrorMessage)
	}
	return out.Value, nil
}
