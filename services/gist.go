package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/CrowderSoup/workbench/board"
)

const DefaultGistAPI = "https://api.github.com"

// GistStore uses one GitHub Gist as a document store: every board document is
// a file of the gist.
type GistStore struct {
	apiURL string
	gistID string
	token  string
	client *http.Client
}

type GistConfig struct {
	APIURL  string
	GistID  string
	Token   string
	Timeout time.Duration
}

func NewGistStore(cfg GistConfig) *GistStore {
	api := strings.TrimRight(cfg.APIURL, "/")
	if api == "" {
		api = DefaultGistAPI
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &GistStore{
		apiURL: api,
		gistID: cfg.GistID,
		token:  cfg.Token,
		client: &http.Client{Timeout: timeout},
	}
}

type gistFile struct {
	Content string `json:"content"`
}

type gistDocument struct {
	Files map[string]*gistFile `json:"files"`
}

func (s *GistStore) configured() error {
	if s.token == "" {
		return fmt.Errorf("%w: GIST_TOKEN not configured", board.ErrNotConfigured)
	}
	if s.gistID == "" {
		return fmt.Errorf("%w: gist id not configured", board.ErrNotConfigured)
	}
	return nil
}

// Fetch reads the gist and returns the content of the named file.
func (s *GistStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.gistURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build gist request: %w", err)
	}
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gist: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "fetch gist"); err != nil {
		return nil, err
	}

	var doc gistDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode gist: %w", err)
	}

	file, ok := doc.Files[name]
	if !ok || file == nil {
		return nil, board.ErrDocumentNotFound
	}
	return []byte(file.Content), nil
}

// Replace overwrites the named file. Other files of the gist are untouched.
func (s *GistStore) Replace(ctx context.Context, name string, data []byte) error {
	if err := s.configured(); err != nil {
		return err
	}

	body, err := json.Marshal(gistDocument{Files: map[string]*gistFile{name: {Content: string(data)}}})
	if err != nil {
		return fmt.Errorf("failed to encode gist update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, s.gistURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build gist request: %w", err)
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to update gist: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp, "update gist")
}

func (s *GistStore) gistURL() string {
	return fmt.Sprintf("%s/gists/%s", s.apiURL, s.gistID)
}

func (s *GistStore) authorize(req *http.Request) {
	req.Header.Set("Authorization", "token "+s.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
}

// StatusError is a non-2xx answer from a remote API.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Status, e.Body)
}

func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
