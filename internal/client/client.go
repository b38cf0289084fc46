// Package client implements the plan store against a remote woolly server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/woolly-dev/woolly/internal/codec"
	"github.com/woolly-dev/woolly/pkg/types"
)

// Compile-time interface check.
var _ types.Backend = (*Client)(nil)

// Client is a types.Backend that talks to the woolly HTTP API.
type Client struct {
	mu         sync.RWMutex
	attached   bool
	baseURL    string
	HTTPClient *http.Client
	logger     *slog.Logger
}

// New creates a detached client. Attach with a Config whose Remote is the
// server's base URL.
func New(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Attach records the remote URL. No request is made until the first call.
func (c *Client) Attach(config types.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if config.Remote == "" {
		return types.ErrRemoteEmpty
	}
	u, err := url.Parse(config.Remote)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("remote %q: invalid URL", config.Remote)
	}
	c.baseURL = strings.TrimRight(config.Remote, "/")
	c.attached = true
	return nil
}

// Detach forgets the remote. Idempotent.
func (c *Client) Detach() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attached = false
	return nil
}

// errorResponse is the body the server sends with non-2xx statuses.
type errorResponse struct {
	Error string `json:"error"`
}

type putResponse struct {
	Revision string `json:"revision"`
}

type projectsResponse struct {
	Projects []string `json:"projects"`
}

// GetPlan fetches the plan of ref. The revision comes from the ETag header.
func (c *Client) GetPlan(ctx context.Context, ref types.ProjectRef) (*types.Plan, string, error) {
	if err := ref.Validate(); err != nil {
		return nil, "", err
	}
	resp, err := c.do(ctx, http.MethodGet, planPath(ref), nil, nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, ref.String()); err != nil {
		return nil, "", err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading plan %s: %w", ref, err)
	}
	plan, err := codec.Unmarshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("decoding plan %s: %w", ref, err)
	}
	return plan, unquoteETag(resp.Header.Get("ETag")), nil
}

// PutPlan uploads plan. A non-empty ifRevision is sent as If-Match.
func (c *Client) PutPlan(ctx context.Context, ref types.ProjectRef, plan *types.Plan, ifRevision string) (string, error) {
	if err := ref.Validate(); err != nil {
		return "", err
	}
	data, err := codec.Marshal(plan)
	if err != nil {
		return "", err
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	if ifRevision != "" {
		header.Set("If-Match", quoteETag(ifRevision))
	}

	resp, err := c.do(ctx, http.MethodPut, planPath(ref), bytes.NewReader(data), header)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, ref.String()); err != nil {
		return "", err
	}
	var out putResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding put response: %w", err)
	}
	c.logger.Debug("plan uploaded", "project", ref.String(), "revision", out.Revision)
	return out.Revision, nil
}

// ListProjects returns the project names the server reports for mode.
func (c *Client) ListProjects(ctx context.Context, mode types.Mode) ([]string, error) {
	if _, err := types.ParseMode(string(mode)); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(string(mode)), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, string(mode)); err != nil {
		return nil, err
	}
	var out projectsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding projects: %w", err)
	}
	if out.Projects == nil {
		out.Projects = []string{}
	}
	return out.Projects, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, header http.Header) (*http.Response, error) {
	c.mu.RLock()
	attached, base := c.attached, c.baseURL
	c.mu.RUnlock()
	if !attached {
		return nil, types.ErrDetached
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	return resp, nil
}

// checkStatus maps error statuses to the store's sentinel errors.
func checkStatus(resp *http.Response, subject string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg := http.StatusText(resp.StatusCode)
	var errResp errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		msg = errResp.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", subject, types.ErrNotFound)
	case http.StatusPreconditionFailed:
		return fmt.Errorf("%s: %w", subject, types.ErrConflict)
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %s: %w", subject, msg, types.ErrInvalidPlan)
	default:
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, msg)
	}
}

func planPath(ref types.ProjectRef) string {
	return "/api/projects/" + url.PathEscape(string(ref.Mode)) + "/" + url.PathEscape(ref.Name) + "/plan"
}

func quoteETag(rev string) string {
	return `"` + rev + `"`
}

func unquoteETag(tag string) string {
	tag = strings.TrimPrefix(tag, "W/")
	return strings.Trim(tag, `"`)
}
