package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/reelkithq/reelkit/pkg/domain"
)

// Client is the Reelkit dashboard API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// projectListResponse is the envelope of the projects listing endpoint.
type projectListResponse struct {
	Success  bool             `json:"success"`
	Projects []domain.Project `json:"projects"`
	Error    string           `json:"error,omitempty"`
}

// ListProjects fetches the complete project set for the account. The endpoint
// always returns the full list; there is no delta form. A 2xx body with
// success=false is an APIError carrying the backend's reason.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var resp projectListResponse
	if err := c.get(ctx, "/api/projects", &resp); err != nil {
		return nil, fmt.Errorf("client.ListProjects: %w", err)
	}
	if !resp.Success {
		reason := resp.Error
		if reason == "" {
			reason = "backend reported failure without a reason"
		}
		return nil, fmt.Errorf("client.ListProjects: %w", &APIError{Reason: reason})
	}
	return resp.Projects, nil
}

// ReconcileResult is the response of the bulk pending-video check.
type ReconcileResult struct {
	// Updated is how many jobs transitioned to a terminal state during this
	// call. The backend reports each transition at most once.
	Updated int `json:"updated"`
	Checked int `json:"checked"`
}

// CheckPendingVideos asks the backend to reconcile every externally-pending
// render against the provider. No request body is required.
func (c *Client) CheckPendingVideos(ctx context.Context) (*ReconcileResult, error) {
	var res ReconcileResult
	if err := c.post(ctx, "/api/creatify/check-all-pending-videos", nil, &res); err != nil {
		return nil, fmt.Errorf("client.CheckPendingVideos: %w", err)
	}
	return &res, nil
}

// CreateProjectRequest is the payload for launching a new video ad.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Script      string `json:"script"`
	AvatarID    string `json:"avatar_id,omitempty"`
	VoiceID     string `json:"voice_id,omitempty"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

// CreateProject submits a new ad for generation. The returned project starts
// in a non-terminal status and is picked up by the poller on the next load.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*domain.Project, error) {
	var p domain.Project
	if err := c.post(ctx, "/api/projects", req, &p); err != nil {
		return nil, fmt.Errorf("client.CreateProject: %w", err)
	}
	return &p, nil
}

// RenameProject updates a project's user-supplied label.
func (c *Client) RenameProject(ctx context.Context, id, name string) error {
	if err := c.doRequest(ctx, http.MethodPatch, "/api/projects/"+url.PathEscape(id), map[string]string{"name": name}, nil); err != nil {
		return fmt.Errorf("client.RenameProject: %w", err)
	}
	return nil
}

// DeleteProject removes a project and its rendered assets.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteProject: %w", err)
	}
	return nil
}

// ListAvatars fetches the presenter catalog for the create form.
func (c *Client) ListAvatars(ctx context.Context) ([]domain.Avatar, error) {
	var avatars []domain.Avatar
	if err := c.get(ctx, "/api/creatify/avatars", &avatars); err != nil {
		return nil, fmt.Errorf("client.ListAvatars: %w", err)
	}
	return avatars, nil
}

// ListVoices fetches the TTS voice catalog for the create form.
func (c *Client) ListVoices(ctx context.Context) ([]domain.Voice, error) {
	var voices []domain.Voice
	if err := c.get(ctx, "/api/creatify/voices", &voices); err != nil {
		return nil, fmt.Errorf("client.ListVoices: %w", err)
	}
	return voices, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
