package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/reelkithq/reelkit/pkg/domain"
)

func TestListProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"success": true,
			"projects": []domain.Project{
				{ID: "p1", Name: "Spring sale", Status: domain.StatusCompleted},
				{ID: "p2", Name: "Launch teaser", Status: domain.StatusProcessing},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	projects, err := c.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects() error: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(projects))
	}
	if projects[1].Status != domain.StatusProcessing {
		t.Errorf("projects[1].Status = %q, want %q", projects[1].Status, domain.StatusProcessing)
	}
}

func TestListProjects_SentinelURLClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success":true,"projects":[` + //nolint:errcheck
			`{"id":"p1","name":"Ad","status":"completed","video":{"url":"processing_abc123","status":"completed","duration":0}}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	projects, err := c.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects() error: %v", err)
	}
	if projects[0].Video.URLState != domain.URLSentinelProcessing {
		t.Errorf("URLState = %d, want URLSentinelProcessing", projects[0].Video.URLState)
	}
	if !projects[0].InFlight() {
		t.Error("expected project with sentinel URL to be in flight")
	}
}

func TestListProjects_EnvelopeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "quota exceeded"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.ListProjects(context.Background())
	if err == nil {
		t.Fatal("expected error for success=false envelope")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Reason != "quota exceeded" {
		t.Errorf("Reason = %q, want %q", apiErr.Reason, "quota exceeded")
	}
}

func TestListProjects_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-token")
	_, err := c.ListProjects(context.Background())
	if err == nil {
		t.Fatal("expected error for unauthorized request")
	}
	if !IsStatus(err, 401) {
		t.Errorf("IsStatus(err, 401) = false, err = %v", err)
	}
}

func TestCheckPendingVideos(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(ReconcileResult{Updated: 2, Checked: 3}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	res, err := c.CheckPendingVideos(context.Background())
	if err != nil {
		t.Fatalf("CheckPendingVideos() error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotPath != "/api/creatify/check-all-pending-videos" {
		t.Errorf("path = %q", gotPath)
	}
	if res.Updated != 2 {
		t.Errorf("Updated = %d, want 2", res.Updated)
	}
}

func TestCreateProject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req CreateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Project{ //nolint:errcheck
			ID:     "new-id",
			Name:   req.Name,
			Status: domain.StatusPending,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	p, err := c.CreateProject(context.Background(), CreateProjectRequest{
		Name:   "Holiday promo",
		Script: "Don't miss our holiday deals.",
	})
	if err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}
	if p.Name != "Holiday promo" {
		t.Errorf("p.Name = %q, want %q", p.Name, "Holiday promo")
	}
	if p.Status != domain.StatusPending {
		t.Errorf("p.Status = %q, want pending", p.Status)
	}
}

func TestHTTPErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.CheckPendingVideos(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if got := err.Error(); !strings.Contains(got, "boom") {
		t.Errorf("error = %q, want it to contain 'boom'", got)
	}
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Second) // slow server
		w.Write([]byte(`{"success":true,"projects":[]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.ListProjects(ctx)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}
