package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Status is the lifecycle state of a video-ad project. The dashboard API and
// the render provider both report these exact strings.
type Status string

const (
	StatusCreated    Status = "created"
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusRendering  Status = "rendering"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Active reports whether the status means the render provider is still
// working on the job.
func (s Status) Active() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusRendering:
		return true
	}
	return false
}

// Terminal reports whether the status can no longer change on its own.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// URLState classifies the provider's video URL field. The backend reuses that
// field as a progress signal: while a render is underway it holds
// "pending_<job>" or "processing_<job>" instead of a downloadable URL. The
// prefix is parsed exactly once, when a Video is decoded; downstream code
// works with this enum only.
type URLState int

const (
	// URLNone means the field is empty. An empty string is "no URL", never a
	// sentinel match.
	URLNone URLState = iota
	// URLSentinelPending and URLSentinelProcessing mean the field carries a
	// placeholder job reference, not a real URL.
	URLSentinelPending
	URLSentinelProcessing
	// URLReady means the field holds a downloadable URL.
	URLReady
)

// ClassifyURL maps a raw video URL field to its URLState.
func ClassifyURL(raw string) URLState {
	switch {
	case raw == "":
		return URLNone
	case strings.HasPrefix(raw, "pending_"):
		return URLSentinelPending
	case strings.HasPrefix(raw, "processing_"):
		return URLSentinelProcessing
	default:
		return URLReady
	}
}

// InFlight reports whether the URL field signals a render still underway.
func (u URLState) InFlight() bool {
	return u == URLSentinelPending || u == URLSentinelProcessing
}

// Video is the nested render record of a project.
type Video struct {
	URL       string  `json:"url"`
	Status    Status  `json:"status"`
	Duration  float64 `json:"duration"` // seconds
	Thumbnail string  `json:"thumbnail,omitempty"`

	// URLState is derived from URL while decoding; it is not on the wire.
	URLState URLState `json:"-"`
}

func (v *Video) UnmarshalJSON(data []byte) error {
	type alias Video
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	a.URLState = ClassifyURL(a.URL)
	*v = Video(a)
	return nil
}

// Project represents one video-ad generation job.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     Status    `json:"status"`
	Video      *Video    `json:"video,omitempty"`
	SiteURL    string    `json:"site_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ViewsCount int       `json:"views_count"`
	ImageCount int       `json:"image_count"`
}

// InFlight reports whether the backing render job has not yet reached a
// terminal state. The backend updates the three signals asynchronously and
// not always together, so a project counts as in flight if ANY of them says
// so: the top-level status, the nested video status, or a sentinel prefix in
// the video URL. A completed top-level status with a "processing_" URL is
// still in flight.
func (p Project) InFlight() bool {
	if p.Status.Active() {
		return true
	}
	if p.Video == nil {
		return false
	}
	return p.Video.Status.Active() || p.Video.URLState.InFlight()
}

// AnyInFlight reports whether at least one project in the snapshot is still
// rendering. Pure and cheap; it runs after every store mutation.
func AnyInFlight(projects []Project) bool {
	for _, p := range projects {
		if p.InFlight() {
			return true
		}
	}
	return false
}

// VideoURL returns the downloadable URL of the rendered ad, or "" if the
// render is not finished (including the sentinel placeholder phase).
func (p Project) VideoURL() string {
	if p.Video == nil || p.Video.URLState != URLReady {
		return ""
	}
	return p.Video.URL
}
