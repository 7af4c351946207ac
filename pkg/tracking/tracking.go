package tracking

import "net/http"

// Tracking publishes catalogue behaviour events. Implementations must be
// safe for concurrent use; all senders are fire-and-forget.
type Tracking interface {
	TrackSession(sessionID string, r *http.Request)
	TrackCatalogueView(sessionID string, view CatalogueViewEvent, r *http.Request)
	Close() error
}

type BaseEvent struct {
	SessionID string `json:"session_id"`
	Event     uint16 `json:"event"`
}

type SessionEvent struct {
	*BaseEvent
	UserAgent string `json:"user_agent,omitempty"`
	IP        string `json:"ip,omitempty"`
	Language  string `json:"language,omitempty"`
}

// CatalogueViewEvent describes one served catalogue page: the canonical
// path is the stable identity of the filter combination.
type CatalogueViewEvent struct {
	*BaseEvent
	CompanyID     string `json:"company_id"`
	CitySlug      string `json:"city_slug"`
	RubricSlug    string `json:"rubric_slug,omitempty"`
	CanonicalPath string `json:"canonical_path"`
	Search        string `json:"search,omitempty"`
	Page          int    `json:"page"`
	TotalDocs     int    `json:"total_docs"`
	Referer       string `json:"referer,omitempty"`
}

const (
	eventSession       = 0
	eventCatalogueView = 1
)
