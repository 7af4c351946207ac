package common

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/matst80/slask-catalogue/pkg/tracking"
)

func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "sid",
		Value:    sessionID,
		Domain:   strings.TrimPrefix(r.Host, "."),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		MaxAge:   2592000,
		Path:     "/",
	})
}

// HandleSessionCookie returns the visitor's session id, minting one and
// emitting a session event when the request carries none.
func HandleSessionCookie(trk tracking.Tracking, w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie("sid")
	if err == nil && c.Value != "" {
		return c.Value
	}
	sessionID := uuid.New().String()
	if trk != nil {
		go trk.TrackSession(sessionID, r)
	}
	setSessionCookie(w, r, sessionID)
	return sessionID
}
