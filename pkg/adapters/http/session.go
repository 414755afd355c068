package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SessionCookie names the cookie that carries the visitor form session.
const SessionCookie = "folio_session"

// sessionFromRequest returns the visitor session id, or "" when the request has
// no valid one.
func sessionFromRequest(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

// ensureSession returns the visitor session id, issuing a new cookie if needed.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if id := sessionFromRequest(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.sessionTTL),
	})
	return id
}
