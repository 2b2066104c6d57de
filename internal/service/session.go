package service

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "revenda_session"

// SessionService wraps the cookie session store for the operator login.
type SessionService struct {
	store *sessions.CookieStore
}

func NewSessionService(secret string) *SessionService {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionService{store: store}
}

// CreateSession marks the request's session as authenticated.
func (s *SessionService) CreateSession(w http.ResponseWriter, r *http.Request) error {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		// A stale cookie signed with an old secret still yields a fresh
		// session value; ignore the decode error.
		session, _ = s.store.New(r, sessionName)
	}
	session.Values["authenticated"] = true
	return session.Save(r, w)
}

// DestroySession logs the operator out.
func (s *SessionService) DestroySession(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, sessionName)
	session.Values["authenticated"] = false
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// IsAuthenticated reports whether the request carries a valid session.
func (s *SessionService) IsAuthenticated(r *http.Request) bool {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		return false
	}
	auth, ok := session.Values["authenticated"].(bool)
	return ok && auth
}
