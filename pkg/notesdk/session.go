package notesdk

import (
	"context"
	"net/http"
	"sync"
)

// Session is an authenticated session with automatic token refresh. It is
// safe for concurrent use: when the access token expires mid-flight, exactly
// one goroutine performs the refresh while the rest wait at the gate and then
// retry with the replacement token.
type Session struct {
	client *Client

	// refreshMu is the refresh gate. Held only while a refresh is in
	// progress; TryLock elects the one goroutine that performs it.
	refreshMu sync.Mutex

	// stateMu guards the fields below.
	stateMu     sync.RWMutex
	user        User
	accessToken string
	loggedOut   bool
}

// User returns the session's user as of login or the last refresh.
func (s *Session) User() User {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.user
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.accessToken
}

// LoggedOut reports whether the session was terminated by a failed refresh
// or an explicit Logout.
func (s *Session) LoggedOut() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.loggedOut
}

// Logout closes the session server-side and resets local state.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.logout(ctx)
	s.reset()
	return err
}

// do performs an authenticated request, refreshing the token once if the
// server rejects it.
func (s *Session) do(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	if s.LoggedOut() {
		return nil, ErrSessionExpired
	}

	// If a refresh is in flight, wait for it rather than burning a request
	// on a token that is already being replaced.
	s.waitForRefresh()

	resp, err := s.client.doJSON(ctx, method, path, payload, s.AccessToken())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}
	resp.Body.Close()

	// Rejected token. Elect a refresher; losers wait for the winner and
	// retry with whatever token it installed.
	if s.refreshMu.TryLock() {
		err := s.refreshSession(ctx)
		s.refreshMu.Unlock()
		if err != nil {
			return nil, err
		}
	} else {
		s.waitForRefresh()
		if s.LoggedOut() {
			return nil, ErrSessionExpired
		}
	}

	return s.client.doJSON(ctx, method, path, payload, s.AccessToken())
}

// waitForRefresh blocks until no refresh is in progress. Acquiring and
// releasing the gate is the wait; there is no critical section.
func (s *Session) waitForRefresh() {
	s.refreshMu.Lock()
	s.refreshMu.Unlock() //nolint:staticcheck
}

// refreshSession performs exactly one refresh call and installs the new
// token. On failure the session is closed: the server already consumed the
// refresh token, so there is nothing left to retry with.
func (s *Session) refreshSession(ctx context.Context) error {
	body, err := s.client.refresh(ctx)
	if err != nil {
		_ = s.client.logout(ctx)
		s.reset()
		return ErrSessionExpired
	}

	s.stateMu.Lock()
	s.user = body.User
	s.accessToken = body.NewAccessToken
	s.stateMu.Unlock()
	return nil
}

func (s *Session) reset() {
	s.stateMu.Lock()
	s.user = User{}
	s.accessToken = ""
	s.loggedOut = true
	s.stateMu.Unlock()
}
