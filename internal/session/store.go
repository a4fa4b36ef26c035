package session

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/trippal/admin-console/internal/api"
	"github.com/trippal/admin-console/internal/domain"
	"github.com/trippal/admin-console/internal/events"
	"github.com/trippal/admin-console/internal/storage"
	"github.com/trippal/admin-console/pkg/util"
)

// Dependencies bundles collaborators for the session store.
type Dependencies struct {
	API        *api.Client
	Tokens     *storage.TokenStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// Store establishes, persists, and tears down the authenticated
// identity. It is the single authority for session state: components
// read through Current and learn about changes via the dispatcher
// instead of sharing ambient globals.
//
// Every operation that could apply a fetched identity carries the
// generation observed when it started. Logout and a fresh login bump
// the generation, so a response resolving after either can never
// repopulate stale state.
type Store struct {
	mu      sync.Mutex
	api     *api.Client
	tokens  *storage.TokenStore
	events  events.Dispatcher
	logger  *zap.Logger
	current domain.Session
	gen     uint64
}

// NewStore constructs the session store.
func NewStore(deps Dependencies) *Store {
	return &Store{
		api:    deps.API,
		tokens: deps.Tokens,
		events: deps.Dispatcher,
		logger: deps.Logger,
	}
}

// Current returns a copy of the session state.
func (s *Store) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Generation returns the current session generation. Callers that
// fetch identity data capture it before issuing the request and pass
// it back through CommitUser.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Restore re-establishes the session from persisted tokens on
// startup. Any failure, network or auth alike, wipes the persisted
// tokens and leaves the session empty; no distinction is made between
// an expired token and a transient outage.
func (s *Store) Restore(ctx context.Context) error {
	access := s.tokens.Get(storage.KeyAccess)
	if access == "" {
		return nil
	}
	s.logTokenExpiry(access)

	gen := s.Generation()
	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		s.mu.Lock()
		if s.gen == gen {
			s.current = domain.Session{}
			s.mu.Unlock()
			if clearErr := s.tokens.Clear(); clearErr != nil {
				s.logger.Warn("token store clear failed", zap.Error(clearErr))
			}
			s.publishSessionChanged()
		} else {
			s.mu.Unlock()
		}
		return util.ToClientError(err)
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	s.current = domain.Session{
		AccessToken:  access,
		RefreshToken: s.tokens.Get(storage.KeyRefresh),
		User:         user,
	}
	s.mu.Unlock()
	s.publishSessionChanged()
	return nil
}

// Login authenticates with username and password as one atomic
// transaction: tokens are staged in memory, the profile fetch runs
// against the staged access token, and only full success persists the
// pair and populates the session. A failed profile fetch leaves no
// trace in the token store.
func (s *Store) Login(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, util.NewValidationError("username and password are required")
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	pair, err := s.api.IssueToken(ctx, username, password)
	if err != nil {
		return nil, util.ToClientError(err)
	}

	user, err := s.api.WithToken(pair.Access).CurrentUser(ctx)
	if err != nil {
		// Staged tokens are discarded; nothing was persisted.
		return nil, util.ToClientError(err)
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil, util.NewAuthError("login superseded by a newer session change")
	}
	s.current = domain.Session{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		User:         user,
	}
	s.mu.Unlock()

	if err := s.tokens.SetAll(map[string]string{
		storage.KeyAccess:  pair.Access,
		storage.KeyRefresh: pair.Refresh,
	}); err != nil {
		s.logger.Warn("token persistence failed", zap.Error(err))
	}
	s.logTokenExpiry(pair.Access)
	s.publishSessionChanged()
	return user, nil
}

// ssoInfo is the denormalized blob persisted alongside redirect
// tokens.
type ssoInfo struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	AuthType  string `json:"auth_type"`
	LoginTime string `json:"login_time"`
}

// CompleteSSO finishes the redirect-based login: the identity
// provider sent the browser back with tokens embedded in the query
// string of redirectURL. The parameters are trusted as issued by the
// backend; no client-side signature check is possible here. Tokens
// are persisted first, then the profile fetch populates the session
// via the restore path.
func (s *Store) CompleteSSO(ctx context.Context, redirectURL string) (*domain.User, error) {
	parsed, err := url.Parse(redirectURL)
	if err != nil {
		return nil, util.NewValidationError("malformed redirect URL")
	}
	query := parsed.Query()

	if errCode := query.Get("error"); errCode != "" {
		description := query.Get("error_description")
		if description == "" {
			description = errCode
		}
		return nil, util.NewAuthError("sso login failed: " + description)
	}

	access := query.Get("access")
	refresh := query.Get("refresh")
	if access == "" || refresh == "" {
		return nil, util.NewAuthError("redirect is missing credentials")
	}

	info, err := json.Marshal(ssoInfo{
		UserID:    query.Get("user_id"),
		Username:  query.Get("username"),
		AuthType:  query.Get("auth_type"),
		LoginTime: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	if err := s.tokens.SetAll(map[string]string{
		storage.KeyAccess:   access,
		storage.KeyRefresh:  refresh,
		storage.KeyUserInfo: string(info),
	}); err != nil {
		return nil, util.ToClientError(err)
	}

	if err := s.Restore(ctx); err != nil {
		return nil, err
	}
	current := s.Current()
	return current.User, nil
}

// Logout clears persisted tokens and the in-memory session
// synchronously. No server-side revocation call is made.
func (s *Store) Logout() {
	s.mu.Lock()
	s.gen++
	s.current = domain.Session{}
	s.mu.Unlock()

	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("token store clear failed", zap.Error(err))
	}
	s.publishSessionChanged()
}

// CommitUser replaces the session user with a server-returned
// representation, but only when gen still matches the current session
// generation and a session is live. Returns whether the commit was
// applied; a stale generation means a logout or re-login happened
// while the request was in flight and the result must be discarded.
func (s *Store) CommitUser(gen uint64, user *domain.User) bool {
	s.mu.Lock()
	if s.gen != gen || !s.current.Authenticated() {
		s.mu.Unlock()
		return false
	}
	s.current.User = user
	s.mu.Unlock()
	s.publishSessionChanged()
	return true
}

// ClearAccessToken drops only the access token. Profile-edit flows do
// this when the backend answers 401, forcing a re-login while keeping
// the rest of the persisted blob for diagnostics.
func (s *Store) ClearAccessToken() {
	if err := s.tokens.Delete(storage.KeyAccess); err != nil {
		s.logger.Warn("access token delete failed", zap.Error(err))
	}
}

func (s *Store) publishSessionChanged() {
	if s.events == nil {
		return
	}
	s.events.Publish(events.Event{
		Type:    events.EventSessionChanged,
		Source:  "session",
		Payload: s.Current(),
	})
}

// logTokenExpiry records when the access token will lapse. The parse
// is unverified: the client has no signing key and the value is
// informational only, never used to gate a request.
func (s *Store) logTokenExpiry(access string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return
	}
	s.logger.Info("access token loaded", zap.Time("expires_at", expiry.Time))
}
