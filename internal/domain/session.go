package domain

// Session is the authenticated identity held by the client. Tokens
// are opaque strings; the refresh token is persisted alongside the
// access token but no client code path exercises it, so an expired
// access token means re-login.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// Authenticated reports whether the session carries a usable identity.
func (s Session) Authenticated() bool {
	return s.AccessToken != "" && s.User != nil
}
