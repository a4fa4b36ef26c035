package dto

// LoginRequest payload for the token-issuance endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is the token-issuance response.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ProfilePatch carries the editable profile fields. Nil fields are
// omitted, so the request stays a true partial update.
type ProfilePatch struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// AvatarUpload describes a locally selected avatar file.
type AvatarUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// LarkStatusResponse reports whether SSO login is available.
type LarkStatusResponse struct {
	LarkLoginEnabled bool `json:"lark_login_enabled"`
}

// LarkStartResponse carries the provider URL the browser should open.
type LarkStartResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state,omitempty"`
}
