package domain

import "time"

// Profile carries the denormalized profile block nested under a user.
type Profile struct {
	Avatar    string     `json:"avatar"`
	AvatarURL *string    `json:"avatar_url"`
	Phone     string     `json:"phone"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// User is the read-mostly copy of the backend account. The client
// mutates it only after a successful profile-edit or avatar-upload
// response, always adopting the server-returned representation.
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	IsStaff   bool       `json:"is_staff"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	Profile   *Profile   `json:"profile"`
}

// DisplayName prefers the real name and falls back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return "Guest"
	}
	if u.FirstName != "" || u.LastName != "" {
		name := u.FirstName
		if u.LastName != "" {
			if name != "" {
				name += " "
			}
			name += u.LastName
		}
		return name
	}
	return u.Username
}

// AvatarRef returns the avatar URL when one is set.
func (u *User) AvatarRef() string {
	if u == nil || u.Profile == nil {
		return ""
	}
	if u.Profile.AvatarURL != nil && *u.Profile.AvatarURL != "" {
		return *u.Profile.AvatarURL
	}
	return u.Profile.Avatar
}
