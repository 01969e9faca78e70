package models

import "time"

// User represents a registered account. It doubles as the public profile
// record referenced by every other entity.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	Skills       *string   `json:"skills,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the public view of a user returned in API responses.
type Profile struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Skills    *string `json:"skills,omitempty"`
}

// DisplayName returns the user's full name for narration strings.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// ToProfile converts a User to its public Profile view.
func (u *User) ToProfile() *Profile {
	return &Profile{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
		Skills:    u.Skills,
	}
}
