package profile

import "time"

// Role is the side of the marketplace a user works on
type Role string

const (
	RoleCreator Role = "creator"
	RoleEditor  Role = "editor"
)

func (r Role) Valid() bool {
	return r == RoleCreator || r == RoleEditor
}

// Profile is a user's onboarding record
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
