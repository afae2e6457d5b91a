package domain

import (
	"errors"
	"regexp"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// DefaultDisplayName is assigned at first login, before the user has edited
// their profile.
const DefaultDisplayName = "未設定"

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrUsernameTaken = errors.New("username already taken")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidProfile = errors.New("invalid profile input")

// usernamePattern is the canonical constraint: alphanumerics and underscore,
// 5 to 15 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{5,15}$`)

// ValidUsername reports whether s satisfies the username constraint.
// Provisioned usernames (raw identity subjects) may not satisfy it until the
// user edits their profile; the constraint applies at write time only.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// User is the authenticated profile. ID matches the external identity
// provider's subject.
type User struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	DisplayName     string    `json:"display_name" bson:"display_name"`
	Username        string    `json:"username" bson:"username"`
	Email           string    `json:"email,omitempty" bson:"email,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty" bson:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// UserPatch carries a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	DisplayName     *string `bson:"display_name,omitempty"`
	Username        *string `bson:"username,omitempty"`
	ProfileImageURL *string `bson:"profile_image_url,omitempty"`
}
