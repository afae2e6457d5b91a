package ports

import (
	"context"

	"github.com/curationlink/board-api/internal/core/domain"
)

// Session is the result of a successful login.
type Session struct {
	// Token is the signed session JWT presented on subsequent requests.
	Token string
	User  *domain.User
	// NewUser is true when the profile was provisioned by this login.
	NewUser bool
}

// AuthService exchanges an external identity-provider token for a session.
// Credential verification itself is delegated to the provider; this service
// only validates the provider's token and provisions the profile on first
// login.
type AuthService interface {
	Login(ctx context.Context, idToken string) (*Session, error)
}
