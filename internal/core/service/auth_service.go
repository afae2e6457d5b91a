package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/curationlink/board-api/internal/api/metrics"
	"github.com/curationlink/board-api/internal/core/domain"
	"github.com/curationlink/board-api/internal/core/ports"
)

// AuthService exchanges the external identity provider's token for a session
// token. There is no credential store: identity verification is entirely the
// provider's job, this service only checks the token signature and
// provisions the profile on first login.
type AuthService struct {
	users          ports.UserService
	identitySecret string
	sessionSecret  string
	tokenTTL       time.Duration
	adminSubjects  map[string]struct{}
	logger         zerolog.Logger
}

func NewAuthService(users ports.UserService, identitySecret, sessionSecret string, tokenTTL time.Duration, adminSubjects []string, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	admins := make(map[string]struct{}, len(adminSubjects))
	for _, sub := range adminSubjects {
		admins[sub] = struct{}{}
	}
	return &AuthService{
		users:          users,
		identitySecret: identitySecret,
		sessionSecret:  sessionSecret,
		tokenTTL:       tokenTTL,
		adminSubjects:  admins,
		logger:         logger,
	}
}

func (s *AuthService) Login(ctx context.Context, idToken string) (*ports.Session, error) {
	subject, email, err := s.verifyIdentityToken(idToken)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, created, err := s.users.EnsureUser(ctx, subject, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Str("subject", subject).Msg("login failed")
		return nil, err
	}

	token, err := s.generateSessionToken(user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if created {
		metrics.LoginsTotal.WithLabelValues("new_user").Inc()
	} else {
		metrics.LoginsTotal.WithLabelValues("ok").Inc()
	}

	return &ports.Session{Token: token, User: user, NewUser: created}, nil
}

// verifyIdentityToken validates the provider token and extracts the subject
// and email claims.
func (s *AuthService) verifyIdentityToken(idToken string) (subject, email string, err error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(idToken, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.identitySecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", "", domain.ErrInvalidCredentials
	}

	subject, _ = claims["sub"].(string)
	email, _ = claims["email"].(string)
	if subject == "" {
		return "", "", domain.ErrInvalidCredentials
	}
	return subject, email, nil
}

func (s *AuthService) generateSessionToken(user *domain.User) (string, error) {
	role := domain.RoleUser
	if _, ok := s.adminSubjects[user.ID]; ok {
		role = domain.RoleAdmin
	}

	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.sessionSecret))
}
