package auth

import (
	"context"
	"reflect"
	"time"
)

// Auther implements Authenticator against an IdentityProvider
type Auther struct {
	provider     IdentityProvider
	logger       Logger
	tokenService TokenService
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		logger:       defLogger{},
		tokenService: tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies credentials and issues a session token alongside the
// resolved identity. Inactive accounts are rejected after credential
// verification with a distinct authorization error.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, Identity, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return "", nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", nil, ErrIdentityNotFound
	}

	if err := s.ensureIdentityActive(identity); err != nil {
		s.logger.Warn("Login blocked for inactive account", "user_id", identity.ID())
		return "", nil, err
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		return "", nil, err
	}

	return token, identity, nil
}

// IdentityFromSession re-reads the session's subject from the store
func (s *Auther) IdentityFromSession(ctx context.Context, session Session) (Identity, error) {
	identity, err := s.provider.FindIdentityByIdentifier(ctx, session.GetUserID())
	if err != nil {
		s.logger.Error("IdentityFromSession find identity by identifier", "error", err)
		return nil, err
	}

	if err := s.ensureIdentityActive(identity); err != nil {
		return nil, err
	}

	return identity, nil
}

// SessionFromToken validates a raw token and maps its claims to a session
func (s *Auther) SessionFromToken(raw string) (Session, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Error("SessionFromToken validation failed", "error", err)
		return nil, err
	}

	return sessionFromAuthClaims(claims), nil
}

func (s *Auther) ensureIdentityActive(identity Identity) error {
	aa, ok := identity.(activeAwareIdentity)
	if !ok {
		return nil
	}

	if !aa.Active() {
		return ErrAccountInactive
	}

	return nil
}

type activeAwareIdentity interface {
	Active() bool
}

// SessionObject is the decoded view of a validated token
type SessionObject struct {
	UserID         string     `json:"user_id,omitempty"`
	UserRole       string     `json:"role,omitempty"`
	IssuedAt       *time.Time `json:"issued_at,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

var _ Session = (*SessionObject)(nil)

func (s *SessionObject) GetUserID() string { return s.UserID }
func (s *SessionObject) GetRole() string   { return s.UserRole }

func (s *SessionObject) GetIssuedAt() *time.Time { return s.IssuedAt }

func (s *SessionObject) GetExpiration() *time.Time { return s.ExpirationDate }

func sessionFromAuthClaims(claims AuthClaims) *SessionObject {
	issued := claims.IssuedAt()
	expires := claims.Expires()

	session := &SessionObject{
		UserID:   claims.UserID(),
		UserRole: claims.Role(),
	}

	if !issued.IsZero() {
		session.IssuedAt = &issued
	}

	if !expires.IsZero() {
		session.ExpirationDate = &expires
	}

	return session
}
