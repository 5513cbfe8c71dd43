// Package auth issues and validates the opaque session tokens the HTTP
// boundary exchanges for a booking.Caller. Credentials live in the identity
// directories; this package only ties an email/password pair to a role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/room-lending/internal/booking"
	"github.com/example/room-lending/internal/directory"
	"github.com/example/room-lending/internal/logging"
)

var (
	// ErrInvalidCredentials is returned when the email/password pair does
	// not match any registered identity.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrSessionExpired is returned when a presented token has lapsed.
	ErrSessionExpired = errors.New("auth: session expired")
)

// Session is an issued authentication token bound to a caller identity.
type Session struct {
	Token     string
	Caller    booking.Caller
	CreatedAt time.Time
	ExpiresAt time.Time
}

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// Service authenticates identities from the three directories and tracks
// issued sessions in memory.
type Service struct {
	owners        *directory.Owners
	organizations *directory.Organizations
	members       *directory.Members

	verifyPassword PasswordVerifier
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger

	mu       sync.Mutex
	sessions map[string]Session
}

// NewService constructs the auth service.
func NewService(owners *directory.Owners, organizations *directory.Organizations, members *directory.Members, verify PasswordVerifier, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration, logger *slog.Logger) *Service {
	if verify == nil {
		verify = VerifyPassword
	}
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		owners:         owners,
		organizations:  organizations,
		members:        members,
		verifyPassword: verify,
		tokenGenerator: tokenGenerator,
		now:            now,
		sessionTTL:     sessionTTL,
		logger:         logger,
		sessions:       make(map[string]Session),
	}
}

func (s *Service) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = s.logger
	}
	pairs := []any{"service", "AuthService", "operation", operation}
	pairs = append(pairs, attrs...)
	return logger.With(pairs...)
}

// Authenticate resolves the email across the owner, organization, and member
// directories in that order, verifies the password, and issues a session.
func (s *Service) Authenticate(ctx context.Context, email, password string) (session Session, err error) {
	if s == nil {
		return Session{}, fmt.Errorf("auth Service is nil")
	}

	email = strings.TrimSpace(strings.ToLower(email))
	logger := s.loggerWith(ctx, "Authenticate", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "authentication failed", "error", err)
			return
		}
		logger.With("caller_id", session.Caller.ID, "role", string(session.Caller.Role)).InfoContext(ctx, "authentication succeeded")
	}()

	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	caller, hash, err := s.resolveIdentity(ctx, email)
	if err != nil {
		return Session{}, err
	}

	if err = s.verifyPassword(hash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	now := s.now()
	session = Session{
		Token:     s.tokenGenerator(),
		Caller:    caller,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	s.mu.Lock()
	s.pruneExpiredLocked(now)
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session, nil
}

// ValidateToken exchanges a token for its caller identity.
func (s *Service) ValidateToken(ctx context.Context, token string) (booking.Caller, error) {
	if s == nil {
		return booking.Caller{}, fmt.Errorf("auth Service is nil")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return booking.Caller{}, ErrInvalidCredentials
	}

	s.mu.Lock()
	session, ok := s.sessions[token]
	s.mu.Unlock()
	if !ok {
		return booking.Caller{}, ErrInvalidCredentials
	}

	if !session.ExpiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return booking.Caller{}, ErrSessionExpired
	}

	return session.Caller, nil
}

// RevokeToken discards a session. Revoking an unknown token is not an error.
func (s *Service) RevokeToken(ctx context.Context, token string) error {
	if s == nil {
		return fmt.Errorf("auth Service is nil")
	}
	s.mu.Lock()
	delete(s.sessions, strings.TrimSpace(token))
	s.mu.Unlock()
	return nil
}

func (s *Service) resolveIdentity(ctx context.Context, email string) (booking.Caller, string, error) {
	if s.owners != nil {
		if owner, err := s.owners.FindByEmailOrID(ctx, email); err == nil {
			return booking.Caller{ID: owner.ID, Role: booking.RoleOwner}, owner.PasswordHash, nil
		} else if !errors.Is(err, directory.ErrNotFound) {
			return booking.Caller{}, "", err
		}
	}
	if s.organizations != nil {
		if org, err := s.organizations.FindByEmailOrID(ctx, email); err == nil {
			return booking.Caller{ID: org.ID, Role: booking.RoleOrganization}, org.PasswordHash, nil
		} else if !errors.Is(err, directory.ErrNotFound) {
			return booking.Caller{}, "", err
		}
	}
	if s.members != nil {
		if member, err := s.members.FindByEmailOrID(ctx, email); err == nil {
			return booking.Caller{ID: member.ID, Role: booking.RoleMember}, member.PasswordHash, nil
		} else if !errors.Is(err, directory.ErrNotFound) {
			return booking.Caller{}, "", err
		}
	}
	return booking.Caller{}, "", ErrInvalidCredentials
}

// pruneExpiredLocked drops lapsed sessions; the caller holds s.mu.
func (s *Service) pruneExpiredLocked(now time.Time) {
	for token, session := range s.sessions {
		if !session.ExpiresAt.After(now) {
			delete(s.sessions, token)
		}
	}
}
