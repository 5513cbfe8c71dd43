package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/room-lending/internal/booking"
	"github.com/example/room-lending/internal/directory"
)

type testEnv struct {
	service *Service
	now     time.Time
	clock   *time.Time
}

func newTestEnv(t *testing.T, ttl time.Duration) *testEnv {
	t.Helper()

	counter := 0
	idGen := func() string {
		counter++
		return fmt.Sprintf("id-%d", counter)
	}
	tokens := 0
	tokenGen := func() string {
		tokens++
		return fmt.Sprintf("token-%d", tokens)
	}

	start := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	clock := start
	now := func() time.Time { return clock }

	owners := directory.NewOwners(idGen, now)
	organizations := directory.NewOrganizations(idGen, now)
	members := directory.NewMembers(idGen, now)

	seed := func(register func() error) {
		if err := register(); err != nil {
			t.Fatalf("seed identity: %v", err)
		}
	}
	seed(func() error {
		_, err := owners.Register(context.Background(), directory.RegisterOwnerParams{
			Name: "Owner", Email: "owner@example.com", PasswordHash: mustHash(t, "owner-secret"),
		})
		return err
	})
	seed(func() error {
		_, err := organizations.Register(context.Background(), directory.RegisterOrganizationParams{
			Name: "Org", Email: "org@example.com", PasswordHash: mustHash(t, "org-secret"),
		})
		return err
	})
	seed(func() error {
		_, err := members.Register(context.Background(), directory.RegisterMemberParams{
			Name: "Member", Email: "member@example.com", PasswordHash: mustHash(t, "member-secret"),
		})
		return err
	})

	service := NewService(owners, organizations, members, nil, tokenGen, now, ttl, nil)
	return &testEnv{service: service, now: start, clock: &clock}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := CreatePasswordHash(password, DefaultArgon2idParams)
	if err != nil {
		t.Fatalf("CreatePasswordHash: %v", err)
	}
	return hash
}

func TestAuthenticateResolvesRoles(t *testing.T) {
	env := newTestEnv(t, time.Hour)

	cases := []struct {
		email    string
		password string
		role     booking.Role
	}{
		{"owner@example.com", "owner-secret", booking.RoleOwner},
		{"org@example.com", "org-secret", booking.RoleOrganization},
		{"member@example.com", "member-secret", booking.RoleMember},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			session, err := env.service.Authenticate(context.Background(), tc.email, tc.password)
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			if session.Caller.Role != tc.role {
				t.Fatalf("expected role %s, got %s", tc.role, session.Caller.Role)
			}
			if session.Token == "" {
				t.Fatal("expected a token")
			}
			if !session.ExpiresAt.Equal(env.now.Add(time.Hour)) {
				t.Fatalf("unexpected expiry %v", session.ExpiresAt)
			}
		})
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t, time.Hour)

	if _, err := env.service.Authenticate(context.Background(), "owner@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := env.service.Authenticate(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, err := env.service.Authenticate(context.Background(), "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty input, got %v", err)
	}
}

func TestValidateTokenRoundTrip(t *testing.T) {
	env := newTestEnv(t, time.Hour)

	session, err := env.service.Authenticate(context.Background(), "member@example.com", "member-secret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	caller, err := env.service.ValidateToken(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if caller.ID != session.Caller.ID || caller.Role != booking.RoleMember {
		t.Fatalf("unexpected caller %+v", caller)
	}

	if _, err := env.service.ValidateToken(context.Background(), "bogus"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown token, got %v", err)
	}
}

func TestValidateTokenExpires(t *testing.T) {
	env := newTestEnv(t, time.Hour)

	session, err := env.service.Authenticate(context.Background(), "owner@example.com", "owner-secret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	*env.clock = env.now.Add(2 * time.Hour)
	if _, err := env.service.ValidateToken(context.Background(), session.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	// The expired session is dropped, so a second lookup reads as unknown.
	if _, err := env.service.ValidateToken(context.Background(), session.Token); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials after expiry pruning, got %v", err)
	}
}

func TestRevokeToken(t *testing.T) {
	env := newTestEnv(t, time.Hour)

	session, err := env.service.Authenticate(context.Background(), "owner@example.com", "owner-secret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	if err := env.service.RevokeToken(context.Background(), session.Token); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	if _, err := env.service.ValidateToken(context.Background(), session.Token); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials after revoke, got %v", err)
	}

	if err := env.service.RevokeToken(context.Background(), "unknown"); err != nil {
		t.Fatalf("revoking an unknown token should not fail: %v", err)
	}
}
