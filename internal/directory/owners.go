// Package directory holds the three trivial keyed identity stores the
// booking engine treats as external collaborators: resource owners,
// organizations, and individual members. Each supports registration and
// lookup by email or id; none of them knows anything about rooms or
// bookings.
package directory

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Owner is a resource owner who can publish rooms.
type Owner struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// RegisterOwnerParams captures the fields required to register an owner.
type RegisterOwnerParams struct {
	Name         string
	Email        string
	PasswordHash string
}

// Owners is the in-memory owner directory.
type Owners struct {
	mu          sync.RWMutex
	byID        map[string]Owner
	byEmail     map[string]string
	idGenerator func() string
	now         func() time.Time
}

// NewOwners constructs an owner directory with injected id and time sources.
func NewOwners(idGenerator func() string, now func() time.Time) *Owners {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &Owners{
		byID:        make(map[string]Owner),
		byEmail:     make(map[string]string),
		idGenerator: idGenerator,
		now:         now,
	}
}

// Register adds an owner, rejecting duplicate emails.
func (d *Owners) Register(ctx context.Context, params RegisterOwnerParams) (Owner, error) {
	email := normalizeEmail(params.Email)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byEmail[email]; exists {
		return Owner{}, ErrDuplicateEmail
	}

	owner := Owner{
		ID:           d.idGenerator(),
		Name:         strings.TrimSpace(params.Name),
		Email:        email,
		PasswordHash: params.PasswordHash,
		CreatedAt:    d.now(),
	}
	d.byID[owner.ID] = owner
	d.byEmail[email] = owner.ID
	return owner, nil
}

// FindByEmailOrID resolves an owner by either key, preferring the id.
func (d *Owners) FindByEmailOrID(ctx context.Context, key string) (Owner, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if owner, ok := d.byID[key]; ok {
		return owner, nil
	}
	if id, ok := d.byEmail[normalizeEmail(key)]; ok {
		return d.byID[id], nil
	}
	return Owner{}, ErrNotFound
}

// OwnerExists satisfies the booking engine's owner collaborator query.
func (d *Owners) OwnerExists(ctx context.Context, id string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.byID[id]
	return ok, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
