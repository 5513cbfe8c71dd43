package directory

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Organization groups members whose bookings it may view.
type Organization struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// RegisterOrganizationParams captures the fields required to register an
// organization.
type RegisterOrganizationParams struct {
	Name         string
	Email        string
	PasswordHash string
}

// Organizations is the in-memory organization directory.
type Organizations struct {
	mu          sync.RWMutex
	byID        map[string]Organization
	byEmail     map[string]string
	idGenerator func() string
	now         func() time.Time
}

// NewOrganizations constructs an organization directory.
func NewOrganizations(idGenerator func() string, now func() time.Time) *Organizations {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &Organizations{
		byID:        make(map[string]Organization),
		byEmail:     make(map[string]string),
		idGenerator: idGenerator,
		now:         now,
	}
}

// Register adds an organization, rejecting duplicate emails.
func (d *Organizations) Register(ctx context.Context, params RegisterOrganizationParams) (Organization, error) {
	email := normalizeEmail(params.Email)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byEmail[email]; exists {
		return Organization{}, ErrDuplicateEmail
	}

	org := Organization{
		ID:           d.idGenerator(),
		Name:         strings.TrimSpace(params.Name),
		Email:        email,
		PasswordHash: params.PasswordHash,
		CreatedAt:    d.now(),
	}
	d.byID[org.ID] = org
	d.byEmail[email] = org.ID
	return org, nil
}

// FindByEmailOrID resolves an organization by either key, preferring the id.
func (d *Organizations) FindByEmailOrID(ctx context.Context, key string) (Organization, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if org, ok := d.byID[key]; ok {
		return org, nil
	}
	if id, ok := d.byEmail[normalizeEmail(key)]; ok {
		return d.byID[id], nil
	}
	return Organization{}, ErrNotFound
}
