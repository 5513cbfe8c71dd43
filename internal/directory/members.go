package directory

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Member is an individual who hosts or joins bookings, optionally belonging
// to an organization.
type Member struct {
	ID             string
	Name           string
	Email          string
	OrganizationID string
	PasswordHash   string
	CreatedAt      time.Time
}

// RegisterMemberParams captures the fields required to register a member.
type RegisterMemberParams struct {
	Name           string
	Email          string
	OrganizationID string
	PasswordHash   string
}

// Members is the in-memory member directory. It also answers the booking
// engine's organization-membership collaborator query, since membership is
// recorded on the member side.
type Members struct {
	mu          sync.RWMutex
	byID        map[string]Member
	byEmail     map[string]string
	idGenerator func() string
	now         func() time.Time
}

// NewMembers constructs a member directory.
func NewMembers(idGenerator func() string, now func() time.Time) *Members {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &Members{
		byID:        make(map[string]Member),
		byEmail:     make(map[string]string),
		idGenerator: idGenerator,
		now:         now,
	}
}

// Register adds a member, rejecting duplicate emails.
func (d *Members) Register(ctx context.Context, params RegisterMemberParams) (Member, error) {
	email := normalizeEmail(params.Email)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byEmail[email]; exists {
		return Member{}, ErrDuplicateEmail
	}

	member := Member{
		ID:             d.idGenerator(),
		Name:           strings.TrimSpace(params.Name),
		Email:          email,
		OrganizationID: strings.TrimSpace(params.OrganizationID),
		PasswordHash:   params.PasswordHash,
		CreatedAt:      d.now(),
	}
	d.byID[member.ID] = member
	d.byEmail[email] = member.ID
	return member, nil
}

// FindByEmailOrID resolves a member by either key, preferring the id.
func (d *Members) FindByEmailOrID(ctx context.Context, key string) (Member, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if member, ok := d.byID[key]; ok {
		return member, nil
	}
	if id, ok := d.byEmail[normalizeEmail(key)]; ok {
		return d.byID[id], nil
	}
	return Member{}, ErrNotFound
}

// MemberIDsForOrganization satisfies the booking engine's membership
// collaborator query.
func (d *Members) MemberIDsForOrganization(ctx context.Context, orgID string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0)
	for id, member := range d.byID {
		if member.OrganizationID == orgID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
