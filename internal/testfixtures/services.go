package testfixtures

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/room-lending/internal/booking"
)

// StubOwners is a canned owner directory for engine tests.
type StubOwners struct {
	Known map[string]bool
	Err   error
}

// OwnerExists reports whether the id is in the canned set.
func (s *StubOwners) OwnerExists(_ context.Context, id string) (bool, error) {
	if s == nil {
		return false, nil
	}
	if s.Err != nil {
		return false, s.Err
	}
	return s.Known[id], nil
}

// StubOrganizations is a canned organization directory for engine tests.
type StubOrganizations struct {
	Members map[string][]string
	Err     error
}

// MemberIDsForOrganization returns the canned membership list.
func (s *StubOrganizations) MemberIDsForOrganization(_ context.Context, orgID string) ([]string, error) {
	if s == nil {
		return nil, nil
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Members[orgID], nil
}

// EngineFactory assists tests with constructing booking engines using
// deterministic identifiers and clocks.
type EngineFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// EngineFactoryOption configures an EngineFactory instance.
type EngineFactoryOption func(*EngineFactory)

// NewEngineFactory constructs an EngineFactory with defaults.
func NewEngineFactory(opts ...EngineFactoryOption) *EngineFactory {
	factory := &EngineFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) EngineFactoryOption {
	return func(factory *EngineFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) EngineFactoryOption {
	return func(factory *EngineFactory) {
		factory.IDGenerator = generator
	}
}

// EngineDeps captures dependencies for constructing a booking engine.
type EngineDeps struct {
	Owners        booking.OwnerDirectory
	Organizations booking.OrganizationDirectory
	IDGenerator   func() string
	Now           func() time.Time
	Horizon       time.Duration
	Logger        *slog.Logger
}

// NewEngine builds a booking engine using the supplied dependencies combined
// with the factory defaults. Nil directories fall back to empty stubs.
func (f *EngineFactory) NewEngine(deps EngineDeps) *booking.Service {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	owners := deps.Owners
	if owners == nil {
		owners = &StubOwners{}
	}
	organizations := deps.Organizations
	if organizations == nil {
		organizations = &StubOrganizations{}
	}
	return booking.NewServiceWithOptions(owners, organizations, idGen, now, deps.Horizon, deps.Logger)
}
