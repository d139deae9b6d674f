package application_test

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/learnpath/pkg/domain/events"
	"github.com/felixgeelhaar/learnpath/pkg/domain/state"
)

// MockRepo is an in-memory state.Repository.
type MockRepo struct {
	State       *state.State
	Initialized bool
	Saves       int
	SaveError   error
	LoadError   error
}

func (m *MockRepo) Initialize() error   { m.Initialized = true; return nil }
func (m *MockRepo) IsInitialized() bool { return m.Initialized }

func (m *MockRepo) LoadState() (*state.State, error) {
	if m.LoadError != nil || m.State == nil {
		return state.Default(), m.LoadError
	}
	return m.State.Clone(), nil
}

func (m *MockRepo) SaveState(s *state.State) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Saves++
	m.State = s.Clone()
	return nil
}

// recorder collects dispatched events.
type recorder struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (r *recorder) handle(_ context.Context, e events.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) ofType(eventType string) []events.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.DomainEvent
	for _, e := range r.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newRecorder(d *events.EventDispatcher) *recorder {
	r := &recorder{}
	d.RegisterWildcard("recorder", r.handle)
	return r
}

var testNow = time.Date(2026, 3, 12, 15, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }
