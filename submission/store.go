package submission

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/pithecene-io/formstate/log"
	"github.com/pithecene-io/formstate/metrics"
	"github.com/pithecene-io/formstate/types"
)

// Client is the form-service collaborator bound to one resource URL.
type Client interface {
	LoadSubmission(ctx context.Context) (types.Submission, error)
	SaveSubmission(ctx context.Context, data types.Submission) (types.Submission, error)
	DeleteSubmission(ctx context.Context) error
}

// ClientFactory builds a Client for a resource URL. Called once per operation.
type ClientFactory func(url string) Client

// Listener is notified after every dispatch with the action and the
// resulting state. Listeners run outside the store lock and must not
// mutate the state they receive.
type Listener func(Action, State)

// Config configures a Store.
type Config struct {
	// ProjectURL is the base form-service URL (required).
	ProjectURL string
	// Client builds the form-service client per operation (required).
	Client ClientFactory
	// StoreID identifies the store in logs and events. Defaults to a UUIDv7.
	StoreID string
	// Logger defaults to a no-op logger.
	Logger *log.Logger
	// Metrics is optional; nil disables counting.
	Metrics *metrics.Collector
}

// Store owns one submission State.
type Store struct {
	id         string
	projectURL string
	client     ClientFactory
	logger     *log.Logger
	metrics    *metrics.Collector

	mu        sync.Mutex
	state     State
	listeners []subscriber
	nextSub   int
}

type subscriber struct {
	id int
	l  Listener
}

// NewStoreID returns a fresh time-ordered store identifier.
func NewStoreID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// New creates a store in InitialState.
func New(cfg Config) (*Store, error) {
	if cfg.ProjectURL == "" {
		return nil, errors.New("submission: project URL is required")
	}
	if cfg.Client == nil {
		return nil, errors.New("submission: client factory is required")
	}
	if cfg.StoreID == "" {
		cfg.StoreID = NewStoreID()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}

	return &Store{
		id:         cfg.StoreID,
		projectURL: cfg.ProjectURL,
		client:     cfg.Client,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		state:      InitialState(),
	}, nil
}

// ID returns the store identifier.
func (s *Store) ID() string {
	return s.id
}

// ProjectURL returns the base form-service URL.
func (s *Store) ProjectURL() string {
	return s.projectURL
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Dispatch runs a through the reducer, notifies subscribers and returns the
// new state. Dispatches are serialized; there is no ordering across
// operations beyond that. A nil action is ignored.
func (s *Store) Dispatch(a Action) State {
	if a == nil {
		return s.State()
	}

	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state.clone()
	listeners := make([]Listener, len(s.listeners))
	for i, sub := range s.listeners {
		listeners[i] = sub.l
	}
	s.mu.Unlock()

	s.metrics.IncDispatch()
	switch a.(type) {
	case Reset:
		s.metrics.IncReset()
	case ClearError:
		s.metrics.IncErrorCleared()
	}

	s.logger.Debug("dispatch", map[string]any{
		"action":        string(a.Type()),
		"form_id":       next.FormID,
		"submission_id": next.ID,
		"is_active":     next.IsActive,
	})

	for _, l := range listeners {
		l(a, next)
	}
	return next
}

// Subscribe registers l and returns a function that removes it.
// Listeners are called in subscription order.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners = append(s.listeners, subscriber{id: id, l: l})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// ClearError dispatches ClearError.
func (s *Store) ClearError() State {
	return s.Dispatch(ClearError{})
}

// Reset dispatches Reset.
func (s *Store) Reset() State {
	return s.Dispatch(Reset{})
}
