package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"shop-core/internal/events"
	"shop-core/internal/metrics"
)

// Persister receives flush requests after every mutation. Requests are
// expected to be coalesced by the implementation; the store never waits
// for the durable write.
type Persister interface {
	Request()
}

// Store owns the authoritative in-memory tables. A single mutex guards
// every table, so mutations never interleave; all mutation methods emit
// their change events and request a flush before returning.
type Store struct {
	mu sync.Mutex

	users        map[string]*User
	products     map[string]*Product
	categories   map[string]*Category
	transactions map[string]*Transaction
	topups       map[string]*TopupRequest
	orders       map[string]*Order
	expenses     map[string]*Expense
	alerts       map[string]*ProfitAlert
	activity     []ActivityEntry

	bus       *events.Bus
	metrics   *metrics.Metrics
	logger    *slog.Logger
	persister Persister

	now func() time.Time
}

// Options configures a new Store. Bus and Metrics may be nil in tests.
type Options struct {
	Bus     *events.Bus
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	Now     func() time.Time
}

// New constructs an empty store and guarantees the fallback category
// exists.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	bus := opts.Bus
	if bus == nil {
		bus = events.NewBus(logger)
	}

	s := &Store{
		users:        make(map[string]*User),
		products:     make(map[string]*Product),
		categories:   make(map[string]*Category),
		transactions: make(map[string]*Transaction),
		topups:       make(map[string]*TopupRequest),
		orders:       make(map[string]*Order),
		expenses:     make(map[string]*Expense),
		alerts:       make(map[string]*ProfitAlert),
		bus:          bus,
		metrics:      opts.Metrics,
		logger:       logger.With("component", "store"),
		now:          now,
	}
	s.ensureFallbackCategory()
	return s
}

// SetPersister wires the debounced snapshot writer. Safe to leave unset
// in tests; flush requests are then dropped.
func (s *Store) SetPersister(p Persister) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persister = p
}

// Bus exposes the event bus for subscribers.
func (s *Store) Bus() *events.Bus { return s.bus }

func (s *Store) newID() string { return uuid.NewString() }

// emit publishes an event and counts it. Callers must not hold s.mu:
// subscribers run synchronously and may read back from the store.
func (s *Store) emit(t events.Type, payload any) {
	if s.metrics != nil {
		s.metrics.EventsPublished.WithLabelValues(string(t)).Inc()
	}
	s.bus.Publish(events.Event{Type: t, Payload: payload})
}

func (s *Store) countMutation(entity, op string) {
	if s.metrics != nil {
		s.metrics.Mutations.WithLabelValues(entity, op).Inc()
	}
}

// requestFlush asks the persister for a (debounced) durable write.
func (s *Store) requestFlush() {
	s.mu.Lock()
	p := s.persister
	s.mu.Unlock()
	if p != nil {
		p.Request()
	}
}

func (s *Store) ensureFallbackCategory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.Slug == FallbackCategorySlug {
			return
		}
	}
	now := s.now()
	c := &Category{
		ID:        s.newID(),
		Name:      "Uncategorized",
		Slug:      FallbackCategorySlug,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.categories[c.ID] = c
}
