package store

import (
	"shop-core/internal/events"
)

// SaveAlert stores a profit alert raised by the analytics engine. The
// alert keeps any id already assigned so re-runs can upsert.
func (s *Store) SaveAlert(a ProfitAlert) (*ProfitAlert, error) {
	s.mu.Lock()
	if a.ID == "" {
		a.ID = s.newID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	stored := a
	s.alerts[a.ID] = &stored
	out := stored
	s.mu.Unlock()

	s.countMutation("alert", "save")
	s.emit(events.ProfitAlertCreated, out)
	s.requestFlush()
	return &out, nil
}

// ListAlerts returns all profit alerts ordered by creation time.
func (s *Store) ListAlerts() []ProfitAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ProfitAlert, 0, len(s.alerts))
	for _, a := range s.alerts {
		out = append(out, *a)
	}
	sortByCreation(out, func(a ProfitAlert) (string, int64) { return a.ID, a.CreatedAt.UnixNano() })
	return out
}

// MarkAlertRead flags an alert as seen by an admin.
func (s *Store) MarkAlertRead(id string) error {
	return s.setAlertFlag(id, func(a *ProfitAlert) { a.Read = true })
}

// ResolveAlert flags an alert as handled.
func (s *Store) ResolveAlert(id string) error {
	return s.setAlertFlag(id, func(a *ProfitAlert) { a.Resolved = true })
}

func (s *Store) setAlertFlag(id string, apply func(*ProfitAlert)) error {
	s.mu.Lock()
	a, ok := s.alerts[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	apply(a)
	s.mu.Unlock()

	s.countMutation("alert", "update")
	s.requestFlush()
	return nil
}
