package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shop-core/internal/metrics"
	"shop-core/internal/store"
)

// Collection document names, one per entity table.
const (
	docUsers        = "users"
	docProducts     = "products"
	docCategories   = "categories"
	docTransactions = "transactions"
	docTopups       = "topup_requests"
	docOrders       = "orders"
	docExpenses     = "expenses"
	docAlerts       = "profit_alerts"
	docActivity     = "activity_log"
)

// Store serializes entity collections through a Backend. Each
// collection is an independent JSON document; timestamps travel as
// RFC 3339 text and are reconstructed on read.
type Store struct {
	backend Backend
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewStore wraps backend with the snapshot codec.
func NewStore(backend Backend, logger *slog.Logger, m *metrics.Metrics) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend: backend,
		logger:  logger.With("component", "snapshot"),
		metrics: m,
	}
}

func (s *Store) countError() {
	if s.metrics != nil {
		s.metrics.Errors.WithLabelValues("snapshot").Inc()
	}
}

// Save writes every collection document. The first write error aborts
// the save; in-memory state is never rolled back and the next flush
// retries the whole snapshot.
func (s *Store) Save(ctx context.Context, snap *store.Snapshot) error {
	start := time.Now()
	total := 0

	write := func(name string, v any) error {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err := s.backend.Write(ctx, name, data); err != nil {
			return err
		}
		total += len(data)
		return nil
	}

	steps := []struct {
		name string
		v    any
	}{
		{docUsers, snap.Users},
		{docProducts, snap.Products},
		{docCategories, snap.Categories},
		{docTransactions, snap.Transactions},
		{docTopups, snap.Topups},
		{docOrders, snap.Orders},
		{docExpenses, snap.Expenses},
		{docAlerts, snap.Alerts},
		{docActivity, snap.Activity},
	}
	for _, step := range steps {
		if err := write(step.name, step.v); err != nil {
			if s.metrics != nil {
				s.metrics.SnapshotWrites.WithLabelValues("error").Inc()
			}
			s.countError()
			return err
		}
	}

	if s.metrics != nil {
		s.metrics.SnapshotWrites.WithLabelValues("ok").Inc()
		s.metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
		s.metrics.SnapshotBytes.Set(float64(total))
	}
	s.logger.Debug("snapshot written", "bytes", total, "took", time.Since(start))
	return nil
}

// Load reads every collection document into a Snapshot. An absent
// document is an empty collection; an unparseable one is logged and
// skipped so a single corrupt document never aborts the whole restore.
func (s *Store) Load(ctx context.Context) (*store.Snapshot, error) {
	snap := &store.Snapshot{}

	read := func(name string, v any) {
		data, err := s.backend.Read(ctx, name)
		if err != nil {
			if !errors.Is(err, ErrNotExist) {
				s.logger.Warn("skipping unreadable snapshot document", "doc", name, "error", err)
				s.countError()
			}
			return
		}
		if err := json.Unmarshal(data, v); err != nil {
			s.logger.Warn("skipping malformed snapshot document", "doc", name, "error", err)
			s.countError()
		}
	}

	read(docUsers, &snap.Users)
	read(docProducts, &snap.Products)
	read(docCategories, &snap.Categories)
	read(docTransactions, &snap.Transactions)
	read(docTopups, &snap.Topups)
	read(docOrders, &snap.Orders)
	read(docExpenses, &snap.Expenses)
	read(docAlerts, &snap.Alerts)
	read(docActivity, &snap.Activity)

	return snap, nil
}
