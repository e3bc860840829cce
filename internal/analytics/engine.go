// Package analytics derives order statistics, profit analysis, ROI,
// alerts and forecasts from the entity store. Everything here is
// read-only: engine methods scan store listings on demand and never
// mutate state.
package analytics

import (
	"log/slog"
	"time"

	"shop-core/internal/store"
)

// FallbackCostRatio estimates unit cost as a share of the selling price
// when neither variant nor supplier cost data exists. Business policy
// inherited from the storefront; confirm before treating as
// authoritative.
const FallbackCostRatio = 0.70

// LowMarginThreshold is the net-margin percentage under which margin
// alerts are raised.
const LowMarginThreshold = 10.0

// Engine answers analytics queries over a Store.
type Engine struct {
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
}

// New builds an engine over s.
func New(s *store.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:  s,
		logger: logger.With("component", "analytics"),
		now:    time.Now,
	}
}

// inWindow reports whether t falls in [start, end]. A zero bound is
// open on that side.
func inWindow(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}

// orderTime is the instant an order counts toward a window: completion
// time when stamped, creation time otherwise.
func orderTime(o store.Order) time.Time {
	if o.CompletedAt != nil {
		return *o.CompletedAt
	}
	return o.CreatedAt
}

// completedOrders returns the window's completed orders.
func (e *Engine) completedOrders(start, end time.Time) []store.Order {
	var out []store.Order
	for _, o := range e.store.ListOrders() {
		if o.Status != store.OrderCompleted {
			continue
		}
		if !inWindow(orderTime(o), start, end) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// productIndex returns the full catalog, soft-deleted items included,
// keyed by id.
func (e *Engine) productIndex() map[string]store.Product {
	idx := make(map[string]store.Product)
	for _, p := range e.store.ListAllProducts() {
		idx[p.ID] = p
	}
	return idx
}

// unitCost resolves the cost of one unit for an order: the selected
// variant's base cost, else the supplier base cost, else the fallback
// ratio of the selling price. A missing product contributes zero.
func unitCost(o store.Order, p *store.Product) int64 {
	if p == nil {
		return 0
	}
	if o.VariantID != "" {
		for _, opt := range p.Options {
			if opt.ID == o.VariantID && opt.BaseCost > 0 {
				return opt.BaseCost
			}
		}
	}
	if p.Supplier != nil && p.Supplier.BaseCost > 0 {
		return p.Supplier.BaseCost
	}
	return int64(float64(o.UnitPrice) * FallbackCostRatio)
}

// marginPercent is profit over revenue as a percentage, 0 when revenue
// is 0.
func marginPercent(profit, revenue int64) float64 {
	if revenue == 0 {
		return 0
	}
	return float64(profit) / float64(revenue) * 100
}
