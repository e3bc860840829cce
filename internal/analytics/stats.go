package analytics

import (
	"time"

	"shop-core/internal/store"
)

// OrderStats summarizes the order table for a window.
type OrderStats struct {
	Total             int                       `json:"total"`
	ByStatus          map[store.OrderStatus]int `json:"by_status"`
	CompletedRevenue  int64                     `json:"completed_revenue"`
	AverageOrderValue float64                   `json:"average_order_value"`
	TodayOrders       int                       `json:"today_orders"`
	TodayRevenue      int64                     `json:"today_revenue"`
	ConversionRate    float64                   `json:"conversion_rate"`
}

// OrderStats computes counts by status, revenue from completed orders
// and today's subset for the given window. Today is bounded by midnight
// in the clock's location. Conversion rate is completed over total as a
// percentage, 0 for an empty window.
func (e *Engine) OrderStats(start, end time.Time) OrderStats {
	stats := OrderStats{ByStatus: make(map[store.OrderStatus]int)}
	now := e.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	completed := 0
	for _, o := range e.store.ListOrders() {
		if !inWindow(o.CreatedAt, start, end) {
			continue
		}
		stats.Total++
		stats.ByStatus[o.Status]++
		if o.Status == store.OrderCompleted {
			completed++
			stats.CompletedRevenue += o.Total
		}
		if !o.CreatedAt.Before(today) {
			stats.TodayOrders++
			if o.Status == store.OrderCompleted {
				stats.TodayRevenue += o.Total
			}
		}
	}

	if completed > 0 {
		stats.AverageOrderValue = float64(stats.CompletedRevenue) / float64(completed)
	}
	if stats.Total > 0 {
		stats.ConversionRate = float64(completed) / float64(stats.Total) * 100
	}
	return stats
}
