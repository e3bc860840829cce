package analytics

import (
	"time"
)

// ROIResult evaluates an investment (say a marketing campaign) against
// the completed-order revenue it should have driven.
type ROIResult struct {
	Investment              int64   `json:"investment"`
	Returns                 int64   `json:"returns"`
	Profit                  int64   `json:"profit"`
	ROIPercent              float64 `json:"roi_percent"`
	Customers               int     `json:"customers"`
	CustomerAcquisitionCost float64 `json:"customer_acquisition_cost"`
	PaybackPeriodDays       float64 `json:"payback_period_days"`
}

// ROI sums the revenue of matching completed orders in the window
// (optionally filtered to one product), then derives profit, roi%, a
// rough customer-acquisition cost and payback period. Zero investment
// or an empty window yields zero-valued ratios.
func (e *Engine) ROI(investment int64, start, end time.Time, productID string) ROIResult {
	res := ROIResult{Investment: investment}

	customers := make(map[string]struct{})
	for _, o := range e.completedOrders(start, end) {
		if productID != "" && o.ProductID != productID {
			continue
		}
		res.Returns += o.Total
		customers[o.UserID] = struct{}{}
	}
	res.Customers = len(customers)
	res.Profit = res.Returns - investment

	if investment > 0 {
		res.ROIPercent = float64(res.Profit) / float64(investment) * 100
	}
	if res.Customers > 0 {
		res.CustomerAcquisitionCost = float64(investment) / float64(res.Customers)
	}
	if res.Profit > 0 {
		days := windowDays(start, end, e.now)
		dailyProfit := float64(res.Profit) / days
		res.PaybackPeriodDays = float64(investment) / dailyProfit
	}
	return res
}

// windowDays is the window span in days, at least one.
func windowDays(start, end time.Time, now func() time.Time) float64 {
	if end.IsZero() {
		end = now()
	}
	if start.IsZero() || !end.After(start) {
		return 1
	}
	days := end.Sub(start).Hours() / 24
	if days < 1 {
		return 1
	}
	return days
}
