package analytics

import (
	"fmt"
	"time"

	"shop-core/internal/store"
)

const (
	AlertLowMargin      = "low_margin"
	AlertNegativeProfit = "negative_profit"
)

// CheckAlerts scans the window's profit analysis and returns the alerts
// it warrants. Nothing is persisted; pass the result to RaiseAlerts to
// store them.
func (e *Engine) CheckAlerts(start, end time.Time) []store.ProfitAlert {
	analysis := e.ProfitAnalysis(start, end)
	var alerts []store.ProfitAlert

	if analysis.OrderCount > 0 && analysis.NetMargin < LowMarginThreshold {
		severity := store.SeverityWarning
		if analysis.NetMargin < 0 {
			severity = store.SeverityCritical
		}
		alerts = append(alerts, store.ProfitAlert{
			Type:        AlertLowMargin,
			Severity:    severity,
			Title:       "Net margin below threshold",
			Description: fmt.Sprintf("Net margin is %.2f%% against a %.0f%% threshold", analysis.NetMargin, LowMarginThreshold),
			Metric:      analysis.NetMargin,
			Threshold:   LowMarginThreshold,
			Recommendation: "Review pricing and shared expenses; consider raising prices " +
				"or renegotiating supplier costs.",
		})
	}

	if analysis.NetProfit < 0 {
		alerts = append(alerts, store.ProfitAlert{
			Type:        AlertNegativeProfit,
			Severity:    store.SeverityCritical,
			Title:       "Operating at a loss",
			Description: fmt.Sprintf("Net profit is %d for the window", analysis.NetProfit),
			Metric:      float64(analysis.NetProfit),
			Threshold:   0,
			Recommendation: "Costs exceed revenue; cut discretionary expenses and audit " +
				"the largest cost categories.",
		})
	}

	for _, pp := range analysis.Products {
		if pp.Margin >= LowMarginThreshold {
			continue
		}
		severity := store.SeverityWarning
		if pp.Margin < 0 {
			severity = store.SeverityCritical
		}
		alerts = append(alerts, store.ProfitAlert{
			Type:        AlertLowMargin,
			Severity:    severity,
			Title:       fmt.Sprintf("Low margin on %s", pp.Title),
			Description: fmt.Sprintf("Product margin is %.2f%%", pp.Margin),
			ProductID:   pp.ProductID,
			Metric:      pp.Margin,
			Threshold:   LowMarginThreshold,
			Recommendation: "Raise the selling price, source a cheaper supplier, or retire " +
				"the product.",
		})
	}

	return alerts
}

// RaiseAlerts persists the window's alerts to the store.
func (e *Engine) RaiseAlerts(start, end time.Time) ([]store.ProfitAlert, error) {
	alerts := e.CheckAlerts(start, end)
	out := make([]store.ProfitAlert, 0, len(alerts))
	for _, a := range alerts {
		saved, err := e.store.SaveAlert(a)
		if err != nil {
			return out, fmt.Errorf("save alert %q: %w", a.Type, err)
		}
		out = append(out, *saved)
	}
	return out, nil
}
