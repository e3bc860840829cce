package analytics

import (
	"time"
)

// ForecastAssumptions parameterize the projection. Rates are fractions
// per projected window (0.10 = +10%); Seasonality scales revenue and
// defaults to 1.
type ForecastAssumptions struct {
	GrowthRate    float64 `json:"growth_rate"`
	InflationRate float64 `json:"inflation_rate"`
	Seasonality   float64 `json:"seasonality"`
}

// ForecastScenario is one projected outcome.
type ForecastScenario struct {
	Name    string  `json:"name"`
	Revenue int64   `json:"revenue"`
	Cost    int64   `json:"cost"`
	Profit  int64   `json:"profit"`
	Margin  float64 `json:"margin"`
}

// Forecast extrapolates a trailing window forward.
type Forecast struct {
	HistoryStart time.Time          `json:"history_start"`
	HistoryEnd   time.Time          `json:"history_end"`
	Days         int                `json:"days"`
	DailyRevenue float64            `json:"daily_revenue"`
	DailyCost    float64            `json:"daily_cost"`
	Scenarios    []ForecastScenario `json:"scenarios"`
}

// revenueSwing is the optimistic/pessimistic deviation applied to the
// realistic revenue projection.
const revenueSwing = 0.20

// Forecast projects daily average revenue and cost from the trailing
// window across the next days, under the given assumptions, and returns
// optimistic, realistic and pessimistic scenarios. An empty history
// produces all-zero scenarios.
func (e *Engine) Forecast(historyStart, historyEnd time.Time, days int, a ForecastAssumptions) Forecast {
	if days <= 0 {
		days = 30
	}
	if a.Seasonality <= 0 {
		a.Seasonality = 1
	}

	analysis := e.ProfitAnalysis(historyStart, historyEnd)
	span := windowDays(historyStart, historyEnd, e.now)

	f := Forecast{
		HistoryStart: historyStart,
		HistoryEnd:   historyEnd,
		Days:         days,
		DailyRevenue: float64(analysis.Revenue) / span,
		DailyCost:    float64(analysis.TotalCosts) / span,
	}

	baseRevenue := f.DailyRevenue * float64(days) * (1 + a.GrowthRate) * a.Seasonality
	baseCost := f.DailyCost * float64(days) * (1 + a.InflationRate)

	scenario := func(name string, revenueFactor float64) ForecastScenario {
		revenue := int64(baseRevenue * revenueFactor)
		cost := int64(baseCost)
		profit := revenue - cost
		return ForecastScenario{
			Name:    name,
			Revenue: revenue,
			Cost:    cost,
			Profit:  profit,
			Margin:  marginPercent(profit, revenue),
		}
	}

	f.Scenarios = []ForecastScenario{
		scenario("optimistic", 1+revenueSwing),
		scenario("realistic", 1),
		scenario("pessimistic", 1-revenueSwing),
	}
	return f
}
