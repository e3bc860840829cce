package analytics

import (
	"testing"
	"time"

	"shop-core/internal/store"
)

func TestOrderStatsCountsAndConversion(t *testing.T) {
	s, e := newFixture(t)
	u := createUser(t, s, "stats@example.com")
	p := createProduct(t, s, "Steam Wallet", 120000, 100000)

	completedOrder(t, s, u.ID, p.ID, 1, 150000)
	completedOrder(t, s, u.ID, p.ID, 2, 150000)

	open, err := s.CreateOrder(store.CreateOrderInput{UserID: u.ID, ProductID: p.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := s.UpdateOrderStatus(open.ID, store.OrderCancelled, "admin-1"); err != nil {
		t.Fatalf("cancel order: %v", err)
	}

	stats := e.OrderStats(time.Time{}, time.Time{})

	if stats.Total != 3 {
		t.Fatalf("expected 3 orders, got %d", stats.Total)
	}
	if stats.ByStatus[store.OrderCompleted] != 2 || stats.ByStatus[store.OrderCancelled] != 1 {
		t.Fatalf("unexpected status breakdown: %v", stats.ByStatus)
	}
	if stats.CompletedRevenue != 450000 {
		t.Fatalf("expected completed revenue 450000, got %d", stats.CompletedRevenue)
	}
	if stats.AverageOrderValue != 225000 {
		t.Fatalf("expected AOV 225000, got %.2f", stats.AverageOrderValue)
	}
	if !approxEqual(stats.ConversionRate, 66.67, 0.01) {
		t.Fatalf("expected conversion 66.67, got %.4f", stats.ConversionRate)
	}
	// Everything in this fixture was created just now, so the today
	// subset matches the window totals.
	if stats.TodayOrders != 3 || stats.TodayRevenue != 450000 {
		t.Fatalf("unexpected today subset: %d orders, %d revenue", stats.TodayOrders, stats.TodayRevenue)
	}
}

func TestOrderStatsTodayUsesLocalMidnight(t *testing.T) {
	zone := time.FixedZone("UTC+7", 7*3600)
	// Same UTC day as now, but the previous calendar day in the zone.
	yesterday := time.Date(2026, 3, 9, 10, 0, 0, 0, zone)
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, zone)

	current := yesterday
	s := store.New(store.Options{Now: func() time.Time { return current }})
	e := New(s, nil)
	e.now = func() time.Time { return now }

	u := createUser(t, s, "midnight@example.com")
	p := createProduct(t, s, "Steam Wallet", 150000, 100000)
	completedOrder(t, s, u.ID, p.ID, 1, 150000)

	stats := e.OrderStats(time.Time{}, time.Time{})
	if stats.Total != 1 {
		t.Fatalf("expected 1 order in window, got %d", stats.Total)
	}
	if stats.TodayOrders != 0 {
		t.Fatalf("order from the previous local day counted as today")
	}

	current = now
	completedOrder(t, s, u.ID, p.ID, 1, 150000)

	stats = e.OrderStats(time.Time{}, time.Time{})
	if stats.TodayOrders != 1 || stats.TodayRevenue != 150000 {
		t.Fatalf("expected today's order counted, got %d orders / %d revenue",
			stats.TodayOrders, stats.TodayRevenue)
	}
}

func TestOrderStatsEmptyStoreIsZero(t *testing.T) {
	_, e := newFixture(t)
	stats := e.OrderStats(time.Time{}, time.Time{})
	if stats.Total != 0 || stats.ConversionRate != 0 || stats.AverageOrderValue != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestROI(t *testing.T) {
	s, e := newFixture(t)
	u := createUser(t, s, "roi@example.com")
	p := createProduct(t, s, "Steam Wallet", 120000, 100000)
	completedOrder(t, s, u.ID, p.ID, 2, 150000)

	res := e.ROI(100000, time.Time{}, time.Time{}, "")

	if res.Returns != 300000 {
		t.Fatalf("expected returns 300000, got %d", res.Returns)
	}
	if res.Profit != 200000 {
		t.Fatalf("expected profit 200000, got %d", res.Profit)
	}
	if res.ROIPercent != 200 {
		t.Fatalf("expected ROI 200%%, got %.2f", res.ROIPercent)
	}
	if res.Customers != 1 || res.CustomerAcquisitionCost != 100000 {
		t.Fatalf("expected 1 customer at CAC 100000, got %d / %.2f", res.Customers, res.CustomerAcquisitionCost)
	}
	if res.PaybackPeriodDays <= 0 {
		t.Fatalf("expected positive payback period, got %.2f", res.PaybackPeriodDays)
	}
}

func TestROIProductFilterAndZeroInvestment(t *testing.T) {
	s, e := newFixture(t)
	u := createUser(t, s, "roifilter@example.com")
	p1 := createProduct(t, s, "Product A", 100000, 70000)
	p2 := createProduct(t, s, "Product B", 200000, 140000)
	completedOrder(t, s, u.ID, p1.ID, 1, 100000)
	completedOrder(t, s, u.ID, p2.ID, 1, 200000)

	res := e.ROI(0, time.Time{}, time.Time{}, p2.ID)
	if res.Returns != 200000 {
		t.Fatalf("expected filtered returns 200000, got %d", res.Returns)
	}
	if res.ROIPercent != 0 {
		t.Fatalf("expected zero ROI ratio for zero investment, got %.2f", res.ROIPercent)
	}
}

func TestAllocateSharedCostsProportional(t *testing.T) {
	s, e := newFixture(t)
	u := createUser(t, s, "alloc@example.com")
	a := createProduct(t, s, "Product A", 50000, 35000)
	b := createProduct(t, s, "Product B", 300000, 210000)
	completedOrder(t, s, u.ID, a.ID, 2, 50000)  // 100,000 revenue
	completedOrder(t, s, u.ID, b.ID, 1, 300000) // 300,000 revenue

	if _, err := s.CreateExpense(store.CreateExpenseInput{Category: store.ExpenseMarketing, Amount: 40000}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	got := e.AllocateSharedCosts(time.Time{}, time.Time{}, AllocateProportional)
	if got[a.ID].AllocatedCost != 10000 {
		t.Fatalf("expected 10000 allocated to A, got %d", got[a.ID].AllocatedCost)
	}
	if got[b.ID].AllocatedCost != 30000 {
		t.Fatalf("expected 30000 allocated to B, got %d", got[b.ID].AllocatedCost)
	}
	if got[a.ID].PerUnitCost != 5000 {
		t.Fatalf("expected per-unit 5000 for A, got %d", got[a.ID].PerUnitCost)
	}
}

func TestAllocateSharedCostsEqualPerUnit(t *testing.T) {
	s, e := newFixture(t)
	u := createUser(t, s, "allocequal@example.com")
	a := createProduct(t, s, "Product A", 50000, 35000)
	b := createProduct(t, s, "Product B", 300000, 210000)
	completedOrder(t, s, u.ID, a.ID, 2, 50000)
	completedOrder(t, s, u.ID, b.ID, 1, 300000)

	if _, err := s.CreateExpense(store.CreateExpenseInput{Category: store.ExpenseOperational, Amount: 30000}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	got := e.AllocateSharedCosts(time.Time{}, time.Time{}, AllocateEqual)
	if got[a.ID].AllocatedCost != 20000 {
		t.Fatalf("expected 20000 allocated to A, got %d", got[a.ID].AllocatedCost)
	}
	if got[b.ID].AllocatedCost != 10000 {
		t.Fatalf("expected 10000 allocated to B, got %d", got[b.ID].AllocatedCost)
	}
}

func TestAllocateSharedCostsPinnedExpense(t *testing.T) {
	s, e := newFixture(t)
	u := createUser(t, s, "allocpin@example.com")
	a := createProduct(t, s, "Product A", 50000, 35000)
	b := createProduct(t, s, "Product B", 300000, 210000)
	completedOrder(t, s, u.ID, a.ID, 1, 50000)
	completedOrder(t, s, u.ID, b.ID, 1, 300000)

	if _, err := s.CreateExpense(store.CreateExpenseInput{
		Category:   store.ExpenseMarketing,
		Amount:     5000,
		ProductIDs: []string{a.ID},
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	got := e.AllocateSharedCosts(time.Time{}, time.Time{}, AllocateProportional)
	if got[a.ID].AllocatedCost != 5000 {
		t.Fatalf("expected pinned expense on A, got %d", got[a.ID].AllocatedCost)
	}
	if got[b.ID].AllocatedCost != 0 {
		t.Fatalf("expected nothing allocated to B, got %d", got[b.ID].AllocatedCost)
	}
}

func TestAllocatePinnedExpenseWithoutOrdersJoinsSharedPool(t *testing.T) {
	s, e := newFixture(t)
	u := createUser(t, s, "allocghost@example.com")
	a := createProduct(t, s, "Product A", 100000, 70000)
	idle := createProduct(t, s, "Idle Product", 50000, 35000)
	completedOrder(t, s, u.ID, a.ID, 1, 100000)

	if _, err := s.CreateExpense(store.CreateExpenseInput{
		Category:   store.ExpenseMarketing,
		Amount:     30000,
		ProductIDs: []string{idle.ID},
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	got := e.AllocateSharedCosts(time.Time{}, time.Time{}, AllocateProportional)
	if got[a.ID].AllocatedCost != 30000 {
		t.Fatalf("expected orphaned pin reallocated to A, got %d", got[a.ID].AllocatedCost)
	}
	if _, ok := got[idle.ID]; ok {
		t.Fatal("product without completed orders should not appear")
	}
}

func TestAllocatePinnedExpenseKeepsRemainder(t *testing.T) {
	s, e := newFixture(t)
	u := createUser(t, s, "allocrem@example.com")
	a := createProduct(t, s, "Product A", 100000, 70000)
	b := createProduct(t, s, "Product B", 100000, 70000)
	completedOrder(t, s, u.ID, a.ID, 1, 100000)
	completedOrder(t, s, u.ID, b.ID, 1, 100000)

	if _, err := s.CreateExpense(store.CreateExpenseInput{
		Category:   store.ExpenseMarketing,
		Amount:     10001,
		ProductIDs: []string{a.ID, b.ID},
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	got := e.AllocateSharedCosts(time.Time{}, time.Time{}, AllocateProportional)
	total := got[a.ID].AllocatedCost + got[b.ID].AllocatedCost
	if total != 10001 {
		t.Fatalf("expected full 10001 allocated, got %d", total)
	}
}

func TestAllocateSharedCostsNoOrders(t *testing.T) {
	s, e := newFixture(t)
	if _, err := s.CreateExpense(store.CreateExpenseInput{Category: store.ExpenseMarketing, Amount: 40000}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if got := e.AllocateSharedCosts(time.Time{}, time.Time{}, AllocateProportional); len(got) != 0 {
		t.Fatalf("expected empty allocation map, got %v", got)
	}
}

func TestCheckAlertsHealthyStoreRaisesNothing(t *testing.T) {
	s, e := newFixture(t)
	u := createUser(t, s, "healthy@example.com")
	p := createProduct(t, s, "Steam Wallet", 150000, 100000)
	completedOrder(t, s, u.ID, p.ID, 2, 150000)

	if alerts := e.CheckAlerts(time.Time{}, time.Time{}); len(alerts) != 0 {
		t.Fatalf("expected no alerts for a 33%% margin, got %d", len(alerts))
	}
}

func TestCheckAlertsLowMargin(t *testing.T) {
	s, e := newFixture(t)
	u := createUser(t, s, "lowmargin@example.com")
	p := createProduct(t, s, "Thin Margin", 100000, 95000)
	completedOrder(t, s, u.ID, p.ID, 1, 100000)

	alerts := e.CheckAlerts(time.Time{}, time.Time{})
	if len(alerts) != 2 {
		t.Fatalf("expected window and per-product low-margin alerts, got %d", len(alerts))
	}
	for _, a := range alerts {
		if a.Type != AlertLowMargin {
			t.Fatalf("expected %s alert, got %s", AlertLowMargin, a.Type)
		}
		if a.Severity != store.SeverityWarning {
			t.Fatalf("expected warning severity at 5%% margin, got %s", a.Severity)
		}
	}
}

func TestCheckAlertsNegativeProfitIsCritical(t *testing.T) {
	s, e := newFixture(t)
	u := createUser(t, s, "loss@example.com")
	p := createProduct(t, s, "Steam Wallet", 150000, 100000)
	completedOrder(t, s, u.ID, p.ID, 1, 150000)

	if _, err := s.CreateExpense(store.CreateExpenseInput{Category: store.ExpenseOperational, Amount: 200000}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	alerts := e.CheckAlerts(time.Time{}, time.Time{})
	var negative *store.ProfitAlert
	for i := range alerts {
		if alerts[i].Type == AlertNegativeProfit {
			negative = &alerts[i]
		}
	}
	if negative == nil {
		t.Fatalf("expected negative-profit alert, got %v", alerts)
	}
	if negative.Severity != store.SeverityCritical {
		t.Fatalf("expected critical severity, got %s", negative.Severity)
	}
}

func TestRaiseAlertsPersists(t *testing.T) {
	s, e := newFixture(t)
	u := createUser(t, s, "raise@example.com")
	p := createProduct(t, s, "Thin Margin", 100000, 95000)
	completedOrder(t, s, u.ID, p.ID, 1, 100000)

	raised, err := e.RaiseAlerts(time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("raise alerts: %v", err)
	}
	if len(raised) == 0 {
		t.Fatal("expected raised alerts")
	}
	for _, a := range raised {
		if a.ID == "" {
			t.Fatal("expected persisted alert to carry an id")
		}
	}
	if stored := s.ListAlerts(); len(stored) != len(raised) {
		t.Fatalf("expected %d stored alerts, got %d", len(raised), len(stored))
	}
}

func TestForecastEmptyHistoryIsZero(t *testing.T) {
	_, e := newFixture(t)
	f := e.Forecast(time.Time{}, time.Time{}, 30, ForecastAssumptions{})
	if f.DailyRevenue != 0 || f.DailyCost != 0 {
		t.Fatalf("expected zero daily averages, got %.2f / %.2f", f.DailyRevenue, f.DailyCost)
	}
	if len(f.Scenarios) != 3 {
		t.Fatalf("expected three scenarios, got %d", len(f.Scenarios))
	}
	for _, sc := range f.Scenarios {
		if sc.Revenue != 0 || sc.Cost != 0 || sc.Profit != 0 {
			t.Fatalf("expected zero scenario, got %+v", sc)
		}
	}
}

func TestForecastScenarioOrdering(t *testing.T) {
	s, e := newFixture(t)
	u := createUser(t, s, "forecast@example.com")
	p := createProduct(t, s, "Steam Wallet", 150000, 100000)
	completedOrder(t, s, u.ID, p.ID, 2, 150000)

	start := time.Now().Add(-30 * 24 * time.Hour)
	f := e.Forecast(start, time.Time{}, 30, ForecastAssumptions{})

	if len(f.Scenarios) != 3 {
		t.Fatalf("expected three scenarios, got %d", len(f.Scenarios))
	}
	opt, real, pess := f.Scenarios[0], f.Scenarios[1], f.Scenarios[2]
	if opt.Name != "optimistic" || real.Name != "realistic" || pess.Name != "pessimistic" {
		t.Fatalf("unexpected scenario names: %s %s %s", opt.Name, real.Name, pess.Name)
	}
	if !(opt.Revenue > real.Revenue && real.Revenue > pess.Revenue) {
		t.Fatalf("expected revenue ordering, got %d / %d / %d", opt.Revenue, real.Revenue, pess.Revenue)
	}
	if opt.Cost != real.Cost || real.Cost != pess.Cost {
		t.Fatalf("expected identical cost across scenarios, got %d / %d / %d", opt.Cost, real.Cost, pess.Cost)
	}
	if real.Revenue <= 0 {
		t.Fatalf("expected positive realistic revenue, got %d", real.Revenue)
	}
}

func TestForecastGrowthAssumptionLiftsRevenue(t *testing.T) {
	s, e := newFixture(t)
	u := createUser(t, s, "growth@example.com")
	p := createProduct(t, s, "Steam Wallet", 150000, 100000)
	completedOrder(t, s, u.ID, p.ID, 2, 150000)

	start := time.Now().Add(-30 * 24 * time.Hour)
	base := e.Forecast(start, time.Time{}, 30, ForecastAssumptions{})
	grown := e.Forecast(start, time.Time{}, 30, ForecastAssumptions{GrowthRate: 0.50})

	if grown.Scenarios[1].Revenue <= base.Scenarios[1].Revenue {
		t.Fatalf("expected growth to lift realistic revenue: %d vs %d",
			grown.Scenarios[1].Revenue, base.Scenarios[1].Revenue)
	}
}
