package analytics

import (
	"sort"
	"time"

	"shop-core/internal/store"
)

// OrderProfit is the profit decomposition of a single order.
type OrderProfit struct {
	OrderID string  `json:"order_id"`
	Revenue int64   `json:"revenue"`
	Cost    int64   `json:"cost"`
	Profit  int64   `json:"profit"`
	Margin  float64 `json:"margin"`
}

// ProductProfit is the profit breakdown for one product's completed
// orders in a window.
type ProductProfit struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Units     int     `json:"units"`
	Revenue   int64   `json:"revenue"`
	Cost      int64   `json:"cost"`
	Profit    int64   `json:"profit"`
	Margin    float64 `json:"margin"`
}

// ProfitAnalysis aggregates revenue and cost over a window. COGS
// combines computed per-order cost with manually recorded cogs
// expenses; gross profit is revenue minus COGS, net profit revenue
// minus all costs.
type ProfitAnalysis struct {
	Start       time.Time                       `json:"start"`
	End         time.Time                       `json:"end"`
	OrderCount  int                             `json:"order_count"`
	Revenue     int64                           `json:"revenue"`
	Costs       map[store.ExpenseCategory]int64 `json:"costs"`
	TotalCosts  int64                           `json:"total_costs"`
	COGS        int64                           `json:"cogs"`
	GrossProfit int64                           `json:"gross_profit"`
	NetProfit   int64                           `json:"net_profit"`
	GrossMargin float64                         `json:"gross_margin"`
	NetMargin   float64                         `json:"net_margin"`
	Products    []ProductProfit                 `json:"products"`
}

// OrderProfit computes the profit of one order. Missing products
// contribute zero cost; zero revenue yields zero margin.
func (e *Engine) OrderProfit(o store.Order) OrderProfit {
	var product *store.Product
	if p, err := e.store.GetProduct(o.ProductID); err == nil {
		product = p
	}
	cost := unitCost(o, product) * int64(o.Quantity)
	profit := o.Total - cost
	return OrderProfit{
		OrderID: o.ID,
		Revenue: o.Total,
		Cost:    cost,
		Profit:  profit,
		Margin:  marginPercent(profit, o.Total),
	}
}

// ProfitAnalysis aggregates completed orders and expenses over the
// window. Empty windows produce zero-valued results, never an error.
func (e *Engine) ProfitAnalysis(start, end time.Time) ProfitAnalysis {
	analysis := ProfitAnalysis{
		Start: start,
		End:   end,
		Costs: make(map[store.ExpenseCategory]int64),
	}
	products := e.productIndex()
	perProduct := make(map[string]*ProductProfit)

	for _, o := range e.completedOrders(start, end) {
		analysis.OrderCount++
		analysis.Revenue += o.Total

		var p *store.Product
		if prod, ok := products[o.ProductID]; ok {
			cp := prod
			p = &cp
		}
		cost := unitCost(o, p) * int64(o.Quantity)
		analysis.COGS += cost

		pp := perProduct[o.ProductID]
		if pp == nil {
			pp = &ProductProfit{ProductID: o.ProductID}
			if p != nil {
				pp.Title = p.Title
			}
			perProduct[o.ProductID] = pp
		}
		pp.Units += o.Quantity
		pp.Revenue += o.Total
		pp.Cost += cost
	}

	for _, exp := range e.store.ListExpenses() {
		if !inWindow(exp.Date, start, end) {
			continue
		}
		analysis.Costs[exp.Category] += exp.Amount
		if exp.Category == store.ExpenseCOGS {
			analysis.COGS += exp.Amount
		}
	}
	analysis.Costs[store.ExpenseCOGS] = analysis.COGS

	for _, amount := range analysis.Costs {
		analysis.TotalCosts += amount
	}

	analysis.GrossProfit = analysis.Revenue - analysis.COGS
	analysis.NetProfit = analysis.Revenue - analysis.TotalCosts
	analysis.GrossMargin = marginPercent(analysis.GrossProfit, analysis.Revenue)
	analysis.NetMargin = marginPercent(analysis.NetProfit, analysis.Revenue)

	for _, pp := range perProduct {
		pp.Profit = pp.Revenue - pp.Cost
		pp.Margin = marginPercent(pp.Profit, pp.Revenue)
		analysis.Products = append(analysis.Products, *pp)
	}
	sort.Slice(analysis.Products, func(i, j int) bool {
		return analysis.Products[i].Revenue > analysis.Products[j].Revenue
	})

	return analysis
}
