package analytics

import (
	"time"

	"shop-core/internal/store"
)

// AllocationMethod selects how shared expenses spread across products.
type AllocationMethod string

const (
	// AllocateProportional splits shared costs by revenue share.
	AllocateProportional AllocationMethod = "proportional"
	// AllocateEqual splits shared costs evenly per unit sold.
	AllocateEqual AllocationMethod = "equal"
)

// CostAllocation is the per-unit share of window expenses assigned to
// one product.
type CostAllocation struct {
	ProductID     string `json:"product_id"`
	Units         int    `json:"units"`
	Revenue       int64  `json:"revenue"`
	AllocatedCost int64  `json:"allocated_cost"`
	PerUnitCost   int64  `json:"per_unit_cost"`
}

// sharedExpenseCategories take part in allocation. COGS is direct, and
// administrative overhead stays unallocated.
func isSharedExpense(c store.ExpenseCategory) bool {
	switch c {
	case store.ExpenseOperational, store.ExpenseMarketing, store.ExpenseTransactionFee:
		return true
	}
	return false
}

// AllocateSharedCosts divides the window's shared operational,
// marketing and transaction-fee expenses across the products with
// completed orders. Proportional allocation follows revenue share;
// equal allocation splits per unit sold. Expenses pinned to specific
// products via ProductIDs are assigned to those products directly; a
// pin matching no product in the window joins the shared pool instead.
func (e *Engine) AllocateSharedCosts(start, end time.Time, method AllocationMethod) map[string]CostAllocation {
	if method == "" {
		method = AllocateProportional
	}

	allocations := make(map[string]CostAllocation)
	var totalRevenue int64
	var totalUnits int

	for _, o := range e.completedOrders(start, end) {
		a := allocations[o.ProductID]
		a.ProductID = o.ProductID
		a.Units += o.Quantity
		a.Revenue += o.Total
		allocations[o.ProductID] = a
		totalRevenue += o.Total
		totalUnits += o.Quantity
	}
	if len(allocations) == 0 {
		return allocations
	}

	var shared int64
	for _, exp := range e.store.ListExpenses() {
		if !inWindow(exp.Date, start, end) || !isSharedExpense(exp.Category) {
			continue
		}
		if len(exp.ProductIDs) > 0 {
			var targets []string
			for _, id := range exp.ProductIDs {
				if _, ok := allocations[id]; ok {
					targets = append(targets, id)
				}
			}
			// A pin to products with no completed orders in the window
			// falls back to the shared pool so the cost is never lost.
			if len(targets) == 0 {
				shared += exp.Amount
				continue
			}
			per := exp.Amount / int64(len(targets))
			rem := exp.Amount % int64(len(targets))
			for i, id := range targets {
				a := allocations[id]
				a.AllocatedCost += per
				// The first target absorbs the division remainder.
				if i == 0 {
					a.AllocatedCost += rem
				}
				allocations[id] = a
			}
			continue
		}
		shared += exp.Amount
	}

	for id, a := range allocations {
		switch method {
		case AllocateEqual:
			if totalUnits > 0 {
				a.AllocatedCost += shared * int64(a.Units) / int64(totalUnits)
			}
		default:
			if totalRevenue > 0 {
				a.AllocatedCost += shared * a.Revenue / totalRevenue
			}
		}
		if a.Units > 0 {
			a.PerUnitCost = a.AllocatedCost / int64(a.Units)
		}
		allocations[id] = a
	}
	return allocations
}
