package store

// Snapshot is the full serializable state of the store, one slice per
// entity collection.
type Snapshot struct {
	Users        []User          `json:"users"`
	Products     []Product       `json:"products"`
	Categories   []Category      `json:"categories"`
	Transactions []Transaction   `json:"transactions"`
	Topups       []TopupRequest  `json:"topup_requests"`
	Orders       []Order         `json:"orders"`
	Expenses     []Expense       `json:"expenses"`
	Alerts       []ProfitAlert   `json:"profit_alerts"`
	Activity     []ActivityEntry `json:"activity_log"`
}

// Export copies every collection out of the store.
func (s *Store) Export() *Snapshot {
	snap := &Snapshot{
		Users:        s.ListUsers(),
		Products:     s.ListAllProducts(),
		Categories:   s.ListCategories(),
		Transactions: s.ListTransactions(),
		Topups:       s.ListTopupRequests(),
		Orders:       s.ListOrders(),
		Expenses:     s.ListExpenses(),
		Alerts:       s.ListAlerts(),
		Activity:     s.ListActivity(),
	}
	return snap
}

// Restore replaces the in-memory tables with the snapshot contents. Nil
// collections (a skipped or absent document) leave that table empty.
// The fallback category is re-created if the snapshot lacks it. Restore
// emits no events and requests no flush.
func (s *Store) Restore(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.mu.Lock()
	s.users = make(map[string]*User, len(snap.Users))
	for i := range snap.Users {
		u := snap.Users[i]
		s.users[u.ID] = &u
	}
	s.products = make(map[string]*Product, len(snap.Products))
	for i := range snap.Products {
		p := snap.Products[i]
		s.products[p.ID] = &p
	}
	s.categories = make(map[string]*Category, len(snap.Categories))
	for i := range snap.Categories {
		c := snap.Categories[i]
		s.categories[c.ID] = &c
	}
	s.transactions = make(map[string]*Transaction, len(snap.Transactions))
	for i := range snap.Transactions {
		tx := snap.Transactions[i]
		s.transactions[tx.ID] = &tx
	}
	s.topups = make(map[string]*TopupRequest, len(snap.Topups))
	for i := range snap.Topups {
		r := snap.Topups[i]
		s.topups[r.ID] = &r
	}
	s.orders = make(map[string]*Order, len(snap.Orders))
	for i := range snap.Orders {
		o := snap.Orders[i]
		s.orders[o.ID] = &o
	}
	s.expenses = make(map[string]*Expense, len(snap.Expenses))
	for i := range snap.Expenses {
		e := snap.Expenses[i]
		s.expenses[e.ID] = &e
	}
	s.alerts = make(map[string]*ProfitAlert, len(snap.Alerts))
	for i := range snap.Alerts {
		a := snap.Alerts[i]
		s.alerts[a.ID] = &a
	}
	s.activity = append([]ActivityEntry(nil), snap.Activity...)
	s.mu.Unlock()

	s.ensureFallbackCategory()
}

// Counts reports per-collection sizes, used by the operational surface.
func (s *Store) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{
		"users":          len(s.users),
		"products":       len(s.products),
		"categories":     len(s.categories),
		"transactions":   len(s.transactions),
		"topup_requests": len(s.topups),
		"orders":         len(s.orders),
		"expenses":       len(s.expenses),
		"profit_alerts":  len(s.alerts),
		"activity_log":   len(s.activity),
	}
}
