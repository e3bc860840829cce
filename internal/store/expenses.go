package store

import (
	"fmt"
	"time"

	"shop-core/internal/events"
)

// CreateExpenseInput carries the fields for a new cost record.
type CreateExpenseInput struct {
	Category    ExpenseCategory
	Amount      int64
	Date        time.Time
	Description string
	Recurrence  *Recurrence
	ProductIDs  []string
}

// ExpenseUpdate is a partial patch; nil fields are left untouched.
type ExpenseUpdate struct {
	Category    *ExpenseCategory
	Amount      *int64
	Date        *time.Time
	Description *string
	Recurrence  *Recurrence
	ProductIDs  []string
	ActorID     string
}

func validExpenseCategory(c ExpenseCategory) bool {
	switch c {
	case ExpenseCOGS, ExpenseOperational, ExpenseMarketing,
		ExpenseAdministrative, ExpenseTransactionFee, ExpenseOther:
		return true
	}
	return false
}

// CreateExpense records a cost entry.
func (s *Store) CreateExpense(in CreateExpenseInput) (*Expense, error) {
	if !validExpenseCategory(in.Category) {
		return nil, fmt.Errorf("%w: unknown expense category %q", ErrValidation, in.Category)
	}
	if in.Amount < 0 {
		return nil, fmt.Errorf("%w: expense amount cannot be negative", ErrValidation)
	}

	s.mu.Lock()
	now := s.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	e := &Expense{
		ID:          s.newID(),
		Category:    in.Category,
		Amount:      in.Amount,
		Date:        date,
		Description: in.Description,
		Recurrence:  in.Recurrence,
		ProductIDs:  append([]string(nil), in.ProductIDs...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.expenses[e.ID] = e
	out := *e
	s.mu.Unlock()

	s.countMutation("expense", "create")
	s.emit(events.ExpenseCreated, out)
	s.requestFlush()
	return &out, nil
}

// GetExpense returns a cost record by id.
func (s *Store) GetExpense(id string) (*Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *e
	return &out, nil
}

// ListExpenses returns all cost records ordered by date.
func (s *Store) ListExpenses() []Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		out = append(out, *e)
	}
	sortByCreation(out, func(e Expense) (string, int64) { return e.ID, e.Date.UnixNano() })
	return out
}

// UpdateExpense applies a partial patch.
func (s *Store) UpdateExpense(id string, patch ExpenseUpdate) (*Expense, error) {
	s.mu.Lock()
	e, ok := s.expenses[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if patch.Category != nil {
		if !validExpenseCategory(*patch.Category) {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: unknown expense category %q", ErrValidation, *patch.Category)
		}
		e.Category = *patch.Category
	}
	if patch.Amount != nil {
		if *patch.Amount < 0 {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: expense amount cannot be negative", ErrValidation)
		}
		e.Amount = *patch.Amount
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Recurrence != nil {
		e.Recurrence = patch.Recurrence
	}
	if patch.ProductIDs != nil {
		e.ProductIDs = append([]string(nil), patch.ProductIDs...)
	}
	e.UpdatedAt = s.now()
	out := *e
	s.mu.Unlock()

	s.countMutation("expense", "update")
	s.emit(events.ExpenseUpdated, out)
	s.requestFlush()
	return &out, nil
}

// DeleteExpense removes a cost record.
func (s *Store) DeleteExpense(id, actorID string) error {
	s.mu.Lock()
	e, ok := s.expenses[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.expenses, id)
	s.appendActivityLocked(actorID, "expense.delete", "expense", e.ID, string(e.Category))
	out := *e
	s.mu.Unlock()

	s.countMutation("expense", "delete")
	s.emit(events.ExpenseDeleted, out)
	s.requestFlush()
	return nil
}
