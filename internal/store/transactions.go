package store

import (
	"fmt"

	"shop-core/internal/events"
)

// TransactionInput carries the fields for a new ledger entry.
type TransactionInput struct {
	UserID      string
	Kind        TransactionKind
	Amount      int64
	Description string
	OrderID     string
	RequestID   string
	AdminID     string
}

// RecordTransaction appends a ledger entry and applies its signed
// amount to the user's balance, keeping the balance equal to the
// running sum of the user's transactions. Entries are never mutated
// after creation.
func (s *Store) RecordTransaction(in TransactionInput) (*Transaction, error) {
	switch in.Kind {
	case TxCredit, TxDebit, TxPurchase, TxRefund:
	default:
		return nil, fmt.Errorf("%w: unknown transaction kind %q", ErrValidation, in.Kind)
	}

	s.mu.Lock()
	tx, u, err := s.recordTransactionLocked(in)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	txOut := *tx
	userOut := *u
	s.mu.Unlock()

	s.countMutation("transaction", "create")
	s.emit(events.TransactionCreated, txOut)
	s.emit(events.UserBalanceChanged, userOut)
	s.requestFlush()
	return &txOut, nil
}

// recordTransactionLocked appends the ledger entry and applies the
// amount. Callers hold s.mu and are responsible for emitting events.
func (s *Store) recordTransactionLocked(in TransactionInput) (*Transaction, *User, error) {
	u, ok := s.users[in.UserID]
	if !ok {
		return nil, nil, ErrNotFound
	}
	if u.Balance+in.Amount < 0 {
		return nil, nil, fmt.Errorf("%w: amount %d would make balance negative", ErrValidation, in.Amount)
	}

	tx := &Transaction{
		ID:          s.newID(),
		UserID:      in.UserID,
		Kind:        in.Kind,
		Amount:      in.Amount,
		Description: in.Description,
		OrderID:     in.OrderID,
		RequestID:   in.RequestID,
		AdminID:     in.AdminID,
		CreatedAt:   s.now(),
	}
	s.transactions[tx.ID] = tx
	u.Balance += in.Amount
	u.UpdatedAt = tx.CreatedAt
	return tx, u, nil
}

// GetTransaction returns a ledger entry by id.
func (s *Store) GetTransaction(id string) (*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *tx
	return &out, nil
}

// ListTransactions returns the full ledger ordered by creation time.
func (s *Store) ListTransactions() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		out = append(out, *tx)
	}
	sortByCreation(out, func(tx Transaction) (string, int64) { return tx.ID, tx.CreatedAt.UnixNano() })
	return out
}

// ListUserTransactions returns one user's ledger ordered by creation
// time.
func (s *Store) ListUserTransactions(userID string) []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Transaction
	for _, tx := range s.transactions {
		if tx.UserID == userID {
			out = append(out, *tx)
		}
	}
	sortByCreation(out, func(tx Transaction) (string, int64) { return tx.ID, tx.CreatedAt.UnixNano() })
	return out
}
