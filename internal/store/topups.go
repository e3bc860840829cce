package store

import (
	"fmt"
	"strings"

	"shop-core/internal/events"
)

// CreateTopupInput carries the fields for a new deposit request.
type CreateTopupInput struct {
	UserID    string
	UserEmail string
	Amount    int64
	UserNote  string
	Transfer  *BankTransferInfo
}

// TopupUpdate patches the mutable fields of a pending request.
type TopupUpdate struct {
	UserNote  *string
	AdminNote *string
	Transfer  *BankTransferInfo
	ActorID   string
}

// CreateTopupRequest records a pending deposit request.
func (s *Store) CreateTopupRequest(in CreateTopupInput) (*TopupRequest, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: top-up amount must be positive", ErrValidation)
	}

	s.mu.Lock()
	now := s.now()
	r := &TopupRequest{
		ID:        s.newID(),
		UserID:    in.UserID,
		UserEmail: strings.ToLower(strings.TrimSpace(in.UserEmail)),
		Amount:    in.Amount,
		Status:    TopupPending,
		UserNote:  in.UserNote,
		Transfer:  in.Transfer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.topups[r.ID] = r
	out := *r
	s.mu.Unlock()

	s.countMutation("topup", "create")
	s.emit(events.TopupRequestCreated, out)
	s.requestFlush()
	return &out, nil
}

// GetTopupRequest returns a deposit request by id.
func (s *Store) GetTopupRequest(id string) (*TopupRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.topups[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *r
	return &out, nil
}

// ListTopupRequests returns all deposit requests ordered by creation
// time.
func (s *Store) ListTopupRequests() []TopupRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TopupRequest, 0, len(s.topups))
	for _, r := range s.topups {
		out = append(out, *r)
	}
	sortByCreation(out, func(r TopupRequest) (string, int64) { return r.ID, r.CreatedAt.UnixNano() })
	return out
}

// UpdateTopupRequest patches notes/transfer details on a request.
func (s *Store) UpdateTopupRequest(id string, patch TopupUpdate) (*TopupRequest, error) {
	s.mu.Lock()
	r, ok := s.topups[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if patch.UserNote != nil {
		r.UserNote = *patch.UserNote
	}
	if patch.AdminNote != nil {
		r.AdminNote = *patch.AdminNote
	}
	if patch.Transfer != nil {
		r.Transfer = patch.Transfer
	}
	r.UpdatedAt = s.now()
	out := *r
	s.mu.Unlock()

	s.countMutation("topup", "update")
	s.emit(events.TopupRequestUpdated, out)
	s.requestFlush()
	return &out, nil
}

// ApproveTopup credits the requesting user and marks the request
// approved. The user is resolved by id, then by email, and provisioned
// as a minimal record if still unknown so the credit is never dropped.
// override, when non-nil, replaces the requested amount. A request that
// is not pending fails with ErrAlreadyProcessed.
func (s *Store) ApproveTopup(id, adminID string, override *int64) (*TopupRequest, error) {
	s.mu.Lock()
	r, ok := s.topups[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if r.Status != TopupPending {
		s.mu.Unlock()
		return nil, ErrAlreadyProcessed
	}

	user := s.users[r.UserID]
	if user == nil && r.UserEmail != "" {
		for _, u := range s.users {
			if strings.EqualFold(u.Email, r.UserEmail) {
				user = u
				break
			}
		}
	}
	var provisioned *User
	if user == nil {
		now := s.now()
		user = &User{
			ID:        s.newID(),
			Email:     r.UserEmail,
			Role:      RoleUser,
			Status:    UserActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.users[user.ID] = user
		r.UserID = user.ID
		p := *user
		provisioned = &p
	}

	amount := r.Amount
	if override != nil {
		amount = *override
	}
	if amount <= 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: approved amount must be positive", ErrValidation)
	}

	tx, userAfter, err := s.recordTransactionLocked(TransactionInput{
		UserID:      user.ID,
		Kind:        TxCredit,
		Amount:      amount,
		Description: fmt.Sprintf("Top-up approved (requested %d)", r.Amount),
		RequestID:   r.ID,
		AdminID:     adminID,
	})
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	now := s.now()
	r.Status = TopupApproved
	r.ApprovedAmount = &amount
	r.ProcessedBy = adminID
	r.ProcessedAt = &now
	r.TransactionID = tx.ID
	r.UpdatedAt = now
	s.appendActivityLocked(adminID, "topup.approve", "topup", r.ID,
		fmt.Sprintf("approved %d for user %s", amount, user.ID))

	reqOut := *r
	txOut := *tx
	userOut := *userAfter
	s.mu.Unlock()

	s.countMutation("topup", "approve")
	if provisioned != nil {
		s.emit(events.UserCreated, *provisioned)
	}
	s.emit(events.TransactionCreated, txOut)
	s.emit(events.UserBalanceChanged, userOut)
	s.emit(events.TopupRequestProcessed, reqOut)
	s.requestFlush()
	return &reqOut, nil
}

// RejectTopup marks a pending request rejected with a required reason.
// No balance is touched. A request that is not pending fails with
// ErrAlreadyProcessed.
func (s *Store) RejectTopup(id, adminID, reason string) (*TopupRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}

	s.mu.Lock()
	r, ok := s.topups[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if r.Status != TopupPending {
		s.mu.Unlock()
		return nil, ErrAlreadyProcessed
	}

	now := s.now()
	r.Status = TopupRejected
	r.AdminNote = reason
	r.ProcessedBy = adminID
	r.ProcessedAt = &now
	r.UpdatedAt = now
	s.appendActivityLocked(adminID, "topup.reject", "topup", r.ID, reason)
	out := *r
	s.mu.Unlock()

	s.countMutation("topup", "reject")
	s.emit(events.TopupRequestProcessed, out)
	s.requestFlush()
	return &out, nil
}

// CancelTopup lets the requesting user withdraw a pending request.
func (s *Store) CancelTopup(id string) (*TopupRequest, error) {
	s.mu.Lock()
	r, ok := s.topups[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if r.Status != TopupPending {
		s.mu.Unlock()
		return nil, ErrAlreadyProcessed
	}
	r.Status = TopupCancelled
	r.UpdatedAt = s.now()
	out := *r
	s.mu.Unlock()

	s.countMutation("topup", "cancel")
	s.emit(events.TopupRequestUpdated, out)
	s.requestFlush()
	return &out, nil
}
