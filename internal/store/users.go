package store

import (
	"fmt"
	"sort"
	"strings"

	"shop-core/internal/events"
)

// CreateUserInput carries the fields for a new account.
type CreateUserInput struct {
	Email string
	Name  string
	Role  Role
}

// UserUpdate is a partial patch; nil fields are left untouched.
type UserUpdate struct {
	Name    *string
	Role    *Role
	Status  *UserStatus
	Balance *int64
	ActorID string
}

// CreateUser registers a new account. Email is the case-insensitive
// identity and must be unique.
func (s *Store) CreateUser(in CreateUserInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = RoleUser
	}

	s.mu.Lock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			s.mu.Unlock()
			return nil, ErrEmailTaken
		}
	}
	now := s.now()
	u := &User{
		ID:        s.newID(),
		Email:     email,
		Name:      strings.TrimSpace(in.Name),
		Role:      role,
		Status:    UserActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[u.ID] = u
	out := *u
	s.mu.Unlock()

	s.countMutation("user", "create")
	s.emit(events.UserCreated, out)
	s.requestFlush()
	return &out, nil
}

// GetUser returns a user by id.
func (s *Store) GetUser(id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

// GetUserByEmail resolves a user by their case-insensitive email.
func (s *Store) GetUserByEmail(email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// ListUsers returns all users ordered by creation time.
func (s *Store) ListUsers() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sortByCreation(out, func(u User) (string, int64) { return u.ID, u.CreatedAt.UnixNano() })
	return out
}

// UpdateUser applies a partial patch. A direct balance write is system
// bookkeeping: it emits USER_BALANCE_CHANGED in addition to
// USER_UPDATED but records no ledger entry (use RecordTransaction for
// audited balance changes).
func (s *Store) UpdateUser(id string, patch UserUpdate) (*User, error) {
	s.mu.Lock()
	u, ok := s.users[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	var changes []string
	balanceChanged := false

	if patch.Name != nil && *patch.Name != u.Name {
		changes = append(changes, fmt.Sprintf("name %q -> %q", u.Name, *patch.Name))
		u.Name = *patch.Name
	}
	if patch.Role != nil && *patch.Role != u.Role {
		changes = append(changes, fmt.Sprintf("role %s -> %s", u.Role, *patch.Role))
		u.Role = *patch.Role
	}
	if patch.Status != nil && *patch.Status != u.Status {
		changes = append(changes, fmt.Sprintf("status %s -> %s", u.Status, *patch.Status))
		u.Status = *patch.Status
	}
	if patch.Balance != nil && *patch.Balance != u.Balance {
		if *patch.Balance < 0 {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: balance cannot be negative", ErrValidation)
		}
		changes = append(changes, fmt.Sprintf("balance %d -> %d", u.Balance, *patch.Balance))
		u.Balance = *patch.Balance
		balanceChanged = true
	}

	u.UpdatedAt = s.now()
	if len(changes) > 0 {
		s.appendActivityLocked(patch.ActorID, "user.update", "user", u.ID, strings.Join(changes, "; "))
	}
	out := *u
	s.mu.Unlock()

	s.countMutation("user", "update")
	s.emit(events.UserUpdated, out)
	if balanceChanged {
		s.emit(events.UserBalanceChanged, out)
	}
	s.requestFlush()
	return &out, nil
}

// sortByCreation orders entities by creation timestamp, falling back to
// id so orderings stay deterministic when timestamps collide.
func sortByCreation[T any](items []T, key func(T) (string, int64)) {
	sort.Slice(items, func(i, j int) bool {
		idI, tsI := key(items[i])
		idJ, tsJ := key(items[j])
		if tsI == tsJ {
			return idI < idJ
		}
		return tsI < tsJ
	})
}
