package store

import (
	"errors"
	"testing"

	"shop-core/internal/events"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(Options{})
}

func mustCreateUser(t *testing.T, s *Store, email string) *User {
	t.Helper()
	u, err := s.CreateUser(CreateUserInput{Email: email, Name: "Test User"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	mustCreateUser(t, s, "Buyer@Example.com")

	if _, err := s.CreateUser(CreateUserInput{Email: "buyer@example.com"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestBalanceEqualsRunningSumOfTransactions(t *testing.T) {
	s := newTestStore(t)
	u := mustCreateUser(t, s, "ledger@example.com")

	amounts := []struct {
		kind   TransactionKind
		amount int64
	}{
		{TxCredit, 100000},
		{TxDebit, -25000},
		{TxCredit, 40000},
		{TxPurchase, -60000},
		{TxRefund, 60000},
	}

	var sum int64
	for _, a := range amounts {
		if _, err := s.RecordTransaction(TransactionInput{
			UserID: u.ID,
			Kind:   a.kind,
			Amount: a.amount,
		}); err != nil {
			t.Fatalf("record transaction %v: %v", a, err)
		}
		sum += a.amount
	}

	got, err := s.GetUser(u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Balance != sum {
		t.Fatalf("balance %d does not match running sum %d", got.Balance, sum)
	}

	var ledger int64
	for _, tx := range s.ListUserTransactions(u.ID) {
		ledger += tx.Amount
	}
	if ledger != got.Balance {
		t.Fatalf("ledger sum %d does not match balance %d", ledger, got.Balance)
	}
}

func TestTransactionRejectedWhenBalanceWouldGoNegative(t *testing.T) {
	s := newTestStore(t)
	u := mustCreateUser(t, s, "broke@example.com")

	_, err := s.RecordTransaction(TransactionInput{UserID: u.ID, Kind: TxDebit, Amount: -1})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateUserBalanceEmitsBalanceChanged(t *testing.T) {
	s := newTestStore(t)
	u := mustCreateUser(t, s, "events@example.com")

	var seen []events.Type
	s.Bus().Subscribe(func(e events.Event) { seen = append(seen, e.Type) })

	balance := int64(5000)
	if _, err := s.UpdateUser(u.ID, UserUpdate{Balance: &balance}); err != nil {
		t.Fatalf("update user: %v", err)
	}

	wantUpdated, wantBalance := false, false
	for _, typ := range seen {
		switch typ {
		case events.UserUpdated:
			wantUpdated = true
		case events.UserBalanceChanged:
			wantBalance = true
		}
	}
	if !wantUpdated || !wantBalance {
		t.Fatalf("expected USER_UPDATED and USER_BALANCE_CHANGED, got %v", seen)
	}
}

func TestUpdateUserSynthesizesActivityEntries(t *testing.T) {
	s := newTestStore(t)
	u := mustCreateUser(t, s, "audit@example.com")

	name := "Renamed"
	status := UserSuspended
	if _, err := s.UpdateUser(u.ID, UserUpdate{Name: &name, Status: &status, ActorID: "admin-1"}); err != nil {
		t.Fatalf("update user: %v", err)
	}

	log := s.ListActivity()
	if len(log) == 0 {
		t.Fatal("expected an activity entry")
	}
	last := log[len(log)-1]
	if last.Action != "user.update" || last.TargetID != u.ID {
		t.Fatalf("unexpected activity entry: %+v", last)
	}
	if last.ActorID != "admin-1" {
		t.Fatalf("expected actor admin-1, got %q", last.ActorID)
	}
}

func TestActivityLogIsCapped(t *testing.T) {
	s := newTestStore(t)
	u := mustCreateUser(t, s, "cap@example.com")

	for i := 0; i < activityLogCap+50; i++ {
		status := UserSuspended
		if i%2 == 0 {
			status = UserActive
		}
		if _, err := s.UpdateUser(u.ID, UserUpdate{Status: &status}); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	if got := len(s.ListActivity()); got != activityLogCap {
		t.Fatalf("expected activity capped at %d, got %d", activityLogCap, got)
	}
}
