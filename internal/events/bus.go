package events

import (
	"log/slog"
	"sync"
)

// Type discriminates change events emitted by the store.
type Type string

const (
	UserCreated        Type = "USER_CREATED"
	UserUpdated        Type = "USER_UPDATED"
	UserBalanceChanged Type = "USER_BALANCE_CHANGED"

	ProductCreated Type = "PRODUCT_CREATED"
	ProductUpdated Type = "PRODUCT_UPDATED"
	ProductDeleted Type = "PRODUCT_DELETED"

	CategoryCreated Type = "CATEGORY_CREATED"
	CategoryUpdated Type = "CATEGORY_UPDATED"
	CategoryDeleted Type = "CATEGORY_DELETED"

	TransactionCreated Type = "TRANSACTION_CREATED"

	TopupRequestCreated   Type = "TOPUP_REQUEST_CREATED"
	TopupRequestUpdated   Type = "TOPUP_REQUEST_UPDATED"
	TopupRequestProcessed Type = "TOPUP_REQUEST_PROCESSED"

	OrderCreated Type = "ORDER_CREATED"
	OrderUpdated Type = "ORDER_UPDATED"

	ExpenseCreated Type = "EXPENSE_CREATED"
	ExpenseUpdated Type = "EXPENSE_UPDATED"
	ExpenseDeleted Type = "EXPENSE_DELETED"

	ProfitAlertCreated Type = "PROFIT_ALERT_CREATED"
)

// Event carries the change type and the affected entity (or minimal
// identifying fields for deletions).
type Event struct {
	Type    Type
	Payload any
}

type subscriber struct {
	id int
	fn func(Event)
}

// Bus delivers events to subscribers synchronously, in registration
// order, within the call stack of the mutation that produced them.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber
	logger *slog.Logger
}

// NewBus returns an empty bus. A nil logger disables panic reporting.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger.With("component", "events")}
}

// Subscribe registers fn and returns a handle that removes it again.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.subs {
			if sub.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish invokes every subscriber with e. A panicking subscriber is
// recovered and logged so the remaining subscribers still run.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, sub := range subs {
		b.deliver(sub, e)
	}
}

func (b *Bus) deliver(sub subscriber, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event subscriber panicked", "type", string(e.Type), "panic", r)
		}
	}()
	sub.fn(e)
}
