package store

import (
	"fmt"
	"strings"

	"shop-core/internal/events"
)

// orderTransitions is the legal-transition table. Statuses absent from
// the map are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCompleted, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
	OrderDelivered:  {OrderCompleted, OrderRefunded},
	OrderCompleted:  {OrderRefunded},
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CreateOrderInput carries the fields for a new order.
type CreateOrderInput struct {
	UserID    string
	ProductID string
	VariantID string
	Quantity  int
	// UnitPrice overrides the catalog price when positive; otherwise the
	// product price plus the selected variant's modifier is used.
	UnitPrice int64
}

// OrderUpdate patches the non-status fields of an order.
type OrderUpdate struct {
	AdminNote *string
	ActorID   string
}

// CreateOrder validates references, prices the order and decrements
// stock. The user's lifetime order count increments immediately.
func (s *Store) CreateOrder(in CreateOrderInput) (*Order, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	s.mu.Lock()
	u, ok := s.users[in.UserID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, in.UserID)
	}
	p, ok := s.products[in.ProductID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, in.ProductID)
	}
	if p.Deleted() || !p.Active {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: product %s is not purchasable", ErrValidation, in.ProductID)
	}
	if p.Stock < in.Quantity {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: insufficient stock (%d < %d)", ErrValidation, p.Stock, in.Quantity)
	}

	unitPrice := in.UnitPrice
	if unitPrice <= 0 {
		unitPrice = p.Price
		if in.VariantID != "" {
			found := false
			for _, opt := range p.Options {
				if opt.ID == in.VariantID {
					unitPrice += opt.PriceDelta
					found = true
					break
				}
			}
			if !found {
				s.mu.Unlock()
				return nil, fmt.Errorf("%w: unknown variant %s", ErrValidation, in.VariantID)
			}
		}
	}

	now := s.now()
	o := &Order{
		ID:        s.newID(),
		UserID:    in.UserID,
		ProductID: in.ProductID,
		VariantID: in.VariantID,
		Quantity:  in.Quantity,
		UnitPrice: unitPrice,
		Total:     unitPrice * int64(in.Quantity),
		Status:    OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.orders[o.ID] = o
	p.Stock -= in.Quantity
	p.UpdatedAt = now
	u.OrderCount++
	u.UpdatedAt = now
	out := *o
	s.mu.Unlock()

	s.countMutation("order", "create")
	s.emit(events.OrderCreated, out)
	s.requestFlush()
	return &out, nil
}

// GetOrder returns an order by id.
func (s *Store) GetOrder(id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *o
	return &out, nil
}

// ListOrders returns all orders ordered by creation time.
func (s *Store) ListOrders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	sortByCreation(out, func(o Order) (string, int64) { return o.ID, o.CreatedAt.UnixNano() })
	return out
}

// ListUserOrders returns one user's orders ordered by creation time.
func (s *Store) ListUserOrders(userID string) []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sortByCreation(out, func(o Order) (string, int64) { return o.ID, o.CreatedAt.UnixNano() })
	return out
}

// UpdateOrder patches the non-status fields of an order.
func (s *Store) UpdateOrder(id string, patch OrderUpdate) (*Order, error) {
	s.mu.Lock()
	o, ok := s.orders[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if patch.AdminNote != nil {
		o.AdminNote = *patch.AdminNote
	}
	o.UpdatedAt = s.now()
	out := *o
	s.mu.Unlock()

	s.countMutation("order", "update")
	s.emit(events.OrderUpdated, out)
	s.requestFlush()
	return &out, nil
}

// UpdateOrderStatus moves an order along the transition table, stamping
// the lifecycle timestamp for the stage reached. Completion rolls the
// total into the product's sold count and the user's lifetime spend;
// cancellation before shipment restocks.
func (s *Store) UpdateOrderStatus(id string, to OrderStatus, actorID string) (*Order, error) {
	s.mu.Lock()
	o, ok := s.orders[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	from := o.Status
	if !CanTransition(from, to) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}

	now := s.now()
	o.Status = to
	o.UpdatedAt = now

	switch to {
	case OrderShipped:
		o.ShippedAt = &now
	case OrderDelivered:
		o.DeliveredAt = &now
	case OrderCompleted:
		o.CompletedAt = &now
		if p, ok := s.products[o.ProductID]; ok {
			p.Sold += o.Quantity
			p.UpdatedAt = now
		}
		if u, ok := s.users[o.UserID]; ok {
			u.TotalSpent += o.Total
			u.UpdatedAt = now
		}
	case OrderCancelled:
		o.CancelledAt = &now
		if from == OrderPending || from == OrderProcessing {
			if p, ok := s.products[o.ProductID]; ok {
				p.Stock += o.Quantity
				p.UpdatedAt = now
			}
		}
	case OrderRefunded:
		if p, ok := s.products[o.ProductID]; ok && from == OrderCompleted {
			p.Sold -= o.Quantity
			p.UpdatedAt = now
		}
		if u, ok := s.users[o.UserID]; ok && from == OrderCompleted {
			u.TotalSpent -= o.Total
			u.UpdatedAt = now
		}
	}

	s.appendActivityLocked(actorID, "order.status", "order", o.ID,
		fmt.Sprintf("status %s -> %s", from, to))
	out := *o
	s.mu.Unlock()

	s.countMutation("order", "status")
	s.emit(events.OrderUpdated, out)
	s.requestFlush()
	return &out, nil
}

// OrderStatusFromString validates a raw status value.
func OrderStatusFromString(raw string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case OrderPending:
		return OrderPending, nil
	case OrderProcessing:
		return OrderProcessing, nil
	case OrderShipped:
		return OrderShipped, nil
	case OrderDelivered:
		return OrderDelivered, nil
	case OrderCompleted:
		return OrderCompleted, nil
	case OrderCancelled:
		return OrderCancelled, nil
	case OrderRefunded:
		return OrderRefunded, nil
	default:
		return "", fmt.Errorf("%w: unknown order status %q", ErrValidation, raw)
	}
}
