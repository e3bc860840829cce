package store

import "time"

// Role controls what a user may do in the admin console.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserStatus is the account standing of a user.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
	UserBanned    UserStatus = "banned"
)

// User represents a storefront account. Balance is in integer currency
// units and must always equal the running sum of the user's ledger.
type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       Role       `json:"role"`
	Status     UserStatus `json:"status"`
	Balance    int64      `json:"balance"`
	OrderCount int        `json:"order_count"`
	TotalSpent int64      `json:"total_spent"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// VariantOption is a purchasable variation of a product. PriceDelta is
// added to the product price; BaseCost, when known, is the supplier cost
// for this variant.
type VariantOption struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceDelta int64  `json:"price_delta"`
	BaseCost   int64  `json:"base_cost,omitempty"`
}

// SupplierInfo carries cost metadata for a product.
type SupplierInfo struct {
	Name          string  `json:"name,omitempty"`
	BaseCost      int64   `json:"base_cost"`
	MarkupPercent float64 `json:"markup_percent,omitempty"`
}

// Product is a catalog item. A non-nil DeletedAt excludes it from
// default listings while keeping it resolvable for historical orders.
type Product struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Price        int64           `json:"price"`
	CategorySlug string          `json:"category_slug"`
	Stock        int             `json:"stock"`
	Sold         int             `json:"sold"`
	Active       bool            `json:"active"`
	Options      []VariantOption `json:"options,omitempty"`
	Supplier     *SupplierInfo   `json:"supplier,omitempty"`
	DeletedAt    *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Deleted reports whether the product has been soft-deleted.
func (p *Product) Deleted() bool { return p.DeletedAt != nil }

// FallbackCategorySlug is the category every product is guaranteed to
// fall back to. The category itself can never be deleted.
const FallbackCategorySlug = "uncategorized"

// Category groups catalog items by slug.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Icon      string    `json:"icon,omitempty"`
	Featured  []string  `json:"featured,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransactionKind classifies ledger entries.
type TransactionKind string

const (
	TxCredit   TransactionKind = "credit"
	TxDebit    TransactionKind = "debit"
	TxPurchase TransactionKind = "purchase"
	TxRefund   TransactionKind = "refund"
)

// Transaction is an append-only ledger entry. Amount is signed; applying
// it to the referenced user keeps the stored balance consistent.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Kind        TransactionKind `json:"kind"`
	Amount      int64           `json:"amount"`
	Description string          `json:"description"`
	OrderID     string          `json:"order_id,omitempty"`
	RequestID   string          `json:"request_id,omitempty"`
	AdminID     string          `json:"admin_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TopupStatus is the lifecycle state of a deposit request.
type TopupStatus string

const (
	TopupPending   TopupStatus = "pending"
	TopupApproved  TopupStatus = "approved"
	TopupRejected  TopupStatus = "rejected"
	TopupCancelled TopupStatus = "cancelled"
)

// BankTransferInfo holds the transfer details attached to a top-up.
type BankTransferInfo struct {
	Bank          string `json:"bank,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	Reference     string `json:"reference,omitempty"`
}

// TopupRequest is a deposit request. Once status leaves pending the
// record is terminal; ApprovedAmount is immutable once set.
type TopupRequest struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	UserEmail      string            `json:"user_email,omitempty"`
	Amount         int64             `json:"amount"`
	ApprovedAmount *int64            `json:"approved_amount,omitempty"`
	Status         TopupStatus       `json:"status"`
	UserNote       string            `json:"user_note,omitempty"`
	AdminNote      string            `json:"admin_note,omitempty"`
	ProcessedBy    string            `json:"processed_by,omitempty"`
	ProcessedAt    *time.Time        `json:"processed_at,omitempty"`
	TransactionID  string            `json:"transaction_id,omitempty"`
	Transfer       *BankTransferInfo `json:"transfer,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// OrderStatus is drawn from a fixed ordered set; legal transitions are
// listed in orderTransitions.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

// Terminal reports whether the status has no outgoing transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderCancelled || s == OrderRefunded
}

// Order references a user and product; Total = UnitPrice * Quantity.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	ProductID   string      `json:"product_id"`
	VariantID   string      `json:"variant_id,omitempty"`
	Quantity    int         `json:"quantity"`
	UnitPrice   int64       `json:"unit_price"`
	Total       int64       `json:"total"`
	Status      OrderStatus `json:"status"`
	AdminNote   string      `json:"admin_note,omitempty"`
	ShippedAt   *time.Time  `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time  `json:"delivered_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	CancelledAt *time.Time  `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ExpenseCategory tags cost records for the analytics breakdown.
type ExpenseCategory string

const (
	ExpenseCOGS           ExpenseCategory = "cogs"
	ExpenseOperational    ExpenseCategory = "operational"
	ExpenseMarketing      ExpenseCategory = "marketing"
	ExpenseAdministrative ExpenseCategory = "administrative"
	ExpenseTransactionFee ExpenseCategory = "transaction_fees"
	ExpenseOther          ExpenseCategory = "other"
)

// Recurrence describes a repeating expense.
type Recurrence struct {
	Interval string     `json:"interval"`
	Until    *time.Time `json:"until,omitempty"`
}

// Expense is a cost record, optionally allocated against products.
type Expense struct {
	ID          string          `json:"id"`
	Category    ExpenseCategory `json:"category"`
	Amount      int64           `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	Recurrence  *Recurrence     `json:"recurrence,omitempty"`
	ProductIDs  []string        `json:"product_ids,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AlertSeverity ranks profit alerts.
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// ProfitAlert is raised by the analytics engine when a margin or profit
// threshold is crossed.
type ProfitAlert struct {
	ID             string        `json:"id"`
	Type           string        `json:"type"`
	Severity       AlertSeverity `json:"severity"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	ProductID      string        `json:"product_id,omitempty"`
	Metric         float64       `json:"metric"`
	Threshold      float64       `json:"threshold"`
	Recommendation string        `json:"recommendation"`
	Read           bool          `json:"read"`
	Resolved       bool          `json:"resolved"`
	CreatedAt      time.Time     `json:"created_at"`
}

// ActivityEntry is an append-only audit record of admin/system actions.
type ActivityEntry struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id,omitempty"`
	Action     string    `json:"action"`
	TargetType string    `json:"target_type,omitempty"`
	TargetID   string    `json:"target_id,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// activityLogCap bounds the in-memory audit trail.
const activityLogCap = 1000
