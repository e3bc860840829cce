package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"shop-core/internal/metrics"
	"shop-core/internal/store"
)

func newFileStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("file backend: %v", err)
	}
	return NewStore(backend, nil, nil), dir
}

func populate(t *testing.T, s *store.Store) {
	t.Helper()
	u, err := s.CreateUser(store.CreateUserInput{Email: "roundtrip@example.com", Name: "Round Trip"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	c, err := s.CreateCategory(store.CreateCategoryInput{Name: "Gift Cards"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	p, err := s.CreateProduct(store.CreateProductInput{
		Title:        "Steam Wallet",
		Price:        105000,
		CategorySlug: c.Slug,
		Stock:        10,
		Supplier:     &store.SupplierInfo{BaseCost: 98500},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := s.CreateOrder(store.CreateOrderInput{UserID: u.ID, ProductID: p.ID, Quantity: 1}); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := s.RecordTransaction(store.TransactionInput{UserID: u.ID, Kind: store.TxCredit, Amount: 250000}); err != nil {
		t.Fatalf("record transaction: %v", err)
	}
	if _, err := s.CreateTopupRequest(store.CreateTopupInput{UserID: u.ID, Amount: 75000}); err != nil {
		t.Fatalf("create topup: %v", err)
	}
	if _, err := s.CreateExpense(store.CreateExpenseInput{Category: store.ExpenseMarketing, Amount: 30000}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	snapStore, _ := newFileStore(t)
	src := store.New(store.Options{})
	populate(t, src)

	ctx := context.Background()
	if err := snapStore.Save(ctx, src.Export()); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := snapStore.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	dst := store.New(store.Options{})
	dst.Restore(loaded)

	srcUsers, dstUsers := src.ListUsers(), dst.ListUsers()
	if len(dstUsers) != len(srcUsers) {
		t.Fatalf("user count %d != %d", len(dstUsers), len(srcUsers))
	}
	for i := range srcUsers {
		a, b := srcUsers[i], dstUsers[i]
		if a.ID != b.ID || a.Email != b.Email || a.Balance != b.Balance {
			t.Fatalf("user mismatch: %+v vs %+v", a, b)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			t.Fatalf("user timestamp drift: %v vs %v", a.CreatedAt, b.CreatedAt)
		}
	}

	srcProducts, dstProducts := src.ListAllProducts(), dst.ListAllProducts()
	if len(dstProducts) != len(srcProducts) {
		t.Fatalf("product count %d != %d", len(dstProducts), len(srcProducts))
	}
	for i := range srcProducts {
		a, b := srcProducts[i], dstProducts[i]
		if a.ID != b.ID || a.Price != b.Price || a.CategorySlug != b.CategorySlug || a.Stock != b.Stock {
			t.Fatalf("product mismatch: %+v vs %+v", a, b)
		}
		if a.Supplier != nil && (b.Supplier == nil || b.Supplier.BaseCost != a.Supplier.BaseCost) {
			t.Fatalf("supplier metadata lost: %+v vs %+v", a.Supplier, b.Supplier)
		}
	}

	for _, pair := range []struct {
		name     string
		src, dst int
	}{
		{"categories", len(src.ListCategories()), len(dst.ListCategories())},
		{"orders", len(src.ListOrders()), len(dst.ListOrders())},
		{"transactions", len(src.ListTransactions()), len(dst.ListTransactions())},
		{"topups", len(src.ListTopupRequests()), len(dst.ListTopupRequests())},
		{"expenses", len(src.ListExpenses()), len(dst.ListExpenses())},
	} {
		if pair.src != pair.dst {
			t.Fatalf("%s count %d != %d", pair.name, pair.dst, pair.src)
		}
	}
}

type failingBackend struct{}

func (failingBackend) Read(context.Context, string) ([]byte, error) { return nil, ErrNotExist }
func (failingBackend) Write(context.Context, string, []byte) error {
	return errors.New("disk full")
}
func (failingBackend) Close() error { return nil }

func TestSaveFailureCountsError(t *testing.T) {
	m := metrics.Registry("shopcoretest")
	before := testutil.ToFloat64(m.Errors.WithLabelValues("snapshot"))

	snapStore := NewStore(failingBackend{}, nil, m)
	src := store.New(store.Options{})
	if err := snapStore.Save(context.Background(), src.Export()); err == nil {
		t.Fatal("expected write error")
	}

	after := testutil.ToFloat64(m.Errors.WithLabelValues("snapshot"))
	if after != before+1 {
		t.Fatalf("expected error counter %v+1, got %v", before, after)
	}
}

func TestLoadToleratesMissingDocuments(t *testing.T) {
	snapStore, _ := newFileStore(t)

	snap, err := snapStore.Load(context.Background())
	if err != nil {
		t.Fatalf("load from empty dir: %v", err)
	}
	if len(snap.Users) != 0 || len(snap.Orders) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestLoadSkipsMalformedDocument(t *testing.T) {
	snapStore, dir := newFileStore(t)
	src := store.New(store.Options{})
	populate(t, src)

	ctx := context.Background()
	if err := snapStore.Save(ctx, src.Export()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "orders.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt orders doc: %v", err)
	}

	snap, err := snapStore.Load(ctx)
	if err != nil {
		t.Fatalf("load with corrupt doc: %v", err)
	}
	if len(snap.Orders) != 0 {
		t.Fatalf("corrupt collection should be skipped, got %d orders", len(snap.Orders))
	}
	if len(snap.Users) == 0 {
		t.Fatal("healthy collections should still load")
	}
}
