package store

import (
	"fmt"
	"strings"

	"shop-core/internal/events"
)

// CreateProductInput carries the fields for a new catalog item.
type CreateProductInput struct {
	Title        string
	Description  string
	Price        int64
	CategorySlug string
	Stock        int
	Options      []VariantOption
	Supplier     *SupplierInfo
}

// ProductUpdate is a partial patch; nil fields are left untouched.
type ProductUpdate struct {
	Title        *string
	Description  *string
	Price        *int64
	CategorySlug *string
	Stock        *int
	Active       *bool
	Options      []VariantOption
	Supplier     *SupplierInfo
	ActorID      string
}

// CreateProduct adds a catalog item. The category slug must resolve to
// an existing category; empty defaults to the fallback.
func (s *Store) CreateProduct(in CreateProductInput) (*Product, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	slug := in.CategorySlug
	if slug == "" {
		slug = FallbackCategorySlug
	}

	s.mu.Lock()
	if !s.categoryExistsLocked(slug) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, slug)
	}
	now := s.now()
	p := &Product{
		ID:           s.newID(),
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Price:        in.Price,
		CategorySlug: slug,
		Stock:        in.Stock,
		Active:       true,
		Options:      append([]VariantOption(nil), in.Options...),
		Supplier:     in.Supplier,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.products[p.ID] = p
	out := *p
	s.mu.Unlock()

	s.countMutation("product", "create")
	s.emit(events.ProductCreated, out)
	s.requestFlush()
	return &out, nil
}

// GetProduct resolves a product by id, including soft-deleted ones so
// historical orders always display.
func (s *Store) GetProduct(id string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

// ListProducts returns the catalog excluding soft-deleted items.
func (s *Store) ListProducts() []Product {
	return s.listProducts(false)
}

// ListAllProducts includes soft-deleted items, for admin recovery
// tooling.
func (s *Store) ListAllProducts() []Product {
	return s.listProducts(true)
}

func (s *Store) listProducts(includeDeleted bool) []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if !includeDeleted && p.Deleted() {
			continue
		}
		out = append(out, *p)
	}
	sortByCreation(out, func(p Product) (string, int64) { return p.ID, p.CreatedAt.UnixNano() })
	return out
}

// UpdateProduct applies a partial patch and synthesizes activity-log
// entries for the fields that actually changed.
func (s *Store) UpdateProduct(id string, patch ProductUpdate) (*Product, error) {
	s.mu.Lock()
	p, ok := s.products[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	var changes []string
	if patch.Title != nil && *patch.Title != p.Title {
		changes = append(changes, fmt.Sprintf("title %q -> %q", p.Title, *patch.Title))
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil && *patch.Price != p.Price {
		if *patch.Price < 0 {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
		}
		changes = append(changes, fmt.Sprintf("price %d -> %d", p.Price, *patch.Price))
		p.Price = *patch.Price
	}
	if patch.CategorySlug != nil && *patch.CategorySlug != p.CategorySlug {
		if !s.categoryExistsLocked(*patch.CategorySlug) {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *patch.CategorySlug)
		}
		changes = append(changes, fmt.Sprintf("category %s -> %s", p.CategorySlug, *patch.CategorySlug))
		p.CategorySlug = *patch.CategorySlug
	}
	if patch.Stock != nil && *patch.Stock != p.Stock {
		changes = append(changes, fmt.Sprintf("stock %d -> %d", p.Stock, *patch.Stock))
		p.Stock = *patch.Stock
	}
	if patch.Active != nil && *patch.Active != p.Active {
		changes = append(changes, fmt.Sprintf("active %t -> %t", p.Active, *patch.Active))
		p.Active = *patch.Active
	}
	if patch.Options != nil {
		p.Options = append([]VariantOption(nil), patch.Options...)
	}
	if patch.Supplier != nil {
		p.Supplier = patch.Supplier
	}

	p.UpdatedAt = s.now()
	if len(changes) > 0 {
		s.appendActivityLocked(patch.ActorID, "product.update", "product", p.ID, strings.Join(changes, "; "))
	}
	out := *p
	s.mu.Unlock()

	s.countMutation("product", "update")
	s.emit(events.ProductUpdated, out)
	s.requestFlush()
	return &out, nil
}

// DeleteProduct soft-deletes a catalog item. Refused while any order in
// a non-terminal state still references it.
func (s *Store) DeleteProduct(id, actorID string) error {
	s.mu.Lock()
	p, ok := s.products[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	for _, o := range s.orders {
		if o.ProductID == id && !o.Status.Terminal() && o.Status != OrderCompleted {
			s.mu.Unlock()
			return fmt.Errorf("%w: order %s is %s", ErrProductReferenced, o.ID, o.Status)
		}
	}
	now := s.now()
	p.DeletedAt = &now
	p.Active = false
	p.UpdatedAt = now
	s.appendActivityLocked(actorID, "product.delete", "product", p.ID, p.Title)
	out := *p
	s.mu.Unlock()

	s.countMutation("product", "delete")
	s.emit(events.ProductDeleted, out)
	s.requestFlush()
	return nil
}

// RestoreProduct clears the soft-delete marker.
func (s *Store) RestoreProduct(id, actorID string) (*Product, error) {
	s.mu.Lock()
	p, ok := s.products[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if !p.Deleted() {
		out := *p
		s.mu.Unlock()
		return &out, nil
	}
	p.DeletedAt = nil
	p.Active = true
	p.UpdatedAt = s.now()
	s.appendActivityLocked(actorID, "product.restore", "product", p.ID, p.Title)
	out := *p
	s.mu.Unlock()

	s.countMutation("product", "restore")
	s.emit(events.ProductUpdated, out)
	s.requestFlush()
	return &out, nil
}
