package store

import (
	"fmt"
	"strings"

	"shop-core/internal/events"
)

// CreateCategoryInput carries the fields for a new category. Slug is
// always derived from the name.
type CreateCategoryInput struct {
	Name     string
	Icon     string
	Featured []string
}

// CategoryUpdate is a partial patch. Renaming re-derives the slug and
// migrates referencing products to it.
type CategoryUpdate struct {
	Name     *string
	Icon     *string
	Featured []string
	Active   *bool
	ActorID  string
}

// Slugify derives a unique-checkable slug from a category name.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (s *Store) categoryExistsLocked(slug string) bool {
	for _, c := range s.categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

// CreateCategory adds a category; a slug collision is a hard error.
func (s *Store) CreateCategory(in CreateCategoryInput) (*Category, error) {
	slug := Slugify(in.Name)
	if slug == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	s.mu.Lock()
	if s.categoryExistsLocked(slug) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrSlugTaken, slug)
	}
	now := s.now()
	c := &Category{
		ID:        s.newID(),
		Name:      strings.TrimSpace(in.Name),
		Slug:      slug,
		Icon:      in.Icon,
		Featured:  append([]string(nil), in.Featured...),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.categories[c.ID] = c
	out := *c
	s.mu.Unlock()

	s.countMutation("category", "create")
	s.emit(events.CategoryCreated, out)
	s.requestFlush()
	return &out, nil
}

// GetCategoryBySlug resolves a category by slug.
func (s *Store) GetCategoryBySlug(slug string) (*Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.Slug == slug {
			out := *c
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// ListCategories returns all categories ordered by creation time.
func (s *Store) ListCategories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	sortByCreation(out, func(c Category) (string, int64) { return c.ID, c.CreatedAt.UnixNano() })
	return out
}

// UpdateCategory applies a partial patch. A rename re-derives and
// uniqueness-checks the slug, then re-points referencing products.
func (s *Store) UpdateCategory(id string, patch CategoryUpdate) (*Category, error) {
	s.mu.Lock()
	c, ok := s.categories[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	var changes []string
	if patch.Name != nil && *patch.Name != c.Name {
		newSlug := Slugify(*patch.Name)
		if newSlug == "" {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: category name is required", ErrValidation)
		}
		if newSlug != c.Slug {
			if c.Slug == FallbackCategorySlug {
				s.mu.Unlock()
				return nil, fmt.Errorf("%w: fallback category cannot be renamed", ErrValidation)
			}
			if s.categoryExistsLocked(newSlug) {
				s.mu.Unlock()
				return nil, fmt.Errorf("%w: %q", ErrSlugTaken, newSlug)
			}
			for _, p := range s.products {
				if p.CategorySlug == c.Slug {
					p.CategorySlug = newSlug
				}
			}
		}
		changes = append(changes, fmt.Sprintf("name %q -> %q", c.Name, *patch.Name))
		c.Name = *patch.Name
		c.Slug = newSlug
	}
	if patch.Icon != nil {
		c.Icon = *patch.Icon
	}
	if patch.Featured != nil {
		c.Featured = append([]string(nil), patch.Featured...)
	}
	if patch.Active != nil && *patch.Active != c.Active {
		changes = append(changes, fmt.Sprintf("active %t -> %t", c.Active, *patch.Active))
		c.Active = *patch.Active
	}

	c.UpdatedAt = s.now()
	if len(changes) > 0 {
		s.appendActivityLocked(patch.ActorID, "category.update", "category", c.ID, strings.Join(changes, "; "))
	}
	out := *c
	s.mu.Unlock()

	s.countMutation("category", "update")
	s.emit(events.CategoryUpdated, out)
	s.requestFlush()
	return &out, nil
}

// DeleteCategory removes a category after migrating every product that
// references its slug to the fallback. The fallback itself is protected.
func (s *Store) DeleteCategory(id, actorID string) error {
	s.mu.Lock()
	c, ok := s.categories[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if c.Slug == FallbackCategorySlug {
		s.mu.Unlock()
		return ErrFallbackCategory
	}
	moved := 0
	for _, p := range s.products {
		if p.CategorySlug == c.Slug {
			p.CategorySlug = FallbackCategorySlug
			p.UpdatedAt = s.now()
			moved++
		}
	}
	delete(s.categories, id)
	s.appendActivityLocked(actorID, "category.delete", "category", c.ID,
		fmt.Sprintf("%s (%d products reassigned)", c.Name, moved))
	out := *c
	s.mu.Unlock()

	s.countMutation("category", "delete")
	s.emit(events.CategoryDeleted, out)
	s.requestFlush()
	return nil
}
