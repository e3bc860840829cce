package store

import "errors"

var (
	// ErrNotFound is returned when an entity id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when creating a user with an email that
	// already identifies another account (case-insensitive).
	ErrEmailTaken = errors.New("email already registered")

	// ErrSlugTaken is returned when a category create/rename derives a
	// slug that collides with an existing category.
	ErrSlugTaken = errors.New("category slug already exists")

	// ErrFallbackCategory is returned when attempting to delete the
	// uncategorized fallback category.
	ErrFallbackCategory = errors.New("fallback category cannot be deleted")

	// ErrProductReferenced is returned when soft-deleting a product that
	// still has orders in a non-terminal state.
	ErrProductReferenced = errors.New("product has open orders")

	// ErrAlreadyProcessed is returned when approving or rejecting a
	// top-up request that is no longer pending.
	ErrAlreadyProcessed = errors.New("top-up request already processed")

	// ErrIllegalTransition is returned for order status changes not in
	// the transition table.
	ErrIllegalTransition = errors.New("illegal order status transition")

	// ErrValidation is wrapped by input validation failures.
	ErrValidation = errors.New("validation failed")
)
