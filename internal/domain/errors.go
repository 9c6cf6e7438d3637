package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCart indicates a checkout was attempted with no selected items.
	ErrEmptyCart = errors.New("no items selected for checkout")
	// ErrSubmitFailed wraps any order submission failure; callers surface it
	// as a generic, non-field-specific outcome.
	ErrSubmitFailed = errors.New("order submission failed")
	// ErrItemIDRequired indicates a cart mutation without an item ID.
	ErrItemIDRequired = errors.New("item id required")
	// ErrInvalidQuantity indicates a cart mutation with a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)
