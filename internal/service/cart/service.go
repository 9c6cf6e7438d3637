package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"bookstore-storefront/internal/domain"
)

const storagePrefix = "user-cart-storage:"

type blobRepo interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Service is the single source of truth for session carts. Every mutation
// rewrites the session's cart blob so state survives a restart.
type Service struct {
	blobs  blobRepo
	logger *log.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock serializes mutations for one session. refs counts in-flight
// holders so idle entries can be evicted from the map.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func New(blobs blobRepo, logger *log.Logger) *Service {
	return &Service{
		blobs:  blobs,
		logger: logger,
		locks:  make(map[string]*sessionLock),
	}
}

type cartBlob struct {
	Items []domain.CartItem `json:"items"`
}

// Add merges the item into the cart: an existing line with the same ID has
// its quantity incremented by quantity, otherwise a new selected line is
// appended. Item metadata is taken from the payload as-is.
func (s *Service) Add(ctx context.Context, sessionID string, item domain.CartItem, quantity int) error {
	if item.ID == "" {
		return domain.ErrItemIDRequired
	}
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	return s.mutate(ctx, sessionID, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].ID == item.ID {
				items[i].Quantity += quantity
				return items
			}
		}
		item.Quantity = quantity
		item.Selected = true
		return append(items, item)
	})
}

// Remove decrements the line's quantity by one, removing the line entirely
// when the quantity was one. Unknown IDs are a no-op.
func (s *Service) Remove(ctx context.Context, sessionID, id string) error {
	return s.mutate(ctx, sessionID, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			if items[i].Quantity > 1 {
				items[i].Quantity--
				return items
			}
			return append(items[:i], items[i+1:]...)
		}
		return items
	})
}

// RemoveCompletely drops the line regardless of quantity. Unknown IDs are a
// no-op.
func (s *Service) RemoveCompletely(ctx context.Context, sessionID, id string) error {
	return s.mutate(ctx, sessionID, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...)
			}
		}
		return items
	})
}

// ToggleSelect flips the line's selection flag.
func (s *Service) ToggleSelect(ctx context.Context, sessionID, id string) error {
	return s.mutate(ctx, sessionID, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].ID == id {
				items[i].Selected = !items[i].Selected
				break
			}
		}
		return items
	})
}

// SelectAll sets the selection flag uniformly on every line.
func (s *Service) SelectAll(ctx context.Context, sessionID string, selected bool) error {
	return s.mutate(ctx, sessionID, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			items[i].Selected = selected
		}
		return items
	})
}

// ClearSelected removes every selected line, keeping unselected ones. This is
// what a successful checkout invokes.
func (s *Service) ClearSelected(ctx context.Context, sessionID string) error {
	return s.mutate(ctx, sessionID, func(items []domain.CartItem) []domain.CartItem {
		kept := items[:0]
		for _, item := range items {
			if !item.Selected {
				kept = append(kept, item)
			}
		}
		return kept
	})
}

// Clear empties the cart unconditionally.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.mutate(ctx, sessionID, func([]domain.CartItem) []domain.CartItem {
		return nil
	})
}

// Items returns the cart lines in insertion order.
func (s *Service) Items(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	return s.load(ctx, sessionID)
}

// SelectedItems returns only the lines flagged for checkout.
func (s *Service) SelectedItems(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	items, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	selected := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if item.Selected {
			selected = append(selected, item)
		}
	}
	return selected, nil
}

// TotalPrice is the sum of price*quantity over selected lines, recomputed on
// demand.
func (s *Service) TotalPrice(ctx context.Context, sessionID string) (int64, error) {
	items, err := s.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, item := range items {
		if item.Selected {
			total += item.LineTotal()
		}
	}
	return total, nil
}

// mutate applies fn to the session's cart under the session lock and persists
// the result. Mutations on the same session never interleave.
func (s *Service) mutate(ctx context.Context, sessionID string, fn func([]domain.CartItem) []domain.CartItem) error {
	lock := s.acquireLock(sessionID)
	defer s.releaseLock(sessionID, lock)

	items, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	items = fn(items)
	return s.save(ctx, sessionID, items)
}

func (s *Service) acquireLock(sessionID string) *sessionLock {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sessionLock{}
		s.locks[sessionID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (s *Service) releaseLock(sessionID string, lock *sessionLock) {
	lock.mu.Unlock()

	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, sessionID)
	}
	s.mu.Unlock()
}

func (s *Service) load(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	data, err := s.blobs.Load(ctx, storagePrefix+sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var stored cartBlob
	if err := json.Unmarshal(data, &stored); err != nil {
		// Corrupted blobs are discarded; the session starts from an empty cart.
		if s.logger != nil {
			s.logger.Printf("discarding corrupted cart blob for session %s: %v", sessionID, err)
		}
		return nil, nil
	}
	return stored.Items, nil
}

func (s *Service) save(ctx context.Context, sessionID string, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	data, err := json.Marshal(cartBlob{Items: items})
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.blobs.Save(ctx, storagePrefix+sessionID, data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
