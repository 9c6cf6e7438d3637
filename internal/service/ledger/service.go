package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"bookstore-storefront/internal/domain"
)

const storagePrefix = "user-order-storage:"

type blobRepo interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Service is the append-only per-session order ledger. It shares the blob
// store with the cart but owns an independent key namespace; there is no
// deletion path.
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

type ledgerBlob struct {
	Orders []domain.Order `json:"orders"`
}

// Add prepends the order so the ledger reads most-recent-first.
func (s *Service) Add(ctx context.Context, sessionID string, order domain.Order) error {
	if order.OrderID == "" {
		return errors.New("order id required")
	}
	return s.mutate(ctx, sessionID, func(orders []domain.Order) []domain.Order {
		return append([]domain.Order{order}, orders...)
	})
}

// UpdateStatus replaces the status of the matching order. Unknown order IDs
// are a no-op.
func (s *Service) UpdateStatus(ctx context.Context, sessionID, orderID string, status domain.OrderStatus) error {
	return s.mutate(ctx, sessionID, func(orders []domain.Order) []domain.Order {
		for i := range orders {
			if orders[i].OrderID == orderID {
				orders[i].Status = status
				break
			}
		}
		return orders
	})
}

// Orders returns the ledger, most recent first.
func (s *Service) Orders(ctx context.Context, sessionID string) ([]domain.Order, error) {
	return s.load(ctx, sessionID)
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func([]domain.Order) []domain.Order) error {
	lock := s.acquireLock(sessionID)
	defer s.releaseLock(sessionID, lock)

	orders, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	orders = fn(orders)
	return s.save(ctx, sessionID, orders)
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

func (s *Service) load(ctx context.Context, sessionID string) ([]domain.Order, error) {
	data, err := s.blobs.Load(ctx, storagePrefix+sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load orders: %w", err)
	}
	var stored ledgerBlob
	if err := json.Unmarshal(data, &stored); err != nil {
		if s.logger != nil {
			s.logger.Printf("discarding corrupted order blob for session %s: %v", sessionID, err)
		}
		return nil, nil
	}
	return stored.Orders, nil
}

func (s *Service) save(ctx context.Context, sessionID string, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	data, err := json.Marshal(ledgerBlob{Orders: orders})
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}
	if err := s.blobs.Save(ctx, storagePrefix+sessionID, data); err != nil {
		return fmt.Errorf("save orders: %w", err)
	}
	return nil
}
