package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"bookstore-storefront/internal/domain"
)

type blobWriter interface {
	Save(ctx context.Context, key string, data []byte) error
}

// Importer ingests exported browser-storage dumps into the blob store. The
// export maps session IDs to the persisted state envelope the web client
// wrote to local storage ({"state":{"cart":[...],"orders":[...]},"version":N}).
type Importer struct {
	reader io.Reader
	blobs  blobWriter
}

func New(r io.Reader, blobs blobWriter) *Importer {
	return &Importer{reader: r, blobs: blobs}
}

type exportFile struct {
	Sessions map[string]persistedState `json:"sessions"`
}

type persistedState struct {
	State struct {
		Cart   []domain.CartItem `json:"cart"`
		Orders []domain.Order    `json:"orders"`
	} `json:"state"`
	Version int `json:"version"`
}

type cartBlob struct {
	Items []domain.CartItem `json:"items"`
}

type ledgerBlob struct {
	Orders []domain.Order `json:"orders"`
}

// Run parses the export and writes one cart blob and one order blob per
// session. It returns the number of sessions imported.
func (i *Importer) Run(ctx context.Context) (int, error) {
	var export exportFile
	if err := json.NewDecoder(i.reader).Decode(&export); err != nil {
		return 0, fmt.Errorf("decode export: %w", err)
	}

	imported := 0
	for sessionID, state := range export.Sessions {
		if sessionID == "" {
			continue
		}
		if err := i.saveSession(ctx, sessionID, state); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func (i *Importer) saveSession(ctx context.Context, sessionID string, state persistedState) error {
	items := normalizeItems(state.State.Cart)
	cartData, err := json.Marshal(cartBlob{Items: items})
	if err != nil {
		return fmt.Errorf("encode cart for %s: %w", sessionID, err)
	}
	if err := i.blobs.Save(ctx, "user-cart-storage:"+sessionID, cartData); err != nil {
		return fmt.Errorf("save cart for %s: %w", sessionID, err)
	}

	orders := normalizeOrders(state.State.Orders)
	orderData, err := json.Marshal(ledgerBlob{Orders: orders})
	if err != nil {
		return fmt.Errorf("encode orders for %s: %w", sessionID, err)
	}
	if err := i.blobs.Save(ctx, "user-order-storage:"+sessionID, orderData); err != nil {
		return fmt.Errorf("save orders for %s: %w", sessionID, err)
	}
	return nil
}

// normalizeItems re-establishes the cart invariants on loosely-shaped
// exports: one line per ID (duplicates merge by summing quantities) and
// quantity at least one.
func normalizeItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	byID := make(map[string]int)
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if idx, ok := byID[item.ID]; ok {
			out[idx].Quantity += item.Quantity
			continue
		}
		byID[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}

// normalizeOrders drops entries without an id and maps unknown statuses to
// Pending.
func normalizeOrders(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if order.OrderID == "" {
			continue
		}
		if _, ok := domain.ParseOrderStatus(string(order.Status)); !ok {
			order.Status = domain.StatusPending
		}
		out = append(out, order)
	}
	return out
}
