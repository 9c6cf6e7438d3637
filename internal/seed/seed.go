package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/repository/blob"
)

// DemoSessionID is the well-known session seeded for manual testing.
const DemoSessionID = "demo"

// Apply writes a small demo cart for manual testing. It is idempotent: the
// blob is simply overwritten.
func Apply(ctx context.Context, blobs blob.Repository) error {
	items := []domain.CartItem{
		{
			ID:       "demo-1",
			Title:    "The Left Hand of Darkness",
			Author:   "Ursula K. Le Guin",
			Price:    1850,
			Quantity: 1,
			Selected: true,
		},
		{
			ID:       "demo-2",
			Title:    "Piranesi",
			Author:   "Susanna Clarke",
			Price:    2200,
			Quantity: 2,
			Selected: true,
		},
	}

	data, err := json.Marshal(struct {
		Items []domain.CartItem `json:"items"`
	}{Items: items})
	if err != nil {
		return fmt.Errorf("encode demo cart: %w", err)
	}
	if err := blobs.Save(ctx, "user-cart-storage:"+DemoSessionID, data); err != nil {
		return fmt.Errorf("save demo cart: %w", err)
	}
	return nil
}
