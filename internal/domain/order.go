package domain

import "time"

// OrderStatus is the canonical order state vocabulary. New orders are
// recorded as Pending; the remaining transitions are driven by the
// back office.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
	StatusRejected   OrderStatus = "Rejected"
)

// ParseOrderStatus maps a wire string onto the canonical vocabulary.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRejected:
		return OrderStatus(s), true
	}
	return "", false
}

// OrderItem is a point-in-time copy of a cart line. Ledger entries hold
// copies, never live cart references.
type OrderItem struct {
	BookID   string `json:"bookId"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Image    string `json:"image,omitempty"`
}

// Order is one entry of the per-session order ledger. TotalAmount is the
// amount recorded at placement time and is never recomputed.
type Order struct {
	OrderID     string      `json:"orderId"`
	Date        time.Time   `json:"date"`
	Items       []OrderItem `json:"items"`
	TotalAmount int64       `json:"totalAmount"`
	Status      OrderStatus `json:"status"`
}
