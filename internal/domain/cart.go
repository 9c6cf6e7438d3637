package domain

// CartItem is one line of a session cart. The item references a catalog book
// by ID; title, author, price and image are snapshotted from the payload that
// added the item and are not re-validated here.
type CartItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Price    int64  `json:"price"`
	Image    string `json:"image,omitempty"`
	Quantity int    `json:"quantity"`
	Selected bool   `json:"selected"`
}

// LineTotal is the item's contribution to the cart total.
func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}
