// Package backend is the HTTP client for the bookstore REST backend. The
// storefront only consumes it; order fulfillment authority lives there.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bookstore-storefront/internal/domain"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

type CustomerDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

type OrderRequest struct {
	CustomerDetails CustomerDetails    `json:"customerDetails"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	Items           []domain.OrderItem `json:"items"`
	TotalAmount     int64              `json:"totalAmount"`
	PaymentMethod   string             `json:"paymentMethod"`
	OrderStatus     string             `json:"orderStatus"`
	PaymentStatus   string             `json:"paymentStatus"`
	UserID          string             `json:"userId,omitempty"`
}

type OrderResponse struct {
	ID string `json:"id"`
}

// SubmitOrder posts the composed order to the backend. The bearer token, when
// present, is attached verbatim; an empty token sends the request
// unauthenticated.
func (c *Client) SubmitOrder(ctx context.Context, bearerToken string, in OrderRequest) (*OrderResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused; the body content is not
		// surfaced past this boundary.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var out OrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		// A success without a decodable body still placed the order; the
		// caller falls back to a locally generated id.
		return &OrderResponse{}, nil
	}
	return &out, nil
}
