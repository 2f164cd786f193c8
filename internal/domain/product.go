package domain

import "time"

// Product is an item sold during registration (pack, jersey, meal...).
// Required products gate participant validation: every purchase of a
// required product must be validated before the participant can be.
type Product struct {
	ID         uint      `json:"id"`
	EditionID  uint      `json:"edition_id"`
	Name       string    `json:"name"`
	Required   bool      `json:"required"`
	PriceCents int64     `json:"price_cents"`
	Variants   []string  `json:"variants,omitempty"` // e.g. sizes
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Purchase links a user to a product variant. Validated is derived
// from payment acquittal, outside this service's control.
type Purchase struct {
	ID              uint      `json:"id"`
	UserID          uint      `json:"user_id"`
	EditionID       uint      `json:"edition_id"`
	ProductID       uint      `json:"product_id"`
	Product         Product   `json:"product"`
	Variant         string    `json:"variant"`
	Quantity        int       `json:"quantity"`
	Validated       bool      `json:"validated"`
	PaymentIntentID string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
