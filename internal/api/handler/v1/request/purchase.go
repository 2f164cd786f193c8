package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateProductRequest struct {
	EditionID  uint     `json:"edition_id"`
	Name       string   `json:"name"`
	Required   bool     `json:"required"`
	PriceCents int64    `json:"price_cents"`
	Variants   []string `json:"variants"`
}

func (req *CreateProductRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EditionID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.PriceCents, validation.Min(int64(0))),
	)
}

type CreatePurchaseRequest struct {
	EditionID       uint   `json:"edition_id"`
	ProductID       uint   `json:"product_id"`
	Variant         string `json:"variant"`
	Quantity        int    `json:"quantity"`
	PaymentMethodID string `json:"payment_method_id"`
}

func (req *CreatePurchaseRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EditionID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.ProductID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

type UpdatePurchaseRequest struct {
	Variant  string `json:"variant"`
	Quantity int    `json:"quantity"`
}

func (req *UpdatePurchaseRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}
