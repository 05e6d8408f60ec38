package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrForbidden           = errors.New("product belongs to another vendor")
	ErrMissingVendor       = errors.New("vendor onboarding required")
	ErrProductNameRequired = errors.New("product name is required")
	ErrInvalidPrice        = errors.New("product price must be zero or positive")
	ErrInvalidID           = errors.New("invalid product id")
)

// Product is a vendor's catalog entry. Its prices are the defaults handed to
// variants generated for it.
type Product struct {
	ID            uuid.UUID           `db:"id" json:"id"`
	VendorID      uuid.UUID           `db:"vendor_id" json:"vendor_id"`
	Name          string              `db:"name" json:"name"`
	Description   string              `db:"description" json:"description,omitempty"`
	Category      string              `db:"category" json:"category"`
	SKU           string              `db:"sku" json:"sku,omitempty"`
	Currency      string              `db:"currency" json:"currency"`
	PurchasePrice decimal.NullDecimal `db:"purchase_price" json:"purchase_price"`
	SellingPrice  decimal.NullDecimal `db:"selling_price" json:"selling_price"`
	MRP           decimal.NullDecimal `db:"mrp" json:"mrp"`
	GST           decimal.NullDecimal `db:"gst" json:"gst"`
	ImageURL      string              `db:"image_url" json:"image_url,omitempty"`
	IsActive      bool                `db:"is_active" json:"is_active"`
	CreatedAt     time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at" json:"updated_at"`
}
