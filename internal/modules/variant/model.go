package variant

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Attributes maps attribute name to the selected value. Stored as JSONB.
type Attributes map[string]string

func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]string(a))
}

func (a *Attributes) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Attributes{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Attributes", src)
	}
	m := map[string]string{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	*a = m
	return nil
}

// Pricing is shared by products (as defaults) and variants. Any field may be
// null, meaning the vendor still has to fill it in.
type Pricing struct {
	PurchasePrice decimal.NullDecimal `db:"purchase_price" json:"purchase_price"`
	SellingPrice  decimal.NullDecimal `db:"selling_price" json:"selling_price"`
	MRP           decimal.NullDecimal `db:"mrp" json:"mrp"`
	// GST is a tax percentage.
	GST decimal.NullDecimal `db:"gst" json:"gst"`
}

// Variant is a sellable version of a product for one attribute combination.
type Variant struct {
	ID uuid.UUID `db:"id" json:"id"`
	// TempID identifies a generated variant before it has been stored.
	TempID     string     `db:"-" json:"temp_id,omitempty"`
	ProductID  uuid.UUID  `db:"product_id" json:"product_id"`
	Attributes Attributes `db:"attributes" json:"attributes"`
	SKU        string     `db:"sku" json:"sku"`
	Pricing
	InventoryQuantity int            `db:"inventory_quantity" json:"inventory_quantity"`
	IsDefault         bool           `db:"is_default" json:"is_default"`
	Images            pq.StringArray `db:"images" json:"images"`
	ImageURL          *string        `db:"image_url" json:"image_url"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// ProductContext is what the synthesizer needs to know about the owning product.
type ProductContext struct {
	ProductID   uuid.UUID
	ProductName string
	ProductSKU  string
	Defaults    Pricing
}

// Options tune the defaults given to synthesized variants.
type Options struct {
	// PurchaseRatio derives a purchase price from the selling price when none
	// is given. Zero or negative leaves the purchase price empty.
	PurchaseRatio    decimal.Decimal
	DefaultInventory int
	// SegmentWidth truncates each attribute segment of the SKU. Zero keeps
	// the full value.
	SegmentWidth int
	// MaxCombinations bounds one generation run. Zero means
	// DefaultMaxCombinations.
	MaxCombinations int
}

func DefaultOptions() Options {
	return Options{
		PurchaseRatio:    decimal.NewFromFloat(0.7),
		DefaultInventory: 10,
		SegmentWidth:     3,
		MaxCombinations:  DefaultMaxCombinations,
	}
}

// MatrixResult splits a generation run into new and already stored combinations.
type MatrixResult struct {
	ToCreate      []*Variant
	AlreadyExists []*Variant
}

func (r *MatrixResult) Created() int  { return len(r.ToCreate) }
func (r *MatrixResult) Existing() int { return len(r.AlreadyExists) }
func (r *MatrixResult) Total() int    { return r.Created() + r.Existing() }
