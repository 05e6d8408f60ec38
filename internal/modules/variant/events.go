package variant

import "github.com/google/uuid"

const (
	EventVariantsGenerated = "variant.generated"
	EventVariantCreated    = "variant.created"
	EventVariantUpdated    = "variant.updated"
	EventVariantDeleted    = "variant.deleted"
)

// VariantsGenerated is published after a matrix run has been stored.
type VariantsGenerated struct {
	ProductID uuid.UUID `json:"product_id"`
	VendorID  uuid.UUID `json:"vendor_id"`
	Created   int       `json:"created"`
	Existing  int       `json:"existing"`
	SKUs      []string  `json:"skus"`
}

func (e VariantsGenerated) Type() string { return EventVariantsGenerated }
func (e VariantsGenerated) Key() string  { return e.ProductID.String() }

// VariantChanged covers single-variant writes. Kind is one of the
// variant.created and variant.updated event types.
type VariantChanged struct {
	Kind    string   `json:"-"`
	Variant *Variant `json:"variant"`
}

func (e VariantChanged) Type() string { return e.Kind }
func (e VariantChanged) Key() string  { return e.Variant.ProductID.String() }

type VariantDeleted struct {
	ProductID uuid.UUID `json:"product_id"`
	VariantID uuid.UUID `json:"variant_id"`
	SKU       string    `json:"sku"`
}

func (e VariantDeleted) Type() string { return EventVariantDeleted }
func (e VariantDeleted) Key() string  { return e.ProductID.String() }
