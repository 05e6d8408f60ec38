package variant

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for variant data storage. Writes that
// touch the default flag keep at most one default per product.
type Repository interface {
	// ListByProduct returns the default variant first, then oldest first.
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*Variant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Variant, error)
	Create(ctx context.Context, v *Variant) error
	// CreateBatch stores all variants or none of them.
	CreateBatch(ctx context.Context, variants []*Variant) error
	Update(ctx context.Context, v *Variant) error
	SetDefault(ctx context.Context, productID, id uuid.UUID) error
	UpdateStock(ctx context.Context, id uuid.UUID, quantity int) error
	// Delete removes a variant and promotes the oldest sibling when the
	// default variant is removed.
	Delete(ctx context.Context, id uuid.UUID) error
}
