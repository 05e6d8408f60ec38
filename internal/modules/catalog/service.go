package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/georgemunganga/vendorhub-backend/internal/modules/auth"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultCurrency = "INR"

// Service defines catalog business logic. Every call is scoped to the vendor
// in the request context.
type Service interface {
	CreateProduct(ctx context.Context, req ProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, category string, activeOnly bool) ([]*Product, error)
	UpdateProduct(ctx context.Context, id string, req ProductRequest) (*Product, error)
}

// ProductRequest holds the editable fields of a product.
type ProductRequest struct {
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Category      string              `json:"category"`
	SKU           string              `json:"sku"`
	Currency      string              `json:"currency"`
	PurchasePrice decimal.NullDecimal `json:"purchase_price"`
	SellingPrice  decimal.NullDecimal `json:"selling_price"`
	MRP           decimal.NullDecimal `json:"mrp"`
	GST           decimal.NullDecimal `json:"gst"`
	ImageURL      string              `json:"image_url"`
	IsActive      *bool               `json:"is_active"`
}

func (req ProductRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrProductNameRequired
	}
	for _, p := range []decimal.NullDecimal{req.PurchasePrice, req.SellingPrice, req.MRP, req.GST} {
		if p.Valid && p.Decimal.IsNegative() {
			return ErrInvalidPrice
		}
	}
	return nil
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service { return &service{repo: repo, now: time.Now} }

func (s *service) CreateProduct(ctx context.Context, req ProductRequest) (*Product, error) {
	vendorID := auth.VendorIDFromContext(ctx)
	if vendorID == uuid.Nil {
		return nil, ErrMissingVendor
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p := &Product{
		ID:        uuid.New(),
		VendorID:  vendorID,
		IsActive:  true,
		CreatedAt: now,
	}
	apply(p, req, now)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct loads a product owned by the current vendor.
func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	vendorID := auth.VendorIDFromContext(ctx)
	if vendorID == uuid.Nil {
		return nil, ErrMissingVendor
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	p, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if p.VendorID != vendorID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *service) ListProducts(ctx context.Context, category string, activeOnly bool) ([]*Product, error) {
	vendorID := auth.VendorIDFromContext(ctx)
	if vendorID == uuid.Nil {
		return nil, ErrMissingVendor
	}
	return s.repo.List(ctx, vendorID, category, activeOnly)
}

func (s *service) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(p, req, s.now().UTC())
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func apply(p *Product, req ProductRequest, now time.Time) {
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Category = req.Category
	p.SKU = strings.TrimSpace(req.SKU)
	p.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	p.PurchasePrice = req.PurchasePrice
	p.SellingPrice = req.SellingPrice
	p.MRP = req.MRP
	p.GST = req.GST
	p.ImageURL = req.ImageURL
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.UpdatedAt = now
}
