package variant

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/georgemunganga/vendorhub-backend/internal/config"
	"github.com/georgemunganga/vendorhub-backend/internal/events"
	"github.com/georgemunganga/vendorhub-backend/internal/modules/catalog"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service defines variant business logic. Product lookups go through the
// catalog, so every call is scoped to the vendor in the request context.
type Service interface {
	Preview(ctx context.Context, productID string, req GenerateRequest) (*MatrixResult, error)
	Generate(ctx context.Context, productID string, req GenerateRequest) (*MatrixResult, error)
	List(ctx context.Context, productID string) ([]*Variant, error)
	Get(ctx context.Context, id string) (*Variant, error)
	Create(ctx context.Context, productID string, req CreateVariantRequest) (*Variant, error)
	Update(ctx context.Context, id string, req UpdateVariantRequest) (*Variant, error)
	SetDefault(ctx context.Context, id string) (*Variant, error)
	UpdateStock(ctx context.Context, id string, quantity int) (*Variant, error)
	Delete(ctx context.Context, id string) error
}

// ProductFinder loads a product owned by the vendor in ctx.
type ProductFinder interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

type GenerateRequest struct {
	Attributes []Attribute `json:"attributes"`
}

// CreateVariantRequest adds a single variant by hand. Empty fields are
// filled the same way generated variants are.
type CreateVariantRequest struct {
	Attributes        Attributes          `json:"attributes"`
	SKU               string              `json:"sku"`
	PurchasePrice     decimal.NullDecimal `json:"purchase_price"`
	SellingPrice      decimal.NullDecimal `json:"selling_price"`
	MRP               decimal.NullDecimal `json:"mrp"`
	GST               decimal.NullDecimal `json:"gst"`
	InventoryQuantity *int                `json:"inventory_quantity"`
	Images            []string            `json:"images"`
	ImageURL          *string             `json:"image_url"`
}

// UpdateVariantRequest edits a stored variant. Nil fields are left as they
// are. IsDefault only takes effect when true.
type UpdateVariantRequest struct {
	SKU               *string          `json:"sku"`
	PurchasePrice     *decimal.Decimal `json:"purchase_price"`
	SellingPrice      *decimal.Decimal `json:"selling_price"`
	MRP               *decimal.Decimal `json:"mrp"`
	GST               *decimal.Decimal `json:"gst"`
	InventoryQuantity *int             `json:"inventory_quantity"`
	IsDefault         *bool            `json:"is_default"`
	Images            []string         `json:"images"`
	ImageURL          *string          `json:"image_url"`
}

// dispatchTimeout bounds how long a write waits on the broker after commit.
const dispatchTimeout = 2 * time.Second

type service struct {
	repo            Repository
	products        ProductFinder
	dispatcher      events.Dispatcher
	opts            Options
	logger          *zap.Logger
	now             func() time.Time
	dispatchTimeout time.Duration
}

func NewService(repo Repository, products ProductFinder, dispatcher events.Dispatcher, opts Options, logger *zap.Logger) Service {
	return &service{
		repo:            repo,
		products:        products,
		dispatcher:      dispatcher,
		opts:            opts,
		logger:          logger,
		now:             time.Now,
		dispatchTimeout: dispatchTimeout,
	}
}

// OptionsFromConfig converts the environment settings into generator options.
func OptionsFromConfig(cfg config.VariantConfig) Options {
	return Options{
		PurchaseRatio:    decimal.NewFromFloat(cfg.PurchaseRatio),
		DefaultInventory: cfg.DefaultInventory,
		SegmentWidth:     cfg.SKUSegmentWidth,
		MaxCombinations:  cfg.MaxCombinations,
	}
}

func productContext(p *catalog.Product) ProductContext {
	return ProductContext{
		ProductID:   p.ID,
		ProductName: p.Name,
		ProductSKU:  p.SKU,
		Defaults: Pricing{
			PurchasePrice: p.PurchasePrice,
			SellingPrice:  p.SellingPrice,
			MRP:           p.MRP,
			GST:           p.GST,
		},
	}
}

func (s *service) Preview(ctx context.Context, productID string, req GenerateRequest) (*MatrixResult, error) {
	_, res, err := s.matrix(ctx, productID, req)
	return res, err
}

// Generate stores every combination that does not exist yet. Running it
// again with the same attributes creates nothing.
func (s *service) Generate(ctx context.Context, productID string, req GenerateRequest) (*MatrixResult, error) {
	product, res, err := s.matrix(ctx, productID, req)
	if err != nil {
		return nil, err
	}
	if res.Created() == 0 {
		return res, nil
	}

	now := s.now().UTC()
	for i, v := range res.ToCreate {
		v.ID = uuid.New()
		v.TempID = ""
		// Offsets keep the generation order when listing by created_at.
		v.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		v.UpdatedAt = v.CreatedAt
	}
	if err := s.repo.CreateBatch(ctx, res.ToCreate); err != nil {
		return nil, fmt.Errorf("failed to store variants: %w", err)
	}

	s.logger.Info("variants generated",
		zap.String("product_id", product.ID.String()),
		zap.Int("created", res.Created()),
		zap.Int("existing", res.Existing()),
	)
	skus := make([]string, len(res.ToCreate))
	for i, v := range res.ToCreate {
		skus[i] = v.SKU
	}
	s.publish(ctx, VariantsGenerated{
		ProductID: product.ID,
		VendorID:  product.VendorID,
		Created:   res.Created(),
		Existing:  res.Existing(),
		SKUs:      skus,
	})
	return res, nil
}

func (s *service) matrix(ctx context.Context, productID string, req GenerateRequest) (*catalog.Product, *MatrixResult, error) {
	set, err := NewAttributeSet(req.Attributes...)
	if err != nil {
		return nil, nil, err
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	existing, err := s.repo.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, nil, err
	}
	res, err := BuildMatrix(set, productContext(product), existing, s.opts)
	if err != nil {
		return nil, nil, err
	}
	return product, res, nil
}

func (s *service) List(ctx context.Context, productID string) ([]*Variant, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByProduct(ctx, product.ID)
}

func (s *service) Get(ctx context.Context, id string) (*Variant, error) {
	return s.load(ctx, id)
}

// Create stores one variant. The first variant of a product becomes its default.
func (s *service) Create(ctx context.Context, productID string, req CreateVariantRequest) (*Variant, error) {
	combo, err := selections(req.Attributes)
	if err != nil {
		return nil, err
	}
	if err := checkPrices(req.PurchasePrice, req.SellingPrice, req.MRP, req.GST); err != nil {
		return nil, err
	}
	if req.InventoryQuantity != nil && *req.InventoryQuantity < 0 {
		return nil, ErrInvalidInventory
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	key := CombinationKey(combo.Map())
	for _, e := range existing {
		if CombinationKey(e.Attributes) == key {
			return nil, ErrVariantExists
		}
	}

	pc := productContext(product)
	override(&pc.Defaults.PurchasePrice, req.PurchasePrice)
	override(&pc.Defaults.SellingPrice, req.SellingPrice)
	override(&pc.Defaults.MRP, req.MRP)
	override(&pc.Defaults.GST, req.GST)

	v := Synthesize(combo, pc, existing, 0, s.opts)
	v.ID = uuid.New()
	v.TempID = ""
	if sku := NormalizeSKU(req.SKU); sku != "" {
		v.SKU = sku
	}
	if req.InventoryQuantity != nil {
		v.InventoryQuantity = *req.InventoryQuantity
	}
	if req.Images != nil {
		v.Images = pq.StringArray(req.Images)
	}
	v.ImageURL = req.ImageURL
	v.CreatedAt = s.now().UTC()
	v.UpdatedAt = v.CreatedAt

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	s.publish(ctx, VariantChanged{Kind: EventVariantCreated, Variant: v})
	return v, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateVariantRequest) (*Variant, error) {
	v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SKU != nil {
		sku := NormalizeSKU(*req.SKU)
		if sku == "" {
			return nil, ErrInvalidSKU
		}
		v.SKU = sku
	}
	for _, p := range []struct {
		in  *decimal.Decimal
		out *decimal.NullDecimal
	}{
		{req.PurchasePrice, &v.PurchasePrice},
		{req.SellingPrice, &v.SellingPrice},
		{req.MRP, &v.MRP},
		{req.GST, &v.GST},
	} {
		if p.in == nil {
			continue
		}
		if p.in.IsNegative() {
			return nil, ErrInvalidPrice
		}
		*p.out = decimal.NewNullDecimal(*p.in)
	}
	if req.InventoryQuantity != nil {
		if *req.InventoryQuantity < 0 {
			return nil, ErrInvalidInventory
		}
		v.InventoryQuantity = *req.InventoryQuantity
	}
	if req.IsDefault != nil && *req.IsDefault {
		v.IsDefault = true
	}
	if req.Images != nil {
		v.Images = pq.StringArray(req.Images)
	}
	if req.ImageURL != nil {
		if *req.ImageURL == "" {
			v.ImageURL = nil
		} else {
			v.ImageURL = req.ImageURL
		}
	}
	v.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	s.publish(ctx, VariantChanged{Kind: EventVariantUpdated, Variant: v})
	return v, nil
}

func (s *service) SetDefault(ctx context.Context, id string) (*Variant, error) {
	v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.IsDefault {
		return v, nil
	}
	if err := s.repo.SetDefault(ctx, v.ProductID, v.ID); err != nil {
		return nil, err
	}
	v.IsDefault = true
	s.publish(ctx, VariantChanged{Kind: EventVariantUpdated, Variant: v})
	return v, nil
}

func (s *service) UpdateStock(ctx context.Context, id string, quantity int) (*Variant, error) {
	if quantity < 0 {
		return nil, ErrInvalidInventory
	}
	v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStock(ctx, v.ID, quantity); err != nil {
		return nil, err
	}
	v.InventoryQuantity = quantity
	s.publish(ctx, VariantChanged{Kind: EventVariantUpdated, Variant: v})
	return v, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	v, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, v.ID); err != nil {
		return err
	}
	s.publish(ctx, VariantDeleted{ProductID: v.ProductID, VariantID: v.ID, SKU: v.SKU})
	return nil
}

// load fetches a variant and checks that its product belongs to the caller.
func (s *service) load(ctx context.Context, id string) (*Variant, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	v, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if _, err := s.products.GetProduct(ctx, v.ProductID.String()); err != nil {
		return nil, err
	}
	return v, nil
}

// publish sends an event after the write has been committed. A broker
// failure or timeout is logged and does not fail the request.
func (s *service) publish(ctx context.Context, event events.Event) {
	ctx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
	defer cancel()
	if err := s.dispatcher.Dispatch(ctx, event); err != nil {
		s.logger.Warn("failed to dispatch event",
			zap.String("event_type", event.Type()),
			zap.String("key", event.Key()),
			zap.Error(err),
		)
	}
}

// selections orders a manual attribute map by name so the SKU is stable.
func selections(attrs Attributes) (Combination, error) {
	if len(attrs) == 0 {
		return nil, ErrNoAttributeValues
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	slices.Sort(names)

	combo := make(Combination, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		n := strings.TrimSpace(name)
		if n == "" {
			return nil, ErrEmptyAttributeName
		}
		if seen[strings.ToLower(n)] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAttributeName, n)
		}
		seen[strings.ToLower(n)] = true
		value := strings.TrimSpace(attrs[name])
		if value == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptyAttributeValue, n)
		}
		combo = append(combo, Selection{Name: n, Value: value})
	}
	return combo, nil
}

func checkPrices(prices ...decimal.NullDecimal) error {
	for _, p := range prices {
		if p.Valid && p.Decimal.IsNegative() {
			return ErrInvalidPrice
		}
	}
	return nil
}

func override(dst *decimal.NullDecimal, src decimal.NullDecimal) {
	if src.Valid {
		*dst = src
	}
}
