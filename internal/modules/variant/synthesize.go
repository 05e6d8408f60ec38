package variant

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const fallbackSKUBase = "PROD"

// Synthesize turns one combination into an unsaved variant. ordinal is the
// combination's position in the current batch and existing holds the
// product's stored variants.
func Synthesize(combo Combination, product ProductContext, existing []*Variant, ordinal int, opts Options) *Variant {
	return &Variant{
		TempID:            fmt.Sprintf("tmp-%d", ordinal),
		ProductID:         product.ProductID,
		Attributes:        combo.Map(),
		SKU:               BuildSKU(product, combo, opts.SegmentWidth),
		Pricing:           inheritPricing(product.Defaults, existing, opts.PurchaseRatio),
		InventoryQuantity: opts.DefaultInventory,
		IsDefault:         ordinal == 0 && len(existing) == 0,
		Images:            pq.StringArray{},
	}
}

// BuildSKU joins the product base token and one segment per selection with
// hyphens, e.g. CLA-RED-S.
func BuildSKU(product ProductContext, combo Combination, width int) string {
	base := strings.TrimSpace(product.ProductSKU)
	if base == "" {
		base = abbreviate(product.ProductName)
	}
	parts := make([]string, 0, len(combo)+1)
	parts = append(parts, base)
	for _, sel := range combo {
		if seg := skuSegment(sel.Value, width); seg != "" {
			parts = append(parts, seg)
		}
	}
	return NormalizeSKU(strings.Join(parts, "-"))
}

// NormalizeSKU trims s and replaces every run of whitespace with a hyphen.
func NormalizeSKU(s string) string {
	return strings.Join(strings.Fields(s), "-")
}

// abbreviate takes the first three letters or digits of name, uppercased.
func abbreviate(name string) string {
	var b strings.Builder
	n := 0
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		if n++; n == 3 {
			break
		}
	}
	if b.Len() == 0 {
		return fallbackSKUBase
	}
	return b.String()
}

func skuSegment(value string, width int) string {
	seg := []rune(strings.ToUpper(strings.TrimSpace(value)))
	if width > 0 && len(seg) > width {
		seg = seg[:width]
	}
	return strings.TrimSpace(string(seg))
}

// inheritPricing fills each price from the product defaults, then from the
// first stored sibling.
func inheritPricing(defaults Pricing, existing []*Variant, ratio decimal.Decimal) Pricing {
	var sibling Pricing
	if len(existing) > 0 && existing[0] != nil {
		sibling = existing[0].Pricing
	}
	p := Pricing{
		PurchasePrice: defaults.PurchasePrice,
		SellingPrice:  firstValid(defaults.SellingPrice, sibling.SellingPrice),
		MRP:           firstValid(defaults.MRP, sibling.MRP),
		GST:           firstValid(defaults.GST, sibling.GST),
	}
	if !p.PurchasePrice.Valid && p.SellingPrice.Valid && ratio.IsPositive() {
		p.PurchasePrice = decimal.NewNullDecimal(p.SellingPrice.Decimal.Mul(ratio).Round(2))
	}
	return p
}

func firstValid(values ...decimal.NullDecimal) decimal.NullDecimal {
	for _, v := range values {
		if v.Valid {
			return v
		}
	}
	return decimal.NullDecimal{}
}
