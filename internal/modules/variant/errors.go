package variant

import "errors"

var (
	ErrNoAttributeValues       = errors.New("at least one attribute needs a value")
	ErrDuplicateAttributeName  = errors.New("attribute name already exists")
	ErrDuplicateAttributeValue = errors.New("attribute value already exists")
	ErrEmptyAttributeName      = errors.New("attribute name is required")
	ErrEmptyAttributeValue     = errors.New("attribute value is required")
	ErrAttributeNotFound       = errors.New("attribute not found")
	ErrTooManyCombinations     = errors.New("attribute set expands to too many combinations")

	// ErrInvalidAttributeSet means the generator was handed a set that
	// validation should have rejected.
	ErrInvalidAttributeSet = errors.New("invalid attribute set")

	ErrVariantNotFound  = errors.New("variant not found")
	ErrVariantExists    = errors.New("a variant with these attributes already exists")
	ErrInvalidPrice     = errors.New("price must be zero or positive")
	ErrInvalidInventory = errors.New("inventory quantity must be zero or positive")
	ErrInvalidSKU       = errors.New("sku is required")
	ErrInvalidID        = errors.New("invalid id")
)

// IsValidation reports whether err is caused by bad user input rather
// than a storage or programming failure.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrNoAttributeValues, ErrDuplicateAttributeName, ErrDuplicateAttributeValue,
		ErrEmptyAttributeName, ErrEmptyAttributeValue, ErrAttributeNotFound,
		ErrTooManyCombinations,
		ErrInvalidPrice, ErrInvalidInventory, ErrInvalidSKU,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
