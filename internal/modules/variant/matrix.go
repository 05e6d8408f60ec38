package variant

import (
	"slices"
	"strings"
)

// CombinationKey canonicalizes attrs so that attribute order does not matter.
// Names and values are compared case-sensitively.
func CombinationKey(attrs Attributes) string {
	pairs := make([]string, 0, len(attrs))
	for name, value := range attrs {
		pairs = append(pairs, name+"\x1f"+value)
	}
	slices.Sort(pairs)
	return strings.Join(pairs, "\x1e")
}

// Partition splits generated into combinations that are not stored yet and
// those already present in existing.
func Partition(generated, existing []*Variant) *MatrixResult {
	stored := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		stored[CombinationKey(v.Attributes)] = struct{}{}
	}

	res := &MatrixResult{ToCreate: []*Variant{}, AlreadyExists: []*Variant{}}
	for _, v := range generated {
		if _, ok := stored[CombinationKey(v.Attributes)]; ok {
			res.AlreadyExists = append(res.AlreadyExists, v)
			continue
		}
		res.ToCreate = append(res.ToCreate, v)
	}
	return res
}

// BuildMatrix validates set, expands it into combinations, synthesizes one
// variant per combination and drops the ones existing already covers. It
// either returns every variant or an error, never a partial result. Sets
// larger than opts.MaxCombinations fail with ErrTooManyCombinations.
func BuildMatrix(set AttributeSet, product ProductContext, existing []*Variant, opts Options) (*MatrixResult, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	combos, err := Combinations(set, opts.MaxCombinations)
	if err != nil {
		return nil, err
	}
	generated := make([]*Variant, len(combos))
	for i, combo := range combos {
		generated[i] = Synthesize(combo, product, existing, i, opts)
	}
	return Partition(generated, existing), nil
}
