package variant

import "fmt"

// Selection is one chosen value of one attribute.
type Selection struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Combination holds one selection per non-empty attribute, in attribute set order.
type Combination []Selection

// Map returns the combination as attribute name to value.
func (c Combination) Map() Attributes {
	m := make(Attributes, len(c))
	for _, sel := range c {
		m[sel.Name] = sel.Value
	}
	return m
}

// DefaultMaxCombinations caps a single matrix run when no limit is configured.
const DefaultMaxCombinations = 5000

// CountCombinations returns how many combinations set expands to. It fails
// with ErrTooManyCombinations as soon as the count passes limit, before any
// multiplication can overflow. A limit of zero or less means
// DefaultMaxCombinations.
func CountCombinations(set AttributeSet, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultMaxCombinations
	}
	total, axes := 1, 0
	for _, a := range set.attrs {
		n := len(a.Values)
		if n == 0 {
			continue
		}
		axes++
		if total > limit/n {
			return 0, fmt.Errorf("%w: more than %d", ErrTooManyCombinations, limit)
		}
		total *= n
	}
	if axes == 0 {
		return 0, fmt.Errorf("%w: every attribute is empty", ErrInvalidAttributeSet)
	}
	return total, nil
}

// Combinations returns the cartesian product of the set's values. Attributes
// without values are skipped. The first attribute is the outermost loop, so
// the last attribute's values vary fastest. Sets expanding past limit are
// rejected up front, see CountCombinations.
func Combinations(set AttributeSet, limit int) ([]Combination, error) {
	total, err := CountCombinations(set, limit)
	if err != nil {
		return nil, err
	}
	axes := make([]Attribute, 0, len(set.attrs))
	for _, a := range set.attrs {
		if len(a.Values) > 0 {
			axes = append(axes, a)
		}
	}

	out := make([]Combination, 0, total)
	idx := make([]int, len(axes))
	for {
		combo := make(Combination, len(axes))
		for i, a := range axes {
			combo[i] = Selection{Name: a.Name, Value: a.Values[idx[i]]}
		}
		out = append(out, combo)

		// advance like an odometer, rightmost digit first
		i := len(axes) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(axes[i].Values) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return out, nil
		}
	}
}
