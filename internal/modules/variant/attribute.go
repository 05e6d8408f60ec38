package variant

import (
	"fmt"
	"slices"
	"strings"
)

// Attribute is one axis of variation, e.g. Color or Size.
type Attribute struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
	// IsColor only changes how the dashboard renders the values.
	IsColor bool `json:"is_color,omitempty"`
}

// AttributeSet is an ordered list of attributes. The order decides both the
// enumeration order of combinations and the order of SKU segments.
//
// Mutating methods return a new set and leave the receiver untouched.
type AttributeSet struct {
	attrs []Attribute
}

// NewAttributeSet builds a set by inserting attrs in order, applying the same
// checks as Add.
func NewAttributeSet(attrs ...Attribute) (AttributeSet, error) {
	var set AttributeSet
	for _, a := range attrs {
		next, err := set.Add(a)
		if err != nil {
			return AttributeSet{}, err
		}
		set = next
	}
	return set, nil
}

// Attributes returns a copy of the attributes in insertion order.
func (s AttributeSet) Attributes() []Attribute {
	out := make([]Attribute, len(s.attrs))
	for i, a := range s.attrs {
		out[i] = cloneAttribute(a)
	}
	return out
}

func (s AttributeSet) Len() int { return len(s.attrs) }

// Add appends attr. Names and values are trimmed; empty or case-insensitive
// duplicate names and values are rejected.
func (s AttributeSet) Add(attr Attribute) (AttributeSet, error) {
	name := strings.TrimSpace(attr.Name)
	if name == "" {
		return s, ErrEmptyAttributeName
	}
	if s.indexOf(name) >= 0 {
		return s, fmt.Errorf("%w: %q", ErrDuplicateAttributeName, name)
	}

	added := Attribute{Name: name, IsColor: attr.IsColor, Values: make([]string, 0, len(attr.Values))}
	for _, v := range attr.Values {
		value, err := checkValue(added.Values, name, v)
		if err != nil {
			return s, err
		}
		added.Values = append(added.Values, value)
	}

	next := s.clone()
	next.attrs = append(next.attrs, added)
	return next, nil
}

// AddValue appends value to the attribute called name.
func (s AttributeSet) AddValue(name, value string) (AttributeSet, error) {
	i := s.indexOf(name)
	if i < 0 {
		return s, fmt.Errorf("%w: %q", ErrAttributeNotFound, name)
	}
	v, err := checkValue(s.attrs[i].Values, s.attrs[i].Name, value)
	if err != nil {
		return s, err
	}
	next := s.clone()
	next.attrs[i].Values = append(next.attrs[i].Values, v)
	return next, nil
}

// Remove drops the attribute at index. An out of range index returns an
// unchanged copy.
func (s AttributeSet) Remove(index int) AttributeSet {
	next := s.clone()
	if index < 0 || index >= len(next.attrs) {
		return next
	}
	next.attrs = slices.Delete(next.attrs, index, index+1)
	return next
}

// RemoveValue drops value (case-insensitive) from the attribute called name.
func (s AttributeSet) RemoveValue(name, value string) AttributeSet {
	next := s.clone()
	i := next.indexOf(name)
	if i < 0 {
		return next
	}
	next.attrs[i].Values = slices.DeleteFunc(next.attrs[i].Values, func(v string) bool {
		return strings.EqualFold(v, strings.TrimSpace(value))
	})
	return next
}

// Validate checks the set is ready for generation.
func (s AttributeSet) Validate() error {
	hasValues := false
	seen := make(map[string]struct{}, len(s.attrs))
	for _, a := range s.attrs {
		key := strings.ToLower(a.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateAttributeName, a.Name)
		}
		seen[key] = struct{}{}

		values := make(map[string]struct{}, len(a.Values))
		for _, v := range a.Values {
			vk := strings.ToLower(v)
			if _, dup := values[vk]; dup {
				return fmt.Errorf("%w: %q in %q", ErrDuplicateAttributeValue, v, a.Name)
			}
			values[vk] = struct{}{}
		}
		if len(a.Values) > 0 {
			hasValues = true
		}
	}
	if !hasValues {
		return ErrNoAttributeValues
	}
	return nil
}

func (s AttributeSet) indexOf(name string) int {
	name = strings.TrimSpace(name)
	return slices.IndexFunc(s.attrs, func(a Attribute) bool {
		return strings.EqualFold(a.Name, name)
	})
}

func (s AttributeSet) clone() AttributeSet {
	return AttributeSet{attrs: s.Attributes()}
}

func cloneAttribute(a Attribute) Attribute {
	a.Values = slices.Clone(a.Values)
	return a
}

func checkValue(existing []string, attrName, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("%w for %q", ErrEmptyAttributeValue, attrName)
	}
	if slices.ContainsFunc(existing, func(v string) bool { return strings.EqualFold(v, value) }) {
		return "", fmt.Errorf("%w: %q in %q", ErrDuplicateAttributeValue, value, attrName)
	}
	return value, nil
}
