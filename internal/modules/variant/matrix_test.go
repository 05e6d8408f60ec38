package variant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func skus(vs []*Variant) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.SKU
	}
	return out
}

func countDefaults(vs []*Variant) int {
	n := 0
	for _, v := range vs {
		if v.IsDefault {
			n++
		}
	}
	return n
}

func teeSet(t *testing.T) AttributeSet {
	return mustSet(t,
		Attribute{Name: "Color", Values: []string{"Red", "Blue"}, IsColor: true},
		Attribute{Name: "Size", Values: []string{"S", "M", "L"}},
	)
}

func TestBuildMatrix(t *testing.T) {
	product := ProductContext{ProductID: uuid.New(), ProductName: "Classic Tee"}

	t.Run("ClassicTeeScenario", func(t *testing.T) {
		res, err := BuildMatrix(teeSet(t), product, nil, DefaultOptions())
		require.NoError(t, err)
		require.Equal(t, 6, res.Created())
		require.Equal(t, 0, res.Existing())
		require.Equal(t, 6, res.Total())
		require.Equal(t, []string{
			"CLA-RED-S", "CLA-RED-M", "CLA-RED-L",
			"CLA-BLU-S", "CLA-BLU-M", "CLA-BLU-L",
		}, skus(res.ToCreate))
		require.Equal(t, 1, countDefaults(res.ToCreate))
		require.True(t, res.ToCreate[0].IsDefault)
		require.Equal(t, "CLA-RED-S", res.ToCreate[0].SKU)
	})

	t.Run("NoDefaultWhenVariantsExist", func(t *testing.T) {
		existing := []*Variant{{ID: uuid.New(), Attributes: Attributes{"Color": "Green", "Size": "S"}, IsDefault: true}}
		res, err := BuildMatrix(teeSet(t), product, existing, DefaultOptions())
		require.NoError(t, err)
		require.Equal(t, 6, res.Created())
		require.Equal(t, 0, countDefaults(res.ToCreate))
	})

	t.Run("SecondRunFindsEverything", func(t *testing.T) {
		first, err := BuildMatrix(teeSet(t), product, nil, DefaultOptions())
		require.NoError(t, err)

		stored := make([]*Variant, 0, first.Created())
		for _, v := range first.ToCreate {
			saved := *v
			saved.ID = uuid.New()
			stored = append(stored, &saved)
		}

		second, err := BuildMatrix(teeSet(t), product, stored, DefaultOptions())
		require.NoError(t, err)
		require.Empty(t, second.ToCreate)
		require.Equal(t, 6, second.Existing())
	})

	t.Run("AddingAValueOnlyCreatesTheNewRow", func(t *testing.T) {
		first, err := BuildMatrix(teeSet(t), product, nil, DefaultOptions())
		require.NoError(t, err)

		bigger, err := teeSet(t).AddValue("Size", "XL")
		require.NoError(t, err)
		second, err := BuildMatrix(bigger, product, first.ToCreate, DefaultOptions())
		require.NoError(t, err)
		require.Equal(t, []string{"CLA-RED-XL", "CLA-BLU-XL"}, skus(second.ToCreate))
		require.Equal(t, 6, second.Existing())
	})

	t.Run("RespectsConfiguredLimit", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MaxCombinations = 5
		res, err := BuildMatrix(teeSet(t), product, nil, opts)
		require.ErrorIs(t, err, ErrTooManyCombinations)
		require.True(t, IsValidation(err))
		require.Nil(t, res)

		opts.MaxCombinations = 6
		res, err = BuildMatrix(teeSet(t), product, nil, opts)
		require.NoError(t, err)
		require.Equal(t, 6, res.Created())
	})

	t.Run("HugeSetFailsInsteadOfPanicking", func(t *testing.T) {
		require.NotPanics(t, func() {
			res, err := BuildMatrix(wideSet(t, 20, 10), product, nil, DefaultOptions())
			require.ErrorIs(t, err, ErrTooManyCombinations)
			require.Nil(t, res)
		})
	})

	t.Run("EmptyGuard", func(t *testing.T) {
		set := mustSet(t, Attribute{Name: "Color"}, Attribute{Name: "Size"})
		res, err := BuildMatrix(set, product, nil, DefaultOptions())
		require.ErrorIs(t, err, ErrNoAttributeValues)
		require.Nil(t, res)
	})
}

func TestPartition(t *testing.T) {
	t.Run("IgnoresAttributeOrder", func(t *testing.T) {
		require.Equal(t,
			CombinationKey(Attributes{"Color": "Red", "Size": "S"}),
			CombinationKey(Attributes{"Size": "S", "Color": "Red"}),
		)
	})

	t.Run("ComparesCaseSensitively", func(t *testing.T) {
		existing := []*Variant{{Attributes: Attributes{"Color": "red"}}}
		generated := []*Variant{{Attributes: Attributes{"Color": "Red"}}}
		res := Partition(generated, existing)
		require.Equal(t, 1, res.Created())
		require.Equal(t, 0, res.Existing())
	})

	t.Run("DifferentAttributeCountIsNotAMatch", func(t *testing.T) {
		existing := []*Variant{{Attributes: Attributes{"Color": "Red"}}}
		generated := []*Variant{{Attributes: Attributes{"Color": "Red", "Size": "S"}}}
		require.Equal(t, 1, Partition(generated, existing).Created())
	})

	t.Run("KeepsGeneratedOrder", func(t *testing.T) {
		a := &Variant{SKU: "A", Attributes: Attributes{"Size": "S"}}
		b := &Variant{SKU: "B", Attributes: Attributes{"Size": "M"}}
		c := &Variant{SKU: "C", Attributes: Attributes{"Size": "L"}}
		res := Partition([]*Variant{a, b, c}, []*Variant{{Attributes: Attributes{"Size": "M"}}})
		require.Equal(t, []string{"A", "C"}, skus(res.ToCreate))
		require.Equal(t, []string{"B"}, skus(res.AlreadyExists))
	})

	t.Run("EmptyInputs", func(t *testing.T) {
		res := Partition(nil, nil)
		require.NotNil(t, res.ToCreate)
		require.NotNil(t, res.AlreadyExists)
		require.Equal(t, 0, res.Total())
	})
}
