package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/catalog/domain/model"
	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/catalog/domain/service"
)

func composedVariant(finished int, ingredientStock, amountPerUnit float64) model.Variant {
	return model.Variant{
		ID:             "v-composed",
		Name:           "Es Kopi Susu",
		UnitPrice:      18000,
		FinishedStock:  finished,
		PredictedStock: model.PredictedStockUnknown,
		Kind:           model.Composed,
		Compositions: []model.CompositionLine{
			{IngredientID: "ing-1", IngredientName: "kopi", IngredientStock: ingredientStock, AmountPerUnit: amountPerUnit, IsPrimary: true},
			{IngredientID: "ing-2", IngredientName: "susu", IngredientStock: 0, AmountPerUnit: 50},
		},
	}
}

func finishedVariant(finished int) model.Variant {
	return model.Variant{
		ID:             "v-finished",
		Name:           "Roti Bakar",
		UnitPrice:      12000,
		FinishedStock:  finished,
		PredictedStock: model.PredictedStockUnknown,
		Kind:           model.FinishedGood,
	}
}

func TestFindBlockingIngredient(t *testing.T) {
	t.Run("no compositions means no ingredient constraint", func(t *testing.T) {
		assert.Nil(t, service.FindBlockingIngredient(finishedVariant(3)))
	})

	t.Run("depleted primary blocks regardless of finished stock", func(t *testing.T) {
		v := composedVariant(2, 0, 3)
		blocked := service.FindBlockingIngredient(v)
		require.NotNil(t, blocked)
		assert.Equal(t, service.StockDepleted, blocked.Reason)
		assert.Equal(t, "ing-1", blocked.Line.IngredientID)
	})

	t.Run("primary that cannot produce one unit blocks", func(t *testing.T) {
		v := composedVariant(2, 2, 3)
		blocked := service.FindBlockingIngredient(v)
		require.NotNil(t, blocked)
		assert.Equal(t, service.InsufficientForOneUnit, blocked.Reason)
	})

	t.Run("healthy primary does not block", func(t *testing.T) {
		assert.Nil(t, service.FindBlockingIngredient(composedVariant(2, 9, 3)))
	})

	t.Run("secondary ingredients never block", func(t *testing.T) {
		// The susu line has zero stock in every composed fixture.
		assert.Nil(t, service.FindBlockingIngredient(composedVariant(0, 100, 3)))
	})

	t.Run("falls back to the first line when none is flagged", func(t *testing.T) {
		v := composedVariant(0, 5, 1)
		v.Compositions[0].IsPrimary = false
		blocked := service.FindBlockingIngredient(v)
		require.Nil(t, blocked)

		v.Compositions[0].IngredientStock = 0
		blocked = service.FindBlockingIngredient(v)
		require.NotNil(t, blocked)
		assert.Equal(t, "ing-1", blocked.Line.IngredientID)
	})

	t.Run("zero amount per unit still blocks on depleted stock", func(t *testing.T) {
		v := composedVariant(0, 0, 0)
		blocked := service.FindBlockingIngredient(v)
		require.NotNil(t, blocked)
		assert.Equal(t, service.StockDepleted, blocked.Reason)

		v.Compositions[0].IngredientStock = 0.5
		assert.Nil(t, service.FindBlockingIngredient(v))
	})
}

func TestAvailableQuantity(t *testing.T) {
	t.Run("finished goods sell from finished stock only", func(t *testing.T) {
		assert.Equal(t, 7, service.AvailableQuantity(finishedVariant(7)))
		assert.Equal(t, 0, service.AvailableQuantity(finishedVariant(0)))
	})

	t.Run("composed adds producible units to finished stock", func(t *testing.T) {
		// 2 finished + floor(9/3) producible = 5
		assert.Equal(t, 5, service.AvailableQuantity(composedVariant(2, 9, 3)))
		// floor(10/3) = 3
		assert.Equal(t, 5, service.AvailableQuantity(composedVariant(2, 10, 3)))
	})

	t.Run("blocking ingredient dominates the arithmetic", func(t *testing.T) {
		assert.Equal(t, 0, service.AvailableQuantity(composedVariant(2, 0, 3)))
	})

	t.Run("direct products are unconstrained", func(t *testing.T) {
		v := finishedVariant(0)
		v.Kind = model.DirectProduct
		assert.Equal(t, service.QuantityUnconstrained, service.AvailableQuantity(v))
	})

	t.Run("unlimited sentinel is unconstrained", func(t *testing.T) {
		v := finishedVariant(0)
		v.PredictedStock = service.UnlimitedStock
		assert.Equal(t, service.QuantityUnconstrained, service.AvailableQuantity(v))
	})

	t.Run("zero amount per unit does not divide by zero", func(t *testing.T) {
		v := composedVariant(2, 4, 0)
		assert.Equal(t, service.QuantityUnconstrained, service.AvailableQuantity(v))
	})

	t.Run("fractional ingredient stock floors the producible units", func(t *testing.T) {
		assert.Equal(t, 1, service.AvailableQuantity(composedVariant(0, 2.5, 1.5)))
	})
}
