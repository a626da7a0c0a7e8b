package service

import (
	"math"

	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/catalog/domain/model"
)

// UnlimitedStock is the reserved predicted-stock value the catalog API sends
// for variants whose availability is not production-constrained.
const UnlimitedStock = 999

// QuantityUnconstrained is returned by AvailableQuantity when no stock model
// limits the variant.
const QuantityUnconstrained = math.MaxInt32

type BlockReason int

const (
	// StockDepleted means the primary ingredient has no stock left at all.
	StockDepleted BlockReason = iota
	// InsufficientForOneUnit means the remaining primary-ingredient stock
	// cannot produce even a single unit.
	InsufficientForOneUnit
)

func (r BlockReason) String() string {
	switch r {
	case StockDepleted:
		return "stock depleted"
	case InsufficientForOneUnit:
		return "insufficient for one unit"
	}
	return "unknown"
}

// BlockingIngredient reports which composition line prevents a variant from
// being sold, and why.
type BlockingIngredient struct {
	Line   model.CompositionLine
	Reason BlockReason
}

// PrimaryLine selects the composition line that gates sellability: the line
// flagged as primary, falling back to the first line in declaration order.
func PrimaryLine(v model.Variant) (model.CompositionLine, bool) {
	if len(v.Compositions) == 0 {
		return model.CompositionLine{}, false
	}
	for _, line := range v.Compositions {
		if line.IsPrimary {
			return line, true
		}
	}
	return v.Compositions[0], true
}

// FindBlockingIngredient returns nil when the variant is sellable. Only the
// primary ingredient is consulted; secondary ingredients never block a sale.
func FindBlockingIngredient(v model.Variant) *BlockingIngredient {
	primary, ok := PrimaryLine(v)
	if !ok {
		return nil
	}
	if primary.IngredientStock <= 0 {
		return &BlockingIngredient{Line: primary, Reason: StockDepleted}
	}
	if primary.AmountPerUnit > 0 && primary.IngredientStock < primary.AmountPerUnit {
		return &BlockingIngredient{Line: primary, Reason: InsufficientForOneUnit}
	}
	return nil
}

// AvailableQuantity computes the maximum additional units sellable right now:
// finished stock plus the units producible from the primary ingredient. A
// blocking ingredient forces zero regardless of the arithmetic; direct
// products and the unlimited sentinel are unconstrained.
func AvailableQuantity(v model.Variant) int {
	if v.Kind == model.DirectProduct || v.PredictedStock == UnlimitedStock {
		return QuantityUnconstrained
	}
	primary, ok := PrimaryLine(v)
	if !ok {
		return v.FinishedStock
	}
	if FindBlockingIngredient(v) != nil {
		return 0
	}
	if primary.AmountPerUnit <= 0 {
		// Nothing is consumed per unit, so this ingredient does not
		// constrain the quantity.
		return QuantityUnconstrained
	}
	return v.FinishedStock + int(math.Floor(primary.IngredientStock/primary.AmountPerUnit))
}
