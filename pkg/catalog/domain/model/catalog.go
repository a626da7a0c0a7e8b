package model

import "errors"

var (
	ErrVariantNotFound = errors.New("variant not found")
)

// VariantKind is decided once when the catalog is ingested and never
// re-derived from the variant ID afterwards.
type VariantKind int

const (
	// FinishedGood is sold purely from already-produced stock.
	FinishedGood VariantKind = iota
	// Composed is produced from ingredients and gated by the primary one.
	Composed
	// DirectProduct is sold as-is, with no production constraint.
	DirectProduct
)

// DirectPrefix is the reserved variant-ID prefix the catalog API uses to mark
// direct products.
const DirectPrefix = "direct-"

// PredictedStockUnknown marks a variant whose predicted stock was not
// precomputed by the server; availability is then derived locally.
const PredictedStockUnknown = -1

type Product struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Variants []Variant `json:"variants"`
}

type Variant struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	UnitPrice      int64             `json:"unitPrice"`
	FinishedStock  int               `json:"finishedStock"`
	PredictedStock int               `json:"predictedStock"`
	Kind           VariantKind       `json:"kind"`
	Compositions   []CompositionLine `json:"compositions,omitempty"`
}

type CompositionLine struct {
	IngredientID    string  `json:"ingredientId"`
	IngredientName  string  `json:"ingredientName"`
	IngredientStock float64 `json:"ingredientStock"`
	AmountPerUnit   float64 `json:"amountPerUnit"`
	IsPrimary       bool    `json:"isPrimary"`
}
