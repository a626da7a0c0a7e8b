package model

import (
	"errors"

	catalog "github.com/Rifaiiii04/ims-inventory-sub001/pkg/catalog/domain/model"
)

var (
	ErrBlockedByIngredient = errors.New("primary ingredient is out of stock")
	ErrInsufficientStock   = errors.New("insufficient stock quantity")
	ErrLineNotFound        = errors.New("cart line not found")
)

// Line is one cart row. Variant is a snapshot taken at add time and is never
// re-read from a later catalog refresh; Product is kept for display only.
type Line struct {
	Variant   catalog.Variant  `json:"variant"`
	Product   *catalog.Product `json:"product,omitempty"`
	Quantity  int              `json:"quantity"`
	UnitPrice int64            `json:"unitPrice"`
	Subtotal  int64            `json:"subtotal"`
}
