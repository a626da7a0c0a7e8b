package service

import (
	"sync"

	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/cart/domain/model"
	catalogmodel "github.com/Rifaiiii04/ims-inventory-sub001/pkg/catalog/domain/model"
	availability "github.com/Rifaiiii04/ims-inventory-sub001/pkg/catalog/domain/service"
	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/common/domain"
)

type Cart interface {
	Add(variant catalogmodel.Variant, quantity int, product *catalogmodel.Product) error
	UpdateQuantity(variantID string, quantity int) error
	Remove(variantID string)
	Clear()
	Total() int64
	Lines() []model.Line
}

func NewCart(dispatcher domain.EventDispatcher) Cart {
	return &cart{
		dispatcher: dispatcher,
		index:      make(map[string]int),
	}
}

type cart struct {
	mu         sync.Mutex
	dispatcher domain.EventDispatcher
	lines      []model.Line
	index      map[string]int // variant ID -> position in lines
}

// Add appends quantity units of the variant to the cart. A depleted primary
// ingredient vetoes the add before anything else, direct products included. A
// fresh add must be satisfiable in full; an increment on an existing line is
// clamped to the remaining availability and rejected only when nothing
// remains.
func (c *cart) Add(variant catalogmodel.Variant, quantity int, product *catalogmodel.Product) error {
	if quantity <= 0 {
		return nil
	}
	if blocked := availability.FindBlockingIngredient(variant); blocked != nil {
		return model.ErrBlockedByIngredient
	}
	available := availability.AvailableQuantity(variant)
	constrained := available != availability.QuantityUnconstrained

	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.index[variant.ID]; ok {
		line := &c.lines[i]
		increment := quantity
		if constrained {
			if line.Quantity+quantity > available {
				increment = available - line.Quantity
			}
			if increment <= 0 {
				return model.ErrInsufficientStock
			}
		}
		line.Quantity += increment
		line.Subtotal = line.UnitPrice * int64(line.Quantity)
		_ = c.dispatcher.Dispatch(model.ItemAddedToCart{
			VariantID: variant.ID,
			Added:     increment,
			Quantity:  line.Quantity,
		})
		return nil
	}

	if constrained && quantity > available {
		return model.ErrInsufficientStock
	}
	c.index[variant.ID] = len(c.lines)
	c.lines = append(c.lines, model.Line{
		Variant:   variant,
		Product:   product,
		Quantity:  quantity,
		UnitPrice: variant.UnitPrice,
		Subtotal:  variant.UnitPrice * int64(quantity),
	})
	_ = c.dispatcher.Dispatch(model.ItemAddedToCart{
		VariantID: variant.ID,
		Added:     quantity,
		Quantity:  quantity,
	})
	return nil
}

// UpdateQuantity sets the line to quantity, clamping to current availability
// instead of rejecting. A quantity of zero or less removes the line.
func (c *cart) UpdateQuantity(variantID string, quantity int) error {
	if quantity <= 0 {
		c.Remove(variantID)
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[variantID]
	if !ok {
		return model.ErrLineNotFound
	}
	line := &c.lines[i]

	available := availability.AvailableQuantity(line.Variant)
	if available != availability.QuantityUnconstrained && quantity > available {
		quantity = available
	}
	if quantity <= 0 {
		c.removeLocked(variantID)
		return nil
	}
	line.Quantity = quantity
	line.Subtotal = line.UnitPrice * int64(quantity)
	_ = c.dispatcher.Dispatch(model.CartQuantityChanged{
		VariantID: variantID,
		Quantity:  quantity,
	})
	return nil
}

func (c *cart) Remove(variantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(variantID)
}

func (c *cart) removeLocked(variantID string) {
	i, ok := c.index[variantID]
	if !ok {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, variantID)
	for pos := i; pos < len(c.lines); pos++ {
		c.index[c.lines[pos].Variant.ID] = pos
	}
	_ = c.dispatcher.Dispatch(model.ItemRemovedFromCart{VariantID: variantID})
}

func (c *cart) Clear() {
	c.mu.Lock()
	cleared := len(c.lines)
	c.lines = nil
	c.index = make(map[string]int)
	c.mu.Unlock()
	_ = c.dispatcher.Dispatch(model.CartCleared{Lines: cleared})
}

func (c *cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for _, line := range c.lines {
		total += line.Subtotal
	}
	return total
}

func (c *cart) Lines() []model.Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]model.Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}
