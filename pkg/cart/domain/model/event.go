package model

type ItemAddedToCart struct {
	VariantID string `json:"variantId"`
	Added     int    `json:"added"`
	Quantity  int    `json:"quantity"`
}

func (e ItemAddedToCart) Type() string { return "ItemAddedToCart" }

type CartQuantityChanged struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

func (e CartQuantityChanged) Type() string { return "CartQuantityChanged" }

type ItemRemovedFromCart struct {
	VariantID string `json:"variantId"`
}

func (e ItemRemovedFromCart) Type() string { return "ItemRemovedFromCart" }

type CartCleared struct {
	Lines int `json:"lines"`
}

func (e CartCleared) Type() string { return "CartCleared" }
