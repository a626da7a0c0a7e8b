package model

type OrderSubmitted struct {
	Reference string `json:"reference"`
	OrderID   string `json:"orderId"`
	Total     int64  `json:"total"`
	Items     int    `json:"items"`
}

func (e OrderSubmitted) Type() string { return "OrderSubmitted" }

type OrderRejected struct {
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

func (e OrderRejected) Type() string { return "OrderRejected" }
