package cart

// AddItemRequest adds one product with the chosen modifiers to a session cart.
// swagger:model AddItemRequest
type AddItemRequest struct {
	ProductID   int64   `json:"product_id"   example:"1"`
	ModifierIDs []int64 `json:"modifier_ids" example:"12,15"`
}

// QuantityRequest changes the quantity of one cart line by delta.
// swagger:model QuantityRequest
type QuantityRequest struct {
	Delta int `json:"delta" example:"-1"`
}

// View is the cart as shown on the order-entry screen.
// swagger:model CartView
type View struct {
	Lines    []LineItem `json:"lines"`
	Subtotal int64      `json:"subtotal"`
	Display  string     `json:"subtotal_display" example:"$14.25"`
}
