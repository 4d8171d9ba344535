package order

// CheckoutRequest commits a session cart as a new order.
// swagger:model CheckoutRequest
type CheckoutRequest struct {
	Note string `json:"note" example:"no ice"`
}

// NoteRequest sets an order note from the back office or the pending note of a session.
// swagger:model NoteRequest
type NoteRequest struct {
	Note string `json:"note" example:"customer picked up at window 2"`
}

// CreatedResponse returns the id of a committed order.
// swagger:model CreatedResponse
type CreatedResponse struct {
	OrderID int64 `json:"order_id" example:"42"`
}
