package checkout

// KeysRequest feeds keypad keys, e.g. "20." or "7".
// swagger:model KeysRequest
type KeysRequest struct {
	Keys string `json:"keys" example:"20"`
}

// QuickTenderRequest adds a preset bill amount.
// swagger:model QuickTenderRequest
type QuickTenderRequest struct {
	Amount string `json:"amount" example:"20.00"`
}

// PaymentTypeRequest selects cash or credit.
// swagger:model PaymentTypeRequest
type PaymentTypeRequest struct {
	PaymentType string `json:"payment_type" example:"cash"`
}

// SplitRequest sets how many ways the balance is split.
// swagger:model SplitRequest
type SplitRequest struct {
	Count int `json:"count" example:"3"`
}

// SettleRequest lists the orders paid by the current tender.
// swagger:model SettleRequest
type SettleRequest struct {
	OrderIDs []int64 `json:"order_ids" example:"41,42"`
}
