package order

import "time"

type Order struct {
	ID     int64  `json:"id"`
	Note   string `json:"note"`
	Status Status `json:"status"`
	// Charged is set once, at settlement.
	Charged   *int64    `json:"charged,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Items     []Item    `json:"items"`
}

// AllReady reports whether every item has been checked off by the kitchen.
func (o *Order) AllReady() bool {
	for _, it := range o.Items {
		if !it.Ready {
			return false
		}
	}
	return len(o.Items) > 0
}

type Item struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	Quantity    int     `json:"quantity"`
	ModifierIDs []int64 `json:"modifier_ids"`
	// UnitPrice is product + modifier prices as seen when the order was placed.
	UnitPrice int64 `json:"unit_price"`
	Ready     bool  `json:"ready"`
}
