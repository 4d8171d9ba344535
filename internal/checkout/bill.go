package checkout

import "github.com/MikeMC777/qsr-pos/internal/money"

// DefaultTax is the flat tax added once per checkout, in cents.
const DefaultTax int64 = 175

// Bill is the register's view of a checkout. Remaining goes negative when change is
// due.
type Bill struct {
	Subtotal    int64       `json:"subtotal"`
	Tax         int64       `json:"tax"`
	Tips        int64       `json:"tips"`
	BalanceDue  int64       `json:"balance_due"`
	Tendered    int64       `json:"tendered"`
	Remaining   int64       `json:"remaining"`
	Splits      []int64     `json:"splits"`
	TipsWarning bool        `json:"tips_warning"`
	PaymentType PaymentType `json:"payment_type"`
	Input       string      `json:"input"`
}

func NewBill(subtotal, tax int64, t *Tender, splitCount int) Bill {
	if t == nil {
		t = NewTender()
	}
	due := subtotal + tax + t.Tips()
	return Bill{
		Subtotal:    subtotal,
		Tax:         tax,
		Tips:        t.Tips(),
		BalanceDue:  due,
		Tendered:    t.Tendered(),
		Remaining:   due - t.Tendered(),
		Splits:      money.SplitEvenly(due, splitCount),
		TipsWarning: t.Tips() > subtotal,
		PaymentType: t.PaymentType(),
		Input:       t.Input(),
	}
}

// Formatted renders every amount the way the register displays it.
func (b Bill) Formatted() map[string]string {
	return map[string]string{
		"subtotal":    money.Format(b.Subtotal),
		"tax":         money.Format(b.Tax),
		"tips":        money.Format(b.Tips),
		"balance_due": money.Format(b.BalanceDue),
		"tendered":    money.Format(b.Tendered),
		"remaining":   money.Format(b.Remaining),
	}
}
