// Package receipt renders settled orders as plain text and hands them to a file or a
// network receipt printer.
package receipt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MikeMC777/qsr-pos/internal/money"
)

const width = 40

type Modifier struct {
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

type Line struct {
	Description string     `json:"description"`
	Quantity    int        `json:"quantity"`
	UnitPrice   int64      `json:"unit_price"`
	Modifiers   []Modifier `json:"modifiers"`
	Total       int64      `json:"total"`
}

// Receipt is a finalized settlement. All amounts are cents.
type Receipt struct {
	OrderIDs    []int64   `json:"order_ids"`
	Lines       []Line    `json:"lines"`
	Subtotal    int64     `json:"subtotal"`
	Tax         int64     `json:"tax"`
	Tips        int64     `json:"tips"`
	Total       int64     `json:"total"`
	Tendered    int64     `json:"tendered"`
	PaymentType string    `json:"payment_type"`
	IssuedAt    time.Time `json:"issued_at"`
}

// Change is what goes back to the customer; never negative.
func (r Receipt) Change() int64 {
	if c := r.Tendered - r.Total; c > 0 {
		return c
	}
	return 0
}

func Render(r Receipt) string {
	var b strings.Builder
	rule := strings.Repeat("-", width) + "\n"

	ids := make([]string, len(r.OrderIDs))
	for i, id := range r.OrderIDs {
		ids[i] = "#" + strconv.FormatInt(id, 10)
	}
	b.WriteString(center("RECEIPT"))
	b.WriteString(center("Order " + strings.Join(ids, ", ")))
	if !r.IssuedAt.IsZero() {
		b.WriteString(center(r.IssuedAt.Format("2006-01-02 15:04:05")))
	}
	b.WriteString(rule)

	for _, l := range r.Lines {
		row(&b, fmt.Sprintf("%dx %s", l.Quantity, l.Description), money.Format(l.Total))
		if l.Quantity > 1 {
			b.WriteString(fmt.Sprintf("    @ %s\n", money.Format(l.UnitPrice)))
		}
		for _, m := range l.Modifiers {
			label := "    + " + m.Description
			if m.Price == 0 {
				b.WriteString(label + "\n")
				continue
			}
			row(&b, label, money.Format(m.Price))
		}
	}

	b.WriteString(rule)
	row(&b, "Subtotal", money.Format(r.Subtotal))
	row(&b, "Tax", money.Format(r.Tax))
	if r.Tips > 0 {
		row(&b, "Tips", money.Format(r.Tips))
	}
	row(&b, "TOTAL", money.Format(r.Total))
	b.WriteString(rule)
	if r.PaymentType != "" {
		row(&b, "Payment", r.PaymentType)
	}
	row(&b, "Tendered", money.Format(r.Tendered))
	row(&b, "Change", money.Format(r.Change()))
	b.WriteString(center("Thank you!"))
	return b.String()
}

func row(b *strings.Builder, left, right string) {
	pad := width - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(left)
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(right)
	b.WriteByte('\n')
}

func center(s string) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s + "\n"
}
