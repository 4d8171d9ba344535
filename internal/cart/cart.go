// Package cart aggregates an operator's selections before they become an order.
package cart

import (
	"errors"
	"fmt"
	"sort"

	"github.com/MikeMC777/qsr-pos/internal/catalog"
)

var (
	ErrUnknownModifier = errors.New("modifier not available for product")
	ErrSingleSelect    = errors.New("only one modifier allowed in group")
	ErrLineNotFound    = errors.New("cart line not found")
)

// SelectedModifier is captured at selection time; later catalog edits do not change it.
type SelectedModifier struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

type LineItem struct {
	ProductID   int64              `json:"product_id"`
	ProductName string             `json:"product_name"`
	BasePrice   int64              `json:"base_price"`
	UnitPrice   int64              `json:"unit_price"` // base + modifiers
	Modifiers   []SelectedModifier `json:"modifiers"`
	Quantity    int                `json:"quantity"`
}

func (l LineItem) Total() int64 { return l.UnitPrice * int64(l.Quantity) }

// ModifierIDs returns the ids of the line's modifiers in ascending order.
func (l LineItem) ModifierIDs() []int64 {
	ids := make([]int64, len(l.Modifiers))
	for i, m := range l.Modifiers {
		ids[i] = m.ID
	}
	return ids
}

func (l LineItem) sameAs(productID int64, mods []SelectedModifier) bool {
	if l.ProductID != productID || len(l.Modifiers) != len(mods) {
		return false
	}
	for i := range mods {
		if l.Modifiers[i].ID != mods[i].ID {
			return false
		}
	}
	return true
}

// Cart is not safe for concurrent use; the owning session serializes access.
type Cart struct {
	lines []LineItem
}

func New() *Cart { return &Cart{} }

// AddItem merges with an existing line carrying the same product and modifier set,
// otherwise appends a new line with quantity 1.
func (c *Cart) AddItem(productID int64, productName string, unitPrice int64, modifiers []SelectedModifier) {
	mods := append([]SelectedModifier{}, modifiers...)
	sort.Slice(mods, func(i, j int) bool { return mods[i].ID < mods[j].ID })

	for i := range c.lines {
		if c.lines[i].sameAs(productID, mods) {
			c.lines[i].Quantity++
			return
		}
	}

	price := unitPrice
	for _, m := range mods {
		price += m.Price
	}
	c.lines = append(c.lines, LineItem{
		ProductID:   productID,
		ProductName: productName,
		BasePrice:   unitPrice,
		UnitPrice:   price,
		Modifiers:   mods,
		Quantity:    1,
	})
}

// UpdateQuantity adds delta to the line at index and drops it when the quantity
// reaches zero or less. It reports false for an out-of-range index.
func (c *Cart) UpdateQuantity(index, delta int) bool {
	if index < 0 || index >= len(c.lines) {
		return false
	}
	c.lines[index].Quantity += delta
	if c.lines[index].Quantity <= 0 {
		c.lines = append(c.lines[:index], c.lines[index+1:]...)
	}
	return true
}

func (c *Cart) Subtotal() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Total()
	}
	return total
}

func (c *Cart) Clear() { c.lines = nil }

func (c *Cart) Empty() bool { return len(c.lines) == 0 }

// Lines returns a copy of the line items, modifiers included.
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, len(c.lines))
	for i, l := range c.lines {
		l.Modifiers = append([]SelectedModifier{}, l.Modifiers...)
		out[i] = l
	}
	return out
}

// Pick resolves the chosen modifier ids against the product's groups. Group 0 takes
// any subset; every other group takes at most one modifier.
func Pick(groups []catalog.ModifierGroup, ids []int64) ([]SelectedModifier, error) {
	type slot struct {
		mod   catalog.Modifier
		group catalog.ModifierGroup
	}
	avail := map[int64]slot{}
	for _, g := range groups {
		for _, m := range g.Modifiers {
			avail[m.ID] = slot{mod: m, group: g}
		}
	}

	var (
		out   []SelectedModifier
		seen  = map[int64]bool{}
		taken = map[int64]int64{}
	)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		s, ok := avail[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownModifier, id)
		}
		if !s.group.MultiSelect() {
			if prev, dup := taken[s.group.ID]; dup {
				return nil, fmt.Errorf("%w %q: %d and %d", ErrSingleSelect, s.group.Description, prev, id)
			}
			taken[s.group.ID] = id
		}
		seen[id] = true
		out = append(out, SelectedModifier{ID: s.mod.ID, Description: s.mod.Description, Price: s.mod.Price})
	}
	return out, nil
}
