// Package checkout prices persisted orders, tracks tender at the register and drives
// settlement.
package checkout

import (
	"context"
	"fmt"

	"github.com/MikeMC777/qsr-pos/internal/catalog"
	"github.com/MikeMC777/qsr-pos/internal/order"
)

// PricePolicy decides where a line's unit price comes from.
type PricePolicy string

const (
	// PriceLive re-resolves product and active modifier prices from the catalog on
	// every read, so catalog edits reach unsettled orders.
	PriceLive PricePolicy = "live"
	// PriceFrozen uses the unit price captured when the order was placed.
	PriceFrozen PricePolicy = "frozen"
)

func ParsePricePolicy(s string) (PricePolicy, error) {
	switch p := PricePolicy(s); p {
	case PriceLive, PriceFrozen:
		return p, nil
	case "":
		return PriceLive, nil
	}
	return "", fmt.Errorf("unknown price policy %q (want live or frozen)", s)
}

type PricedModifier struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

type PricedLine struct {
	ItemID      int64            `json:"item_id"`
	ProductID   int64            `json:"product_id"`
	ProductName string           `json:"product_name"`
	Quantity    int              `json:"quantity"`
	UnitPrice   int64            `json:"unit_price"`
	Modifiers   []PricedModifier `json:"modifiers"`
	Total       int64            `json:"total"`
	Ready       bool             `json:"ready"`
}

type PricedOrder struct {
	order.Order
	Lines    []PricedLine `json:"lines"`
	Subtotal int64        `json:"subtotal"`
}

type Pricer struct {
	catalog catalog.Reader
	policy  PricePolicy
}

func NewPricer(r catalog.Reader, policy PricePolicy) *Pricer {
	if policy == "" {
		policy = PriceLive
	}
	return &Pricer{catalog: r, policy: policy}
}

func (p *Pricer) Policy() PricePolicy { return p.policy }

// Price resolves every line of the given orders with two catalog lookups in total.
// Inactive or deleted modifiers are hidden and contribute nothing under the live
// policy; their ids stay on the persisted item. The frozen policy lists every persisted
// modifier next to the unit price captured at order time.
func (p *Pricer) Price(ctx context.Context, orders []order.Order) ([]PricedOrder, error) {
	var productIDs, modifierIDs []int64
	for _, o := range orders {
		for _, it := range o.Items {
			productIDs = append(productIDs, it.ProductID)
			modifierIDs = append(modifierIDs, it.ModifierIDs...)
		}
	}

	products := map[int64]catalog.Product{}
	mods := map[int64]catalog.Modifier{}
	var err error
	if len(productIDs) > 0 {
		if products, err = p.catalog.ProductsByID(ctx, productIDs); err != nil {
			return nil, fmt.Errorf("load products: %w", err)
		}
	}
	if len(modifierIDs) > 0 {
		if mods, err = p.catalog.ModifiersByID(ctx, modifierIDs); err != nil {
			return nil, fmt.Errorf("load modifiers: %w", err)
		}
	}

	out := make([]PricedOrder, len(orders))
	for i, o := range orders {
		po := PricedOrder{Order: o, Lines: make([]PricedLine, 0, len(o.Items))}
		for _, it := range o.Items {
			l := p.line(it, products, mods)
			po.Lines = append(po.Lines, l)
			po.Subtotal += l.Total
		}
		out[i] = po
	}
	return out, nil
}

// OrderTotal is the subtotal of a single order.
func (p *Pricer) OrderTotal(ctx context.Context, o order.Order) (int64, error) {
	priced, err := p.Price(ctx, []order.Order{o})
	if err != nil {
		return 0, err
	}
	return priced[0].Subtotal, nil
}

func (p *Pricer) line(it order.Item, products map[int64]catalog.Product, mods map[int64]catalog.Modifier) PricedLine {
	l := PricedLine{
		ItemID:      it.ID,
		ProductID:   it.ProductID,
		ProductName: fmt.Sprintf("product #%d", it.ProductID),
		Quantity:    it.Quantity,
		Ready:       it.Ready,
		Modifiers:   []PricedModifier{},
	}
	prod, ok := products[it.ProductID]
	if ok {
		l.ProductName = prod.Description
		l.UnitPrice = prod.Price
	}
	if p.policy == PriceFrozen {
		// every persisted modifier is listed; the captured unit price stands
		for _, id := range it.ModifierIDs {
			m, ok := mods[id]
			if !ok {
				m = catalog.Modifier{ID: id, Description: fmt.Sprintf("modifier #%d", id)}
			}
			l.Modifiers = append(l.Modifiers, PricedModifier{ID: m.ID, Description: m.Description, Price: m.Price})
		}
		l.UnitPrice = it.UnitPrice
		l.Total = l.UnitPrice * int64(l.Quantity)
		return l
	}
	for _, id := range it.ModifierIDs {
		m, ok := mods[id]
		if !ok || !m.Active {
			continue
		}
		l.Modifiers = append(l.Modifiers, PricedModifier{ID: m.ID, Description: m.Description, Price: m.Price})
		l.UnitPrice += m.Price
	}
	l.Total = l.UnitPrice * int64(l.Quantity)
	return l
}

// Subtotal sums several priced orders.
func Subtotal(orders []PricedOrder) int64 {
	var total int64
	for _, o := range orders {
		total += o.Subtotal
	}
	return total
}
