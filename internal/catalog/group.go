package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/qsr-pos/internal/money"
)

const defaultGroupDescription = "Options"

// GroupModifiers buckets modifiers by group id, keeping the order of first appearance.
// descs maps group id to its description; groups without one are labelled "Options".
func GroupModifiers(mods []Modifier, descs map[int64]string) []ModifierGroup {
	var (
		out   []ModifierGroup
		index = map[int64]int{}
	)
	for _, m := range mods {
		i, ok := index[m.GroupID]
		if !ok {
			desc := descs[m.GroupID]
			if desc == "" {
				desc = defaultGroupDescription
			}
			out = append(out, ModifierGroup{ID: m.GroupID, Description: desc})
			i = len(out) - 1
			index[m.GroupID] = i
		}
		out[i].Modifiers = append(out[i].Modifiers, m)
	}
	return out
}

// NewProduct validates a ProductRequest. Prices arrive as dollar strings ("5.00").
func NewProduct(req ProductRequest) (*Product, error) {
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalid)
	}
	price, err := money.ParseAmount(req.Price)
	if err != nil || price < 0 {
		return nil, fmt.Errorf("%w: price must be a non-negative amount", ErrInvalid)
	}
	tax := decimal.Zero
	if strings.TrimSpace(req.TaxRate) != "" {
		tax, err = decimal.NewFromString(strings.TrimSpace(req.TaxRate))
		if err != nil || tax.IsNegative() {
			return nil, fmt.Errorf("%w: tax_rate must be a non-negative percentage", ErrInvalid)
		}
	}
	return &Product{
		Description: desc,
		CategoryID:  req.CategoryID,
		Price:       price,
		TaxRate:     tax,
		Active:      req.Active == nil || *req.Active,
	}, nil
}

// NewModifier validates a ModifierRequest. An empty price means a free modifier.
func NewModifier(req ModifierRequest) (*Modifier, error) {
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalid)
	}
	var price int64
	if strings.TrimSpace(req.Price) != "" {
		p, err := money.ParseAmount(req.Price)
		if err != nil || p < 0 {
			return nil, fmt.Errorf("%w: price must be a non-negative amount", ErrInvalid)
		}
		price = p
	}
	if req.GroupID < 0 {
		return nil, fmt.Errorf("%w: group_id must be >= 0", ErrInvalid)
	}
	return &Modifier{
		Description: desc,
		ProductID:   req.ProductID,
		GroupID:     req.GroupID,
		Price:       price,
		Active:      req.Active == nil || *req.Active,
	}, nil
}
