package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

type Product struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	// Price in cents.
	Price int64 `json:"price"`
	// TaxRate is a percentage (4.712 means 4.712%). NUMERIC in Postgres.
	TaxRate    decimal.Decimal `json:"tax_rate"`
	Active     bool            `json:"active"`
	Rank       *int            `json:"rank,omitempty"`
	CategoryID *int64          `json:"category_id,omitempty"` // nil => unassigned
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type Modifier struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	// Price delta in cents, may be zero.
	Price     int64  `json:"price"`
	Active    bool   `json:"active"`
	GroupID   int64  `json:"group_id"`
	ProductID *int64 `json:"product_id,omitempty"` // nil => unassigned pool
}

// MultiSelectGroup is the modifier-group id whose modifiers may be combined freely.
// Any other group allows at most one modifier per line item.
const MultiSelectGroup int64 = 0

type ModifierGroup struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Modifiers   []Modifier `json:"modifiers"`
}

func (g ModifierGroup) MultiSelect() bool { return g.ID == MultiSelectGroup }

// CreateCategoryRequest payload of creation.
// swagger:model CreateCategoryRequest
type CreateCategoryRequest struct {
	Description string `json:"description" example:"Burgers"`
	Active      *bool  `json:"active"      example:"true"`
}

// ProductRequest payload of creation and full update.
// swagger:model ProductRequest
type ProductRequest struct {
	Description string `json:"description" example:"Cheeseburger"`
	CategoryID  *int64 `json:"category_id" example:"1"`
	Price       string `json:"price"       example:"5.00"`
	TaxRate     string `json:"tax_rate"    example:"4.712"`
	Active      *bool  `json:"active"      example:"true"`
}

// ModifierRequest payload of creation and full update.
// swagger:model ModifierRequest
type ModifierRequest struct {
	Description string `json:"description" example:"Extra cheese"`
	ProductID   *int64 `json:"product_id"  example:"1"`
	GroupID     int64  `json:"group_id"    example:"0"`
	Price       string `json:"price"       example:"0.50"`
	Active      *bool  `json:"active"      example:"true"`
}

// ModifierGroupRequest creates a single-select modifier group.
// swagger:model ModifierGroupRequest
type ModifierGroupRequest struct {
	Description string `json:"description" example:"Size"`
}

// AssignCategoryRequest moves a product into a category; null unassigns it.
// swagger:model AssignCategoryRequest
type AssignCategoryRequest struct {
	CategoryID *int64 `json:"category_id" example:"1"`
}

// AssignProductRequest attaches a modifier to a product; null returns it to the pool.
// swagger:model AssignProductRequest
type AssignProductRequest struct {
	ProductID *int64 `json:"product_id" example:"3"`
}

// RankRequest lists a category's products in display order.
// swagger:model RankRequest
type RankRequest struct {
	ProductIDs []int64 `json:"product_ids" example:"3,1,2"`
}
