// Package catalog provides the repository interface and PostgreSQL implementation for
// the menu hierarchy: categories, products, modifier groups and modifiers.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("catalog entry not found")
	ErrInvalid  = errors.New("invalid catalog entry")
)

// Reader is what order entry and checkout consume. List* only return active rows.
type Reader interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListProducts(ctx context.Context, categoryID int64) ([]Product, error)
	ListModifiers(ctx context.Context, productID int64) ([]ModifierGroup, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	// ProductsByID and ModifiersByID return rows regardless of status.
	ProductsByID(ctx context.Context, ids []int64) (map[int64]Product, error)
	ModifiersByID(ctx context.Context, ids []int64) (map[int64]Modifier, error)
}

// Repository adds the back-office writes.
type Repository interface {
	Reader

	AllCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id int64) (bool, error)

	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id int64) (bool, error)
	AssignProduct(ctx context.Context, productID int64, categoryID *int64) error
	UnassignedProducts(ctx context.Context) ([]Product, error)
	RankProducts(ctx context.Context, categoryID int64, productIDs []int64) error

	CreateModifierGroup(ctx context.Context, g *ModifierGroup) error
	CreateModifier(ctx context.Context, m *Modifier) error
	UpdateModifier(ctx context.Context, m *Modifier) error
	DeleteModifier(ctx context.Context, id int64) (bool, error)
	AssignModifier(ctx context.Context, modifierID int64, productID *int64) error
	UnassignedModifiers(ctx context.Context) ([]Modifier, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const productColumns = `id, description, price, tax_rate::text, active, rank, category_id, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p   Product
		tax string
	)
	if err := row.Scan(&p.ID, &p.Description, &p.Price, &tax, &p.Active, &p.Rank, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return p, err
	}
	d, err := decimal.NewFromString(tax)
	if err != nil {
		return p, fmt.Errorf("product %d tax rate %q: %w", p.ID, tax, err)
	}
	p.TaxRate = d
	return p, nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const modifierColumns = `id, description, price, active, group_id, product_id`

func collectModifiers(rows pgx.Rows) ([]Modifier, error) {
	defer rows.Close()
	var out []Modifier
	for rows.Next() {
		var m Modifier
		if err := rows.Scan(&m.ID, &m.Description, &m.Price, &m.Active, &m.GroupID, &m.ProductID); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PGRepo) ListCategories(ctx context.Context) ([]Category, error) {
	return r.categories(ctx, `SELECT id, description, active FROM category WHERE active ORDER BY id`)
}

func (r *PGRepo) AllCategories(ctx context.Context) ([]Category, error) {
	return r.categories(ctx, `SELECT id, description, active FROM category ORDER BY description`)
}

func (r *PGRepo) categories(ctx context.Context, query string) ([]Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Description, &c.Active); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) ListProducts(ctx context.Context, categoryID int64) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM product
		WHERE category_id = $1 AND active
		ORDER BY rank NULLS LAST, id
	`, categoryID)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *PGRepo) GetProduct(ctx context.Context, id int64) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM product WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepo) ProductsByID(ctx context.Context, ids []int64) (map[int64]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM product WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]Product, len(list))
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

func (r *PGRepo) ListModifiers(ctx context.Context, productID int64) ([]ModifierGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.description, m.price, m.active, m.group_id, m.product_id,
		       COALESCE(g.description, '')
		FROM modifier m
		LEFT JOIN modifier_group g ON g.id = m.group_id
		WHERE m.product_id = $1 AND m.active
		ORDER BY m.group_id, m.id
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		mods  []Modifier
		descs = map[int64]string{}
	)
	for rows.Next() {
		var (
			m    Modifier
			desc string
		)
		if err := rows.Scan(&m.ID, &m.Description, &m.Price, &m.Active, &m.GroupID, &m.ProductID, &desc); err != nil {
			return nil, err
		}
		mods = append(mods, m)
		descs[m.GroupID] = desc
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return GroupModifiers(mods, descs), nil
}

func (r *PGRepo) ModifiersByID(ctx context.Context, ids []int64) (map[int64]Modifier, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+modifierColumns+` FROM modifier WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	list, err := collectModifiers(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]Modifier, len(list))
	for _, m := range list {
		out[m.ID] = m
	}
	return out, nil
}

func (r *PGRepo) CreateCategory(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO category (description, active) VALUES ($1,$2) RETURNING id
	`, c.Description, c.Active).Scan(&c.ID)
	return constraintErr(err)
}

func (r *PGRepo) UpdateCategory(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE category SET description=$2, active=$3 WHERE id=$1`, c.ID, c.Description, c.Active)
	if err != nil {
		return constraintErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory leaves its products in place, unassigned.
func (r *PGRepo) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	return r.delete(ctx, `DELETE FROM category WHERE id=$1`, id)
}

func (r *PGRepo) CreateProduct(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO product (description, category_id, price, tax_rate, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4::numeric,$5,NOW(),NOW())
		RETURNING id, created_at, updated_at
	`, p.Description, p.CategoryID, p.Price, p.TaxRate.String(), p.Active).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return constraintErr(err)
}

func (r *PGRepo) UpdateProduct(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE product
		SET description = $2,
		    category_id = $3,
		    price = $4,
		    tax_rate = $5::numeric,
		    active = $6,
		    updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Description, p.CategoryID, p.Price, p.TaxRate.String(), p.Active)
	if err != nil {
		return constraintErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	return r.delete(ctx, `DELETE FROM product WHERE id=$1`, id)
}

func (r *PGRepo) AssignProduct(ctx context.Context, productID int64, categoryID *int64) error {
	return r.assign(ctx, `UPDATE product SET category_id=$2, updated_at=NOW() WHERE id=$1`, productID, categoryID)
}

func (r *PGRepo) UnassignedProducts(ctx context.Context) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM product
		WHERE category_id IS NULL AND active
		ORDER BY description
	`)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// RankProducts sets rank 1..n following productIDs. Products of the category that are
// not listed keep their rank.
func (r *PGRepo) RankProducts(ctx context.Context, categoryID int64, productIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i, id := range productIDs {
		tag, err := tx.Exec(ctx, `UPDATE product SET rank=$3 WHERE id=$1 AND category_id=$2`, id, categoryID, i+1)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("product %d in category %d: %w", id, categoryID, ErrNotFound)
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) CreateModifierGroup(ctx context.Context, g *ModifierGroup) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `INSERT INTO modifier_group (description) VALUES ($1) RETURNING id`, g.Description).Scan(&g.ID)
}

func (r *PGRepo) CreateModifier(ctx context.Context, m *Modifier) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO modifier (description, product_id, group_id, price, active)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, m.Description, m.ProductID, m.GroupID, m.Price, m.Active).Scan(&m.ID)
	return constraintErr(err)
}

func (r *PGRepo) UpdateModifier(ctx context.Context, m *Modifier) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE modifier
		SET description=$2, product_id=$3, group_id=$4, price=$5, active=$6
		WHERE id=$1
	`, m.ID, m.Description, m.ProductID, m.GroupID, m.Price, m.Active)
	if err != nil {
		return constraintErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteModifier(ctx context.Context, id int64) (bool, error) {
	return r.delete(ctx, `DELETE FROM modifier WHERE id=$1`, id)
}

func (r *PGRepo) AssignModifier(ctx context.Context, modifierID int64, productID *int64) error {
	return r.assign(ctx, `UPDATE modifier SET product_id=$2 WHERE id=$1`, modifierID, productID)
}

func (r *PGRepo) UnassignedModifiers(ctx context.Context) ([]Modifier, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+modifierColumns+`
		FROM modifier
		WHERE product_id IS NULL AND active
		ORDER BY description
	`)
	if err != nil {
		return nil, err
	}
	return collectModifiers(rows)
}

func (r *PGRepo) assign(ctx context.Context, query string, id int64, owner *int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, query, id, owner)
	if err != nil {
		return constraintErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) delete(ctx context.Context, query string, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// constraintErr reports foreign-key and unique violations as ErrInvalid.
func constraintErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return fmt.Errorf("%w: %s references a missing row", ErrInvalid, pgErr.ConstraintName)
		case "23505":
			return fmt.Errorf("%w: %s already exists", ErrInvalid, pgErr.ConstraintName)
		}
	}
	return err
}
