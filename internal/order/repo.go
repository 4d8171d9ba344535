package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("order status does not allow this action")
	ErrNoOrders          = errors.New("no orders given")
)

type Repository interface {
	Create(ctx context.Context, note string, items []Item) (int64, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByStatus(ctx context.Context, statuses ...Status) ([]Order, error)
	Transition(ctx context.Context, id int64, to Status) error
	// MarkItemReady checks off one item and returns the order's resulting status.
	MarkItemReady(ctx context.Context, orderID, itemID int64) (Status, error)
	// Settle is all-or-nothing across ids.
	Settle(ctx context.Context, ids []int64, charged int64) error
	UpdateNote(ctx context.Context, id int64, note string) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, note string, items []Item) (int64, error) {
	if len(items) == 0 {
		return 0, ErrEmptyCart
	}
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	if err := tx.QueryRow(ctx, `
    INSERT INTO orders (note, status, created_at, updated_at)
    VALUES ($1,$2,NOW(),NOW())
    RETURNING id
  `, note, string(StatusOpen)).Scan(&id); err != nil {
		return 0, err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_items (order_id, product_id, quantity, modifiers, unit_price)
      VALUES ($1,$2,$3,$4,$5)
    `, id, it.ProductID, it.Quantity, nullableModifiers(it.ModifierIDs), it.UnitPrice); err != nil {
			return 0, fmt.Errorf("insert item for product %d: %w", it.ProductID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		o      Order
		status string
	)
	if err := r.db.QueryRow(ctx, `
    SELECT id, COALESCE(note,''), status, charged, created_at, updated_at
    FROM orders WHERE id=$1
  `, id).Scan(&o.ID, &o.Note, &status, &o.Charged, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	o.Status = Status(status)

	items, err := r.items(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	return &o, nil
}

// ListByStatus returns orders oldest first, items included.
func (r *PGRepo) ListByStatus(ctx context.Context, statuses ...Status) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
    SELECT id, COALESCE(note,''), status, charged, created_at, updated_at
    FROM orders
    WHERE status = ANY($1)
    ORDER BY created_at, id
  `, statusStrings(statuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		out []Order
		ids []int64
	)
	for rows.Next() {
		var (
			o      Order
			status string
		)
		if err := rows.Scan(&o.ID, &o.Note, &status, &o.Charged, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Status = Status(status)
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

func (r *PGRepo) items(ctx context.Context, orderIDs []int64) (map[int64][]Item, error) {
	rows, err := r.db.Query(ctx, `
    SELECT id, order_id, product_id, quantity, modifiers, unit_price, ready
    FROM order_items
    WHERE order_id = ANY($1)
    ORDER BY order_id, id
  `, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64][]Item{}
	for rows.Next() {
		var (
			it   Item
			mods *string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &mods, &it.UnitPrice, &it.Ready); err != nil {
			return nil, err
		}
		it.ModifierIDs = []int64{}
		if mods != nil {
			if it.ModifierIDs, err = ParseModifierIDs(*mods); err != nil {
				return nil, err
			}
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

func (r *PGRepo) Transition(ctx context.Context, id int64, to Status) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE orders
    SET status = $2, updated_at = NOW()
    WHERE id = $1 AND status = ANY($3)
  `, id, string(to), statusStrings(AllowedFrom(to)))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return rejection(ctx, tx, id, to)
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) MarkItemReady(ctx context.Context, orderID, itemID int64) (Status, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var st string
	if err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, orderID).Scan(&st); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	if Status(st) != StatusInKitchen {
		return "", fmt.Errorf("%w: order %d is %s", ErrInvalidTransition, orderID, st)
	}

	tag, err := tx.Exec(ctx, `UPDATE order_items SET ready = TRUE WHERE id=$2 AND order_id=$1`, orderID, itemID)
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() == 0 {
		return "", fmt.Errorf("item %d of order %d: %w", itemID, orderID, ErrNotFound)
	}

	var allReady bool
	if err := tx.QueryRow(ctx, `SELECT bool_and(ready) FROM order_items WHERE order_id=$1`, orderID).Scan(&allReady); err != nil {
		return "", err
	}
	result := StatusInKitchen
	if allReady {
		if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1`, orderID, string(StatusReady)); err != nil {
			return "", err
		}
		result = StatusReady
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return result, nil
}

func (r *PGRepo) Settle(ctx context.Context, ids []int64, charged int64) error {
	if len(ids) == 0 {
		return ErrNoOrders
	}
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, id := range ids {
		tag, err := tx.Exec(ctx, `
      UPDATE orders
      SET status = $2, charged = $3, updated_at = NOW()
      WHERE id = $1 AND status = ANY($4)
    `, id, string(StatusSettled), charged, statusStrings(AllowedFrom(StatusSettled)))
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return rejection(ctx, tx, id, StatusSettled)
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) UpdateNote(ctx context.Context, id int64, note string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE orders SET note=$2, updated_at=NOW() WHERE id=$1`, id, note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the order; its items go with it (ON DELETE CASCADE).
func (r *PGRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// rejection explains why a guarded UPDATE touched no row.
func rejection(ctx context.Context, q querier, id int64, to Status) error {
	var st string
	if err := q.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, id).Scan(&st); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return err
	}
	return fmt.Errorf("%w: order %d is %s, cannot become %s", ErrInvalidTransition, id, st, to)
}
