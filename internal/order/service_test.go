package order

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MikeMC777/qsr-pos/internal/cart"
)

// memRepo keeps orders in memory and applies batches all-or-nothing.
type memRepo struct {
	orders    map[int64]*Order
	nextID    int64
	creates   int
	failWrite error
}

func newMemRepo() *memRepo { return &memRepo{orders: map[int64]*Order{}} }

func (m *memRepo) Create(_ context.Context, note string, items []Item) (int64, error) {
	m.creates++
	if m.failWrite != nil {
		return 0, m.failWrite
	}
	m.nextID++
	o := &Order{ID: m.nextID, Note: note, Status: StatusOpen}
	for i, it := range items {
		it.ID = int64(i + 1)
		it.OrderID = o.ID
		o.Items = append(o.Items, it)
	}
	m.orders[o.ID] = o
	return o.ID, nil
}

func (m *memRepo) GetByID(_ context.Context, id int64) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memRepo) ListByStatus(_ context.Context, statuses ...Status) ([]Order, error) {
	var out []Order
	for id := int64(1); id <= m.nextID; id++ {
		o, ok := m.orders[id]
		if !ok {
			continue
		}
		for _, s := range statuses {
			if o.Status == s {
				out = append(out, *o)
			}
		}
	}
	return out, nil
}

func (m *memRepo) check(id int64, to Status) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if !CanTransition(o.Status, to) {
		return nil, fmt.Errorf("%w: order %d is %s", ErrInvalidTransition, id, o.Status)
	}
	return o, nil
}

func (m *memRepo) Transition(_ context.Context, id int64, to Status) error {
	o, err := m.check(id, to)
	if err != nil {
		return err
	}
	o.Status = to
	return nil
}

func (m *memRepo) MarkItemReady(_ context.Context, orderID, itemID int64) (Status, error) {
	o, ok := m.orders[orderID]
	if !ok {
		return "", ErrNotFound
	}
	if o.Status != StatusInKitchen {
		return "", ErrInvalidTransition
	}
	found := false
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items[i].Ready = true
			found = true
		}
	}
	if !found {
		return "", ErrNotFound
	}
	if o.AllReady() {
		o.Status = StatusReady
	}
	return o.Status, nil
}

// Settle rejects a repeated id the way the Postgres repo does: the second update
// finds the order already settled.
func (m *memRepo) Settle(_ context.Context, ids []int64, charged int64) error {
	seen := map[int64]bool{}
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: order %d is %s", ErrInvalidTransition, id, StatusSettled)
		}
		seen[id] = true
		if _, err := m.check(id, StatusSettled); err != nil {
			return err
		}
	}
	for _, id := range ids {
		c := charged
		m.orders[id].Status = StatusSettled
		m.orders[id].Charged = &c
	}
	return nil
}

func (m *memRepo) UpdateNote(_ context.Context, id int64, note string) error {
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Note = note
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := m.orders[id]
	delete(m.orders, id)
	return ok, nil
}

func sampleCart() *cart.Cart {
	c := cart.New()
	c.AddItem(1, "A", 500, []cart.SelectedModifier{{ID: 15, Price: 50}, {ID: 12}})
	c.AddItem(1, "A", 500, []cart.SelectedModifier{{ID: 12}, {ID: 15, Price: 50}})
	c.AddItem(2, "B", 325, nil)
	return c
}

func TestCreateOrder_EmptyCartWritesNothing(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, zap.NewNop())

	_, err := svc.CreateOrder(context.Background(), cart.New(), "")
	assert.ErrorIs(t, err, ErrEmptyCart)
	_, err = svc.CreateOrder(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrEmptyCart)

	assert.Equal(t, 0, repo.creates)
	assert.Empty(t, repo.orders)
}

func TestCreateOrder_PersistsItemsAndClearsCart(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, zap.NewNop())
	c := sampleCart()

	id, err := svc.CreateOrder(context.Background(), c, "no ice")
	require.NoError(t, err)
	assert.True(t, c.Empty())

	o, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, o.Status)
	assert.Equal(t, "no ice", o.Note)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, []int64{12, 15}, o.Items[0].ModifierIDs)
	assert.Equal(t, int64(550), o.Items[0].UnitPrice)
	assert.Empty(t, o.Items[1].ModifierIDs)
}

func TestCreateOrder_FailureKeepsCart(t *testing.T) {
	repo := newMemRepo()
	repo.failWrite = errors.New("store unavailable")
	svc := NewService(repo, zap.NewNop())
	c := sampleCart()

	_, err := svc.CreateOrder(context.Background(), c, "")
	require.Error(t, err)
	assert.Len(t, c.Lines(), 2)
}

func TestLifecycle_HappyPath(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := NewService(repo, zap.NewNop())

	id, err := svc.CreateOrder(ctx, sampleCart(), "")
	require.NoError(t, err)

	_, err = svc.MarkItemReady(ctx, id, 1)
	assert.ErrorIs(t, err, ErrInvalidTransition, "items cannot be checked off before confirm")

	require.NoError(t, svc.Confirm(ctx, id))

	st, err := svc.MarkItemReady(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusInKitchen, st)

	assert.ErrorIs(t, svc.Deliver(ctx, id), ErrInvalidTransition)

	st, err = svc.MarkItemReady(ctx, id, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, st)

	require.NoError(t, svc.Deliver(ctx, id))
	require.NoError(t, svc.Settle(ctx, []int64{id}, 1600))

	o, _ := repo.GetByID(ctx, id)
	assert.Equal(t, StatusSettled, o.Status)
	require.NotNil(t, o.Charged)
	assert.Equal(t, int64(1600), *o.Charged)
}

func TestTerminalOrderRejectsEveryAction(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := NewService(repo, zap.NewNop())

	id, err := svc.CreateOrder(ctx, sampleCart(), "")
	require.NoError(t, err)
	require.NoError(t, svc.Settle(ctx, []int64{id}, 100))

	assert.ErrorIs(t, svc.Confirm(ctx, id), ErrInvalidTransition)
	assert.ErrorIs(t, svc.Deliver(ctx, id), ErrInvalidTransition)
	assert.ErrorIs(t, svc.Settle(ctx, []int64{id}, 200), ErrInvalidTransition)

	o, _ := repo.GetByID(ctx, id)
	assert.Equal(t, int64(100), *o.Charged)
}

func TestActionsOnMissingOrder(t *testing.T) {
	svc := NewService(newMemRepo(), zap.NewNop())
	assert.ErrorIs(t, svc.Confirm(context.Background(), 404), ErrNotFound)
	assert.ErrorIs(t, svc.Settle(context.Background(), []int64{404}, 1), ErrNotFound)
	assert.ErrorIs(t, svc.Settle(context.Background(), nil, 1), ErrNoOrders)
}

func TestSettle_BatchIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := NewService(repo, zap.NewNop())

	a, _ := svc.CreateOrder(ctx, sampleCart(), "")
	b, _ := svc.CreateOrder(ctx, sampleCart(), "")

	err := svc.Settle(ctx, []int64{a, b, 999}, 3200)
	require.ErrorIs(t, err, ErrNotFound)

	for _, id := range []int64{a, b} {
		o, _ := repo.GetByID(ctx, id)
		assert.Equal(t, StatusOpen, o.Status)
		assert.Nil(t, o.Charged)
	}

	require.NoError(t, svc.Settle(ctx, []int64{a, b}, 3200))
	for _, id := range []int64{a, b} {
		o, _ := repo.GetByID(ctx, id)
		assert.Equal(t, StatusSettled, o.Status)
		assert.Equal(t, int64(3200), *o.Charged)
	}
}

func TestSettle_RepeatedIDSettlesOnce(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := NewService(repo, zap.NewNop())

	id, err := svc.CreateOrder(ctx, sampleCart(), "")
	require.NoError(t, err)

	// the repository sees the second copy as already settled
	require.ErrorIs(t, repo.Settle(ctx, []int64{id, id}, 1600), ErrInvalidTransition)
	o, _ := repo.GetByID(ctx, id)
	assert.Equal(t, StatusOpen, o.Status)

	require.NoError(t, svc.Settle(ctx, []int64{id, id}, 1600))
	o, _ = repo.GetByID(ctx, id)
	assert.Equal(t, StatusSettled, o.Status)
	assert.Equal(t, int64(1600), *o.Charged)
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, UniqueIDs([]int64{3, 1, 3, 2, 1}))
	assert.Empty(t, UniqueIDs(nil))
}
