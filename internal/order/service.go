package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/MikeMC777/qsr-pos/internal/cart"
)

// Service drives the order lifecycle on top of a Repository.
type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log.Named("order")}
}

func (s *Service) Repo() Repository { return s.repo }

// CreateOrder materializes the cart as an open order and clears the cart once the
// order is committed. On error the cart is left untouched.
func (s *Service) CreateOrder(ctx context.Context, c *cart.Cart, note string) (int64, error) {
	if c == nil || c.Empty() {
		return 0, ErrEmptyCart
	}
	lines := c.Lines()
	items := make([]Item, len(lines))
	for i, l := range lines {
		items[i] = Item{
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			ModifierIDs: l.ModifierIDs(),
			UnitPrice:   l.UnitPrice,
		}
	}

	id, err := s.repo.Create(ctx, note, items)
	if err != nil {
		s.log.Error("create order failed", zap.Int("items", len(items)), zap.Error(err))
		return 0, err
	}
	c.Clear()
	s.log.Info("order created", zap.Int64("order_id", id), zap.Int("items", len(items)))
	return id, nil
}

// Confirm moves an open order into the kitchen.
func (s *Service) Confirm(ctx context.Context, id int64) error {
	return s.transition(ctx, id, StatusInKitchen)
}

// Deliver records that a ready order was handed over.
func (s *Service) Deliver(ctx context.Context, id int64) error {
	return s.transition(ctx, id, StatusDelivered)
}

func (s *Service) MarkItemReady(ctx context.Context, orderID, itemID int64) (Status, error) {
	st, err := s.repo.MarkItemReady(ctx, orderID, itemID)
	if err != nil {
		s.log.Warn("mark item ready rejected", zap.Int64("order_id", orderID), zap.Int64("item_id", itemID), zap.Error(err))
		return "", err
	}
	if st == StatusReady {
		s.log.Info("order ready", zap.Int64("order_id", orderID))
	}
	return st, nil
}

// Settle settles every listed order once; repeated ids are collapsed.
func (s *Service) Settle(ctx context.Context, ids []int64, charged int64) error {
	ids = UniqueIDs(ids)
	if len(ids) == 0 {
		return ErrNoOrders
	}
	if err := s.repo.Settle(ctx, ids, charged); err != nil {
		s.log.Warn("settle rejected", zap.Int64s("order_ids", ids), zap.Error(err))
		return err
	}
	s.log.Info("orders settled", zap.Int64s("order_ids", ids), zap.Int64("charged", charged))
	return nil
}

// UniqueIDs drops repeated ids, keeping the first occurrence of each.
func UniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (s *Service) transition(ctx context.Context, id int64, to Status) error {
	if err := s.repo.Transition(ctx, id, to); err != nil {
		s.log.Warn("transition rejected", zap.Int64("order_id", id), zap.String("to", string(to)), zap.Error(err))
		return err
	}
	s.log.Info("order status changed", zap.Int64("order_id", id), zap.String("status", string(to)))
	return nil
}
