package checkout

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MikeMC777/qsr-pos/internal/order"
	"github.com/MikeMC777/qsr-pos/internal/receipt"
)

var ErrNoOrders = order.ErrNoOrders

// Quote is a priced set of orders together with the register state.
type Quote struct {
	Orders []PricedOrder `json:"orders"`
	Bill   Bill          `json:"bill"`
}

// Settler settles a batch of orders and prints the receipt afterwards.
type Settler struct {
	orders *order.Service
	pricer *Pricer
	tax    int64
	sink   receipt.Sink
	log    *zap.Logger
	now    func() time.Time
}

// NewSettler wires the settlement driver. sink may be nil, in which case no receipt is
// produced.
func NewSettler(orders *order.Service, pricer *Pricer, tax int64, sink receipt.Sink, log *zap.Logger) *Settler {
	return &Settler{orders: orders, pricer: pricer, tax: tax, sink: sink, log: log.Named("checkout"), now: time.Now}
}

func (s *Settler) Tax() int64 { return s.tax }

// Quote prices the listed orders against the tender. Each order counts once even when
// its id is repeated.
func (s *Settler) Quote(ctx context.Context, ids []int64, t *Tender, splitCount int) (*Quote, error) {
	ids = order.UniqueIDs(ids)
	if len(ids) == 0 {
		return nil, ErrNoOrders
	}
	list := make([]order.Order, 0, len(ids))
	for _, id := range ids {
		o, err := s.orders.Repo().GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", id, err)
		}
		list = append(list, *o)
	}
	priced, err := s.pricer.Price(ctx, list)
	if err != nil {
		return nil, err
	}
	return &Quote{Orders: priced, Bill: NewBill(Subtotal(priced), s.tax, t, splitCount)}, nil
}

// Settle charges subtotal + tax + tips against every order in one transaction. The
// tender is reset on success. A receipt failure is logged and does not undo the
// settlement.
func (s *Settler) Settle(ctx context.Context, ids []int64, t *Tender, splitCount int) (*Quote, error) {
	ids = order.UniqueIDs(ids)
	q, err := s.Quote(ctx, ids, t, splitCount)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Settle(ctx, ids, q.Bill.BalanceDue); err != nil {
		return nil, err
	}
	if t != nil {
		t.Reset()
	}

	if s.sink != nil {
		if err := s.sink.Print(ctx, s.receipt(ids, q)); err != nil {
			s.log.Error("receipt failed", zap.Int64s("order_ids", ids), zap.Error(err))
		}
	}
	return q, nil
}

func (s *Settler) receipt(ids []int64, q *Quote) receipt.Receipt {
	r := receipt.Receipt{
		OrderIDs:    ids,
		Subtotal:    q.Bill.Subtotal,
		Tax:         q.Bill.Tax,
		Tips:        q.Bill.Tips,
		Total:       q.Bill.BalanceDue,
		Tendered:    q.Bill.Tendered,
		PaymentType: string(q.Bill.PaymentType),
		IssuedAt:    s.now(),
	}
	for _, o := range q.Orders {
		for _, l := range o.Lines {
			rl := receipt.Line{
				Description: l.ProductName,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				Total:       l.Total,
			}
			for _, m := range l.Modifiers {
				rl.Modifiers = append(rl.Modifiers, receipt.Modifier{Description: m.Description, Price: m.Price})
			}
			r.Lines = append(r.Lines, rl)
		}
	}
	return r
}
