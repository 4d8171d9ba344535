// Package display builds the polled read projections: kitchen queue, delivery queue,
// customer-facing display and the back-office transaction list.
package display

import (
	"context"
	"fmt"
	"time"

	"github.com/MikeMC777/qsr-pos/internal/checkout"
	"github.com/MikeMC777/qsr-pos/internal/order"
)

var (
	kitchenStatuses     = []order.Status{order.StatusOpen, order.StatusInKitchen}
	deliveryStatuses    = []order.Status{order.StatusReady}
	customerStatuses    = []order.Status{order.StatusOpen, order.StatusInKitchen}
	transactionStatuses = []order.Status{order.StatusDelivered, order.StatusSettled}
)

type TicketLine struct {
	ItemID      int64    `json:"item_id"`
	ProductName string   `json:"product_name"`
	Quantity    int      `json:"quantity"`
	Modifiers   []string `json:"modifiers"`
	Ready       bool     `json:"ready"`
}

type Ticket struct {
	OrderID   int64        `json:"order_id"`
	Note      string       `json:"note"`
	Status    order.Status `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	Lines     []TicketLine `json:"lines"`
}

// TicketView is a price-free queue for kitchen and delivery screens.
type TicketView struct {
	RefreshSeconds int       `json:"refresh_seconds"`
	GeneratedAt    time.Time `json:"generated_at"`
	Tickets        []Ticket  `json:"tickets"`
}

// PricedView carries itemized prices for the customer display and transaction list.
type PricedView struct {
	RefreshSeconds int                    `json:"refresh_seconds"`
	GeneratedAt    time.Time              `json:"generated_at"`
	Orders         []checkout.PricedOrder `json:"orders"`
}

type Service struct {
	orders  order.Repository
	pricer  *checkout.Pricer
	refresh time.Duration
	now     func() time.Time
}

func NewService(orders order.Repository, pricer *checkout.Pricer, refresh time.Duration) *Service {
	if refresh <= 0 {
		refresh = 5 * time.Second
	}
	return &Service{orders: orders, pricer: pricer, refresh: refresh, now: time.Now}
}

// Kitchen lists orders awaiting confirmation and orders being prepared, oldest first.
func (s *Service) Kitchen(ctx context.Context) (*TicketView, error) {
	return s.tickets(ctx, kitchenStatuses)
}

func (s *Service) Delivery(ctx context.Context) (*TicketView, error) {
	return s.tickets(ctx, deliveryStatuses)
}

func (s *Service) Customer(ctx context.Context) (*PricedView, error) {
	return s.priced(ctx, customerStatuses)
}

func (s *Service) Transactions(ctx context.Context) (*PricedView, error) {
	return s.priced(ctx, transactionStatuses)
}

func (s *Service) UpdateNote(ctx context.Context, id int64, note string) error {
	if err := s.editable(ctx, id); err != nil {
		return err
	}
	return s.orders.UpdateNote(ctx, id, note)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.editable(ctx, id); err != nil {
		return err
	}
	ok, err := s.orders.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return order.ErrNotFound
	}
	return nil
}

// editable limits back-office edits to orders shown in the transaction list.
func (s *Service) editable(ctx context.Context, id int64) error {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	for _, st := range transactionStatuses {
		if o.Status == st {
			return nil
		}
	}
	return fmt.Errorf("%w: order %d is %s", order.ErrInvalidTransition, id, o.Status)
}

func (s *Service) tickets(ctx context.Context, statuses []order.Status) (*TicketView, error) {
	priced, err := s.load(ctx, statuses)
	if err != nil {
		return nil, err
	}
	v := &TicketView{RefreshSeconds: s.refreshSeconds(), GeneratedAt: s.now(), Tickets: make([]Ticket, 0, len(priced))}
	for _, po := range priced {
		t := Ticket{OrderID: po.ID, Note: po.Note, Status: po.Status, CreatedAt: po.CreatedAt, Lines: make([]TicketLine, 0, len(po.Lines))}
		for _, l := range po.Lines {
			mods := make([]string, len(l.Modifiers))
			for i, m := range l.Modifiers {
				mods[i] = m.Description
			}
			t.Lines = append(t.Lines, TicketLine{ItemID: l.ItemID, ProductName: l.ProductName, Quantity: l.Quantity, Modifiers: mods, Ready: l.Ready})
		}
		v.Tickets = append(v.Tickets, t)
	}
	return v, nil
}

func (s *Service) priced(ctx context.Context, statuses []order.Status) (*PricedView, error) {
	priced, err := s.load(ctx, statuses)
	if err != nil {
		return nil, err
	}
	return &PricedView{RefreshSeconds: s.refreshSeconds(), GeneratedAt: s.now(), Orders: priced}, nil
}

func (s *Service) load(ctx context.Context, statuses []order.Status) ([]checkout.PricedOrder, error) {
	list, err := s.orders.ListByStatus(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return []checkout.PricedOrder{}, nil
	}
	return s.pricer.Price(ctx, list)
}

func (s *Service) refreshSeconds() int {
	sec := int(s.refresh / time.Second)
	if sec < 1 {
		sec = 1
	}
	return sec
}
