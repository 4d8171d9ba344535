package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/qsr-pos/internal/catalog"
	"github.com/MikeMC777/qsr-pos/internal/checkout"
	"github.com/MikeMC777/qsr-pos/internal/order"
	"github.com/MikeMC777/qsr-pos/internal/receipt"
)

//
// ---------- STUBS ----------
//

// stubCatalog serves a fixed menu; unused Repository methods panic through the nil
// embedded interface.
type stubCatalog struct {
	catalog.Repository
	products map[int64]catalog.Product
	groups   map[int64][]catalog.ModifierGroup
	nextID   int64
	ranked   []int64
}

func newStubCatalog() *stubCatalog {
	pid := int64(1)
	return &stubCatalog{
		nextID: 100,
		products: map[int64]catalog.Product{
			1: {ID: 1, Description: "Product A", Price: 500, Active: true},
			2: {ID: 2, Description: "Product B", Price: 325, Active: true},
			3: {ID: 3, Description: "Retired", Price: 100, Active: false},
		},
		groups: map[int64][]catalog.ModifierGroup{
			1: {
				{ID: 0, Description: "Options", Modifiers: []catalog.Modifier{
					{ID: 10, Description: "Modifier X", Price: 50, Active: true, ProductID: &pid},
				}},
				{ID: 7, Description: "Size", Modifiers: []catalog.Modifier{
					{ID: 20, Description: "Small", Active: true, GroupID: 7, ProductID: &pid},
					{ID: 21, Description: "Large", Price: 100, Active: true, GroupID: 7, ProductID: &pid},
				}},
			},
		},
	}
}

func (s *stubCatalog) GetProduct(_ context.Context, id int64) (*catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &p, nil
}

func (s *stubCatalog) ListModifiers(_ context.Context, productID int64) ([]catalog.ModifierGroup, error) {
	return s.groups[productID], nil
}

func (s *stubCatalog) ProductsByID(_ context.Context, ids []int64) (map[int64]catalog.Product, error) {
	out := map[int64]catalog.Product{}
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *stubCatalog) ModifiersByID(_ context.Context, ids []int64) (map[int64]catalog.Modifier, error) {
	out := map[int64]catalog.Modifier{}
	for _, gs := range s.groups {
		for _, g := range gs {
			for _, m := range g.Modifiers {
				out[m.ID] = m
			}
		}
	}
	return out, nil
}

func (s *stubCatalog) CreateProduct(_ context.Context, p *catalog.Product) error {
	s.nextID++
	p.ID = s.nextID
	s.products[p.ID] = *p
	return nil
}

func (s *stubCatalog) DeleteProduct(_ context.Context, id int64) (bool, error) {
	_, ok := s.products[id]
	delete(s.products, id)
	return ok, nil
}

func (s *stubCatalog) RankProducts(_ context.Context, _ int64, ids []int64) error {
	for _, id := range ids {
		if _, ok := s.products[id]; !ok {
			return fmt.Errorf("product %d: %w", id, catalog.ErrNotFound)
		}
	}
	s.ranked = ids
	return nil
}

// memOrders implements order.Repository in memory.
type memOrders struct {
	orders map[int64]*order.Order
	nextID int64
}

func newMemOrders() *memOrders { return &memOrders{orders: map[int64]*order.Order{}} }

func (m *memOrders) Create(_ context.Context, note string, items []order.Item) (int64, error) {
	if len(items) == 0 {
		return 0, order.ErrEmptyCart
	}
	m.nextID++
	o := &order.Order{ID: m.nextID, Note: note, Status: order.StatusOpen, CreatedAt: time.Now()}
	for i, it := range items {
		it.ID = int64(i + 1)
		it.OrderID = o.ID
		o.Items = append(o.Items, it)
	}
	m.orders[o.ID] = o
	return o.ID, nil
}

func (m *memOrders) GetByID(_ context.Context, id int64) (*order.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	cp.Items = append([]order.Item(nil), o.Items...)
	return &cp, nil
}

func (m *memOrders) ListByStatus(_ context.Context, statuses ...order.Status) ([]order.Order, error) {
	var out []order.Order
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

func (m *memOrders) Transition(_ context.Context, id int64, to order.Status) error {
	o, ok := m.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	if !order.CanTransition(o.Status, to) {
		return order.ErrInvalidTransition
	}
	o.Status = to
	return nil
}

func (m *memOrders) MarkItemReady(_ context.Context, orderID, itemID int64) (order.Status, error) {
	o, ok := m.orders[orderID]
	if !ok {
		return "", order.ErrNotFound
	}
	if o.Status != order.StatusInKitchen {
		return "", order.ErrInvalidTransition
	}
	found := false
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items[i].Ready = true
			found = true
		}
	}
	if !found {
		return "", order.ErrNotFound
	}
	if o.AllReady() {
		o.Status = order.StatusReady
	}
	return o.Status, nil
}

func (m *memOrders) Settle(_ context.Context, ids []int64, charged int64) error {
	seen := map[int64]bool{}
	for _, id := range ids {
		if seen[id] {
			return order.ErrInvalidTransition
		}
		seen[id] = true
		o, ok := m.orders[id]
		if !ok {
			return order.ErrNotFound
		}
		if !order.CanTransition(o.Status, order.StatusSettled) {
			return order.ErrInvalidTransition
		}
	}
	for _, id := range ids {
		c := charged
		m.orders[id].Status = order.StatusSettled
		m.orders[id].Charged = &c
	}
	return nil
}

func (m *memOrders) UpdateNote(_ context.Context, id int64, note string) error {
	o, ok := m.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.Note = note
	return nil
}

func (m *memOrders) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := m.orders[id]
	delete(m.orders, id)
	return ok, nil
}

type recordSink struct{ printed []receipt.Receipt }

func (r *recordSink) Print(_ context.Context, rc receipt.Receipt) error {
	r.printed = append(r.printed, rc)
	return nil
}

//
// ---------- HELPERS ----------
//

type fixture struct {
	router *gin.Engine
	cat    *stubCatalog
	orders *memOrders
	sink   *recordSink
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{cat: newStubCatalog(), orders: newMemOrders(), sink: &recordSink{}}
	a := newApp(f.cat, f.orders, checkout.PriceLive, checkout.DefaultTax, f.sink, 2*time.Second, zap.NewNop())
	f.router = a.router()
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) expect(t *testing.T, method, path, body string, status int) *httptest.ResponseRecorder {
	t.Helper()
	w := f.do(t, method, path, body)
	if w.Code != status {
		t.Fatalf("%s %s: status=%d, expected=%d body=%s", method, path, w.Code, status, w.Body.String())
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid json: %v body=%s", err, w.Body.String())
	}
}

func (f *fixture) openSession(t *testing.T) string {
	t.Helper()
	w := f.expect(t, http.MethodPost, "/sessions", "", http.StatusCreated)
	var got struct {
		SessionID string `json:"session_id"`
	}
	decode(t, w, &got)
	if got.SessionID == "" {
		t.Fatalf("empty session id")
	}
	return got.SessionID
}

//
// ---------- TESTS ----------
//

func TestOrderLifecycle_EndToEnd(t *testing.T) {
	f := newFixture()
	sid := f.openSession(t)
	base := "/sessions/" + sid

	// same modifier set twice → one line of quantity 2
	f.expect(t, http.MethodPost, base+"/cart/items", `{"product_id":1,"modifier_ids":[10]}`, http.StatusOK)
	f.expect(t, http.MethodPost, base+"/cart/items", `{"product_id":1,"modifier_ids":[10,10]}`, http.StatusOK)
	w := f.expect(t, http.MethodPost, base+"/cart/items", `{"product_id":2}`, http.StatusOK)

	var cartView struct {
		Lines []struct {
			Quantity int `json:"quantity"`
		} `json:"lines"`
		Subtotal int64  `json:"subtotal"`
		Display  string `json:"subtotal_display"`
	}
	decode(t, w, &cartView)
	if len(cartView.Lines) != 2 || cartView.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected cart lines: %+v", cartView.Lines)
	}
	if cartView.Subtotal != 1425 || cartView.Display != "$14.25" {
		t.Fatalf("subtotal=%d display=%q, expected 1425 $14.25", cartView.Subtotal, cartView.Display)
	}

	w = f.expect(t, http.MethodPost, base+"/checkout", `{"note":"no ice"}`, http.StatusCreated)
	var created order.CreatedResponse
	decode(t, w, &created)
	if created.OrderID != 1 {
		t.Fatalf("order_id=%d", created.OrderID)
	}

	// the cart was cleared, a second checkout is rejected and writes nothing
	f.expect(t, http.MethodPost, base+"/checkout", "", http.StatusBadRequest)
	if len(f.orders.orders) != 1 {
		t.Fatalf("orders=%d, expected 1", len(f.orders.orders))
	}

	oid := fmt.Sprintf("/orders/%d", created.OrderID)
	f.expect(t, http.MethodPost, oid+"/items/1/ready", "", http.StatusConflict)
	f.expect(t, http.MethodPost, oid+"/confirm", "", http.StatusNoContent)
	f.expect(t, http.MethodPost, oid+"/confirm", "", http.StatusConflict)
	f.expect(t, http.MethodPost, oid+"/deliver", "", http.StatusConflict)

	w = f.expect(t, http.MethodPost, oid+"/items/1/ready", "", http.StatusOK)
	if !bytes.Contains(w.Body.Bytes(), []byte(`"in_kitchen"`)) {
		t.Fatalf("expected in_kitchen, got %s", w.Body.String())
	}
	w = f.expect(t, http.MethodPost, oid+"/items/2/ready", "", http.StatusOK)
	if !bytes.Contains(w.Body.Bytes(), []byte(`"ready"`)) {
		t.Fatalf("expected ready, got %s", w.Body.String())
	}
	f.expect(t, http.MethodPost, oid+"/deliver", "", http.StatusNoContent)

	// $14.25 + $1.75 tax, $20.00 tendered → $-4.00 remaining
	f.expect(t, http.MethodPost, base+"/tender/keys", `{"keys":"20"}`, http.StatusOK)
	f.expect(t, http.MethodPost, base+"/tender/commit", "", http.StatusOK)

	w = f.expect(t, http.MethodGet, base+"/bill?order_ids=1", "", http.StatusOK)
	var bill struct {
		Bill    checkout.Bill     `json:"bill"`
		Display map[string]string `json:"display"`
	}
	decode(t, w, &bill)
	if bill.Bill.BalanceDue != 1600 || bill.Bill.Remaining != -400 {
		t.Fatalf("unexpected bill: %+v", bill.Bill)
	}
	if bill.Display["remaining"] != "$-4.00" {
		t.Fatalf("remaining display=%q", bill.Display["remaining"])
	}

	f.expect(t, http.MethodPost, base+"/settle", `{"order_ids":[1]}`, http.StatusOK)
	if o := f.orders.orders[1]; o.Status != order.StatusSettled || o.Charged == nil || *o.Charged != 1600 {
		t.Fatalf("order not settled correctly: %+v", o)
	}
	if len(f.sink.printed) != 1 || f.sink.printed[0].Change() != 400 {
		t.Fatalf("receipt not printed as expected: %+v", f.sink.printed)
	}

	// terminal
	f.expect(t, http.MethodPost, base+"/settle", `{"order_ids":[1]}`, http.StatusConflict)
	f.expect(t, http.MethodPost, oid+"/confirm", "", http.StatusConflict)
	if len(f.sink.printed) != 1 {
		t.Fatalf("rejected settlement must not print")
	}

	w = f.expect(t, http.MethodGet, "/views/transactions", "", http.StatusOK)
	var tx struct {
		RefreshSeconds int `json:"refresh_seconds"`
		Orders         []struct {
			ID       int64 `json:"id"`
			Subtotal int64 `json:"subtotal"`
		} `json:"orders"`
	}
	decode(t, w, &tx)
	if tx.RefreshSeconds != 2 || len(tx.Orders) != 1 || tx.Orders[0].Subtotal != 1425 {
		t.Fatalf("unexpected transactions view: %+v", tx)
	}
}

func TestSettle_BatchIsAllOrNothing(t *testing.T) {
	f := newFixture()
	sid := f.openSession(t)
	base := "/sessions/" + sid

	for i := 0; i < 2; i++ {
		f.expect(t, http.MethodPost, base+"/cart/items", `{"product_id":2}`, http.StatusOK)
		f.expect(t, http.MethodPost, base+"/checkout", "", http.StatusCreated)
	}

	f.expect(t, http.MethodPost, base+"/settle", `{"order_ids":[1,2,99]}`, http.StatusNotFound)
	for _, id := range []int64{1, 2} {
		if f.orders.orders[id].Status != order.StatusOpen {
			t.Fatalf("order %d changed on failed batch", id)
		}
	}
	f.expect(t, http.MethodPost, base+"/settle", `{"order_ids":[]}`, http.StatusBadRequest)
	f.expect(t, http.MethodPost, base+"/settle", `{"order_ids":[1,2]}`, http.StatusOK)
	for _, id := range []int64{1, 2} {
		if f.orders.orders[id].Status != order.StatusSettled {
			t.Fatalf("order %d not settled", id)
		}
	}
}

func TestBill_RepeatedOrderIDCountsOnce(t *testing.T) {
	f := newFixture()
	base := "/sessions/" + f.openSession(t)
	f.expect(t, http.MethodPost, base+"/cart/items", `{"product_id":2}`, http.StatusOK)
	f.expect(t, http.MethodPost, base+"/checkout", "", http.StatusCreated)

	w := f.expect(t, http.MethodGet, base+"/bill?order_ids=1,1", "", http.StatusOK)
	var got struct {
		Orders []json.RawMessage `json:"orders"`
		Bill   checkout.Bill     `json:"bill"`
	}
	decode(t, w, &got)
	if len(got.Orders) != 1 || got.Bill.Subtotal != 325 || got.Bill.BalanceDue != 500 {
		t.Fatalf("orders=%d subtotal=%d due=%d, expected 1 325 500", len(got.Orders), got.Bill.Subtotal, got.Bill.BalanceDue)
	}

	f.expect(t, http.MethodPost, base+"/settle", `{"order_ids":[1,1]}`, http.StatusOK)
	if o := f.orders.orders[1]; o.Status != order.StatusSettled || *o.Charged != 500 {
		t.Fatalf("order not settled once: %+v", o)
	}
}

func TestAddItem_Rejections(t *testing.T) {
	f := newFixture()
	base := "/sessions/" + f.openSession(t)

	f.expect(t, http.MethodPost, base+"/cart/items", `{"product_id":1,"modifier_ids":[20,21]}`, http.StatusBadRequest)
	f.expect(t, http.MethodPost, base+"/cart/items", `{"product_id":1,"modifier_ids":[99]}`, http.StatusBadRequest)
	f.expect(t, http.MethodPost, base+"/cart/items", `{"product_id":3}`, http.StatusNotFound)
	f.expect(t, http.MethodPost, base+"/cart/items", `{"product_id":42}`, http.StatusNotFound)
	f.expect(t, http.MethodPost, base+"/cart/items", `{}`, http.StatusBadRequest)
	f.expect(t, http.MethodPost, "/sessions/nope/cart/items", `{"product_id":1}`, http.StatusNotFound)

	w := f.expect(t, http.MethodGet, base+"/cart", "", http.StatusOK)
	if !bytes.Contains(w.Body.Bytes(), []byte(`"subtotal":0`)) {
		t.Fatalf("cart should be empty: %s", w.Body.String())
	}
}

func TestCartQuantity(t *testing.T) {
	f := newFixture()
	base := "/sessions/" + f.openSession(t)

	f.expect(t, http.MethodPost, base+"/cart/items", `{"product_id":1,"modifier_ids":[21]}`, http.StatusOK)
	w := f.expect(t, http.MethodPatch, base+"/cart/items/0", `{"delta":2}`, http.StatusOK)
	if !bytes.Contains(w.Body.Bytes(), []byte(`"subtotal":1800`)) {
		t.Fatalf("expected 3 x $6.00: %s", w.Body.String())
	}
	w = f.expect(t, http.MethodPatch, base+"/cart/items/7", `{"delta":-1}`, http.StatusNotFound)
	if !bytes.Contains(w.Body.Bytes(), []byte(`cart line not found: 7`)) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	w = f.expect(t, http.MethodGet, base+"/cart", "", http.StatusOK)
	if !bytes.Contains(w.Body.Bytes(), []byte(`"quantity":3`)) {
		t.Fatalf("cart changed by a rejected update: %s", w.Body.String())
	}
	w = f.expect(t, http.MethodPatch, base+"/cart/items/0", `{"delta":-5}`, http.StatusOK)
	if !bytes.Contains(w.Body.Bytes(), []byte(`"lines":[]`)) {
		t.Fatalf("line should be removed: %s", w.Body.String())
	}
}

func TestTenderKeypad(t *testing.T) {
	f := newFixture()
	base := "/sessions/" + f.openSession(t)

	f.expect(t, http.MethodPost, base+"/tender/keys", `{"keys":"1.2"}`, http.StatusOK)
	f.expect(t, http.MethodPost, base+"/tender/keys", `{"keys":"."}`, http.StatusBadRequest)
	f.expect(t, http.MethodPost, base+"/tender/keys", `{"keys":"a"}`, http.StatusBadRequest)
	f.expect(t, http.MethodPost, base+"/tender/backspace", "", http.StatusOK)
	w := f.expect(t, http.MethodPost, base+"/tender/tips", "", http.StatusOK)
	var st tenderView
	decode(t, w, &st)
	if st.Tips != 100 || st.Input != "" {
		t.Fatalf("unexpected tender state: %+v", st)
	}

	f.expect(t, http.MethodPost, base+"/tender/quick", `{"amount":"20"}`, http.StatusOK)
	w = f.expect(t, http.MethodPost, base+"/tender/quick", `{"amount":"5"}`, http.StatusOK)
	decode(t, w, &st)
	if st.Tendered != 2500 {
		t.Fatalf("tendered=%d, expected 2500", st.Tendered)
	}
	for _, bad := range []string{"abc", "-5.00", "1e3", "0"} {
		f.expect(t, http.MethodPost, base+"/tender/quick", `{"amount":"`+bad+`"}`, http.StatusBadRequest)
	}
	w = f.expect(t, http.MethodPost, base+"/tender/backspace", "", http.StatusOK)
	decode(t, w, &st)
	if st.Tendered != 2500 {
		t.Fatalf("rejected quick tenders changed tendered to %d", st.Tendered)
	}

	f.expect(t, http.MethodPut, base+"/tender/payment-type", `{"payment_type":"bitcoin"}`, http.StatusBadRequest)
	w = f.expect(t, http.MethodPut, base+"/tender/payment-type", `{"payment_type":"credit"}`, http.StatusOK)
	decode(t, w, &st)
	if st.PaymentType != checkout.PaymentCredit {
		t.Fatalf("payment_type=%s", st.PaymentType)
	}
	f.expect(t, http.MethodPut, base+"/split", `{"count":0}`, http.StatusBadRequest)
	w = f.expect(t, http.MethodPut, base+"/split", `{"count":3}`, http.StatusOK)
	decode(t, w, &st)
	if st.SplitCount != 3 {
		t.Fatalf("split_count=%d", st.SplitCount)
	}
	f.expect(t, http.MethodDelete, base+"/tender/tips", "", http.StatusOK)
}

func TestCheckout_UsesSessionNote(t *testing.T) {
	f := newFixture()
	base := "/sessions/" + f.openSession(t)

	f.expect(t, http.MethodPut, base+"/note", `{"note":"table 4"}`, http.StatusOK)
	f.expect(t, http.MethodPost, base+"/cart/items", `{"product_id":2}`, http.StatusOK)
	f.expect(t, http.MethodPost, base+"/checkout", "", http.StatusCreated)
	if got := f.orders.orders[1].Note; got != "table 4" {
		t.Fatalf("note=%q, expected session note", got)
	}

	// the note is consumed by the checkout; a body note wins over the session note
	f.expect(t, http.MethodPut, base+"/note", `{"note":"ignored"}`, http.StatusOK)
	f.expect(t, http.MethodPost, base+"/cart/items", `{"product_id":2}`, http.StatusOK)
	f.expect(t, http.MethodPost, base+"/checkout", `{"note":"to go"}`, http.StatusCreated)
	f.expect(t, http.MethodPost, base+"/cart/items", `{"product_id":2}`, http.StatusOK)
	f.expect(t, http.MethodPost, base+"/checkout", "", http.StatusCreated)
	if f.orders.orders[2].Note != "to go" || f.orders.orders[3].Note != "" {
		t.Fatalf("notes=%q,%q", f.orders.orders[2].Note, f.orders.orders[3].Note)
	}
	f.expect(t, http.MethodPut, "/sessions/nope/note", `{"note":"x"}`, http.StatusNotFound)
}

func TestSessionClose(t *testing.T) {
	f := newFixture()
	sid := f.openSession(t)
	f.expect(t, http.MethodDelete, "/sessions/"+sid, "", http.StatusNoContent)
	f.expect(t, http.MethodDelete, "/sessions/"+sid, "", http.StatusNotFound)
	f.expect(t, http.MethodGet, "/sessions/"+sid+"/cart", "", http.StatusNotFound)
}

func TestKitchenView(t *testing.T) {
	f := newFixture()
	base := "/sessions/" + f.openSession(t)
	f.expect(t, http.MethodPost, base+"/cart/items", `{"product_id":1,"modifier_ids":[10,20]}`, http.StatusOK)
	f.expect(t, http.MethodPost, base+"/checkout", "", http.StatusCreated)

	w := f.expect(t, http.MethodGet, "/views/kitchen", "", http.StatusOK)
	var v struct {
		Tickets []struct {
			OrderID int64 `json:"order_id"`
			Lines   []struct {
				ProductName string   `json:"product_name"`
				Modifiers   []string `json:"modifiers"`
			} `json:"lines"`
		} `json:"tickets"`
	}
	decode(t, w, &v)
	if len(v.Tickets) != 1 || v.Tickets[0].Lines[0].ProductName != "Product A" || len(v.Tickets[0].Lines[0].Modifiers) != 2 {
		t.Fatalf("unexpected kitchen view: %+v", v)
	}

	w = f.expect(t, http.MethodGet, "/views/delivery", "", http.StatusOK)
	if !bytes.Contains(w.Body.Bytes(), []byte(`"tickets":[]`)) {
		t.Fatalf("delivery queue should be empty: %s", w.Body.String())
	}
}

func TestTransactionEdits(t *testing.T) {
	f := newFixture()
	base := "/sessions/" + f.openSession(t)
	f.expect(t, http.MethodPost, base+"/cart/items", `{"product_id":2}`, http.StatusOK)
	f.expect(t, http.MethodPost, base+"/checkout", "", http.StatusCreated)

	f.expect(t, http.MethodPut, "/transactions/1/note", `{"note":"x"}`, http.StatusConflict)
	f.expect(t, http.MethodPost, base+"/settle", `{"order_ids":[1]}`, http.StatusOK)
	f.expect(t, http.MethodPut, "/transactions/1/note", `{"note":"comped"}`, http.StatusNoContent)
	if f.orders.orders[1].Note != "comped" {
		t.Fatalf("note not updated")
	}
	f.expect(t, http.MethodDelete, "/transactions/1", "", http.StatusNoContent)
	f.expect(t, http.MethodDelete, "/transactions/1", "", http.StatusNotFound)
}

func TestAdminProducts(t *testing.T) {
	f := newFixture()

	f.expect(t, http.MethodPost, "/admin/products", `{"description":"","price":"1.00"}`, http.StatusBadRequest)
	f.expect(t, http.MethodPost, "/admin/products", `{"description":"Shake","price":"abc"}`, http.StatusBadRequest)
	w := f.expect(t, http.MethodPost, "/admin/products", `{"description":"Shake","price":"4.75","tax_rate":"4.712"}`, http.StatusCreated)
	var p catalog.Product
	decode(t, w, &p)
	if p.ID == 0 || p.Price != 475 || !p.Active {
		t.Fatalf("unexpected product: %+v", p)
	}

	f.expect(t, http.MethodPut, "/admin/categories/1/rank", `{"product_ids":[2,1]}`, http.StatusNoContent)
	if len(f.cat.ranked) != 2 || f.cat.ranked[0] != 2 {
		t.Fatalf("rank not applied: %v", f.cat.ranked)
	}
	f.expect(t, http.MethodPut, "/admin/categories/1/rank", `{"product_ids":[404]}`, http.StatusNotFound)
	f.expect(t, http.MethodPut, "/admin/categories/1/rank", `{"product_ids":[]}`, http.StatusBadRequest)

	f.expect(t, http.MethodDelete, fmt.Sprintf("/admin/products/%d", p.ID), "", http.StatusNoContent)
	f.expect(t, http.MethodDelete, fmt.Sprintf("/admin/products/%d", p.ID), "", http.StatusNotFound)
	f.expect(t, http.MethodDelete, "/admin/products/abc", "", http.StatusBadRequest)
}

func TestMissingOrder(t *testing.T) {
	f := newFixture()
	f.expect(t, http.MethodPost, "/orders/9/confirm", "", http.StatusNotFound)
	f.expect(t, http.MethodGet, "/orders/9", "", http.StatusNotFound)
	f.expect(t, http.MethodPost, "/orders/x/deliver", "", http.StatusBadRequest)
}
