package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/qsr-pos/internal/cart"
	"github.com/MikeMC777/qsr-pos/internal/catalog"
	"github.com/MikeMC777/qsr-pos/internal/checkout"
	"github.com/MikeMC777/qsr-pos/internal/httpx"
	"github.com/MikeMC777/qsr-pos/internal/money"
	"github.com/MikeMC777/qsr-pos/internal/order"
	"github.com/MikeMC777/qsr-pos/internal/session"
)

// withSession runs fn under the session lock and reports whether it succeeded. On
// failure the error response has been written.
func withSession(c *gin.Context, store *session.Store, fn func(st *session.State) error) bool {
	sess, err := store.Get(c.Param("sid"))
	if err != nil {
		fail(c, err)
		return false
	}
	if err := sess.Do(fn); err != nil {
		fail(c, err)
		return false
	}
	return true
}

func cartView(cr *cart.Cart) cart.View {
	sub := cr.Subtotal()
	return cart.View{Lines: cr.Lines(), Subtotal: sub, Display: money.Format(sub)}
}

type tenderView struct {
	Input       string               `json:"input"`
	Tendered    int64                `json:"tendered"`
	Tips        int64                `json:"tips"`
	PaymentType checkout.PaymentType `json:"payment_type"`
	SplitCount  int                  `json:"split_count"`
}

func tenderState(st *session.State) tenderView {
	return tenderView{
		Input:       st.Tender.Input(),
		Tendered:    st.Tender.Tendered(),
		Tips:        st.Tender.Tips(),
		PaymentType: st.Tender.PaymentType(),
		SplitCount:  st.SplitCount,
	}
}

// openSessionHandler godoc
// @Summary  Open an order-entry session
// @Tags     sessions
// @Produce  json
// @Success  201 {object} map[string]string
// @Router   /sessions [post]
func openSessionHandler(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := store.Open()
		c.JSON(http.StatusCreated, gin.H{"session_id": sess.ID})
	}
}

func closeSessionHandler(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.Close(c.Param("sid")) {
			fail(c, session.ErrNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getCartHandler(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var v cart.View
		if withSession(c, store, func(st *session.State) error {
			v = cartView(st.Cart)
			return nil
		}) {
			c.JSON(http.StatusOK, v)
		}
	}
}

// addCartItemHandler godoc
// @Summary  Add a product with modifiers to the cart
// @Tags     sessions
// @Accept   json
// @Produce  json
// @Param    sid   path  string               true  "session id"
// @Param    body  body  cart.AddItemRequest  true  "selection"
// @Success  200 {object} cart.View
// @Failure  400 {object} map[string]string
// @Failure  404 {object} map[string]string
// @Router   /sessions/{sid}/cart/items [post]
func addCartItemHandler(store *session.Store, repo catalog.Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cart.AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ProductID <= 0 {
			httpx.BadRequest(c, "product_id is required")
			return
		}
		mods, name, price, err := resolveSelection(c.Request.Context(), repo, req)
		if err != nil {
			fail(c, err)
			return
		}
		var v cart.View
		if withSession(c, store, func(st *session.State) error {
			st.Cart.AddItem(req.ProductID, name, price, mods)
			v = cartView(st.Cart)
			return nil
		}) {
			c.JSON(http.StatusOK, v)
		}
	}
}

func resolveSelection(ctx context.Context, repo catalog.Reader, req cart.AddItemRequest) ([]cart.SelectedModifier, string, int64, error) {
	p, err := repo.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, "", 0, err
	}
	if !p.Active {
		return nil, "", 0, fmt.Errorf("product %d: %w", p.ID, catalog.ErrNotFound)
	}
	var mods []cart.SelectedModifier
	if len(req.ModifierIDs) > 0 {
		groups, err := repo.ListModifiers(ctx, p.ID)
		if err != nil {
			return nil, "", 0, err
		}
		if mods, err = cart.Pick(groups, req.ModifierIDs); err != nil {
			return nil, "", 0, err
		}
	}
	return mods, p.Description, p.Price, nil
}

func updateCartItemHandler(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			httpx.BadRequest(c, "invalid index")
			return
		}
		var req cart.QuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		var v cart.View
		if withSession(c, store, func(st *session.State) error {
			if !st.Cart.UpdateQuantity(index, req.Delta) {
				return fmt.Errorf("%w: %d", cart.ErrLineNotFound, index)
			}
			v = cartView(st.Cart)
			return nil
		}) {
			c.JSON(http.StatusOK, v)
		}
	}
}

func clearCartHandler(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if withSession(c, store, func(st *session.State) error {
			st.Cart.Clear()
			return nil
		}) {
			c.Status(http.StatusNoContent)
		}
	}
}

// setNoteHandler stores the note the next checkout uses when it sends none.
func setNoteHandler(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.NoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		if withSession(c, store, func(st *session.State) error {
			st.Note = req.Note
			return nil
		}) {
			c.JSON(http.StatusOK, gin.H{"note": req.Note})
		}
	}
}

// checkoutHandler godoc
// @Summary  Commit the session cart as a new open order
// @Tags     sessions
// @Accept   json
// @Produce  json
// @Param    sid   path  string                 true  "session id"
// @Param    body  body  order.CheckoutRequest  false "note"
// @Success  201 {object} order.CreatedResponse
// @Failure  400 {object} map[string]string
// @Router   /sessions/{sid}/checkout [post]
func checkoutHandler(store *session.Store, svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CheckoutRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				httpx.BadRequest(c, "invalid json")
				return
			}
		}
		var id int64
		if withSession(c, store, func(st *session.State) error {
			note := req.Note
			if note == "" {
				note = st.Note
			}
			var err error
			if id, err = svc.CreateOrder(c.Request.Context(), st.Cart, note); err != nil {
				return err
			}
			st.Note = ""
			return nil
		}) {
			c.JSON(http.StatusCreated, order.CreatedResponse{OrderID: id})
		}
	}
}

// tenderHandler wraps a keypad action and answers with the register state.
func tenderHandler(store *session.Store, action func(c *gin.Context, st *session.State) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		var v tenderView
		if withSession(c, store, func(st *session.State) error {
			if err := action(c, st); err != nil {
				return err
			}
			v = tenderState(st)
			return nil
		}) {
			c.JSON(http.StatusOK, v)
		}
	}
}

// pressKeysHandler godoc
// @Summary  Type keypad keys into the tender buffer
// @Tags     register
// @Accept   json
// @Produce  json
// @Param    sid   path  string                true  "session id"
// @Param    body  body  checkout.KeysRequest  true  "keys"
// @Success  200 {object} map[string]any
// @Router   /sessions/{sid}/tender/keys [post]
func pressKeysHandler(store *session.Store) gin.HandlerFunc {
	return tenderHandler(store, func(c *gin.Context, st *session.State) error {
		var req checkout.KeysRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return fmt.Errorf("%w: invalid json", checkout.ErrInvalidKey)
		}
		return st.Tender.PressAll(req.Keys)
	})
}

func backspaceHandler(store *session.Store) gin.HandlerFunc {
	return tenderHandler(store, func(_ *gin.Context, st *session.State) error {
		st.Tender.DeleteLastDigit()
		return nil
	})
}

func commitTenderHandler(store *session.Store) gin.HandlerFunc {
	return tenderHandler(store, func(_ *gin.Context, st *session.State) error {
		return st.Tender.CommitTender()
	})
}

func quickTenderHandler(store *session.Store) gin.HandlerFunc {
	return tenderHandler(store, func(c *gin.Context, st *session.State) error {
		var req checkout.QuickTenderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return fmt.Errorf("%w: invalid json", money.ErrInvalidAmount)
		}
		cents, err := money.ParseAmount(req.Amount)
		if err != nil {
			return err
		}
		if cents <= 0 {
			return fmt.Errorf("%w: quick tender must be positive", money.ErrInvalidAmount)
		}
		st.Tender.QuickTender(cents)
		return nil
	})
}

func commitTipsHandler(store *session.Store) gin.HandlerFunc {
	return tenderHandler(store, func(_ *gin.Context, st *session.State) error {
		return st.Tender.CommitTips()
	})
}

func clearTipsHandler(store *session.Store) gin.HandlerFunc {
	return tenderHandler(store, func(_ *gin.Context, st *session.State) error {
		st.Tender.ClearTips()
		return nil
	})
}

func paymentTypeHandler(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.PaymentTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		pt, err := checkout.ParsePaymentType(req.PaymentType)
		if err != nil {
			httpx.BadRequest(c, err.Error())
			return
		}
		tenderHandler(store, func(_ *gin.Context, st *session.State) error {
			st.Tender.SetPaymentType(pt)
			return nil
		})(c)
	}
}

func splitHandler(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.SplitRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Count < 1 {
			httpx.BadRequest(c, "count must be at least 1")
			return
		}
		tenderHandler(store, func(_ *gin.Context, st *session.State) error {
			st.SplitCount = req.Count
			return nil
		})(c)
	}
}

// billHandler godoc
// @Summary  Price the given orders against the session's tender
// @Tags     register
// @Produce  json
// @Param    sid        path   string  true  "session id"
// @Param    order_ids  query  string  true  "comma separated order ids"
// @Success  200 {object} checkout.Quote
// @Router   /sessions/{sid}/bill [get]
func billHandler(store *session.Store, settler *checkout.Settler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := idList(c.Query("order_ids"))
		if err != nil {
			httpx.BadRequest(c, "invalid order_ids")
			return
		}
		var q *checkout.Quote
		if withSession(c, store, func(st *session.State) error {
			var err error
			q, err = settler.Quote(c.Request.Context(), ids, st.Tender, st.SplitCount)
			return err
		}) {
			c.JSON(http.StatusOK, gin.H{"orders": q.Orders, "bill": q.Bill, "display": q.Bill.Formatted()})
		}
	}
}

// settleHandler godoc
// @Summary  Settle orders with the session's tender and print the receipt
// @Tags     register
// @Accept   json
// @Produce  json
// @Param    sid   path  string                  true  "session id"
// @Param    body  body  checkout.SettleRequest  true  "orders"
// @Success  200 {object} checkout.Quote
// @Failure  409 {object} map[string]string
// @Router   /sessions/{sid}/settle [post]
func settleHandler(store *session.Store, settler *checkout.Settler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.SettleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		var q *checkout.Quote
		if withSession(c, store, func(st *session.State) error {
			var err error
			if q, err = settler.Settle(c.Request.Context(), req.OrderIDs, st.Tender, st.SplitCount); err != nil {
				return err
			}
			st.SplitCount = 1
			return nil
		}) {
			c.JSON(http.StatusOK, gin.H{"orders": q.Orders, "bill": q.Bill, "display": q.Bill.Formatted()})
		}
	}
}
