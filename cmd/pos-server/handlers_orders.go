package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/qsr-pos/internal/checkout"
	"github.com/MikeMC777/qsr-pos/internal/display"
	"github.com/MikeMC777/qsr-pos/internal/httpx"
	"github.com/MikeMC777/qsr-pos/internal/order"
)

// getOrderHandler godoc
// @Summary  One order with its lines priced
// @Tags     orders
// @Produce  json
// @Param    id  path  int  true  "order id"
// @Success  200 {object} checkout.PricedOrder
// @Failure  404 {object} map[string]string
// @Router   /orders/{id} [get]
func getOrderHandler(svc *order.Service, pricer *checkout.Pricer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		o, err := svc.Repo().GetByID(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		priced, err := pricer.Price(c.Request.Context(), []order.Order{*o})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, priced[0])
	}
}

// confirmOrderHandler godoc
// @Summary  Kitchen confirms an open order
// @Tags     orders
// @Param    id  path  int  true  "order id"
// @Success  204
// @Failure  404 {object} map[string]string
// @Failure  409 {object} map[string]string
// @Router   /orders/{id}/confirm [post]
func confirmOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := svc.Confirm(c.Request.Context(), id); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// itemReadyHandler godoc
// @Summary  Check off one line; the order becomes ready with its last line
// @Tags     orders
// @Produce  json
// @Param    id      path  int  true  "order id"
// @Param    itemID  path  int  true  "order item id"
// @Success  200 {object} map[string]string
// @Failure  409 {object} map[string]string
// @Router   /orders/{id}/items/{itemID}/ready [post]
func itemReadyHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		itemID, ok := idParam(c, "itemID")
		if !ok {
			return
		}
		st, err := svc.MarkItemReady(c.Request.Context(), id, itemID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": st})
	}
}

func deliverOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := svc.Deliver(c.Request.Context(), id); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// kitchenViewHandler godoc
// @Summary  Kitchen queue (open and in_kitchen), oldest first
// @Tags     views
// @Produce  json
// @Success  200 {object} display.TicketView
// @Router   /views/kitchen [get]
func kitchenViewHandler(views *display.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := views.Kitchen(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func deliveryViewHandler(views *display.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := views.Delivery(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func customerViewHandler(views *display.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := views.Customer(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func transactionsViewHandler(views *display.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := views.Transactions(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func updateNoteHandler(views *display.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req order.NoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		if err := views.UpdateNote(c.Request.Context(), id, req.Note); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func deleteTransactionHandler(views *display.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := views.Delete(c.Request.Context(), id); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
