package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MikeMC777/qsr-pos/docs"
	"github.com/MikeMC777/qsr-pos/internal/cart"
	"github.com/MikeMC777/qsr-pos/internal/catalog"
	"github.com/MikeMC777/qsr-pos/internal/checkout"
	"github.com/MikeMC777/qsr-pos/internal/httpx"
	"github.com/MikeMC777/qsr-pos/internal/money"
	"github.com/MikeMC777/qsr-pos/internal/order"
	"github.com/MikeMC777/qsr-pos/internal/session"
)

var errorStatus = []httpx.ErrorMapping{
	{Err: order.ErrNotFound, Status: http.StatusNotFound},
	{Err: catalog.ErrNotFound, Status: http.StatusNotFound},
	{Err: session.ErrNotFound, Status: http.StatusNotFound},
	{Err: cart.ErrLineNotFound, Status: http.StatusNotFound},
	{Err: order.ErrInvalidTransition, Status: http.StatusConflict},
	{Err: order.ErrEmptyCart, Status: http.StatusBadRequest},
	{Err: order.ErrNoOrders, Status: http.StatusBadRequest},
	{Err: catalog.ErrInvalid, Status: http.StatusBadRequest},
	{Err: cart.ErrUnknownModifier, Status: http.StatusBadRequest},
	{Err: cart.ErrSingleSelect, Status: http.StatusBadRequest},
	{Err: checkout.ErrInvalidKey, Status: http.StatusBadRequest},
	{Err: money.ErrInvalidAmount, Status: http.StatusBadRequest},
}

func fail(c *gin.Context, err error) { httpx.Abort(c, err, errorStatus...) }

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(a.log))
	a.routes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

func (a *app) routes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// order entry reads
	r.GET("/categories", listCategoriesHandler(a.catalog))
	r.GET("/categories/:id/products", listProductsHandler(a.catalog))
	r.GET("/products/:id/modifiers", listModifiersHandler(a.catalog))

	// sessions, cart and register
	r.POST("/sessions", openSessionHandler(a.sessions))
	s := r.Group("/sessions/:sid")
	{
		s.DELETE("", closeSessionHandler(a.sessions))
		s.GET("/cart", getCartHandler(a.sessions))
		s.POST("/cart/items", addCartItemHandler(a.sessions, a.catalog))
		s.PATCH("/cart/items/:index", updateCartItemHandler(a.sessions))
		s.DELETE("/cart", clearCartHandler(a.sessions))
		s.PUT("/note", setNoteHandler(a.sessions))
		s.POST("/checkout", checkoutHandler(a.sessions, a.orders))

		s.POST("/tender/keys", pressKeysHandler(a.sessions))
		s.POST("/tender/backspace", backspaceHandler(a.sessions))
		s.POST("/tender/commit", commitTenderHandler(a.sessions))
		s.POST("/tender/quick", quickTenderHandler(a.sessions))
		s.POST("/tender/tips", commitTipsHandler(a.sessions))
		s.DELETE("/tender/tips", clearTipsHandler(a.sessions))
		s.PUT("/tender/payment-type", paymentTypeHandler(a.sessions))
		s.PUT("/split", splitHandler(a.sessions))
		s.GET("/bill", billHandler(a.sessions, a.settler))
		s.POST("/settle", settleHandler(a.sessions, a.settler))
	}

	// kitchen and delivery actions
	r.GET("/orders/:id", getOrderHandler(a.orders, a.pricer))
	r.POST("/orders/:id/confirm", confirmOrderHandler(a.orders))
	r.POST("/orders/:id/items/:itemID/ready", itemReadyHandler(a.orders))
	r.POST("/orders/:id/deliver", deliverOrderHandler(a.orders))

	// polled displays
	r.GET("/views/kitchen", kitchenViewHandler(a.views))
	r.GET("/views/delivery", deliveryViewHandler(a.views))
	r.GET("/views/customer", customerViewHandler(a.views))
	r.GET("/views/transactions", transactionsViewHandler(a.views))
	r.PUT("/transactions/:id/note", updateNoteHandler(a.views))
	r.DELETE("/transactions/:id", deleteTransactionHandler(a.views))

	// back office
	adm := r.Group("/admin")
	{
		adm.GET("/categories", allCategoriesHandler(a.catalog))
		adm.POST("/categories", createCategoryHandler(a.catalog))
		adm.PUT("/categories/:id", updateCategoryHandler(a.catalog))
		adm.DELETE("/categories/:id", deleteCategoryHandler(a.catalog))
		adm.PUT("/categories/:id/rank", rankProductsHandler(a.catalog))

		adm.GET("/products/unassigned", unassignedProductsHandler(a.catalog))
		adm.POST("/products", createProductHandler(a.catalog))
		adm.PUT("/products/:id", updateProductHandler(a.catalog))
		adm.DELETE("/products/:id", deleteProductHandler(a.catalog))
		adm.PUT("/products/:id/category", assignProductHandler(a.catalog))

		adm.POST("/modifier-groups", createModifierGroupHandler(a.catalog))
		adm.GET("/modifiers/unassigned", unassignedModifiersHandler(a.catalog))
		adm.POST("/modifiers", createModifierHandler(a.catalog))
		adm.PUT("/modifiers/:id", updateModifierHandler(a.catalog))
		adm.DELETE("/modifiers/:id", deleteModifierHandler(a.catalog))
		adm.PUT("/modifiers/:id/product", assignModifierHandler(a.catalog))
	}
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 0 {
		httpx.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// idList parses "1,2,3".
func idList(s string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
