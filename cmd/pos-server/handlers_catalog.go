package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/qsr-pos/internal/catalog"
	"github.com/MikeMC777/qsr-pos/internal/httpx"
)

// listCategoriesHandler godoc
// @Summary  Active categories
// @Tags     catalog
// @Produce  json
// @Success  200 {array} catalog.Category
// @Router   /categories [get]
func listCategoriesHandler(repo catalog.Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := repo.ListCategories(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

// listProductsHandler godoc
// @Summary  Active products of a category, in rank order
// @Tags     catalog
// @Produce  json
// @Param    id  path  int  true  "category id"
// @Success  200 {array} catalog.Product
// @Router   /categories/{id}/products [get]
func listProductsHandler(repo catalog.Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		list, err := repo.ListProducts(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

// listModifiersHandler godoc
// @Summary  Active modifiers of a product grouped by modifier group
// @Tags     catalog
// @Produce  json
// @Param    id  path  int  true  "product id"
// @Success  200 {array} catalog.ModifierGroup
// @Router   /products/{id}/modifiers [get]
func listModifiersHandler(repo catalog.Reader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		groups, err := repo.ListModifiers(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(groups))
	}
}

func allCategoriesHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := repo.AllCategories(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

// createCategoryHandler godoc
// @Summary  Create a category
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    body  body  catalog.CreateCategoryRequest  true  "category"
// @Success  201 {object} catalog.Category
// @Router   /admin/categories [post]
func createCategoryHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat, ok := bindCategory(c)
		if !ok {
			return
		}
		if err := repo.CreateCategory(c.Request.Context(), cat); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

func updateCategoryHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		cat, ok := bindCategory(c)
		if !ok {
			return
		}
		cat.ID = id
		if err := repo.UpdateCategory(c.Request.Context(), cat); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

func bindCategory(c *gin.Context) (*catalog.Category, bool) {
	var req catalog.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "invalid json")
		return nil, false
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		httpx.BadRequest(c, "description is required")
		return nil, false
	}
	return &catalog.Category{Description: desc, Active: req.Active == nil || *req.Active}, true
}

func deleteCategoryHandler(repo catalog.Repository) gin.HandlerFunc {
	return deleteHandler(repo.DeleteCategory)
}

// rankProductsHandler godoc
// @Summary  Re-rank the products of a category
// @Tags     admin
// @Accept   json
// @Param    id    path  int                  true  "category id"
// @Param    body  body  catalog.RankRequest  true  "product ids in display order"
// @Success  204
// @Router   /admin/categories/{id}/rank [put]
func rankProductsHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req catalog.RankRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.ProductIDs) == 0 {
			httpx.BadRequest(c, "product_ids is required")
			return
		}
		if err := repo.RankProducts(c.Request.Context(), id, req.ProductIDs); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func unassignedProductsHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := repo.UnassignedProducts(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

// createProductHandler godoc
// @Summary  Create a product
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    body  body  catalog.ProductRequest  true  "product"
// @Success  201 {object} catalog.Product
// @Failure  400 {object} map[string]string
// @Router   /admin/products [post]
func createProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalog.ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		p, err := catalog.NewProduct(req)
		if err != nil {
			fail(c, err)
			return
		}
		if err := repo.CreateProduct(c.Request.Context(), p); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req catalog.ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		p, err := catalog.NewProduct(req)
		if err != nil {
			fail(c, err)
			return
		}
		p.ID = id
		if err := repo.UpdateProduct(c.Request.Context(), p); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return deleteHandler(repo.DeleteProduct)
}

func assignProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req catalog.AssignCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		if err := repo.AssignProduct(c.Request.Context(), id, req.CategoryID); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func createModifierGroupHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalog.ModifierGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Description) == "" {
			httpx.BadRequest(c, "description is required")
			return
		}
		g := &catalog.ModifierGroup{Description: strings.TrimSpace(req.Description)}
		if err := repo.CreateModifierGroup(c.Request.Context(), g); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, g)
	}
}

func unassignedModifiersHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := repo.UnassignedModifiers(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

// createModifierHandler godoc
// @Summary  Create a modifier
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    body  body  catalog.ModifierRequest  true  "modifier"
// @Success  201 {object} catalog.Modifier
// @Router   /admin/modifiers [post]
func createModifierHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalog.ModifierRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		m, err := catalog.NewModifier(req)
		if err != nil {
			fail(c, err)
			return
		}
		if err := repo.CreateModifier(c.Request.Context(), m); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, m)
	}
}

func updateModifierHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req catalog.ModifierRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		m, err := catalog.NewModifier(req)
		if err != nil {
			fail(c, err)
			return
		}
		m.ID = id
		if err := repo.UpdateModifier(c.Request.Context(), m); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

func deleteModifierHandler(repo catalog.Repository) gin.HandlerFunc {
	return deleteHandler(repo.DeleteModifier)
}

func assignModifierHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req catalog.AssignProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		if err := repo.AssignModifier(c.Request.Context(), id, req.ProductID); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func deleteHandler(del func(ctx context.Context, id int64) (bool, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		found, err := del(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// nonNil keeps empty lists encoded as [] instead of null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
