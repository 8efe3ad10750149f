package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/pkg/httpx"
)

// listProducts — каталог с фильтрами category/featured/active.
// Фильтр по категории трёхступенчатый (см. store.Products).
func (h *Handler) listProducts(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		products []domain.Product
		err      error
	)
	if category := c.Query("category"); category != "" {
		products, err = h.catalog.ByCategory(ctx, category)
	} else if httpx.ParseBool(c, "refresh") {
		// не просто форс мимо TTL: висящий фетч каталога отменяется
		products, err = h.catalog.Refresh(ctx)
	} else {
		products, err = h.catalog.All(ctx, false)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	if httpx.ParseBool(c, "featured") {
		products = keepProducts(products, func(p *domain.Product) bool { return p.Featured })
	}
	if c.Query("active") != "" {
		want := httpx.ParseBool(c, "active")
		products = keepProducts(products, func(p *domain.Product) bool { return p.Active == want })
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) getProduct(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty id"})
		return
	}

	product, err := h.catalog.ByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func keepProducts(list []domain.Product, keep func(*domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0, len(list))
	for i := range list {
		if keep(&list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}
