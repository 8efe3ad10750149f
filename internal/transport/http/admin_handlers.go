package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/ports"
	"github.com/velmark/shopfront/pkg/httpx"
)

// --- Заказы ---

func (h *Handler) adminListOrders(c *gin.Context) {
	limit, offset := httpx.ParseLimitOffset(c, 20, 100)
	filter := ports.AdminOrderFilter{
		Status:  domain.Status(c.Query("status")),
		SortBy:  c.Query("sort_by"),
		SortDir: c.Query("sort_dir"),
		Limit:   limit,
		Offset:  offset,
	}
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
		return
	}

	orders, total, err := h.admin.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orders, "total_count": total})
}

func (h *Handler) adminOrderStats(c *gin.Context) {
	stats, err := h.admin.OrderStats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) adminGetOrder(c *gin.Context) {
	order, err := h.admin.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) adminUpdateOrderStatus(c *gin.Context) {
	var body struct {
		Status domain.Status `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}

	if err := h.admin.UpdateOrderStatus(c.Request.Context(), c.Param("id"), body.Status); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": body.Status})
}

// --- Товары ---

func (h *Handler) adminCreateProduct(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	if err := h.admin.CreateProduct(c.Request.Context(), &p); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) adminUpdateProduct(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	p.ID = c.Param("id")
	if err := h.admin.UpdateProduct(c.Request.Context(), &p); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) adminDeleteProduct(c *gin.Context) {
	if err := h.admin.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) adminGetProduct(c *gin.Context) {
	p, err := h.admin.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// --- Справочники ---

func refIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) adminListCategories(c *gin.Context) {
	list, err := h.admin.ListCategories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": list})
}

func (h *Handler) adminCreateCategory(c *gin.Context) {
	var cat domain.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	if err := h.admin.CreateCategory(c.Request.Context(), &cat); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) adminDeleteCategory(c *gin.Context) {
	id, ok := refIDParam(c)
	if !ok {
		return
	}
	if err := h.admin.DeleteCategory(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) adminListColors(c *gin.Context) {
	list, err := h.admin.ListColors(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"colors": list})
}

func (h *Handler) adminCreateColor(c *gin.Context) {
	var col domain.Color
	if err := c.ShouldBindJSON(&col); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	if err := h.admin.CreateColor(c.Request.Context(), &col); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, col)
}

func (h *Handler) adminDeleteColor(c *gin.Context) {
	id, ok := refIDParam(c)
	if !ok {
		return
	}
	if err := h.admin.DeleteColor(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) adminListSizes(c *gin.Context) {
	list, err := h.admin.ListSizes(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sizes": list})
}

func (h *Handler) adminCreateSize(c *gin.Context) {
	var sz domain.Size
	if err := c.ShouldBindJSON(&sz); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	if err := h.admin.CreateSize(c.Request.Context(), &sz); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sz)
}

func (h *Handler) adminDeleteSize(c *gin.Context) {
	id, ok := refIDParam(c)
	if !ok {
		return
	}
	if err := h.admin.DeleteSize(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Пользователи ---

func (h *Handler) adminListUsers(c *gin.Context) {
	limit, offset := httpx.ParseLimitOffset(c, 20, 100)
	users, total, err := h.admin.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total_count": total})
}

func (h *Handler) adminUpdateUserRole(c *gin.Context) {
	var body struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}

	if err := h.admin.UpdateUserRole(c.Request.Context(), c.Param("id"), body.Role); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": body.Role})
}
