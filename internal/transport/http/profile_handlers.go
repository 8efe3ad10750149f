package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/pkg/httpx"
)

// listOrders — постраничная коллекция заказов профиля.
// append=1 доклеивает страницу к уже показанным (бесконечная лента).
func (h *Handler) listOrders(c *gin.Context) {
	page, err := h.orders.Page(
		c.Request.Context(),
		userID(c),
		httpx.ParsePage(c),
		httpx.ParseBool(c, "append"),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, withProgress(page))
}

// withProgress — дорисовывает позицию прогресс-бара к заказам профиля.
// Заказы копируются: страница из кэша общая для конкурентных запросов.
func withProgress(page domain.OrderPage) domain.OrderPage {
	items := make([]*domain.Order, len(page.Items))
	for i, o := range page.Items {
		cp := *o
		pr := domain.ProgressFor(cp.Status)
		cp.Progress = &pr
		items[i] = &cp
	}
	page.Items = items
	return page
}

// cancelOrder — отмена своего заказа; чужой id даёт 404, не 403:
// существование чужих заказов не раскрываем.
func (h *Handler) cancelOrder(c *gin.Context) {
	orderID := c.Param("id")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty id"})
		return
	}

	page, err := h.orders.Cancel(c.Request.Context(), userID(c), orderID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, withProgress(page))
}

func (h *Handler) listAddresses(c *gin.Context) {
	addrs, err := h.addresses.All(c.Request.Context(), userID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addrs})
}

func (h *Handler) createAddress(c *gin.Context) {
	var addr domain.Address
	if err := c.ShouldBindJSON(&addr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	addr.UserID = userID(c)

	addrs, err := h.addresses.Create(c.Request.Context(), &addr)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"addresses": addrs})
}

func (h *Handler) updateAddress(c *gin.Context) {
	var addr domain.Address
	if err := c.ShouldBindJSON(&addr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	addr.ID = c.Param("id")
	addr.UserID = userID(c)

	addrs, err := h.addresses.Update(c.Request.Context(), &addr)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addrs})
}

func (h *Handler) deleteAddress(c *gin.Context) {
	addrs, err := h.addresses.Delete(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addrs})
}

// checkout — оформление заказа из клиентской корзины.
func (h *Handler) checkout(c *gin.Context) {
	var req domain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}

	order, err := h.checkoutSvc.PlaceOrder(c.Request.Context(), userID(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}
