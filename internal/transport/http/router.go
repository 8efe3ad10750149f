// Пакет rest — HTTP-поверхность витрины: публичный каталог, профиль
// (заказы, адреса, чекаут) и бэк-офис.
package rest

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/velmark/shopfront/internal/ports"
	"github.com/velmark/shopfront/internal/usecase"
	"github.com/velmark/shopfront/pkg/httpx"
)

// Handler — HTTP-обработчики поверх доменных сторов и сервисов.
type Handler struct {
	catalog     ports.CatalogReader
	orders      ports.OrderReader
	addresses   ports.AddressManager
	checkoutSvc ports.CheckoutPlacer
	admin       *usecase.AdminService
	log         ports.Logger

	handlerTimeout time.Duration
}

func NewHandler(
	catalog ports.CatalogReader,
	orders ports.OrderReader,
	addresses ports.AddressManager,
	checkoutSvc ports.CheckoutPlacer,
	admin *usecase.AdminService,
	log ports.Logger,
	handlerTimeout time.Duration,
) *Handler {
	return &Handler{
		catalog:        catalog,
		orders:         orders,
		addresses:      addresses,
		checkoutSvc:    checkoutSvc,
		admin:          admin,
		log:            log,
		handlerTimeout: handlerTimeout,
	}
}

// NewRouter — сборка маршрутов. otelServiceName непустой → otelgin-трейсинг.
func NewRouter(h *Handler, adminToken, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))
	r.Use(withTimeout(h.handlerTimeout))

	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// Публичный каталог
	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/categories", h.listCategories)

	// Профиль (идентификатор пользователя ставит шлюз)
	profile := api.Group("/profile", userAuth())
	profile.GET("/orders", h.listOrders)
	profile.POST("/orders/:id/cancel", h.cancelOrder)
	profile.GET("/addresses", h.listAddresses)
	profile.POST("/addresses", h.createAddress)
	profile.PUT("/addresses/:id", h.updateAddress)
	profile.DELETE("/addresses/:id", h.deleteAddress)

	api.POST("/checkout", userAuth(), h.checkout)

	// Бэк-офис
	admin := api.Group("/admin", adminAuth(adminToken))
	admin.GET("/orders", h.adminListOrders)
	admin.GET("/orders/stats", h.adminOrderStats)
	admin.GET("/orders/:id", h.adminGetOrder)
	admin.PATCH("/orders/:id/status", h.adminUpdateOrderStatus)

	admin.GET("/products/:id", h.adminGetProduct)
	admin.POST("/products", h.adminCreateProduct)
	admin.PUT("/products/:id", h.adminUpdateProduct)
	admin.DELETE("/products/:id", h.adminDeleteProduct)

	admin.GET("/categories", h.adminListCategories)
	admin.POST("/categories", h.adminCreateCategory)
	admin.DELETE("/categories/:id", h.adminDeleteCategory)

	admin.GET("/colors", h.adminListColors)
	admin.POST("/colors", h.adminCreateColor)
	admin.DELETE("/colors/:id", h.adminDeleteColor)

	admin.GET("/sizes", h.adminListSizes)
	admin.POST("/sizes", h.adminCreateSize)
	admin.DELETE("/sizes/:id", h.adminDeleteSize)

	admin.GET("/users", h.adminListUsers)
	admin.PATCH("/users/:id/role", h.adminUpdateUserRole)

	return r
}
