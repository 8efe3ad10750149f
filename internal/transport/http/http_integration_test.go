//go:build integration

package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/notify"
	pgrepo "github.com/velmark/shopfront/internal/repo/postgres"
	"github.com/velmark/shopfront/internal/store"
	"github.com/velmark/shopfront/internal/testutil"
	rest "github.com/velmark/shopfront/internal/transport/http"
	"github.com/velmark/shopfront/internal/usecase"
	"github.com/velmark/shopfront/pkg/logger"
	"github.com/velmark/shopfront/pkg/validate"
)

const itAdminToken = "it-admin-token"

// полный стек поверх контейнерного Postgres (без Kafka)
func newHTTPStack(t *testing.T) (*httptest.Server, *pgrepo.ProductRepository, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	t.Cleanup(cancel)

	pg, stop, err := testutil.StartPostgresTC(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stop(context.Background()) })
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	logg, cleanup, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	productRepo := pgrepo.NewProductRepository(pg.Pool)
	orderRepo := pgrepo.NewOrderRepository(pg.Pool)
	addressRepo := pgrepo.NewAddressRepository(pg.Pool)
	catalogRepo := pgrepo.NewCatalogRepository(pg.Pool)
	userRepo := pgrepo.NewUserRepository(pg.Pool)

	notifier := notify.NewLogNotifier(logg)
	products := store.NewProducts(productRepo, logg, notifier)
	orders := store.NewOrders(orderRepo, logg, notifier)
	addresses := store.NewAddresses(addressRepo, logg, notifier)

	checkoutSvc := usecase.NewCheckoutService(orderRepo, products, validate.NewCheckoutValidator(), orders, logg)
	adminSvc := usecase.NewAdminService(
		orderRepo, productRepo, catalogRepo, userRepo,
		validate.NewProductValidator(), products, orders, logg,
	)

	h := rest.NewHandler(products, orders, addresses, checkoutSvc, adminSvc, logg, 5*time.Second)
	r := rest.NewRouter(h, itAdminToken, "")
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	return ts, productRepo, ctx
}

func do(t *testing.T, method, url, body string, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

// 1) Полный путь покупателя: каталог → чекаут → список заказов → отмена
func TestHTTP_CheckoutFlow_TC(t *testing.T) {
	ts, productRepo, ctx := newHTTPStack(t)

	p := testutil.MakeProduct()
	require.NoError(t, productRepo.Create(ctx, &p))

	// каталог отдаёт товар
	resp, body := do(t, http.MethodGet, ts.URL+"/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body["products"])

	// чекаут от имени пользователя
	user := map[string]string{"X-User-ID": "cust-1"}
	checkout := `{
		"items":[{"product_id":"` + p.ID + `","quantity":2,"size":"M","color":"black"}],
		"address_id":"addr-1","email":"cust@example.com","payment_method":"card"
	}`
	resp, body = do(t, http.MethodPost, ts.URL+"/api/v1/checkout", checkout, user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	orderID, _ := body["id"].(string)
	require.NotEmpty(t, orderID)
	require.Equal(t, string(domain.PaymentStatusPaid), body["payment_status"])
	// сумма пересчитана по каталогу, не взята из запроса
	require.Equal(t, float64(p.Price*2), body["total_amount"])

	// заказ виден в профиле
	resp, body = do(t, http.MethodGet, ts.URL+"/api/v1/profile/orders", "", user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ := body["items"].([]any)
	require.Len(t, items, 1)

	// чужой пользователь заказ не видит и отменить не может
	resp, _ = do(t, http.MethodPost, ts.URL+"/api/v1/profile/orders/"+orderID+"/cancel", "", map[string]string{"X-User-ID": "someone-else"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// владелец отменяет
	resp, body = do(t, http.MethodPost, ts.URL+"/api/v1/profile/orders/"+orderID+"/cancel", "", user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ = body["items"].([]any)
	require.Len(t, items, 1)
	first, _ := items[0].(map[string]any)
	require.Equal(t, string(domain.StatusCancelled), first["status"])
}

// 2) Чекаут с несуществующим товаром — 400
func TestHTTP_Checkout_UnknownProduct_TC(t *testing.T) {
	ts, _, _ := newHTTPStack(t)

	checkout := `{
		"items":[{"product_id":"ghost","quantity":1}],
		"address_id":"addr-1","email":"cust@example.com","payment_method":"card"
	}`
	resp, _ := do(t, http.MethodPost, ts.URL+"/api/v1/checkout", checkout, map[string]string{"X-User-ID": "cust-1"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// 3) Админка: создание товара, конфликт по SKU (409) и смена статуса заказа
func TestHTTP_AdminFlow_TC(t *testing.T) {
	ts, productRepo, ctx := newHTTPStack(t)
	admin := map[string]string{"X-Admin-Token": itAdminToken}

	p := testutil.MakeProduct(testutil.WithSKU("SKU-HTTP-1"))
	require.NoError(t, productRepo.Create(ctx, &p))

	// дубликат SKU — 409 с текстом сервера
	dup := `{"name":"Dup","sku":"SKU-HTTP-1","price":100,"category":"T-Shirts"}`
	resp, body := do(t, http.MethodPost, ts.URL+"/api/v1/admin/products", dup, admin)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.NotEmpty(t, body["error"])

	// чекаутим заказ и меняем статус через админку
	user := map[string]string{"X-User-ID": "cust-adm"}
	checkout := `{
		"items":[{"product_id":"` + p.ID + `","quantity":1}],
		"address_id":"addr-1","email":"cust@example.com","payment_method":"cod"
	}`
	resp, body = do(t, http.MethodPost, ts.URL+"/api/v1/checkout", checkout, user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	orderID, _ := body["id"].(string)
	require.NotEmpty(t, orderID)

	resp, _ = do(t, http.MethodPatch, ts.URL+"/api/v1/admin/orders/"+orderID+"/status", `{"status":"shipped"}`, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, http.MethodGet, ts.URL+"/api/v1/admin/orders/"+orderID, "", admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, string(domain.StatusShipped), body["status"])

	// без токена — 401
	resp, _ = do(t, http.MethodGet, ts.URL+"/api/v1/admin/orders", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
