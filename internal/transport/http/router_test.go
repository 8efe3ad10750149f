package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/velmark/shopfront/internal/cache"
	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/ports/mocks"
	"github.com/velmark/shopfront/internal/repo/postgres"
	rest "github.com/velmark/shopfront/internal/transport/http"
	"github.com/velmark/shopfront/internal/usecase"
	"github.com/velmark/shopfront/pkg/validate"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

// --- Стабы читающих портов ---

type stubCatalog struct {
	products   []domain.Product
	categories []string
	err        error

	allCalls     int
	refreshCalls int
}

func (s *stubCatalog) All(context.Context, bool) ([]domain.Product, error) {
	s.allCalls++
	return s.products, s.err
}

func (s *stubCatalog) ByCategory(_ context.Context, name string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.products {
		if p.Category == name {
			out = append(out, p)
		}
	}
	return out, s.err
}

func (s *stubCatalog) ByID(_ context.Context, id string) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, s.err
}

func (s *stubCatalog) Categories(context.Context) ([]string, error) {
	return s.categories, s.err
}

func (s *stubCatalog) Refresh(context.Context) ([]domain.Product, error) {
	s.refreshCalls++
	return s.products, s.err
}

type stubOrders struct {
	page     domain.OrderPage
	pageErr  error
	cancelFn func(userID, orderID string) (domain.OrderPage, error)

	gotUser string
	gotPage int
}

func (s *stubOrders) Page(_ context.Context, userID string, page int, _ bool) (domain.OrderPage, error) {
	s.gotUser, s.gotPage = userID, page
	return s.page, s.pageErr
}

func (s *stubOrders) Cancel(_ context.Context, userID, orderID string) (domain.OrderPage, error) {
	return s.cancelFn(userID, orderID)
}

type stubAddresses struct {
	list []domain.Address
	err  error

	created *domain.Address
}

func (s *stubAddresses) All(context.Context, string) ([]domain.Address, error) {
	return s.list, s.err
}

func (s *stubAddresses) Create(_ context.Context, a *domain.Address) ([]domain.Address, error) {
	s.created = a
	return append(s.list, *a), s.err
}

func (s *stubAddresses) Update(_ context.Context, a *domain.Address) ([]domain.Address, error) {
	return s.list, s.err
}

func (s *stubAddresses) Delete(context.Context, string, string) ([]domain.Address, error) {
	return s.list, s.err
}

type stubCheckout struct {
	fn func(userID string, req *domain.CheckoutRequest) (*domain.Order, error)
}

func (s *stubCheckout) PlaceOrder(_ context.Context, userID string, req *domain.CheckoutRequest) (*domain.Order, error) {
	return s.fn(userID, req)
}

type invalSpy struct{ all int }

func (s *invalSpy) InvalidateUser(string) {}
func (s *invalSpy) InvalidateAll()        { s.all++ }

type catalogInvalSpy struct{ n int }

func (s *catalogInvalSpy) Invalidate() { s.n++ }

// --- Сборка тестового роутера ---

const testAdminToken = "admin-secret"

type routerDeps struct {
	catalog   *stubCatalog
	orders    *stubOrders
	addresses *stubAddresses
	checkout  *stubCheckout

	orderRepo   *mocks.MockOrderRepository
	productRepo *mocks.MockProductRepository
}

func newTestRouter(t *testing.T) (http.Handler, *routerDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)

	deps := &routerDeps{
		catalog: &stubCatalog{},
		orders: &stubOrders{
			cancelFn: func(string, string) (domain.OrderPage, error) {
				return domain.OrderPage{}, nil
			},
		},
		addresses: &stubAddresses{},
		checkout: &stubCheckout{
			fn: func(string, *domain.CheckoutRequest) (*domain.Order, error) {
				return &domain.Order{}, nil
			},
		},
		orderRepo:   mocks.NewMockOrderRepository(ctrl),
		productRepo: mocks.NewMockProductRepository(ctrl),
	}

	admin := usecase.NewAdminService(
		deps.orderRepo,
		deps.productRepo,
		nil, // справочники в этих тестах не трогаем
		nil,
		validate.NewProductValidator(),
		&catalogInvalSpy{},
		&invalSpy{},
		noopLogger{},
	)

	h := rest.NewHandler(deps.catalog, deps.orders, deps.addresses, deps.checkout, admin, noopLogger{}, 0)
	return rest.NewRouter(h, testAdminToken, ""), deps
}

func doJSON(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func asUser(id string) map[string]string  { return map[string]string{"X-User-ID": id} }
func asAdmin(tok string) map[string]string { return map[string]string{"X-Admin-Token": tok} }

// --- Публичный каталог ---

func TestListProducts_CategoryFilter(t *testing.T) {
	r, deps := newTestRouter(t)
	deps.catalog.products = []domain.Product{
		{ID: "p1", Category: "T-Shirts", Active: true},
		{ID: "p2", Category: "Accessories", Active: true},
	}

	w := doJSON(r, http.MethodGet, "/api/v1/products?category=T-Shirts", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Products []domain.Product `json:"products"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0].ID != "p1" {
		t.Fatalf("wrong filter result: %+v", resp.Products)
	}
}

// ?refresh=1 идёт через Refresh (с отменой висящего фетча), а не через All.
func TestListProducts_RefreshParam(t *testing.T) {
	r, deps := newTestRouter(t)
	deps.catalog.products = []domain.Product{{ID: "p1", Active: true}}

	w := doJSON(r, http.MethodGet, "/api/v1/products?refresh=1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d, body=%s", w.Code, w.Body.String())
	}
	if deps.catalog.refreshCalls != 1 || deps.catalog.allCalls != 0 {
		t.Fatalf("want refresh path, got refresh=%d all=%d", deps.catalog.refreshCalls, deps.catalog.allCalls)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/products", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if deps.catalog.refreshCalls != 1 || deps.catalog.allCalls != 1 {
		t.Fatalf("plain list must use All: refresh=%d all=%d", deps.catalog.refreshCalls, deps.catalog.allCalls)
	}
}

func TestListProducts_FeaturedAndActive(t *testing.T) {
	r, deps := newTestRouter(t)
	deps.catalog.products = []domain.Product{
		{ID: "p1", Active: true, Featured: true},
		{ID: "p2", Active: true},
		{ID: "p3", Featured: true}, // неактивный
	}

	w := doJSON(r, http.MethodGet, "/api/v1/products?featured=true&active=true", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d, body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Products []domain.Product `json:"products"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0].ID != "p1" {
		t.Fatalf("want only p1, got %+v", resp.Products)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/products/missing", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestListProducts_Unavailable(t *testing.T) {
	r, deps := newTestRouter(t)
	deps.catalog.err = cache.ErrUnavailable

	w := doJSON(r, http.MethodGet, "/api/v1/products", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d, body=%s", w.Code, w.Body.String())
	}
}

// --- Профиль ---

func TestProfileOrders_RequiresUser(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/profile/orders", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestProfileOrders_PassesUserAndPage(t *testing.T) {
	r, deps := newTestRouter(t)
	deps.orders.page = domain.OrderPage{
		Items:       []*domain.Order{{ID: "ord-1", Status: domain.StatusShipped}},
		TotalCount:  12,
		HasMore:     true,
		CurrentPage: 2,
	}

	w := doJSON(r, http.MethodGet, "/api/v1/profile/orders?page=2", "", asUser("u-1"))
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d, body=%s", w.Code, w.Body.String())
	}
	if deps.orders.gotUser != "u-1" || deps.orders.gotPage != 2 {
		t.Fatalf("want user u-1 page 2, got %q page %d", deps.orders.gotUser, deps.orders.gotPage)
	}

	var page domain.OrderPage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if page.TotalCount != 12 || !page.HasMore {
		t.Fatalf("wrong page payload: %+v", page)
	}
	// прогресс-бар дорисовывается на выдаче: shipped — 4-я из 5 ступеней
	if len(page.Items) != 1 || page.Items[0].Progress == nil || page.Items[0].Progress.Percent != 80 {
		t.Fatalf("progress not rendered: %+v", page.Items)
	}
}

func TestCancelOrder_ForeignOrderIs404(t *testing.T) {
	r, deps := newTestRouter(t)
	deps.orders.cancelFn = func(userID, orderID string) (domain.OrderPage, error) {
		if userID != "owner" {
			return domain.OrderPage{}, domain.ErrNotFound
		}
		return domain.OrderPage{}, nil
	}

	w := doJSON(r, http.MethodPost, "/api/v1/profile/orders/ord-1/cancel", "", asUser("intruder"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d, body=%s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/api/v1/profile/orders/ord-1/cancel", "", asUser("owner"))
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestCreateAddress_UserFromContext(t *testing.T) {
	r, deps := newTestRouter(t)

	body := `{"city":"Москва","line1":"Тверская, 1","is_default":true}`
	w := doJSON(r, http.MethodPost, "/api/v1/profile/addresses", body, asUser("u-7"))
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d, body=%s", w.Code, w.Body.String())
	}
	if deps.addresses.created == nil || deps.addresses.created.UserID != "u-7" {
		t.Fatalf("address not bound to header user: %+v", deps.addresses.created)
	}
}

// --- Чекаут ---

func TestCheckout_Created(t *testing.T) {
	r, deps := newTestRouter(t)
	deps.checkout.fn = func(userID string, req *domain.CheckoutRequest) (*domain.Order, error) {
		if userID != "u-1" || len(req.Items) != 1 {
			t.Fatalf("wrong checkout args: user=%q req=%+v", userID, req)
		}
		return &domain.Order{ID: "ord-1", Status: domain.StatusPending}, nil
	}

	body := `{"items":[{"product_id":"p1","quantity":2}],"address_id":"a1","email":"a@b.ru","payment_method":"card"}`
	w := doJSON(r, http.MethodPost, "/api/v1/checkout", body, asUser("u-1"))
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestCheckout_ValidationErrorIs400(t *testing.T) {
	r, deps := newTestRouter(t)
	deps.checkout.fn = func(string, *domain.CheckoutRequest) (*domain.Order, error) {
		return nil, validate.ErrInvalidCheckout
	}

	w := doJSON(r, http.MethodPost, "/api/v1/checkout", `{"items":[]}`, asUser("u-1"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d, body=%s", w.Code, w.Body.String())
	}
}

// --- Админка ---

func TestAdmin_AuthMatrix(t *testing.T) {
	r, deps := newTestRouter(t)
	deps.orderRepo.EXPECT().
		Stats(gomock.Any()).
		Return(domain.OrderStats{Total: 3}, nil)

	w := doJSON(r, http.MethodGet, "/api/v1/admin/orders/stats", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: want 401, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/admin/orders/stats", "", asAdmin("wrong"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("wrong token: want 403, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/admin/orders/stats", "", asAdmin(testAdminToken))
	if w.Code != http.StatusOK {
		t.Fatalf("valid token: want 200, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestAdminUpdateStatus_UnknownStatusIs400(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPatch, "/api/v1/admin/orders/ord-1/status",
		`{"status":"teleported"}`, asAdmin(testAdminToken))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestAdminCreateProduct_ConflictVerbatim(t *testing.T) {
	r, deps := newTestRouter(t)

	const detail = `duplicate key value violates unique constraint "products_sku_key"`
	deps.productRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&postgres.ConflictError{Detail: detail})

	body := `{"name":"Футболка","sku":"TSH-1","price":1990,"category":"T-Shirts"}`
	w := doJSON(r, http.MethodPost, "/api/v1/admin/products", body, asAdmin(testAdminToken))
	if w.Code != http.StatusConflict {
		t.Fatalf("want 409, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Error != detail {
		t.Fatalf("conflict message must be verbatim, got %q", resp.Error)
	}
}

func TestAdminListOrders_UnknownStatusFilter(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/admin/orders?status=nope", "", asAdmin(testAdminToken))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestAdminGetOrder_RepoErrorIs500(t *testing.T) {
	r, deps := newTestRouter(t)
	deps.orderRepo.EXPECT().
		GetByID(gomock.Any(), "ord-1").
		Return(nil, errors.New("db down"))

	w := doJSON(r, http.MethodGet, "/api/v1/admin/orders/ord-1", "", asAdmin(testAdminToken))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d, body=%s", w.Code, w.Body.String())
	}
}
