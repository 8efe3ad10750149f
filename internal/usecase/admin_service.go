package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/ports"
	"github.com/velmark/shopfront/pkg/validate"
)

// CatalogInvalidator — сброс кэша каталога после админских мутаций.
type CatalogInvalidator interface {
	Invalidate()
}

// ErrInvalidRole — попытка назначить неизвестную роль.
var ErrInvalidRole = errors.New("invalid role")

// AdminService — бэк-офис: заказы, товары, справочники, пользователи.
// Каждая мутация сбрасывает соответствующий кэш, чтобы витрина увидела
// изменения не дожидаясь TTL.
type AdminService struct {
	orders    ports.OrderRepository
	products  ports.ProductRepository
	catalog   ports.CatalogRepository
	users     ports.UserRepository
	validator ports.ProductValidator

	catalogInval CatalogInvalidator
	ordersInval  OrdersInvalidator
	log          ports.Logger
	now          func() time.Time
}

// NewAdminService — DI-конструктор.
func NewAdminService(
	orders ports.OrderRepository,
	products ports.ProductRepository,
	catalog ports.CatalogRepository,
	users ports.UserRepository,
	validator ports.ProductValidator,
	catalogInval CatalogInvalidator,
	ordersInval OrdersInvalidator,
	log ports.Logger,
) *AdminService {
	return &AdminService{
		orders:       orders,
		products:     products,
		catalog:      catalog,
		users:        users,
		validator:    validator,
		catalogInval: catalogInval,
		ordersInval:  ordersInval,
		log:          log,
		now:          time.Now,
	}
}

// --- Заказы ---

func (s *AdminService) ListOrders(ctx context.Context, f ports.AdminOrderFilter) ([]*domain.Order, int, error) {
	return s.orders.AdminList(ctx, f)
}

func (s *AdminService) OrderStats(ctx context.Context) (domain.OrderStats, error) {
	return s.orders.Stats(ctx)
}

func (s *AdminService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// UpdateOrderStatus — выставить любой валидный статус. Легальность
// перехода не проверяется: админка правит и "невозможные" переходы.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, orderID string, status domain.Status) error {
	if !domain.ValidStatus(status) {
		return fmt.Errorf("%w: неизвестный статус %q", validate.ErrInvalidStatusUpdate, status)
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}
	s.log.Infof(ctx, "admin set order status order_id=%s status=%s", orderID, status)
	s.ordersInval.InvalidateAll()
	return nil
}

// --- Товары ---

func (s *AdminService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	if err := s.validator.Validate(ctx, p); err != nil {
		return err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return err
	}
	s.catalogInval.Invalidate()
	return nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if err := s.validator.Validate(ctx, p); err != nil {
		return err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return err
	}
	s.catalogInval.Invalidate()
	return nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.catalogInval.Invalidate()
	return nil
}

func (s *AdminService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// --- Справочники ---

func (s *AdminService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.catalog.ListCategories(ctx)
}

func (s *AdminService) CreateCategory(ctx context.Context, c *domain.Category) error {
	if err := s.catalog.CreateCategory(ctx, c); err != nil {
		return err
	}
	s.catalogInval.Invalidate()
	return nil
}

func (s *AdminService) UpdateCategory(ctx context.Context, c *domain.Category) error {
	if err := s.catalog.UpdateCategory(ctx, c); err != nil {
		return err
	}
	s.catalogInval.Invalidate()
	return nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.catalog.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.catalogInval.Invalidate()
	return nil
}

func (s *AdminService) ListColors(ctx context.Context) ([]domain.Color, error) {
	return s.catalog.ListColors(ctx)
}

func (s *AdminService) CreateColor(ctx context.Context, c *domain.Color) error {
	return s.catalog.CreateColor(ctx, c)
}

func (s *AdminService) UpdateColor(ctx context.Context, c *domain.Color) error {
	return s.catalog.UpdateColor(ctx, c)
}

func (s *AdminService) DeleteColor(ctx context.Context, id int64) error {
	return s.catalog.DeleteColor(ctx, id)
}

func (s *AdminService) ListSizes(ctx context.Context) ([]domain.Size, error) {
	return s.catalog.ListSizes(ctx)
}

func (s *AdminService) CreateSize(ctx context.Context, sz *domain.Size) error {
	return s.catalog.CreateSize(ctx, sz)
}

func (s *AdminService) UpdateSize(ctx context.Context, sz *domain.Size) error {
	return s.catalog.UpdateSize(ctx, sz)
}

func (s *AdminService) DeleteSize(ctx context.Context, id int64) error {
	return s.catalog.DeleteSize(ctx, id)
}

// --- Пользователи ---

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *AdminService) UpdateUserRole(ctx context.Context, id, role string) error {
	if role != domain.RoleCustomer && role != domain.RoleAdmin {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return s.users.UpdateRole(ctx, id, role)
}
