package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// LoginInput is the admin login body.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalProducts int64   `json:"total_products"`
	TotalOrders   int64   `json:"total_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
}

type AdminService struct {
	admins   *repositories.AdminRepository
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
}

func NewAdminService(
	admins *repositories.AdminRepository,
	products *repositories.ProductRepository,
	orders *repositories.OrderRepository,
) *AdminService {
	return &AdminService{admins: admins, products: products, orders: orders}
}

var errBadCredentials = newError(ErrUnauthorized, "Invalid username or password")

// Login checks the credentials and issues a token. Unknown users and wrong
// passwords fail identically; only the log tells them apart.
func (s *AdminService) Login(ctx context.Context, in LoginInput) (models.Admin, string, error) {
	log := logger.WithCtx(ctx)

	a, err := s.admins.FindByUsername(ctx, in.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("admin login failed", "username", in.Username, "reason", "user not found")
		return models.Admin{}, "", errBadCredentials
	}
	if err != nil {
		return models.Admin{}, "", fmt.Errorf("find admin: %w", err)
	}

	if !auth.CheckPassword(a.Password, in.Password) {
		log.Warn("admin login failed", "username", in.Username, "reason", "wrong password")
		return models.Admin{}, "", errBadCredentials
	}

	token, err := auth.GenerateToken(a.ID, a.Username)
	if err != nil {
		return models.Admin{}, "", fmt.Errorf("issue token: %w", err)
	}
	log.Info("admin logged in", "admin_id", a.ID)
	return a, token, nil
}

func (s *AdminService) Admins(ctx context.Context) ([]models.Admin, error) {
	admins, err := s.admins.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// EnsureAdmin creates the admin unless the username exists.
func (s *AdminService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	created, err := s.admins.CreateIfAbsent(ctx, &models.Admin{Username: username, Password: hash})
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return created, nil
}

// Stats counts products and orders and sums revenue of delivered orders.
func (s *AdminService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error

	if st.TotalProducts, err = s.products.Count(ctx); err != nil {
		return st, fmt.Errorf("count products: %w", err)
	}
	if st.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return st, fmt.Errorf("count orders: %w", err)
	}
	if st.TotalRevenue, err = s.orders.Revenue(ctx, models.StatusDelivered); err != nil {
		return st, fmt.Errorf("sum revenue: %w", err)
	}
	return st, nil
}
