package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/auth"
)

func newAdmins(t *testing.T) (*services.AdminService, *repositories.ProductRepository, *repositories.OrderRepository) {
	t.Helper()
	db := newDB(t)
	products := repositories.NewProductRepository(db)
	orders := repositories.NewOrderRepository(db)
	return services.NewAdminService(repositories.NewAdminRepository(db), products, orders), products, orders
}

func TestAdminLogin(t *testing.T) {
	svc, _, _ := newAdmins(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "admin", "other")
	require.NoError(t, err)
	assert.False(t, created)

	a, token, err := svc.Login(ctx, services.LoginInput{Username: "admin", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "admin", a.Username)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, a.ID, claims.AdminID)

	_, _, wrongPass := svc.Login(ctx, services.LoginInput{Username: "admin", Password: "nope"})
	_, _, noUser := svc.Login(ctx, services.LoginInput{Username: "ghost", Password: "secret"})
	assert.ErrorIs(t, wrongPass, services.ErrUnauthorized)
	assert.ErrorIs(t, noUser, services.ErrUnauthorized)
	assert.Equal(t, wrongPass.Error(), noUser.Error())

	admins, err := svc.Admins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin", admins[0].Username)
}

func TestAdminStats(t *testing.T) {
	svc, products, orders := newAdmins(t)
	ctx := context.Background()

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, services.Stats{}, st)

	require.NoError(t, products.Create(ctx, &models.Product{Name: "A", Price: 1}))
	for _, o := range []models.Order{
		{TotalAmount: 100, Status: models.StatusDelivered, Items: "[]"},
		{TotalAmount: 50, Status: models.StatusDelivered, Items: "[]"},
		{TotalAmount: 70, Status: models.StatusPending, Items: "[]"},
	} {
		require.NoError(t, orders.Create(ctx, &o))
	}

	st, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, services.Stats{TotalProducts: 1, TotalOrders: 3, TotalRevenue: 150}, st)
}
