package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/notifications"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/cache"
)

func newCatalog(t *testing.T) (*services.CatalogService, *recorder) {
	t.Helper()
	db := newDB(t)
	rec := &recorder{}
	svc := services.NewCatalogService(
		repositories.NewProductRepository(db),
		repositories.NewCategoryRepository(db),
		cache.New(nil),
		rec,
		2*time.Second,
	)
	return svc, rec
}

func widget() services.ProductInput {
	return services.ProductInput{Name: "Widget", Price: ptr(100.0), Discount: 20, Stock: 3, Category: "Tools"}
}

func TestCreateProduct(t *testing.T) {
	svc, rec := newCatalog(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, widget())
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, 80.0, p.DiscountedPrice)

	got, err := svc.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, 80.0, got.DiscountedPrice)

	sent := rec.all()
	require.Len(t, sent, 1)
	card, ok := sent[0].n.(notifications.ProductCard)
	require.True(t, ok)
	assert.Equal(t, notifications.HeadlineNew, card.Headline)
	assert.Equal(t, p.ID, card.Product.ID)
}

func TestCreateProductRejectsBlankName(t *testing.T) {
	svc, rec := newCatalog(t)

	_, err := svc.CreateProduct(context.Background(), services.ProductInput{Name: "  ", Price: ptr(1.0)})
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Empty(t, rec.all())
}

func TestUpdateProduct(t *testing.T) {
	svc, rec := newCatalog(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, widget())
	require.NoError(t, err)

	in := services.ProductInput{Name: "Widget Pro", Price: ptr(200.0), Discount: 0, Specifications: "steel"}
	updated, err := svc.UpdateProduct(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 200.0, updated.DiscountedPrice)

	got, err := svc.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", got.Name)
	assert.Equal(t, 0.0, got.Discount)
	assert.Equal(t, 0, got.Stock)
	assert.Empty(t, got.Category)
	assert.Equal(t, "steel", got.Specifications)

	sent := rec.all()
	require.Len(t, sent, 2)
	assert.Equal(t, notifications.HeadlineUpdated, sent[1].n.(notifications.ProductCard).Headline)
}

func TestUpdateMissingProduct(t *testing.T) {
	svc, rec := newCatalog(t)

	_, err := svc.UpdateProduct(context.Background(), 999, widget())
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Empty(t, rec.all())
}

func TestDeleteProduct(t *testing.T) {
	svc, rec := newCatalog(t)
	ctx := context.Background()

	err := svc.DeleteProduct(ctx, 999)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Empty(t, rec.all())

	p, err := svc.CreateProduct(ctx, widget())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(ctx, p.ID))

	_, err = svc.Product(ctx, p.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	sent := rec.all()
	require.Len(t, sent, 2)
	assert.Equal(t, notifications.ProductDeleted{ID: p.ID, Name: "Widget"}, sent[1].n)
}

func TestListingsAndSearch(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	inputs := []services.ProductInput{
		{Name: "Hammer", Price: ptr(10.0), Category: "Tools", Discount: 5},
		{Name: "Lamp", Price: ptr(30.0), Category: "Home", Description: "warm light"},
		{Name: "Drill", Price: ptr(90.0), Category: "Tools", Discount: 15},
	}
	for _, in := range inputs {
		_, err := svc.CreateProduct(ctx, in)
		require.NoError(t, err)
	}

	all, err := svc.Products(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Drill", all[0].Name)
	assert.Equal(t, "Hammer", all[2].Name)

	discounted, err := svc.DiscountedProducts(ctx)
	require.NoError(t, err)
	require.Len(t, discounted, 2)
	assert.Equal(t, "Drill", discounted[0].Name)
	assert.InDelta(t, 76.5, discounted[0].DiscountedPrice, 1e-9)

	found, err := svc.Search(ctx, "light", "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Lamp", found[0].Name)

	found, err = svc.Search(ctx, "", "Tools")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = svc.Search(ctx, "Dri", "Home")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestBroadcastCatalogStaggersCards(t *testing.T) {
	svc, rec := newCatalog(t)
	ctx := context.Background()

	n, err := svc.BroadcastCatalog(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, rec.all())

	for _, name := range []string{"A", "B", "C"} {
		_, err := svc.CreateProduct(ctx, services.ProductInput{Name: name, Price: ptr(1.0)})
		require.NoError(t, err)
	}
	before := len(rec.all())

	n, err = svc.BroadcastCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	cards := rec.all()[before:]
	require.Len(t, cards, 3)
	for i, s := range cards {
		assert.Equal(t, time.Duration(i)*2*time.Second, s.delay)
		assert.Equal(t, notifications.HeadlineCatalog, s.n.(notifications.ProductCard).Headline)
	}
}

func TestCategories(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	empty, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	tools, err := svc.CreateCategory(ctx, "Tools")
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, "Home")
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, "Tools")
	assert.ErrorIs(t, err, services.ErrDuplicate)
	assert.EqualError(t, err, "A category with this name already exists")

	_, err = svc.CreateCategory(ctx, " ")
	assert.ErrorIs(t, err, services.ErrValidation)

	list, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Home", list[0].Name)

	_, err = svc.RenameCategory(ctx, tools.ID, "Home")
	assert.ErrorIs(t, err, services.ErrDuplicate)

	_, err = svc.RenameCategory(ctx, 999, "Garden")
	assert.ErrorIs(t, err, services.ErrNotFound)

	renamed, err := svc.RenameCategory(ctx, tools.ID, "Garden")
	require.NoError(t, err)
	assert.Equal(t, "Garden", renamed.Name)

	require.NoError(t, svc.DeleteCategory(ctx, tools.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, tools.ID), services.ErrNotFound)

	list, err = svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Home"}, names(list))
}

func names(cs []models.Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}
