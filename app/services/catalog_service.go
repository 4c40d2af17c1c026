package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/notifications"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

const (
	categoriesKey = "categories"
	categoriesTTL = 10 * time.Minute
)

// ProductInput is the body of product create and replace.
type ProductInput struct {
	Name           string   `json:"name"           validate:"required"`
	Price          *float64 `json:"price"          validate:"required,gte=0"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Stock          int      `json:"stock"          validate:"gte=0"`
	Image          string   `json:"image"`
	Discount       float64  `json:"discount"       validate:"gte=0,lte=100"`
	Specifications string   `json:"specifications"`
}

func (in ProductInput) product(id uint) models.Product {
	var price float64
	if in.Price != nil {
		price = *in.Price
	}
	return models.Product{
		ID:             id,
		Name:           strings.TrimSpace(in.Name),
		Price:          price,
		Description:    in.Description,
		Category:       in.Category,
		Stock:          in.Stock,
		Image:          in.Image,
		Discount:       in.Discount,
		Specifications: in.Specifications,
	}
}

// CatalogService manages products and categories.
type CatalogService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
	cache      *cache.Store
	notifier   Notifier
	stagger    time.Duration
}

// NewCatalogService wires the catalog. cache may be disabled; stagger is
// the gap between cards of a catalog broadcast.
func NewCatalogService(
	products *repositories.ProductRepository,
	categories *repositories.CategoryRepository,
	store *cache.Store,
	notifier Notifier,
	stagger time.Duration,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		cache:      store,
		notifier:   orDiscard(notifier),
		stagger:    stagger,
	}
}

// ─── Products ─────────────────────────────────────────────────────────────────

func (s *CatalogService) Products(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) DiscountedProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.Discounted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list discounted products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) Product(ctx context.Context, id uint) (models.Product, error) {
	p, err := s.products.Find(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, newError(ErrNotFound, "Product not found")
	}
	if err != nil {
		return p, fmt.Errorf("find product %d: %w", id, err)
	}
	return p, nil
}

func (s *CatalogService) Search(ctx context.Context, q, category string) ([]models.Product, error) {
	products, err := s.products.Search(ctx, strings.TrimSpace(q), strings.TrimSpace(category))
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

// CreateProduct stores the product and announces it.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	p := in.product(0)
	if p.Name == "" {
		return p, newError(ErrValidation, "Product name is required")
	}
	if err := s.products.Create(ctx, &p); err != nil {
		return p, fmt.Errorf("create product: %w", err)
	}

	logger.WithCtx(ctx).Info("product created", "product_id", p.ID)
	s.notifier.Notify(ctx, notifications.NewProductCard(p))
	return p, nil
}

// UpdateProduct replaces every field of product id.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (models.Product, error) {
	p := in.product(id)
	if p.Name == "" {
		return p, newError(ErrValidation, "Product name is required")
	}
	err := s.products.Replace(ctx, &p)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, newError(ErrNotFound, "Product not found")
	}
	if err != nil {
		return p, fmt.Errorf("update product %d: %w", id, err)
	}
	p.DiscountedPrice = p.FinalPrice()

	logger.WithCtx(ctx).Info("product updated", "product_id", id)
	s.notifier.Notify(ctx, notifications.UpdatedProductCard(p))
	return p, nil
}

// DeleteProduct removes the product. Nothing is announced for a missing id.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	p, err := s.Product(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.products.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if n == 0 {
		return newError(ErrNotFound, "Product not found")
	}

	logger.WithCtx(ctx).Info("product deleted", "product_id", id)
	s.notifier.Notify(ctx, notifications.ProductDeleted{ID: p.ID, Name: p.Name})
	return nil
}

// BroadcastCatalog schedules one card per product, spaced by the stagger,
// and returns how many were scheduled without waiting for delivery.
func (s *CatalogService) BroadcastCatalog(ctx context.Context) (int, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return 0, err
	}
	for i, p := range products {
		s.notifier.NotifyAfter(ctx, notifications.CatalogCard(p), time.Duration(i)*s.stagger)
	}
	logger.WithCtx(ctx).Info("catalog broadcast scheduled", "count", len(products), "stagger", s.stagger)
	return len(products), nil
}

// ─── Categories ───────────────────────────────────────────────────────────────

// Categories returns every category ordered by name, from cache when
// possible.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := cache.Remember(ctx, s.cache, categoriesKey, categoriesTTL, func() ([]models.Category, error) {
		return s.categories.All(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func categoryName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", newError(ErrValidation, "Category name cannot be empty")
	}
	return name, nil
}

var errCategoryExists = newError(ErrDuplicate, "A category with this name already exists")

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	name, err := categoryName(name)
	if err != nil {
		return models.Category{}, err
	}

	c := models.Category{Name: name}
	if err := s.categories.Create(ctx, &c); err != nil {
		if isDuplicate(err) {
			return c, errCategoryExists
		}
		return c, fmt.Errorf("create category: %w", err)
	}
	s.forgetCategories(ctx)
	return c, nil
}

func (s *CatalogService) RenameCategory(ctx context.Context, id uint, name string) (models.Category, error) {
	name, err := categoryName(name)
	if err != nil {
		return models.Category{}, err
	}

	c := models.Category{ID: id, Name: name}
	err = s.categories.Rename(ctx, id, name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c, newError(ErrNotFound, "Category not found")
	case err != nil && isDuplicate(err):
		return c, errCategoryExists
	case err != nil:
		return c, fmt.Errorf("rename category %d: %w", id, err)
	}
	s.forgetCategories(ctx)
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	n, err := s.categories.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	if n == 0 {
		return newError(ErrNotFound, "Category not found")
	}
	s.forgetCategories(ctx)
	return nil
}

func (s *CatalogService) forgetCategories(ctx context.Context) {
	if err := s.cache.Forget(ctx, categoriesKey); err != nil {
		logger.WithCtx(ctx).Warn("cache: forget categories failed", "error", err)
	}
}
