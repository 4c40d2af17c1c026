package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

// CartInput is the add-to-cart body. Quantity defaults to 1.
type CartInput struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Quantity  *int   `json:"quantity"`
	SessionID string `json:"session_id" validate:"required"`
}

type CartService struct {
	cart     *repositories.CartRepository
	products *repositories.ProductRepository
}

func NewCartService(cart *repositories.CartRepository, products *repositories.ProductRepository) *CartService {
	return &CartService{cart: cart, products: products}
}

func checkQuantity(q int) error {
	if q < 1 {
		return newError(ErrValidation, "Quantity must be at least 1")
	}
	return nil
}

// Add puts a product into the session's cart.
func (s *CartService) Add(ctx context.Context, in CartInput) (models.CartItem, error) {
	item := models.CartItem{ProductID: in.ProductID, Quantity: 1, SessionID: in.SessionID}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if err := checkQuantity(item.Quantity); err != nil {
		return item, err
	}

	if _, err := s.products.Find(ctx, in.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, newError(ErrNotFound, "Product not found")
		}
		return item, fmt.Errorf("find product %d: %w", in.ProductID, err)
	}

	if err := s.cart.Add(ctx, &item); err != nil {
		return item, fmt.Errorf("add to cart: %w", err)
	}
	return item, nil
}

func (s *CartService) Lines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	lines, err := s.cart.Lines(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return lines, nil
}

func (s *CartService) SetQuantity(ctx context.Context, id uint, quantity int) error {
	if err := checkQuantity(quantity); err != nil {
		return err
	}
	n, err := s.cart.SetQuantity(ctx, id, quantity)
	if err != nil {
		return fmt.Errorf("update cart item %d: %w", id, err)
	}
	if n == 0 {
		return newError(ErrNotFound, "Cart item not found")
	}
	return nil
}

func (s *CartService) Remove(ctx context.Context, id uint) error {
	n, err := s.cart.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("remove cart item %d: %w", id, err)
	}
	if n == 0 {
		return newError(ErrNotFound, "Cart item not found")
	}
	return nil
}
