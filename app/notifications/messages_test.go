package notifications_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/notifications"
)

func TestProductCardText(t *testing.T) {
	p := models.Product{
		Name: "Widget <XL>", Price: 100, Discount: 20, Stock: 5,
		Category: "Tools", Image: "https://cdn.example/w.png",
	}
	card := notifications.NewProductCard(p)
	text := card.Text()

	assert.Contains(t, text, notifications.HeadlineNew)
	assert.Contains(t, text, "<b>Widget &lt;XL&gt;</b>")
	assert.Contains(t, text, "<s>100 ₴</s> 80.00 ₴")
	assert.Contains(t, text, "Discount: 20%")
	assert.Contains(t, text, "Category: Tools")
	assert.Contains(t, text, "In stock: 5 pcs")
	assert.Contains(t, text, "No description")

	msg := card.ToTelegram()
	assert.Equal(t, p.Image, msg.PhotoURL)
	assert.Empty(t, msg.ChatID)

	ev := card.ToFeed()
	assert.Equal(t, notifications.EventProductCreated, ev.Type)
}

func TestProductCardWithoutDiscount(t *testing.T) {
	text := notifications.UpdatedProductCard(models.Product{Name: "Plain", Price: 12.5}).Text()

	assert.Contains(t, text, notifications.HeadlineUpdated)
	assert.Contains(t, text, "Price: 12.5 ₴")
	assert.NotContains(t, text, "<s>")
	assert.Contains(t, text, "Category: Not specified")
	assert.Empty(t, notifications.CatalogCard(models.Product{Name: "x"}).ToTelegram().PhotoURL)
}

func TestOrderPlacedText(t *testing.T) {
	final := 45.0
	n := notifications.OrderPlaced{
		Order: models.Order{ID: 42, CustomerName: "Ann", CustomerPhone: "+380", TotalAmount: 205},
		Items: []models.OrderItem{
			{Name: "Widget", Quantity: 2, Price: 100, Discount: 20},
			{Name: "Gadget", Quantity: 1, Price: 50, FinalPrice: &final},
		},
	}
	text := n.Text()

	assert.Contains(t, text, "Order #42")
	assert.Contains(t, text, "👤 Ann")
	assert.Contains(t, text, "Total: 205 ₴")
	assert.Contains(t, text, "• Widget x2 — <s>100 ₴</s> 80.00 ₴ (-20%)")
	assert.Contains(t, text, "• Gadget x1 — 50 ₴")
	assert.Contains(t, text, "<b>Address:</b> —")
}

func TestStatusAndDeletedText(t *testing.T) {
	assert.Contains(t,
		notifications.OrderStatusChanged{OrderID: 7, Status: models.StatusShipped}.Text(),
		"Order #7\n📊 Status: shipped")
	assert.Contains(t, notifications.ProductDeleted{ID: 1, Name: "Widget"}.Text(), "<b>Widget</b>")
}

func TestSettingsChanged(t *testing.T) {
	off := false
	n := notifications.SettingsChanged{SiteEnabled: false, ShowDiscounts: &off, Message: "Back at 5"}

	assert.Equal(t, "Site disabled, discounts disabled", n.Summary())
	assert.Contains(t, n.Text(), "Site disabled!")
	assert.Contains(t, n.Text(), "Discounts disabled!")
	assert.Contains(t, n.Text(), "Back at 5")

	only := notifications.SettingsChanged{SiteEnabled: true}
	assert.Equal(t, "Site enabled", only.Summary())
	assert.NotContains(t, only.Text(), "Discounts")
}
