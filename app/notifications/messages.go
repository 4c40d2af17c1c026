// Package notifications holds the storefront's notification types and the
// dispatcher that routes them to Telegram (through the queue) and to the
// admin live feed.
package notifications

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/notification"
)

// Currency is appended to every price. Set once at boot from config.
var Currency = "₴"

// Card headlines.
const (
	HeadlineNew     = "🆕 <b>New product added!</b>"
	HeadlineUpdated = "✏️ <b>Product updated!</b>"
	HeadlineCatalog = "🛍️ <b>From our catalog</b>"
)

// Feed event types.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
	EventProductShared  = "product.shared"
	EventOrderPlaced    = "order.placed"
	EventOrderStatus    = "order.status"
	EventSettings       = "settings.updated"
)

var viaAll = []string{notification.Telegram, notification.Feed}

func price(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + Currency
}

func price2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + " " + Currency
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// ─── Product card ─────────────────────────────────────────────────────────────

// ProductCard renders a product snapshot under a headline. Cards with an
// image go out as a photo with the text as caption.
type ProductCard struct {
	Headline string
	Event    string
	Product  models.Product
}

func (n ProductCard) Via() []string { return viaAll }

func (n ProductCard) Text() string {
	p := n.Product
	var b strings.Builder

	b.WriteString(n.Headline)
	b.WriteString("\n\n📦 <b>" + html.EscapeString(p.Name) + "</b>\n")
	if p.HasDiscount() {
		b.WriteString("💰 Price: <s>" + price(p.Price) + "</s> " + price2(p.FinalPrice()) + "\n")
		b.WriteString("🏷️ Discount: " + strconv.FormatFloat(p.Discount, 'f', -1, 64) + "%\n")
	} else {
		b.WriteString("💰 Price: " + price(p.Price) + "\n")
	}
	b.WriteString("📂 Category: " + html.EscapeString(orDefault(p.Category, "Not specified")) + "\n")
	b.WriteString("📦 In stock: " + strconv.Itoa(p.Stock) + " pcs\n")
	b.WriteString("📝 Description: " + html.EscapeString(orDefault(p.Description, "No description")))
	b.WriteString("\n\n🛒 Order on our website!")
	return b.String()
}

func (n ProductCard) ToTelegram() notification.TelegramData {
	return notification.TelegramData{Text: n.Text(), PhotoURL: n.Product.Image}
}

func (n ProductCard) ToFeed() notification.FeedEvent {
	return notification.FeedEvent{Type: n.Event, Text: n.Text(), Data: n.Product, At: time.Now()}
}

// NewProductCard is sent after a product is created.
func NewProductCard(p models.Product) ProductCard {
	return ProductCard{Headline: HeadlineNew, Event: EventProductCreated, Product: p}
}

// UpdatedProductCard is sent after a product is replaced.
func UpdatedProductCard(p models.Product) ProductCard {
	return ProductCard{Headline: HeadlineUpdated, Event: EventProductUpdated, Product: p}
}

// CatalogCard is one card of a bulk catalog broadcast.
func CatalogCard(p models.Product) ProductCard {
	return ProductCard{Headline: HeadlineCatalog, Event: EventProductShared, Product: p}
}

// ─── Product deleted ──────────────────────────────────────────────────────────

type ProductDeleted struct {
	ID   uint
	Name string
}

func (n ProductDeleted) Via() []string { return viaAll }

func (n ProductDeleted) Text() string {
	return "🗑️ <b>Product deleted!</b>\n\n📦 <b>" + html.EscapeString(n.Name) + "</b>"
}

func (n ProductDeleted) ToTelegram() notification.TelegramData {
	return notification.TelegramData{Text: n.Text()}
}

func (n ProductDeleted) ToFeed() notification.FeedEvent {
	return notification.FeedEvent{
		Type: EventProductDeleted,
		Text: n.Text(),
		Data: map[string]any{"id": n.ID, "name": n.Name},
		At:   time.Now(),
	}
}

// ─── Order placed ─────────────────────────────────────────────────────────────

// OrderPlaced goes to the orders channel when one is configured.
type OrderPlaced struct {
	Order models.Order
	Items []models.OrderItem
}

func (n OrderPlaced) Via() []string { return viaAll }

func (n OrderPlaced) ordersChannel() {}

func (n OrderPlaced) Text() string {
	o := n.Order
	lines := make([]string, 0, len(n.Items))
	for _, it := range n.Items {
		line := "• " + html.EscapeString(it.Name) + " x" + strconv.FormatFloat(it.Quantity, 'f', -1, 64)
		if it.Discount > 0 {
			line += " — <s>" + price(it.Price) + "</s> " + price2(it.Final()) +
				" (-" + strconv.FormatFloat(it.Discount, 'f', -1, 64) + "%)"
		} else {
			line += " — " + price(it.Price)
		}
		lines = append(lines, line)
	}

	return fmt.Sprintf(
		"🛒 <b>New order!</b>\n\n🆔 Order #%d\n👤 %s\n📞 %s\n🏠 <b>Address:</b> %s\n💰 Total: %s\n\n📦 Items:\n%s",
		o.ID,
		html.EscapeString(o.CustomerName),
		html.EscapeString(o.CustomerPhone),
		html.EscapeString(orDefault(o.DeliveryAddress, "—")),
		price(o.TotalAmount),
		strings.Join(lines, "\n"),
	)
}

func (n OrderPlaced) ToTelegram() notification.TelegramData {
	return notification.TelegramData{Text: n.Text()}
}

func (n OrderPlaced) ToFeed() notification.FeedEvent {
	return notification.FeedEvent{Type: EventOrderPlaced, Text: n.Text(), Data: n.Order, At: time.Now()}
}

// ─── Order status ─────────────────────────────────────────────────────────────

type OrderStatusChanged struct {
	OrderID uint
	Status  models.OrderStatus
}

func (n OrderStatusChanged) Via() []string { return viaAll }

func (n OrderStatusChanged) Text() string {
	return fmt.Sprintf("📋 <b>Order status changed!</b>\n\n🆔 Order #%d\n📊 Status: %s", n.OrderID, n.Status)
}

func (n OrderStatusChanged) ToTelegram() notification.TelegramData {
	return notification.TelegramData{Text: n.Text()}
}

func (n OrderStatusChanged) ToFeed() notification.FeedEvent {
	return notification.FeedEvent{
		Type: EventOrderStatus,
		Text: n.Text(),
		Data: map[string]any{"id": n.OrderID, "status": n.Status},
		At:   time.Now(),
	}
}

// ─── Settings ─────────────────────────────────────────────────────────────────

// SettingsChanged describes one settings update. ShowDiscounts is nil when
// the request did not touch it; Message is empty when unchanged.
type SettingsChanged struct {
	SiteEnabled   bool
	ShowDiscounts *bool
	Message       string
}

func (n SettingsChanged) Via() []string { return viaAll }

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func (n SettingsChanged) Text() string {
	text := "🔧 <b>Site " + onOff(n.SiteEnabled) + "!</b>"
	if n.ShowDiscounts != nil {
		text += "\n🏷️ <b>Discounts " + onOff(*n.ShowDiscounts) + "!</b>"
	}
	if n.Message != "" {
		text += "\n\n" + html.EscapeString(n.Message)
	}
	return text
}

// Summary is the one-line confirmation returned to the admin.
func (n SettingsChanged) Summary() string {
	s := "Site " + onOff(n.SiteEnabled)
	if n.ShowDiscounts != nil {
		s += ", discounts " + onOff(*n.ShowDiscounts)
	}
	return s
}

func (n SettingsChanged) ToTelegram() notification.TelegramData {
	return notification.TelegramData{Text: n.Text()}
}

func (n SettingsChanged) ToFeed() notification.FeedEvent {
	return notification.FeedEvent{Type: EventSettings, Text: n.Text(), Data: n, At: time.Now()}
}
