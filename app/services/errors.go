// Package services holds the storefront's business rules. Controllers call
// services; services call repositories and the notifier.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/notification"
)

// Error kinds. Controllers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrDuplicate         = errors.New("duplicate")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Error is a kind plus the message shown to the client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Notifier delivers notifications without blocking or failing the caller.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification)
	NotifyAfter(ctx context.Context, n notification.Notification, delay time.Duration)
}

type discard struct{}

func (discard) Notify(context.Context, notification.Notification) {}
func (discard) NotifyAfter(context.Context, notification.Notification, time.Duration) {
}

func orDiscard(n Notifier) Notifier {
	if n == nil {
		return discard{}
	}
	return n
}

// isDuplicate recognises unique-constraint violations. TranslateError maps
// most drivers to gorm.ErrDuplicatedKey; the string check covers the rest.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
