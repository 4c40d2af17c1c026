// Package controllers translates HTTP requests into service calls.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// fail writes err with the status its kind maps to. Store failures are
// reported with the underlying driver message.
func fail(c *ctx.Context, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.NotFound(svcErr.Message)
		case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrDuplicate):
			c.Error(http.StatusBadRequest, svcErr.Message)
		case errors.Is(err, services.ErrUnauthorized):
			c.Unauthorized(svcErr.Message)
		case errors.Is(err, services.ErrInvalidTransition):
			c.Error(http.StatusConflict, svcErr.Message)
		default:
			c.Error(http.StatusInternalServerError, svcErr.Message)
		}
		return
	}

	logger.WithCtx(c.Context()).Error("request failed", "error", err)
	c.Error(http.StatusInternalServerError, rootCause(err).Error())
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
