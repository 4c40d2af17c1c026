package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

const startedAtKey = "storefront:started_at"

// Instrument registers GORM callbacks that feed metrics.DBQueryDuration.
func Instrument(db *gorm.DB) error {
	cb := db.Callback()

	hooks := []struct {
		op     string
		before func(name string, fn func(*gorm.DB)) error
		after  func(name string, fn func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"select", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
	}

	for _, h := range hooks {
		op := h.op
		if err := h.before("metrics:before_"+op, startTimer); err != nil {
			return err
		}
		if err := h.after("metrics:after_"+op, func(tx *gorm.DB) { observe(tx, op) }); err != nil {
			return err
		}
	}
	return nil
}

func startTimer(tx *gorm.DB) {
	tx.InstanceSet(startedAtKey, time.Now())
}

func observe(tx *gorm.DB, op string) {
	v, ok := tx.InstanceGet(startedAtKey)
	if !ok {
		return
	}
	if started, ok := v.(time.Time); ok {
		metrics.ObserveDBQuery(op, time.Since(started))
	}
}
