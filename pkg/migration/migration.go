// Package migration runs and tracks schema migrations.
//
// Migrations register themselves from init() in database/migrations:
//
//	func init() {
//	    migration.Register("20240301000000_create_products_table", &CreateProductsTable{})
//	}
//
// and are applied from the CLI:
//
//	storefront migrate             // run all pending
//	storefront migrate:rollback    // roll back the last batch
//	storefront migrate:status
package migration

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// Entry is a named migration.
type Entry struct {
	Name      string
	Migration Migration
}

// record is a row in schema_migrations.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

// ------------------- Registry -------------------

var (
	mu       sync.Mutex
	registry []Entry
)

// Register adds a migration to the global registry. Names are
// timestamp-prefixed and applied in lexical order.
func Register(name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, Entry{Name: name, Migration: m})
}

// Registered returns a sorted copy of the global registry.
func Registered() []Entry {
	mu.Lock()
	out := make([]Entry, len(registry))
	copy(out, registry)
	mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ------------------- Runner -------------------

// Runner executes and tracks migrations.
type Runner struct {
	db      *gorm.DB
	out     io.Writer
	entries []Entry
}

// New creates a Runner over the global registry that reports progress to out.
func New(db *gorm.DB, out io.Writer) *Runner {
	return NewWith(db, out, Registered())
}

// NewWith creates a Runner over an explicit list of migrations.
func NewWith(db *gorm.DB, out io.Writer, entries []Entry) *Runner {
	if out == nil {
		out = io.Discard
	}
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Runner{db: db, out: out, entries: sorted}
}

// EnsureTable creates schema_migrations if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&record{})
}

// Pending returns migrations that have not been applied yet.
func (r *Runner) Pending() ([]Entry, error) {
	ran, err := r.ran()
	if err != nil {
		return nil, err
	}

	var pending []Entry
	for _, e := range r.entries {
		if _, ok := ran[e.Name]; !ok {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

// Run applies every pending migration as one batch. Each migration and its
// bookkeeping row commit together.
func (r *Runner) Run() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	pending, err := r.Pending()
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	batch++

	for _, e := range pending {
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", e.Name)

		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := e.Migration.Up(tx); err != nil {
				return fmt.Errorf("migration: %s up: %w", e.Name, err)
			}
			if err := tx.Create(&record{Name: e.Name, Batch: batch}).Error; err != nil {
				return fmt.Errorf("migration: record %s: %w", e.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", e.Name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses every migration of the most recent batch.
func (r *Runner) Rollback() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var records []record
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return err
	}

	byName := make(map[string]Migration, len(r.entries))
	for _, e := range r.entries {
		byName[e.Name] = e.Migration
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		rec := rec
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return fmt.Errorf("migration: %s down: %w", rec.Name, err)
			}
			return tx.Delete(&rec).Error
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", rec.Name)
	}

	logger.Info("migration: rolled back", "batch", batch, "count", len(records))
	return nil
}

// StatusRow describes one migration for migrate:status.
type StatusRow struct {
	Name  string
	Ran   bool
	Batch int
}

// Status prints a table of migrations and returns the rows.
func (r *Runner) Status() ([]StatusRow, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, err
	}
	ran, err := r.ran()
	if err != nil {
		return nil, err
	}

	rows := make([]StatusRow, 0, len(r.entries))
	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	for _, e := range r.entries {
		row := StatusRow{Name: e.Name}
		if rec, ok := ran[e.Name]; ok {
			row.Ran, row.Batch = true, rec.Batch
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", e.Name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", e.Name, "Pending")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *Runner) ran() (map[string]record, error) {
	var all []record
	if err := r.db.Find(&all).Error; err != nil {
		return nil, err
	}
	out := make(map[string]record, len(all))
	for _, rec := range all {
		out[rec.Name] = rec
	}
	return out, nil
}

func (r *Runner) lastBatch() (int, error) {
	var max struct{ Max int }
	if err := r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("migration: read batch: %w", err)
	}
	return max.Max, nil
}
