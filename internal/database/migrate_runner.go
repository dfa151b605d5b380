package database

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"vidtube/internal/middleware"

	"gorm.io/gorm"
)

// schemaMigration is one row of the applied-migrations ledger.
type schemaMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

// Migrator applies and reverts a fixed, ordered set of migrations.
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

// NewMigrator runs migrations, which must be sorted by version, against db.
func NewMigrator(db *gorm.DB, migrations []Migration) *Migrator {
	return &Migrator{db: db, migrations: migrations}
}

// DefaultMigrator uses the migrations embedded in the binary.
func DefaultMigrator(db *gorm.DB) (*Migrator, error) {
	all, err := Migrations()
	if err != nil {
		return nil, err
	}
	return NewMigrator(db, all), nil
}

// Applied lists applied versions, oldest first. A database that was never
// migrated has none.
func (m *Migrator) Applied(ctx context.Context) ([]int, error) {
	db := m.db.WithContext(ctx)
	if !db.Migrator().HasTable(&schemaMigration{}) {
		return []int{}, nil
	}
	var versions []int
	if err := db.Model(&schemaMigration{}).Order("version").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	return versions, nil
}

// Pending returns the registered migrations that have not been applied.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkUnknownVersions(applied, m.migrations); err != nil {
		return nil, err
	}

	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}
	var pending []Migration
	for _, mg := range m.migrations {
		if !done[mg.Version] {
			pending = append(pending, mg)
		}
	}
	return pending, nil
}

// Up applies every pending migration and reports how many ran. Each script
// and its ledger row commit together, so a failure leaves earlier migrations
// applied and the failed one untouched.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.db.WithContext(ctx).Migrator().AutoMigrate(&schemaMigration{}); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}
	pending, err := m.Pending(ctx)
	if err != nil {
		return 0, err
	}

	for i, mg := range pending {
		start := time.Now()
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(mg.Up).Error; err != nil {
				return err
			}
			return tx.Create(&schemaMigration{Version: mg.Version, Name: mg.Name}).Error
		})
		if err != nil {
			return i, fmt.Errorf("apply migration %s: %w", mg, err)
		}
		middleware.Logger.InfoContext(ctx, "migration applied",
			slog.String("migration", mg.String()),
			slog.Duration("took", time.Since(start)),
		)
	}
	return len(pending), nil
}

// Down reverts version, which must be the latest applied migration.
func (m *Migrator) Down(ctx context.Context, version int) error {
	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return fmt.Errorf("no migrations have been applied")
	}
	if latest := applied[len(applied)-1]; latest != version {
		return fmt.Errorf("only the latest applied migration (%06d) can be rolled back, got %06d", latest, version)
	}

	var target *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == version {
			target = &m.migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(target.Down).Error; err != nil {
			return err
		}
		return tx.Where("version = ?", version).Delete(&schemaMigration{}).Error
	})
	if err != nil {
		return fmt.Errorf("roll back migration %s: %w", target, err)
	}
	middleware.Logger.InfoContext(ctx, "migration rolled back", slog.String("migration", target.String()))
	return nil
}

// RunMigrations applies the embedded migrations.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	m, err := DefaultMigrator(db)
	if err != nil {
		return err
	}
	_, err = m.Up(ctx)
	return err
}

// checkUnknownVersions rejects a ledger that mentions versions the binary
// does not ship, which means the database was migrated by a newer build.
func checkUnknownVersions(applied []int, registered []Migration) error {
	known := make(map[int]bool, len(registered))
	for _, mg := range registered {
		known[mg.Version] = true
	}

	var unknown []string
	for _, v := range applied {
		if !known[v] {
			unknown = append(unknown, fmt.Sprintf("%06d", v))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("schema_migrations lists versions this build does not know: %s", strings.Join(unknown, ", "))
}
