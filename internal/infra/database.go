package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the given models, then applies the unique indexes that GORM cannot
// express through struct tags.
//
// TranslateError is enabled so that a store-level unique violation surfaces
// as gorm.ErrDuplicatedKey — the insert itself is the uniqueness check, there
// is no race window between an exists query and the save.
func NewDatabase(dsn string, models ...interface{}) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := ApplyUniqueIndexes(db); err != nil {
		return nil, fmt.Errorf("unique indexes: %w", err)
	}

	return db, nil
}

// ApplyUniqueIndexes creates case-insensitive unique indexes on the natural
// keys. Expression indexes are outside AutoMigrate's vocabulary, so they are
// raw SQL; CREATE UNIQUE INDEX IF NOT EXISTS makes each statement idempotent.
// Statements for tables the service does not own are no-ops guarded by the
// table existing (each service migrates only its own models).
func ApplyUniqueIndexes(db *gorm.DB) error {
	stmts := []struct{ table, sql string }{
		{"categories", `CREATE UNIQUE INDEX IF NOT EXISTS ux_categories_name_ci ON categories (lower(name))`},
		{"products", `CREATE UNIQUE INDEX IF NOT EXISTS ux_products_sku_ci ON products (lower(sku))`},
		{"users", `CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email_ci ON users (lower(email))`},
		{"users", `CREATE UNIQUE INDEX IF NOT EXISTS ux_users_run_ci ON users (lower(run))`},
		{"customers", `CREATE UNIQUE INDEX IF NOT EXISTS ux_customers_email_ci ON customers (lower(email))`},
		{"customers", `CREATE UNIQUE INDEX IF NOT EXISTS ux_customers_run_ci ON customers (lower(run))`},
	}
	for _, s := range stmts {
		if !db.Migrator().HasTable(s.table) {
			continue
		}
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("%s: %w", s.table, err)
		}
	}
	return nil
}
