package database

import (
	"embed"
	"errors"
	"fmt"
	"log"

	"monkeybets/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var DB *gorm.DB

// Connect opens the database for the configured driver ("postgres" or "sqlite")
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = db
	log.Printf("Database connection established successfully (%s)", driver)
	return db, nil
}

// Models lists every table the application owns
func Models() []interface{} {
	return []interface{}{
		&models.Monkey{},
		&models.Prop{},
		&models.Wager{},
	}
}

// AutoMigrate creates or updates tables from the gorm models. Used for
// SQLite and tests; Postgres goes through Migrate.
func AutoMigrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// Migrate applies the embedded SQL migrations to a Postgres database,
// including the change notification triggers.
func Migrate(dsn string) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("migration setup failed: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("database migration failed: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Printf("Database migrations applied (version=%d dirty=%v)", version, dirty)
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

const singleWagerIndex = "idx_wagers_one_per_bettor"

// EnsureWagerPolicy makes the store enforce the wager policy: with one wager
// per bettor per prop a unique index backs the service check, otherwise the
// index is dropped.
func EnsureWagerPolicy(db *gorm.DB, singleWager bool) error {
	stmt := "DROP INDEX IF EXISTS " + singleWagerIndex
	if singleWager {
		stmt = "CREATE UNIQUE INDEX IF NOT EXISTS " + singleWagerIndex + " ON wagers (prop_id, bettor_id)"
	}
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to apply wager policy: %w", err)
	}
	return nil
}
