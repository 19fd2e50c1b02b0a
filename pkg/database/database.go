package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"easystock-service/internal/model"
	"easystock-service/pkg/config"
)

// Connect opens the PostgreSQL connection with the provided configuration.
// The handle is returned to the caller and injected where needed; there is
// no package-level database singleton.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	// Disables implicit prepared statement usage to prevent
	// "prepared statement already exists" errors
	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true,
	}

	db, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger:         logger.Default.LogMode(cfg.DB.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}

	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}

	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	return db, nil
}

// Migrate creates or updates the table structure for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.UserLevel{},
		&model.User{},
		&model.Package{},
		&model.License{},
		&model.Company{},
		&model.ShopType{},
		&model.Shop{},
		&model.ProductCategory{},
		&model.Product{},
		&model.Stock{},
		&model.Customer{},
		&model.Bill{},
		&model.PaymentMode{},
		&model.Payment{},
		&model.Expense{},
		&model.Cashbox{},
	)
}
