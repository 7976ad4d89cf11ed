package database

import (
	"fmt"

	"budgetbuddy/config"
	"budgetbuddy/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the database connection, migrates the schema and seeds the
// global default categories.
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	logMode := logger.Warn
	if cfg.Server.Mode == "debug" {
		logMode = logger.Info
	}

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Transaction{},
		&models.Category{},
		&models.Budget{},
		&models.Bill{},
		&models.FinancialGoal{},
		&models.FuturePlan{},
	); err != nil {
		return err
	}

	// Seed global categories (user_id NULL) once, on an empty table.
	var catCount int64
	DB.Model(&models.Category{}).Count(&catCount)
	if catCount == 0 {
		cats := models.DefaultCategories()
		if err := DB.Create(&cats).Error; err != nil {
			logrus.WithError(err).Warn("seed default categories failed")
		} else {
			logrus.Infof("seeded %d default categories", len(cats))
		}
	}

	logrus.Info("database initialized")
	return nil
}

// GetDB returns the shared database handle.
func GetDB() *gorm.DB {
	return DB
}
