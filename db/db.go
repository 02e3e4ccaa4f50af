package db

import (
	"fmt"

	"inventaris_admin/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDB opens Postgres and migrates the audit tables.
func ConnectDB(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.LoanEvent{}); err != nil {
		return err
	}

	// 按借用记录倒序查事件
	table := models.LoanEvent{}.TableName()
	return db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_ref_created_desc
	  ON %s (loan_ref, created_at DESC);
	`, table, table)).Error
}
