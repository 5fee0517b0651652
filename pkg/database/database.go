package database

import (
	"fmt"
	"log"

	"podlab_backend/internal/config"
	"podlab_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return db, nil
}

// Migrate 建表与索引，测试里也用它初始化 sqlite
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Problem{},
		&model.Pod{},
		&model.PodStage{},
		&model.ProblemAttempt{},
		&model.PodAttempt{},
		&model.UserStageProgress{},
		&model.UserProfile{},
		&model.Artefact{},
	)
}
