package db

import (
	"errors"
	"time"

	"github.com/EmpoweredVote/booth-results/internal/utils"
	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the PostgreSQL pool and routes gorm's SQL log through zap.
func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}

	// Surface slow aggregation queries in the service log.
	lg := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var db *gorm.DB
	err := retry.Do(func() error {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: lg,
		})
		return err
	}, utils.RetryAttempts,
		utils.RetryDelay,
		utils.RetryErr,
		retry.OnRetry(func(n uint, err error) {
			log.Warn("database not reachable, retrying",
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", utils.RetryAttemptNum),
				zap.Error(err))
		}))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info("Connected to database")
	return db, nil
}
