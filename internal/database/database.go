package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/turbo-ing/2048-scoreproof/pkg/models"
)

// SeedScores is the fixed descending ladder of power-of-two tile milestones
// that gets a zero-count row at startup.
var SeedScores = []int64{131072, 65536, 32768, 16384, 8192, 4096, 2048, 1024}

// New opens a gorm connection for the configured driver and tunes the pool.
// TranslateError is enabled so unique violations surface as
// gorm.ErrDuplicatedKey on both sqlite and postgres.
func New(driver, dsn string, maxOpen, maxIdle int, connMaxLife time.Duration) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver: %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}
	if connMaxLife > 0 {
		sqlDB.SetConnMaxLifetime(connMaxLife)
	}
	sqlDB.SetConnMaxIdleTime(15 * time.Minute)

	return db, nil
}

// Migrate creates or updates the two persisted tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.ScoreCount{}, &models.ProofRecord{})
}

// SeedScoreLadder inserts the milestone ladder, skipping rows that already
// exist so restarts never reset counts.
func SeedScoreLadder(db *gorm.DB) error {
	rows := make([]models.ScoreCount, 0, len(SeedScores))
	for _, score := range SeedScores {
		rows = append(rows, models.ScoreCount{Score: score, Count: 0})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
