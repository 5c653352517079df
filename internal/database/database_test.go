package database

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/turbo-ing/2048-scoreproof/pkg/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := New("sqlite", dsn, 1, 1, time.Hour)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New("oracle", "dsn", 0, 0, 0)
	assert.Error(t, err)
}

func TestSeedScoreLadderIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, SeedScoreLadder(db))

	// bump one count, reseed, the count must survive
	require.NoError(t, db.Model(&models.ScoreCount{}).
		Where("score = ?", 2048).
		Update("count", 7).Error)
	require.NoError(t, SeedScoreLadder(db))

	var entry models.ScoreCount
	require.NoError(t, db.Where("score = ?", 2048).First(&entry).Error)
	assert.Equal(t, int64(7), entry.Count)

	var total int64
	require.NoError(t, db.Model(&models.ScoreCount{}).Count(&total).Error)
	assert.Equal(t, int64(len(SeedScores)), total)
}

func TestProofIDUniqueIndex(t *testing.T) {
	db := openTestDB(t)

	first := models.ProofRecord{ProofID: "abc123", Payload: []byte("p"), Score: 2048}
	require.NoError(t, db.Create(&first).Error)

	second := models.ProofRecord{ProofID: "abc123", Payload: []byte("q"), Score: 4096}
	err := db.Create(&second).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}
