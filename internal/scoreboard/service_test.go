package scoreboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/turbo-ing/2048-scoreproof/internal/database"
	"github.com/turbo-ing/2048-scoreproof/internal/verifier"
	"github.com/turbo-ing/2048-scoreproof/pkg/models"
)

// stubVerifier lets each test script the verifier outcome.
type stubVerifier struct {
	verifyFn func(ctx context.Context, payload []byte) (*verifier.Result, error)
}

func (s *stubVerifier) Verify(ctx context.Context, payload []byte) (*verifier.Result, error) {
	return s.verifyFn(ctx, payload)
}

// acceptAll derives a distinct proof ID from the payload and accepts it
// with the given score.
func acceptAll(score int64) *stubVerifier {
	return &stubVerifier{
		verifyFn: func(ctx context.Context, payload []byte) (*verifier.Result, error) {
			sum := sha256.Sum256(payload)
			return &verifier.Result{ProofID: hex.EncodeToString(sum[:]), Score: score}, nil
		},
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.New("sqlite", dsn, 1, 1, time.Hour)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedScoreLadder(db))
	return db
}

func newTestService(t *testing.T, v verifier.Verifier) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	logger, _ := zap.NewDevelopment()
	return NewService(logger, db, v), db
}

func TestSubmitProofAccepted(t *testing.T) {
	svc, db := newTestService(t, acceptAll(2048))

	sub, err := svc.SubmitProof(context.Background(), []byte("proof-a"))
	require.NoError(t, err)
	assert.Equal(t, int64(2048), sub.Score)
	assert.Equal(t, int64(1), sub.Count)
	assert.NotEmpty(t, sub.ProofID)

	var record models.ProofRecord
	require.NoError(t, db.Where("proof_id = ?", sub.ProofID).First(&record).Error)
	assert.Equal(t, []byte("proof-a"), record.Payload)
	assert.WithinDuration(t, time.Now(), record.CreatedAt, time.Minute)
}

func TestSubmitProofCountsDistinctProofs(t *testing.T) {
	svc, db := newTestService(t, acceptAll(2048))

	for i := 0; i < 3; i++ {
		_, err := svc.SubmitProof(context.Background(), []byte(fmt.Sprintf("proof-%d", i)))
		require.NoError(t, err)
	}

	var entry models.ScoreCount
	require.NoError(t, db.Where("score = ?", 2048).First(&entry).Error)
	assert.Equal(t, int64(3), entry.Count)

	// count must equal the number of stored proof rows for the score
	var stored int64
	require.NoError(t, db.Model(&models.ProofRecord{}).Where("score = ?", 2048).Count(&stored).Error)
	assert.Equal(t, entry.Count, stored)
}

func TestSubmitProofRejectsDuplicate(t *testing.T) {
	svc, db := newTestService(t, acceptAll(4096))

	_, err := svc.SubmitProof(context.Background(), []byte("same-proof"))
	require.NoError(t, err)

	_, err = svc.SubmitProof(context.Background(), []byte("same-proof"))
	assert.ErrorIs(t, err, ErrDuplicateProof)

	var entry models.ScoreCount
	require.NoError(t, db.Where("score = ?", 4096).First(&entry).Error)
	assert.Equal(t, int64(1), entry.Count)
}

func TestSubmitProofRejectsInvalid(t *testing.T) {
	invalid := &stubVerifier{
		verifyFn: func(ctx context.Context, payload []byte) (*verifier.Result, error) {
			return &verifier.Result{ProofID: "deadbeef", Score: verifier.InvalidScore}, nil
		},
	}
	svc, db := newTestService(t, invalid)

	_, err := svc.SubmitProof(context.Background(), []byte("bogus"))
	assert.ErrorIs(t, err, ErrInvalidProof)

	var stored int64
	require.NoError(t, db.Model(&models.ProofRecord{}).Count(&stored).Error)
	assert.Zero(t, stored)
}

func TestSubmitProofRejectsMissingProofID(t *testing.T) {
	noID := &stubVerifier{
		verifyFn: func(ctx context.Context, payload []byte) (*verifier.Result, error) {
			return &verifier.Result{ProofID: "", Score: 2048}, nil
		},
	}
	svc, _ := newTestService(t, noID)

	_, err := svc.SubmitProof(context.Background(), []byte("anonymous"))
	assert.ErrorIs(t, err, ErrInvalidProof)
}

func TestSubmitProofWrapsVerifierErrors(t *testing.T) {
	failing := &stubVerifier{
		verifyFn: func(ctx context.Context, payload []byte) (*verifier.Result, error) {
			return nil, verifier.ErrMalformedPayload
		},
	}
	svc, _ := newTestService(t, failing)

	_, err := svc.SubmitProof(context.Background(), []byte("{broken"))
	assert.ErrorIs(t, err, ErrInvalidProof)
}

func TestSubmitProofCreatesOffLadderScore(t *testing.T) {
	svc, db := newTestService(t, acceptAll(24))

	sub, err := svc.SubmitProof(context.Background(), []byte("weird-score"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), sub.Count)

	var entry models.ScoreCount
	require.NoError(t, db.Where("score = ?", 24).First(&entry).Error)
	assert.Equal(t, int64(1), entry.Count)
}

func TestListScoreCountsDescending(t *testing.T) {
	svc, _ := newTestService(t, acceptAll(2048))

	counts, err := svc.ListScoreCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, len(database.SeedScores))

	for i := 1; i < len(counts); i++ {
		assert.Greater(t, counts[i-1].Score, counts[i].Score)
	}
	assert.Equal(t, int64(131072), counts[0].Score)
}

func TestGetProof(t *testing.T) {
	svc, _ := newTestService(t, acceptAll(1024))

	sub, err := svc.SubmitProof(context.Background(), []byte("lookup-me"))
	require.NoError(t, err)

	record, err := svc.GetProof(context.Background(), sub.ProofID)
	require.NoError(t, err)
	assert.Equal(t, sub.ProofID, record.ProofID)
	assert.Equal(t, int64(1024), record.Score)

	_, err = svc.GetProof(context.Background(), "ffffffffffffffff")
	assert.ErrorIs(t, err, ErrProofNotFound)
}
