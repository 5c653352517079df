package scoreboard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/turbo-ing/2048-scoreproof/internal/verifier"
	"github.com/turbo-ing/2048-scoreproof/pkg/metrics"
	"github.com/turbo-ing/2048-scoreproof/pkg/models"
)

var (
	// ErrInvalidProof is returned when the verifier rejects a submission.
	ErrInvalidProof = errors.New("proof verification failed")

	// ErrDuplicateProof is returned when the proof ID is already stored.
	ErrDuplicateProof = errors.New("proof already submitted")

	// ErrProofNotFound is returned by lookups for unknown proof IDs.
	ErrProofNotFound = errors.New("proof not found")
)

// Submission is the outcome of an accepted proof.
type Submission struct {
	ProofID string `json:"proof_id"`
	Score   int64  `json:"score"`
	Count   int64  `json:"count"`
}

// Service implements the scoreboard operations on top of the relational
// store and the external proof verifier.
type Service struct {
	logger   *zap.Logger
	db       *gorm.DB
	verifier verifier.Verifier
}

// NewService creates a scoreboard service.
func NewService(logger *zap.Logger, db *gorm.DB, v verifier.Verifier) *Service {
	return &Service{
		logger:   logger,
		db:       db,
		verifier: v,
	}
}

// SubmitProof verifies a proof payload and, when it is valid and unseen,
// stores it and bumps the count for its score. The proof row insert and the
// count increment happen in one transaction so the count for a score always
// equals the number of stored proofs for it.
func (s *Service) SubmitProof(ctx context.Context, payload []byte) (*Submission, error) {
	res, err := s.verifier.Verify(ctx, payload)
	if err != nil {
		metrics.ProofsRejected.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if res.ProofID == "" || res.Score == verifier.InvalidScore || res.Score <= 0 {
		metrics.ProofsRejected.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidProof
	}

	// Idempotency check before paying for the transaction. The unique
	// index still backstops races below.
	var existing models.ProofRecord
	err = s.db.WithContext(ctx).Where("proof_id = ?", res.ProofID).First(&existing).Error
	if err == nil {
		metrics.ProofsRejected.WithLabelValues("duplicate").Inc()
		return nil, ErrDuplicateProof
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for existing proof: %w", err)
	}

	var count int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := models.ProofRecord{
			ProofID: res.ProofID,
			Payload: payload,
			Score:   res.Score,
		}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateProof
			}
			return fmt.Errorf("failed to store proof: %w", err)
		}

		entry := models.ScoreCount{Score: res.Score, Count: 1}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "score"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1")}),
		}).Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to update score count: %w", err)
		}

		var current models.ScoreCount
		if err := tx.Where("score = ?", res.Score).First(&current).Error; err != nil {
			return fmt.Errorf("failed to read score count: %w", err)
		}
		count = current.Count
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateProof) {
			metrics.ProofsRejected.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	metrics.ProofsAccepted.Inc()
	s.logger.Info("Proof accepted",
		zap.String("proof_id", res.ProofID),
		zap.Int64("score", res.Score),
		zap.Int64("count", count))

	return &Submission{ProofID: res.ProofID, Score: res.Score, Count: count}, nil
}

// ListScoreCounts returns every score row, highest milestone first.
func (s *Service) ListScoreCounts(ctx context.Context) ([]models.ScoreCount, error) {
	var counts []models.ScoreCount
	if err := s.db.WithContext(ctx).Order("score DESC").Find(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to list score counts: %w", err)
	}
	return counts, nil
}

// GetProof looks up a stored proof by its deduplication token.
func (s *Service) GetProof(ctx context.Context, proofID string) (*models.ProofRecord, error) {
	var record models.ProofRecord
	err := s.db.WithContext(ctx).Where("proof_id = ?", proofID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProofNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load proof: %w", err)
	}
	return &record, nil
}
