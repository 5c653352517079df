package scoreboard

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler provides HTTP handlers for proof submission and the leaderboard
type Handler struct {
	service       *Service
	logger        *zap.Logger
	maxProofBytes int64
}

// NewHandler creates a new scoreboard handler
func NewHandler(service *Service, logger *zap.Logger, maxProofBytes int64) *Handler {
	return &Handler{
		service:       service,
		logger:        logger,
		maxProofBytes: maxProofBytes,
	}
}

// SubmitProofHandler accepts a proof upload, verifies it and records it.
// The proof travels as a multipart form file under the field "proof".
func (h *Handler) SubmitProofHandler(c *gin.Context) {
	traceID := c.GetHeader("X-Trace-ID")
	if traceID == "" {
		traceID = uuid.New().String()
		c.Header("X-Trace-ID", traceID)
	}

	logger := h.logger.With(
		zap.String("trace_id", traceID),
		zap.String("endpoint", "submit_proof"),
		zap.String("client_ip", c.ClientIP()),
	)

	file, header, err := c.Request.FormFile("proof")
	if err != nil {
		logger.Error("Missing proof upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "MISSING_PROOF",
			"message":  "Request must carry a multipart file field named \"proof\"",
			"trace_id": traceID,
		})
		return
	}
	defer file.Close()

	if header.Size > h.maxProofBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":    "PROOF_TOO_LARGE",
			"message":  "Proof upload exceeds the size limit",
			"trace_id": traceID,
		})
		return
	}

	payload, err := io.ReadAll(io.LimitReader(file, h.maxProofBytes))
	if err != nil {
		logger.Error("Failed to read proof upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "UNREADABLE_PROOF",
			"message":  "Failed to read proof upload",
			"trace_id": traceID,
		})
		return
	}

	submission, err := h.service.SubmitProof(c.Request.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateProof):
			c.JSON(http.StatusConflict, gin.H{
				"error":    "DUPLICATE_PROOF",
				"message":  "This proof has already been submitted",
				"trace_id": traceID,
			})
		case errors.Is(err, ErrInvalidProof):
			logger.Info("Rejected invalid proof", zap.Error(err))
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":    "INVALID_PROOF",
				"message":  "Proof verification failed",
				"trace_id": traceID,
			})
		default:
			logger.Error("Failed to process proof submission", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":    "SUBMISSION_FAILED",
				"message":  "Failed to process proof submission",
				"trace_id": traceID,
			})
		}
		return
	}

	logger.Info("Proof submission accepted",
		zap.String("proof_id", submission.ProofID),
		zap.Int64("score", submission.Score))

	c.JSON(http.StatusCreated, submission)
}

// ListScoresHandler returns all score counts, highest milestone first.
func (h *Handler) ListScoresHandler(c *gin.Context) {
	counts, err := h.service.ListScoreCounts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list score counts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "RETRIEVAL_FAILED",
			"message": "Failed to retrieve score counts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scores": counts})
}

// GetProofHandler returns a stored proof record by its ID.
func (h *Handler) GetProofHandler(c *gin.Context) {
	proofID := c.Param("proof_id")

	record, err := h.service.GetProof(c.Request.Context(), proofID)
	if err != nil {
		if errors.Is(err, ErrProofNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "PROOF_NOT_FOUND",
				"message": "No proof with that ID has been submitted",
			})
			return
		}
		h.logger.Error("Failed to load proof", zap.Error(err), zap.String("proof_id", proofID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "RETRIEVAL_FAILED",
			"message": "Failed to retrieve proof",
		})
		return
	}

	c.JSON(http.StatusOK, record)
}
