package scoreboard

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Routes registers the scoreboard endpoints on the given group.
func Routes(router *gin.RouterGroup, service *Service, logger *zap.Logger, maxProofBytes int64) {
	handler := NewHandler(service, logger, maxProofBytes)

	proofs := router.Group("/proofs")
	{
		proofs.POST("", handler.SubmitProofHandler)
		proofs.GET("/:proof_id", handler.GetProofHandler)
	}

	router.GET("/scores", handler.ListScoresHandler)
}
