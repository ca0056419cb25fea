package alexa

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codeforboston/voiceapp311-sub000/pkg/types"
)

// Executor routes one normalized request. Implemented by the controller.
type Executor interface {
	Execute(ctx context.Context, req *types.Request) (*types.Response, error)
}

// Handler serves the skill webhook.
type Handler struct {
	exec   Executor
	logger *zap.Logger
}

// NewHandler creates a webhook handler backed by exec.
func NewHandler(exec Executor, logger *zap.Logger) *Handler {
	return &Handler{exec: exec, logger: logger}
}

// Webhook handles one POSTed request envelope.
func (h *Handler) Webhook(c *gin.Context) {
	var env RequestEnvelope
	if err := c.ShouldBindJSON(&env); err != nil {
		h.logger.Debug("cannot decode request envelope", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req := ToRequest(&env)
	h.logger.Info("request received",
		zap.String("kind", string(req.Kind)),
		zap.String("intent", req.IntentName),
		zap.String("session_id", req.SessionID))

	resp, err := h.exec.Execute(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("request failed",
			zap.String("intent", req.IntentName),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request failed"})
		return
	}

	c.JSON(http.StatusOK, FromResponse(resp))
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
