package handler

import (
	"brandlink/internal/apierrors"
	"brandlink/internal/ecosystem/processor"
	"brandlink/internal/observability"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	processor processor.EcosystemProcessor
	logger    *observability.Logger
}

func New(processor processor.EcosystemProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

type graphResponse struct {
	Success bool            `json:"success"`
	Data    processor.Graph `json:"data"`
}

// HandleGetEcosystemGraph builds the brand/influencer collaboration graph.
// Accepts an optional weighting query parameter (assignments or revenue).
func (h *Handler) HandleGetEcosystemGraph(c *gin.Context) {
	ctx := c.Request.Context()

	graph, err := h.processor.BuildGraph(ctx, c.Query("weighting"))
	if err != nil {
		h.logger.Error(ctx, "failed to build ecosystem graph", err)
		if errors.Is(err, processor.ErrInvalidWeighting) {
			apierrors.BadRequest(c, "INVALID_WEIGHTING", "weighting must be assignments or revenue")
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, graphResponse{Success: true, Data: graph})
}
