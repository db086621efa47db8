package handler

import (
	"brandlink/internal/apierrors"
	"brandlink/internal/matchmaking/processor"
	"brandlink/internal/observability"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor processor.MatchmakingProcessor
	logger    *observability.Logger
}

func New(processor processor.MatchmakingProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

type candidatesResponse struct {
	Success bool                  `json:"success"`
	Data    []processor.Candidate `json:"data"`
}

type matchQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=0,max=100"`
}

// HandleMatchInfluencers scores influencer candidates for the brand in the
// path. Accepts an optional limit query parameter.
func (h *Handler) HandleMatchInfluencers(c *gin.Context) {
	ctx := c.Request.Context()

	brandID, err := uuid.Parse(c.Param("brand_id"))
	if err != nil {
		h.logger.Error(ctx, "failed to parse brand ID", err)
		apierrors.BadRequest(c, "INVALID_BRAND_ID", "invalid brand id")
		return
	}

	var query matchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	candidates, err := h.processor.MatchInfluencers(ctx, brandID, query.Limit)
	if err != nil {
		if errors.Is(err, processor.ErrBrandNotFound) {
			apierrors.NotFound(c, "Brand not found")
			return
		}
		h.logger.Error(ctx, "failed to match influencers", err)
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidatesResponse{Success: true, Data: candidates})
}
