package handler

import (
	"brandlink/internal/apierrors"
	"brandlink/internal/dashboard/processor"
	"brandlink/internal/observability"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	processor processor.DashboardProcessor
	logger    *observability.Logger
}

func New(processor processor.DashboardProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

type brandAnalyticsResponse struct {
	Success bool `json:"success"`
	processor.BrandAnalyticsResponse
}

type influencerAnalyticsResponse struct {
	Success bool `json:"success"`
	processor.InfluencerAnalyticsResponse
}

type campaignAnalyticsResponse struct {
	Success bool `json:"success"`
	processor.CampaignAnalyticsResponse
}

type listResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// HandleGetBrandAnalytics retrieves platform-wide brand metrics
func (h *Handler) HandleGetBrandAnalytics(c *gin.Context) {
	ctx := c.Request.Context()

	analytics, err := h.processor.GetBrandAnalytics(ctx)
	if err != nil {
		h.logger.Error(ctx, "failed to get brand analytics", err)
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, brandAnalyticsResponse{Success: true, BrandAnalyticsResponse: analytics})
}

// HandleGetInfluencerAnalytics retrieves platform-wide influencer metrics
func (h *Handler) HandleGetInfluencerAnalytics(c *gin.Context) {
	ctx := c.Request.Context()

	analytics, err := h.processor.GetInfluencerAnalytics(ctx)
	if err != nil {
		h.logger.Error(ctx, "failed to get influencer analytics", err)
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, influencerAnalyticsResponse{Success: true, InfluencerAnalyticsResponse: analytics})
}

// HandleGetCampaignAnalytics retrieves platform-wide campaign metrics
func (h *Handler) HandleGetCampaignAnalytics(c *gin.Context) {
	ctx := c.Request.Context()

	analytics, err := h.processor.GetCampaignAnalytics(ctx)
	if err != nil {
		h.logger.Error(ctx, "failed to get campaign analytics", err)
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaignAnalyticsResponse{Success: true, CampaignAnalyticsResponse: analytics})
}

// HandleGetInfluencerROI retrieves per-influencer return-on-investment rows
func (h *Handler) HandleGetInfluencerROI(c *gin.Context) {
	ctx := c.Request.Context()

	entries, err := h.processor.GetInfluencerROI(ctx)
	if err != nil {
		h.logger.Error(ctx, "failed to get influencer roi", err)
		apierrors.InternalError(c, err)
		return
	}
	if entries == nil {
		entries = []processor.ROIEntry{}
	}

	c.JSON(http.StatusOK, listResponse{Success: true, Data: entries})
}

type leaderboardQuery struct {
	Dimension string `form:"dimension" binding:"omitempty,oneof=brand campaign"`
	DateFrom  string `form:"date_from" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	DateTo    string `form:"date_to" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// HandleGetRevenueLeaderboard ranks campaigns or brands by completed payment
// revenue. Accepts optional dimension, date_from and date_to query parameters.
func (h *Handler) HandleGetRevenueLeaderboard(c *gin.Context) {
	ctx := c.Request.Context()

	var query leaderboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	var from, to *time.Time
	if query.DateFrom != "" {
		parsed, err := time.Parse(time.RFC3339, query.DateFrom)
		if err != nil {
			h.logger.Error(ctx, "failed to parse date_from", err)
			apierrors.BadRequest(c, "INVALID_DATE", "invalid date_from format, use RFC3339")
			return
		}
		from = &parsed
	}
	if query.DateTo != "" {
		parsed, err := time.Parse(time.RFC3339, query.DateTo)
		if err != nil {
			h.logger.Error(ctx, "failed to parse date_to", err)
			apierrors.BadRequest(c, "INVALID_DATE", "invalid date_to format, use RFC3339")
			return
		}
		to = &parsed
	}

	entries, err := h.processor.GetRevenueLeaderboard(ctx, query.Dimension, from, to)
	if err != nil {
		h.logger.Error(ctx, "failed to get revenue leaderboard", err)
		if errors.Is(err, processor.ErrInvalidDimension) {
			apierrors.BadRequest(c, "INVALID_DIMENSION", "dimension must be campaign or brand")
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse{Success: true, Data: entries})
}
