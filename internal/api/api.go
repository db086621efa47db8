package api

import (
	"brandlink/internal/auth"
	dashboardHandler "brandlink/internal/dashboard/handler"
	ecosystemHandler "brandlink/internal/ecosystem/handler"
	matchmakingHandler "brandlink/internal/matchmaking/handler"
	notificationsHandler "brandlink/internal/notifications/handler"
	"net/http"

	"github.com/gin-gonic/gin"
)

type API struct {
	router               *gin.RouterGroup
	authGuard            auth.Guard
	dashboardHandler     dashboardHandler.Handler
	ecosystemHandler     ecosystemHandler.Handler
	matchmakingHandler   matchmakingHandler.Handler
	notificationsHandler notificationsHandler.Handler
}

func New(
	router *gin.RouterGroup,
	authGuard auth.Guard,
	dashboardHandler dashboardHandler.Handler,
	ecosystemHandler ecosystemHandler.Handler,
	matchmakingHandler matchmakingHandler.Handler,
	notificationsHandler notificationsHandler.Handler,
) API {
	return API{
		router:               router,
		authGuard:            authGuard,
		dashboardHandler:     dashboardHandler,
		ecosystemHandler:     ecosystemHandler,
		matchmakingHandler:   matchmakingHandler,
		notificationsHandler: notificationsHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")
	adminGroup := apiGroup.Group("/admin", a.authGuard.Middleware)
	{
		adminGroup.GET("/brand-analytics", a.dashboardHandler.HandleGetBrandAnalytics)
		adminGroup.GET("/influencer-analytics", a.dashboardHandler.HandleGetInfluencerAnalytics)
		adminGroup.GET("/campaign-analytics", a.dashboardHandler.HandleGetCampaignAnalytics)
		adminGroup.GET("/influencer-roi", a.dashboardHandler.HandleGetInfluencerROI)
		adminGroup.GET("/campaign-revenue-leaderboard", a.dashboardHandler.HandleGetRevenueLeaderboard)
		adminGroup.GET("/matchmaking/:brand_id", a.matchmakingHandler.HandleMatchInfluencers)
		adminGroup.GET("/ecosystem-graph", a.ecosystemHandler.HandleGetEcosystemGraph)
		adminGroup.GET("/notifications", a.notificationsHandler.HandleGetNotifications)
		adminGroup.POST("/notifications/mark-all-read", a.notificationsHandler.HandleMarkAllRead)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
