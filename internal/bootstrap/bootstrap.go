package bootstrap

import (
	"brandlink/internal/auth"
	"brandlink/internal/config"
	"brandlink/internal/observability"
	"brandlink/internal/store"
	"context"
	"fmt"
	"time"

	dashboardHandler "brandlink/internal/dashboard/handler"
	dashboardProcessor "brandlink/internal/dashboard/processor"
	ecosystemHandler "brandlink/internal/ecosystem/handler"
	ecosystemProcessor "brandlink/internal/ecosystem/processor"
	matchmakingHandler "brandlink/internal/matchmaking/handler"
	matchmakingProcessor "brandlink/internal/matchmaking/processor"
	notificationsHandler "brandlink/internal/notifications/handler"
	notificationsProcessor "brandlink/internal/notifications/processor"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  store.Store
	Logger *observability.Logger

	// Middleware
	AuthGuard auth.Guard

	// Handlers
	DashboardHandler     dashboardHandler.Handler
	EcosystemHandler     ecosystemHandler.Handler
	MatchmakingHandler   matchmakingHandler.Handler
	NotificationsHandler notificationsHandler.Handler
}

// Initialize sets up all application dependencies
func Initialize(_ context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Initialize database store
	connectionString := cfg.Database.ConnectionString()
	dbStore, err := store.New(connectionString, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	deps.Store = dbStore

	deps.AuthGuard = auth.NewGuard(cfg.Auth.JWTSecret, logger)

	// Dashboard metrics
	dashboardProc := dashboardProcessor.New(&dbStore, logger)
	deps.DashboardHandler = dashboardHandler.New(dashboardProc, logger)

	// Ecosystem graph
	ecosystemProc := ecosystemProcessor.New(&dbStore, logger)
	deps.EcosystemHandler = ecosystemHandler.New(ecosystemProc, logger)

	// Matchmaking
	scoringConfig := matchmakingProcessor.DefaultScoringConfig()
	scoringConfig.DefaultLimit = cfg.Reporting.MatchLimit
	matchmakingProc := matchmakingProcessor.New(&dbStore, scoringConfig, logger)
	deps.MatchmakingHandler = matchmakingHandler.New(matchmakingProc, logger)

	// Notifications
	window := time.Duration(cfg.Reporting.NewAccountWindowD) * 24 * time.Hour
	notificationsProc := notificationsProcessor.New(&dbStore, window, logger)
	deps.NotificationsHandler = notificationsHandler.New(notificationsProc, logger)

	return deps, nil
}

// Cleanup releases held resources
func (d *Dependencies) Cleanup() {
	if db := d.Store.DB(); db != nil {
		_ = db.Close()
	}
}
