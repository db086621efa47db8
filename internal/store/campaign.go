package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CategoryCount is a count of campaigns attributed to a brand category
type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int    `db:"count" json:"count"`
}

const sqlGetCampaignByID = `
SELECT id, brand_id, title, budget, status, start_date, end_date, created_at, updated_at
FROM campaigns
WHERE id = $1
`

// GetCampaignByID retrieves a single campaign
func (s *Store) GetCampaignByID(ctx context.Context, campaignID uuid.UUID) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlGetCampaignByID, campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get campaign", err)
		return Campaign{}, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

const sqlListCampaignsByBrand = `
SELECT id, brand_id, title, budget, status, start_date, end_date, created_at, updated_at
FROM campaigns
WHERE brand_id = $1
ORDER BY id
`

// ListCampaignsByBrand retrieves all campaigns owned by a brand
func (s *Store) ListCampaignsByBrand(ctx context.Context, brandID uuid.UUID) ([]Campaign, error) {
	var campaigns []Campaign
	err := s.db.SelectContext(ctx, &campaigns, sqlListCampaignsByBrand, brandID)
	if err != nil {
		s.logger.Error(ctx, "failed to list campaigns for brand", err)
		return nil, fmt.Errorf("failed to list campaigns for brand: %w", err)
	}
	return campaigns, nil
}

const sqlCountCampaignsByStatus = `
SELECT status, COALESCE(COUNT(*), 0)::int as count
FROM campaigns
GROUP BY status
`

// CountCampaignsByStatus counts campaigns grouped by status
func (s *Store) CountCampaignsByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := s.db.SelectContext(ctx, &counts, sqlCountCampaignsByStatus)
	if err != nil {
		s.logger.Error(ctx, "failed to count campaigns by status", err)
		return nil, fmt.Errorf("failed to count campaigns by status: %w", err)
	}
	return counts, nil
}

const sqlSumCampaignBudgets = `
SELECT COALESCE(SUM(budget), 0) FROM campaigns WHERE status != 'cancelled'
`

// SumCampaignBudgets sums budgets across all non-cancelled campaigns
func (s *Store) SumCampaignBudgets(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.GetContext(ctx, &total, sqlSumCampaignBudgets)
	if err != nil {
		s.logger.Error(ctx, "failed to sum campaign budgets", err)
		return 0, fmt.Errorf("failed to sum campaign budgets: %w", err)
	}
	return total, nil
}

// A campaign whose brand record is gone still counts, bucketed as uncategorized.
const sqlCampaignCategoryCounts = `
SELECT COALESCE(cat.category, 'uncategorized') as category, COUNT(*)::int as count
FROM campaigns c
LEFT JOIN accounts a ON a.id = c.brand_id
LEFT JOIN LATERAL unnest(a.categories) AS cat(category) ON true
GROUP BY cat.category
`

// CampaignCategoryCounts counts campaigns by the owning brand's category tags
func (s *Store) CampaignCategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := s.db.SelectContext(ctx, &counts, sqlCampaignCategoryCounts)
	if err != nil {
		s.logger.Error(ctx, "failed to count campaigns by category", err)
		return nil, fmt.Errorf("failed to count campaigns by category: %w", err)
	}
	return counts, nil
}
