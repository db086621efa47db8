package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// AssignmentRecord is an assignment joined with its influencer's display name.
// Name is empty when the influencer record no longer exists.
type AssignmentRecord struct {
	Assignment
	InfluencerName string `db:"influencer_name" json:"influencer_name"`
}

// AssignmentLink is the (brand, influencer) relationship an assignment realizes.
// Names degrade to empty strings when the joined account rows are missing.
type AssignmentLink struct {
	CampaignID     uuid.UUID `db:"campaign_id" json:"campaign_id"`
	BrandID        uuid.UUID `db:"brand_id" json:"brand_id"`
	InfluencerID   uuid.UUID `db:"influencer_id" json:"influencer_id"`
	BrandName      string    `db:"brand_name" json:"brand_name"`
	InfluencerName string    `db:"influencer_name" json:"influencer_name"`
	Status         string    `db:"status" json:"status"`
}

// EngagementAverage is an influencer's mean engagement rate over their assignments
type EngagementAverage struct {
	InfluencerID  uuid.UUID `db:"influencer_id" json:"influencer_id"`
	AvgEngagement float64   `db:"avg_engagement" json:"avg_engagement"`
}

const sqlListAssignmentRecords = `
SELECT
    ass.id, ass.campaign_id, ass.influencer_id, ass.status,
    ass.engagement_rate, ass.progress, ass.reach, ass.clicks, ass.conversions,
    ass.revenue, ass.spend, ass.created_at, ass.updated_at,
    COALESCE(a.name, '') as influencer_name
FROM assignments ass
LEFT JOIN accounts a ON a.id = ass.influencer_id
ORDER BY ass.id
`

// ListAssignmentRecords retrieves all assignments with influencer names resolved
func (s *Store) ListAssignmentRecords(ctx context.Context) ([]AssignmentRecord, error) {
	var records []AssignmentRecord
	err := s.db.SelectContext(ctx, &records, sqlListAssignmentRecords)
	if err != nil {
		s.logger.Error(ctx, "failed to list assignment records", err)
		return nil, fmt.Errorf("failed to list assignment records: %w", err)
	}
	return records, nil
}

const sqlListAssignmentLinks = `
SELECT
    ass.campaign_id, c.brand_id, ass.influencer_id,
    COALESCE(b.name, '') as brand_name,
    COALESCE(i.name, '') as influencer_name,
    ass.status
FROM assignments ass
JOIN campaigns c ON c.id = ass.campaign_id
LEFT JOIN accounts b ON b.id = c.brand_id
LEFT JOIN accounts i ON i.id = ass.influencer_id
ORDER BY c.brand_id, ass.influencer_id
`

// ListAssignmentLinks retrieves brand/influencer relationship rows for all assignments
func (s *Store) ListAssignmentLinks(ctx context.Context) ([]AssignmentLink, error) {
	var links []AssignmentLink
	err := s.db.SelectContext(ctx, &links, sqlListAssignmentLinks)
	if err != nil {
		s.logger.Error(ctx, "failed to list assignment links", err)
		return nil, fmt.Errorf("failed to list assignment links: %w", err)
	}
	return links, nil
}

const sqlCountAssignmentsByStatus = `
SELECT status, COALESCE(COUNT(*), 0)::int as count
FROM assignments
GROUP BY status
`

// CountAssignmentsByStatus counts assignments grouped by status
func (s *Store) CountAssignmentsByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := s.db.SelectContext(ctx, &counts, sqlCountAssignmentsByStatus)
	if err != nil {
		s.logger.Error(ctx, "failed to count assignments by status", err)
		return nil, fmt.Errorf("failed to count assignments by status: %w", err)
	}
	return counts, nil
}

const sqlCountAssignmentsWithStatus = `
SELECT COALESCE(COUNT(*), 0)::int FROM assignments WHERE status = $1
`

// CountAssignmentsWithStatus counts assignments in the given status
func (s *Store) CountAssignmentsWithStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, sqlCountAssignmentsWithStatus, status)
	if err != nil {
		s.logger.Error(ctx, "failed to count assignments", err)
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return count, nil
}

const sqlListEngagedInfluencerIDs = `
SELECT DISTINCT ass.influencer_id
FROM assignments ass
JOIN campaigns c ON c.id = ass.campaign_id
WHERE c.brand_id = $1
`

// ListEngagedInfluencerIDs retrieves the influencers with an assignment on any
// of the brand's campaigns, regardless of assignment status.
func (s *Store) ListEngagedInfluencerIDs(ctx context.Context, brandID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.SelectContext(ctx, &ids, sqlListEngagedInfluencerIDs, brandID)
	if err != nil {
		s.logger.Error(ctx, "failed to list engaged influencers", err)
		return nil, fmt.Errorf("failed to list engaged influencers: %w", err)
	}
	return ids, nil
}

const sqlListCollaboratorAudienceSizes = `
SELECT a.audience_size
FROM assignments ass
JOIN campaigns c ON c.id = ass.campaign_id
JOIN accounts a ON a.id = ass.influencer_id
WHERE c.brand_id = $1
`

// ListCollaboratorAudienceSizes retrieves the audience sizes of influencers the
// brand has previously worked with, one row per assignment.
func (s *Store) ListCollaboratorAudienceSizes(ctx context.Context, brandID uuid.UUID) ([]int64, error) {
	var sizes []int64
	err := s.db.SelectContext(ctx, &sizes, sqlListCollaboratorAudienceSizes, brandID)
	if err != nil {
		s.logger.Error(ctx, "failed to list collaborator audience sizes", err)
		return nil, fmt.Errorf("failed to list collaborator audience sizes: %w", err)
	}
	return sizes, nil
}

const sqlEngagementAveragesByInfluencer = `
SELECT influencer_id, COALESCE(AVG(engagement_rate), 0) as avg_engagement
FROM assignments
GROUP BY influencer_id
`

// EngagementAveragesByInfluencer retrieves each influencer's mean engagement
// rate across all their assignments.
func (s *Store) EngagementAveragesByInfluencer(ctx context.Context) ([]EngagementAverage, error) {
	var averages []EngagementAverage
	err := s.db.SelectContext(ctx, &averages, sqlEngagementAveragesByInfluencer)
	if err != nil {
		s.logger.Error(ctx, "failed to average engagement rates", err)
		return nil, fmt.Errorf("failed to average engagement rates: %w", err)
	}
	return averages, nil
}
