package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Leaderboard dimensions accepted by CompletedPaymentRollups
const (
	RevenueDimensionBrand    = "brand"
	RevenueDimensionCampaign = "campaign"
)

// RevenueRollup is the completed-payment total for one leaderboard subject.
// SubjectName is empty when the joined record is missing.
type RevenueRollup struct {
	SubjectID    uuid.UUID `db:"subject_id" json:"subject_id"`
	SubjectName  string    `db:"subject_name" json:"subject_name"`
	TotalRevenue float64   `db:"total_revenue" json:"total_revenue"`
	PaymentCount int       `db:"payment_count" json:"payment_count"`
}

// PairRevenue is the completed-payment total for one (brand, influencer) pair
type PairRevenue struct {
	BrandID      uuid.UUID `db:"brand_id" json:"brand_id"`
	InfluencerID uuid.UUID `db:"influencer_id" json:"influencer_id"`
	TotalRevenue float64   `db:"total_revenue" json:"total_revenue"`
}

// Subjects whose payments are all pending/failed still get a row, with zero
// completed revenue, so the leaderboard can rank them last.
const sqlCompletedPaymentRollupsByBrand = `
SELECT
    p.brand_id as subject_id,
    COALESCE(a.name, '') as subject_name,
    COALESCE(SUM(p.amount) FILTER (WHERE p.status = 'completed'), 0) as total_revenue,
    COUNT(p.id) FILTER (WHERE p.status = 'completed')::int as payment_count
FROM payments p
LEFT JOIN accounts a ON a.id = p.brand_id
WHERE ($1::timestamptz IS NULL OR p.paid_at >= $1)
    AND ($2::timestamptz IS NULL OR p.paid_at < $2)
GROUP BY p.brand_id, a.name
`

const sqlCompletedPaymentRollupsByCampaign = `
SELECT
    p.campaign_id as subject_id,
    COALESCE(c.title, '') as subject_name,
    COALESCE(SUM(p.amount) FILTER (WHERE p.status = 'completed'), 0) as total_revenue,
    COUNT(p.id) FILTER (WHERE p.status = 'completed')::int as payment_count
FROM payments p
LEFT JOIN campaigns c ON c.id = p.campaign_id
WHERE ($1::timestamptz IS NULL OR p.paid_at >= $1)
    AND ($2::timestamptz IS NULL OR p.paid_at < $2)
GROUP BY p.campaign_id, c.title
`

// CompletedPaymentRollups sums completed payments grouped by the given
// dimension, optionally restricted to a [from, to) window on paid_at.
// Row order is not significant; ranking happens in the caller.
func (s *Store) CompletedPaymentRollups(ctx context.Context, dimension string, from, to *time.Time) ([]RevenueRollup, error) {
	var query string
	switch dimension {
	case RevenueDimensionBrand:
		query = sqlCompletedPaymentRollupsByBrand
	case RevenueDimensionCampaign:
		query = sqlCompletedPaymentRollupsByCampaign
	default:
		return nil, fmt.Errorf("unknown revenue dimension: %s", dimension)
	}

	var rollups []RevenueRollup
	err := s.db.SelectContext(ctx, &rollups, query, from, to)
	if err != nil {
		s.logger.Error(ctx, "failed to roll up completed payments", err)
		return nil, fmt.Errorf("failed to roll up completed payments: %w", err)
	}
	return rollups, nil
}

const sqlCompletedPaymentRollupsByInfluencer = `
SELECT
    p.influencer_id as subject_id,
    COALESCE(a.name, '') as subject_name,
    COALESCE(SUM(p.amount) FILTER (WHERE p.status = 'completed'), 0) as total_revenue,
    COUNT(p.id) FILTER (WHERE p.status = 'completed')::int as payment_count
FROM payments p
LEFT JOIN accounts a ON a.id = p.influencer_id
GROUP BY p.influencer_id, a.name
`

// CompletedPaymentRollupsByInfluencer sums completed payments per influencer
func (s *Store) CompletedPaymentRollupsByInfluencer(ctx context.Context) ([]RevenueRollup, error) {
	var rollups []RevenueRollup
	err := s.db.SelectContext(ctx, &rollups, sqlCompletedPaymentRollupsByInfluencer)
	if err != nil {
		s.logger.Error(ctx, "failed to roll up influencer payments", err)
		return nil, fmt.Errorf("failed to roll up influencer payments: %w", err)
	}
	return rollups, nil
}

const sqlCompletedPairRevenue = `
SELECT
    brand_id,
    influencer_id,
    COALESCE(SUM(amount), 0) as total_revenue
FROM payments
WHERE status = 'completed'
GROUP BY brand_id, influencer_id
`

// CompletedPairRevenue sums completed payments per (brand, influencer) pair
func (s *Store) CompletedPairRevenue(ctx context.Context) ([]PairRevenue, error) {
	var pairs []PairRevenue
	err := s.db.SelectContext(ctx, &pairs, sqlCompletedPairRevenue)
	if err != nil {
		s.logger.Error(ctx, "failed to roll up pair revenue", err)
		return nil, fmt.Errorf("failed to roll up pair revenue: %w", err)
	}
	return pairs, nil
}

const sqlSumCompletedPayments = `
SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'completed'
`

// SumCompletedPayments sums all completed payment amounts platform-wide
func (s *Store) SumCompletedPayments(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.GetContext(ctx, &total, sqlSumCompletedPayments)
	if err != nil {
		s.logger.Error(ctx, "failed to sum completed payments", err)
		return 0, fmt.Errorf("failed to sum completed payments: %w", err)
	}
	return total, nil
}

const sqlCountPaymentsWithStatus = `
SELECT COALESCE(COUNT(*), 0)::int FROM payments WHERE status = $1
`

// CountPaymentsWithStatus counts payments in the given status
func (s *Store) CountPaymentsWithStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, sqlCountPaymentsWithStatus, status)
	if err != nil {
		s.logger.Error(ctx, "failed to count payments", err)
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return count, nil
}

const sqlUpdatePaymentStatus = `
UPDATE payments
SET status = $3, updated_at = NOW(),
    paid_at = CASE WHEN $3 = 'completed' THEN NOW() ELSE paid_at END
WHERE id = $1 AND status = $2
RETURNING id, campaign_id, brand_id, influencer_id, amount, status, method, paid_at, created_at, updated_at
`

// UpdatePaymentStatus transitions a payment from one status to another as a
// single conditional update. Returns ErrNotFound when the payment does not
// exist or is no longer in the expected status.
func (s *Store) UpdatePaymentStatus(ctx context.Context, paymentID uuid.UUID, fromStatus, toStatus string) (Payment, error) {
	var payment Payment
	err := s.db.GetContext(ctx, &payment, sqlUpdatePaymentStatus, paymentID, fromStatus, toStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Payment{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update payment status", err)
		return Payment{}, fmt.Errorf("failed to update payment status: %w", err)
	}
	return payment, nil
}
