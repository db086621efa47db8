package processor

import (
	"brandlink/internal/observability"
	"brandlink/internal/store"
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// DashboardStore defines the database operations required by DashboardProcessor
type DashboardStore interface {
	CountAccountsByType(ctx context.Context, accountType string) (int, error)
	CountCampaignsByStatus(ctx context.Context) ([]store.StatusCount, error)
	CountAssignmentsByStatus(ctx context.Context) ([]store.StatusCount, error)
	SumCampaignBudgets(ctx context.Context) (float64, error)
	SumCompletedPayments(ctx context.Context) (float64, error)
	CampaignCategoryCounts(ctx context.Context) ([]store.CategoryCount, error)
	ListAssignmentRecords(ctx context.Context) ([]store.AssignmentRecord, error)
	CompletedPaymentRollups(ctx context.Context, dimension string, from, to *time.Time) ([]store.RevenueRollup, error)
	CompletedPaymentRollupsByInfluencer(ctx context.Context) ([]store.RevenueRollup, error)
}

var ErrInvalidDimension = errors.New("invalid leaderboard dimension")

type DashboardProcessor struct {
	store  DashboardStore
	logger *observability.Logger
}

func New(store DashboardStore, logger *observability.Logger) DashboardProcessor {
	return DashboardProcessor{
		store:  store,
		logger: logger,
	}
}

// LeaderboardEntry is one ranked subject on a revenue leaderboard
type LeaderboardEntry struct {
	SubjectID   string  `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	Revenue     float64 `json:"revenue"`
	Payments    int     `json:"payments"`
	Rank        int     `json:"rank"`
}

// BrandAnalyticsResponse represents platform-wide brand metrics
type BrandAnalyticsResponse struct {
	TotalBrands      int                `json:"total_brands"`
	TotalCampaigns   int                `json:"total_campaigns"`
	ActiveCampaigns  int                `json:"active_campaigns"`
	TotalRevenue     float64            `json:"total_revenue"`
	TotalBudget      float64            `json:"total_budget"`
	PlatformROI      float64            `json:"platform_roi"`
	InsufficientData bool               `json:"insufficient_data"`
	TopBrands        []LeaderboardEntry `json:"top_brands"`
}

// InfluencerAnalyticsResponse represents platform-wide influencer metrics
type InfluencerAnalyticsResponse struct {
	TotalInfluencers      int            `json:"total_influencers"`
	AssignmentsByStatus   map[string]int `json:"assignments_by_status"`
	AverageEngagementRate float64        `json:"average_engagement_rate"`
	AverageConversionRate float64        `json:"average_conversion_rate"`
	TotalEarnings         float64        `json:"total_earnings"`
}

// CampaignAnalyticsResponse represents platform-wide campaign metrics
type CampaignAnalyticsResponse struct {
	TotalCampaigns    int                   `json:"total_campaigns"`
	CampaignsByStatus map[string]int        `json:"campaigns_by_status"`
	TotalBudget       float64               `json:"total_budget"`
	TotalRevenue      float64               `json:"total_revenue"`
	BudgetUtilization float64               `json:"budget_utilization"`
	Categories        []store.CategoryCount `json:"categories"`
}

// ROIEntry is the return-on-investment row for one influencer
type ROIEntry struct {
	InfluencerID          string  `json:"influencer_id"`
	InfluencerName        string  `json:"influencer_name"`
	Revenue               float64 `json:"revenue"`
	Spend                 float64 `json:"spend"`
	ROI                   float64 `json:"roi"`
	InsufficientData      bool    `json:"insufficient_data"`
	AverageEngagementRate float64 `json:"average_engagement_rate"`
	AverageConversionRate float64 `json:"average_conversion_rate"`
	Assignments           int     `json:"assignments"`
}

// GetBrandAnalytics computes platform-wide brand metrics. The underlying
// queries are independent and run concurrently; the first failure cancels
// the rest and no partial result is returned.
func (p *DashboardProcessor) GetBrandAnalytics(ctx context.Context) (BrandAnalyticsResponse, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "metric", Value: "brand_analytics"})

	var (
		totalBrands    int
		statusCounts   []store.StatusCount
		totalRevenue   float64
		totalBudget    float64
		brandRollups   []store.RevenueRollup
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totalBrands, err = p.store.CountAccountsByType(gctx, store.AccountTypeBrand)
		return err
	})
	g.Go(func() error {
		var err error
		statusCounts, err = p.store.CountCampaignsByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		totalRevenue, err = p.store.SumCompletedPayments(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		totalBudget, err = p.store.SumCampaignBudgets(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		brandRollups, err = p.store.CompletedPaymentRollups(gctx, store.RevenueDimensionBrand, nil, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		p.logger.Error(ctx, "failed to gather brand analytics", err)
		return BrandAnalyticsResponse{}, err
	}

	response := BrandAnalyticsResponse{
		TotalBrands:  totalBrands,
		TotalRevenue: totalRevenue,
		TotalBudget:  totalBudget,
		TopBrands:    rankRollups(brandRollups, 5),
	}
	for _, sc := range statusCounts {
		response.TotalCampaigns += sc.Count
		if sc.Status == store.CampaignStatusActive {
			response.ActiveCampaigns = sc.Count
		}
	}
	if totalBudget > 0 {
		response.PlatformROI = round2((totalRevenue - totalBudget) / totalBudget)
	} else {
		response.InsufficientData = true
	}

	return response, nil
}

// GetInfluencerAnalytics computes platform-wide influencer metrics
func (p *DashboardProcessor) GetInfluencerAnalytics(ctx context.Context) (InfluencerAnalyticsResponse, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "metric", Value: "influencer_analytics"})

	var (
		totalInfluencers  int
		statusCounts      []store.StatusCount
		records           []store.AssignmentRecord
		influencerRollups []store.RevenueRollup
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totalInfluencers, err = p.store.CountAccountsByType(gctx, store.AccountTypeInfluencer)
		return err
	})
	g.Go(func() error {
		var err error
		statusCounts, err = p.store.CountAssignmentsByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = p.store.ListAssignmentRecords(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		influencerRollups, err = p.store.CompletedPaymentRollupsByInfluencer(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		p.logger.Error(ctx, "failed to gather influencer analytics", err)
		return InfluencerAnalyticsResponse{}, err
	}

	response := InfluencerAnalyticsResponse{
		TotalInfluencers: totalInfluencers,
		AssignmentsByStatus: statusCountMap(statusCounts,
			store.AssignmentStatusPending, store.AssignmentStatusActive,
			store.AssignmentStatusCompleted, store.AssignmentStatusDeclined),
	}
	response.AverageEngagementRate, response.AverageConversionRate = assignmentAverages(records)
	for _, r := range influencerRollups {
		response.TotalEarnings += r.TotalRevenue
	}

	return response, nil
}

// GetCampaignAnalytics computes platform-wide campaign metrics
func (p *DashboardProcessor) GetCampaignAnalytics(ctx context.Context) (CampaignAnalyticsResponse, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "metric", Value: "campaign_analytics"})

	var (
		statusCounts []store.StatusCount
		totalBudget  float64
		totalRevenue float64
		categories   []store.CategoryCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		statusCounts, err = p.store.CountCampaignsByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		totalBudget, err = p.store.SumCampaignBudgets(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		totalRevenue, err = p.store.SumCompletedPayments(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = p.store.CampaignCategoryCounts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		p.logger.Error(ctx, "failed to gather campaign analytics", err)
		return CampaignAnalyticsResponse{}, err
	}

	if categories == nil {
		categories = []store.CategoryCount{}
	}
	response := CampaignAnalyticsResponse{
		CampaignsByStatus: statusCountMap(statusCounts,
			store.CampaignStatusDraft, store.CampaignStatusActive,
			store.CampaignStatusCompleted, store.CampaignStatusCancelled),
		TotalBudget:       totalBudget,
		TotalRevenue:      totalRevenue,
		Categories:        categories,
	}
	for _, sc := range statusCounts {
		response.TotalCampaigns += sc.Count
	}
	if totalBudget > 0 {
		response.BudgetUtilization = clampPercent(totalRevenue / totalBudget * 100)
	}

	return response, nil
}

// GetInfluencerROI computes the per-influencer return-on-investment rows.
// Revenue comes from completed payments, spend from completed assignments;
// the two sets are joined in memory so an influencer appearing in only one
// of them still gets a row with zero-valued missing fields.
func (p *DashboardProcessor) GetInfluencerROI(ctx context.Context) ([]ROIEntry, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "metric", Value: "influencer_roi"})

	var (
		records []store.AssignmentRecord
		rollups []store.RevenueRollup
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = p.store.ListAssignmentRecords(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rollups, err = p.store.CompletedPaymentRollupsByInfluencer(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		p.logger.Error(ctx, "failed to gather influencer roi", err)
		return nil, err
	}

	type rollupAgg struct {
		name        string
		revenue     float64
		spend       float64
		assignments []store.AssignmentRecord
	}
	byInfluencer := make(map[string]*rollupAgg)
	get := func(id string) *rollupAgg {
		agg, ok := byInfluencer[id]
		if !ok {
			agg = &rollupAgg{}
			byInfluencer[id] = agg
		}
		return agg
	}

	for _, rec := range records {
		agg := get(rec.InfluencerID.String())
		if agg.name == "" {
			agg.name = rec.InfluencerName
		}
		if rec.Status == store.AssignmentStatusCompleted {
			agg.spend += rec.Spend
		}
		agg.assignments = append(agg.assignments, rec)
	}
	for _, r := range rollups {
		agg := get(r.SubjectID.String())
		if agg.name == "" {
			agg.name = r.SubjectName
		}
		agg.revenue += r.TotalRevenue
	}

	entries := make([]ROIEntry, 0, len(byInfluencer))
	for id, agg := range byInfluencer {
		entry := ROIEntry{
			InfluencerID:   id,
			InfluencerName: agg.name,
			Revenue:        agg.revenue,
			Spend:          agg.spend,
			Assignments:    len(agg.assignments),
		}
		if agg.spend > 0 {
			entry.ROI = round2((agg.revenue - agg.spend) / agg.spend)
		} else {
			entry.InsufficientData = true
		}
		entry.AverageEngagementRate, entry.AverageConversionRate = assignmentAverages(agg.assignments)
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Revenue != entries[j].Revenue {
			return entries[i].Revenue > entries[j].Revenue
		}
		return entries[i].InfluencerID < entries[j].InfluencerID
	})

	return entries, nil
}

// GetRevenueLeaderboard ranks subjects of the given dimension by completed
// payment revenue within an optional [from, to) window.
func (p *DashboardProcessor) GetRevenueLeaderboard(ctx context.Context, dimension string, from, to *time.Time) ([]LeaderboardEntry, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "metric", Value: "revenue_leaderboard"},
		observability.Field{Key: "dimension", Value: dimension},
	)

	if dimension == "" {
		dimension = store.RevenueDimensionCampaign
	}
	if dimension != store.RevenueDimensionBrand && dimension != store.RevenueDimensionCampaign {
		return nil, ErrInvalidDimension
	}

	rollups, err := p.store.CompletedPaymentRollups(ctx, dimension, from, to)
	if err != nil {
		p.logger.Error(ctx, "failed to roll up leaderboard revenue", err)
		return nil, err
	}

	return rankRollups(rollups, 0), nil
}

// rankRollups orders rollups by revenue desc, then completed payment count
// desc, then subject id asc, and assigns 1-based ranks. A limit of 0 keeps
// every entry.
func rankRollups(rollups []store.RevenueRollup, limit int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(rollups))
	for _, r := range rollups {
		entries = append(entries, LeaderboardEntry{
			SubjectID:   r.SubjectID.String(),
			SubjectName: r.SubjectName,
			Revenue:     r.TotalRevenue,
			Payments:    r.PaymentCount,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Revenue != entries[j].Revenue {
			return entries[i].Revenue > entries[j].Revenue
		}
		if entries[i].Payments != entries[j].Payments {
			return entries[i].Payments > entries[j].Payments
		}
		return strings.Compare(entries[i].SubjectID, entries[j].SubjectID) < 0
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// assignmentAverages computes mean engagement and conversion rates over a set
// of assignments, rounded to one decimal. An empty set yields zeros.
func assignmentAverages(records []store.AssignmentRecord) (engagement, conversion float64) {
	if len(records) == 0 {
		return 0, 0
	}

	var engagementSum, conversionSum float64
	for _, rec := range records {
		engagementSum += clampPercent(rec.EngagementRate)
		if rec.Clicks > 0 {
			conversionSum += clampPercent(float64(rec.Conversions) / float64(rec.Clicks) * 100)
		}
	}
	n := float64(len(records))
	return round1(engagementSum / n), round1(conversionSum / n)
}

// statusCountMap flattens status rollup rows into a map with every known
// status present, so consumers never see missing keys.
func statusCountMap(counts []store.StatusCount, known ...string) map[string]int {
	m := make(map[string]int, len(known))
	for _, status := range known {
		m[status] = 0
	}
	for _, sc := range counts {
		m[sc.Status] = sc.Count
	}
	return m
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round2 rounds to two decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// clampPercent clamps a percentage to [0, 100]
func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
