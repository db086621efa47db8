package processor

import (
	"brandlink/internal/observability"
	"brandlink/internal/store"
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// MatchmakingStore defines the database operations required by MatchmakingProcessor
type MatchmakingStore interface {
	GetAccountByID(ctx context.Context, accountID uuid.UUID) (store.Account, error)
	ListAccountsByType(ctx context.Context, accountType string) ([]store.Account, error)
	ListEngagedInfluencerIDs(ctx context.Context, brandID uuid.UUID) ([]uuid.UUID, error)
	ListCollaboratorAudienceSizes(ctx context.Context, brandID uuid.UUID) ([]int64, error)
	EngagementAveragesByInfluencer(ctx context.Context) ([]store.EngagementAverage, error)
}

var ErrBrandNotFound = errors.New("brand not found")

// ScoringConfig holds the candidate scoring weights and the default result
// size. Category overlap carries the primary weight; the three weights sum
// to 1 so total scores stay in [0, 1].
type ScoringConfig struct {
	CategoryWeight   float64
	AudienceWeight   float64
	EngagementWeight float64
	DefaultLimit     int
}

// DefaultScoringConfig returns the standard weighting
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		CategoryWeight:   0.5,
		AudienceWeight:   0.3,
		EngagementWeight: 0.2,
		DefaultLimit:     10,
	}
}

type MatchmakingProcessor struct {
	store  MatchmakingStore
	config ScoringConfig
	logger *observability.Logger
}

func New(store MatchmakingStore, config ScoringConfig, logger *observability.Logger) MatchmakingProcessor {
	return MatchmakingProcessor{
		store:  store,
		config: config,
		logger: logger,
	}
}

// Candidate is one scored influencer suggestion. The component sub-scores are
// exposed alongside the total so operators can see why a match ranked where
// it did.
type Candidate struct {
	InfluencerID    string   `json:"influencer_id"`
	InfluencerName  string   `json:"influencer_name"`
	Categories      []string `json:"categories"`
	AudienceSize    int64    `json:"audience_size"`
	Score           float64  `json:"score"`
	CategoryScore   float64  `json:"category_score"`
	AudienceScore   float64  `json:"audience_score"`
	EngagementScore float64  `json:"engagement_score"`
}

// MatchInfluencers scores every influencer not already engaged on one of the
// brand's campaigns and returns the top candidates, best first. Ties are
// broken by influencer id so identical data always ranks identically.
func (p *MatchmakingProcessor) MatchInfluencers(ctx context.Context, brandID uuid.UUID, limit int) ([]Candidate, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "brand_id", Value: brandID.String()})

	brand, err := p.store.GetAccountByID(ctx, brandID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBrandNotFound
		}
		p.logger.Error(ctx, "failed to fetch brand for matchmaking", err)
		return nil, err
	}
	if brand.Type != store.AccountTypeBrand {
		return nil, ErrBrandNotFound
	}

	var (
		influencers   []store.Account
		engagedIDs    []uuid.UUID
		audienceSizes []int64
		engagements   []store.EngagementAverage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		influencers, err = p.store.ListAccountsByType(gctx, store.AccountTypeInfluencer)
		return err
	})
	g.Go(func() error {
		var err error
		engagedIDs, err = p.store.ListEngagedInfluencerIDs(gctx, brandID)
		return err
	})
	g.Go(func() error {
		var err error
		audienceSizes, err = p.store.ListCollaboratorAudienceSizes(gctx, brandID)
		return err
	})
	g.Go(func() error {
		var err error
		engagements, err = p.store.EngagementAveragesByInfluencer(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		p.logger.Error(ctx, "failed to gather matchmaking candidates", err)
		return nil, err
	}

	engaged := make(map[uuid.UUID]struct{}, len(engagedIDs))
	for _, id := range engagedIDs {
		engaged[id] = struct{}{}
	}
	engagementByID := make(map[uuid.UUID]float64, len(engagements))
	for _, e := range engagements {
		engagementByID[e.InfluencerID] = e.AvgEngagement
	}
	targetAudience := meanAudienceSize(audienceSizes)

	candidates := make([]Candidate, 0, len(influencers))
	for _, influencer := range influencers {
		if _, ok := engaged[influencer.ID]; ok {
			continue
		}

		categories := []string(influencer.Categories)
		if categories == nil {
			categories = []string{}
		}
		candidate := Candidate{
			InfluencerID:    influencer.ID.String(),
			InfluencerName:  influencer.Name,
			Categories:      categories,
			AudienceSize:    influencer.AudienceSize,
			CategoryScore:   categoryOverlap(brand.Categories, influencer.Categories),
			AudienceScore:   audienceProximity(influencer.AudienceSize, targetAudience),
			EngagementScore: clampUnit(engagementByID[influencer.ID] / 100),
		}
		candidate.Score = p.config.CategoryWeight*candidate.CategoryScore +
			p.config.AudienceWeight*candidate.AudienceScore +
			p.config.EngagementWeight*candidate.EngagementScore
		candidates = append(candidates, candidate)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return strings.Compare(candidates[i].InfluencerID, candidates[j].InfluencerID) < 0
	})

	if limit <= 0 {
		limit = p.config.DefaultLimit
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// categoryOverlap is the fraction of the brand's categories the candidate
// shares. A brand with no categories scores every candidate 0 on this axis.
func categoryOverlap(brandCategories, candidateCategories []string) float64 {
	if len(brandCategories) == 0 {
		return 0
	}
	candidateSet := make(map[string]struct{}, len(candidateCategories))
	for _, c := range candidateCategories {
		candidateSet[strings.ToLower(c)] = struct{}{}
	}
	shared := 0
	for _, c := range brandCategories {
		if _, ok := candidateSet[strings.ToLower(c)]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(brandCategories))
}

// audienceProximity compares a candidate's audience size against the brand's
// mean historical collaborator audience. The ratio of the smaller to the
// larger lands in [0, 1], with 1 meaning an exact match. Brands with no
// collaboration history score every candidate at a neutral 0.5.
func audienceProximity(candidate, target int64) float64 {
	if target <= 0 {
		return 0.5
	}
	if candidate <= 0 {
		return 0
	}
	if candidate < target {
		return float64(candidate) / float64(target)
	}
	return float64(target) / float64(candidate)
}

func meanAudienceSize(sizes []int64) int64 {
	if len(sizes) == 0 {
		return 0
	}
	var sum int64
	for _, s := range sizes {
		sum += s
	}
	return sum / int64(len(sizes))
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
