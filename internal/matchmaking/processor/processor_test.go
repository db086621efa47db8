package processor

import (
	"brandlink/internal/observability"
	"brandlink/internal/store"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeStore struct {
	accounts      map[uuid.UUID]store.Account
	influencers   []store.Account
	engagedIDs    []uuid.UUID
	audienceSizes []int64
	engagements   []store.EngagementAverage
	err           error
}

func (f *fakeStore) GetAccountByID(_ context.Context, accountID uuid.UUID) (store.Account, error) {
	if f.err != nil {
		return store.Account{}, f.err
	}
	account, ok := f.accounts[accountID]
	if !ok {
		return store.Account{}, store.ErrNotFound
	}
	return account, nil
}

func (f *fakeStore) ListAccountsByType(context.Context, string) ([]store.Account, error) {
	return f.influencers, f.err
}

func (f *fakeStore) ListEngagedInfluencerIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return f.engagedIDs, f.err
}

func (f *fakeStore) ListCollaboratorAudienceSizes(context.Context, uuid.UUID) ([]int64, error) {
	return f.audienceSizes, f.err
}

func (f *fakeStore) EngagementAveragesByInfluencer(context.Context) ([]store.EngagementAverage, error) {
	return f.engagements, f.err
}

var (
	brandID     = uuid.MustParse("aaaaaaaa-0000-0000-0000-00000000000a")
	matchedID   = uuid.MustParse("bbbbbbbb-0000-0000-0000-00000000000b")
	engagedID   = uuid.MustParse("cccccccc-0000-0000-0000-00000000000c")
	outsiderID  = uuid.MustParse("dddddddd-0000-0000-0000-00000000000d")
	customerID  = uuid.MustParse("eeeeeeee-0000-0000-0000-00000000000e")
	missingUUID = uuid.MustParse("ffffffff-0000-0000-0000-00000000000f")
)

func fixtureStore() *fakeStore {
	return &fakeStore{
		accounts: map[uuid.UUID]store.Account{
			brandID: {
				ID:         brandID,
				Name:       "Meridian Coffee",
				Type:       store.AccountTypeBrand,
				Categories: store.StringArray{"food", "lifestyle"},
			},
			customerID: {ID: customerID, Name: "Just A Customer", Type: store.AccountTypeCustomer},
		},
		influencers: []store.Account{
			{
				ID:           matchedID,
				Name:         "Full Overlap",
				Type:         store.AccountTypeInfluencer,
				Categories:   store.StringArray{"food", "lifestyle"},
				AudienceSize: 10000,
			},
			{
				ID:           engagedID,
				Name:         "Already Engaged",
				Type:         store.AccountTypeInfluencer,
				Categories:   store.StringArray{"food"},
				AudienceSize: 10000,
			},
			{
				ID:           outsiderID,
				Name:         "No Overlap",
				Type:         store.AccountTypeInfluencer,
				Categories:   store.StringArray{"gaming"},
				AudienceSize: 10000,
			},
		},
		engagedIDs:    []uuid.UUID{engagedID},
		audienceSizes: []int64{10000},
		engagements: []store.EngagementAverage{
			{InfluencerID: matchedID, AvgEngagement: 50},
		},
	}
}

func newProcessor(f *fakeStore) MatchmakingProcessor {
	return New(f, DefaultScoringConfig(), observability.NewLogger())
}

func TestMatchInfluencers_ExcludesEngagedAndRanksOverlapFirst(t *testing.T) {
	p := newProcessor(fixtureStore())

	candidates, err := p.MatchInfluencers(context.Background(), brandID, 0)
	if err != nil {
		t.Fatalf("MatchInfluencers() error = %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates (engaged excluded), got %d", len(candidates))
	}
	for _, c := range candidates {
		if c.InfluencerID == engagedID.String() {
			t.Error("engaged influencer must not be a candidate")
		}
	}

	best := candidates[0]
	if best.InfluencerID != matchedID.String() {
		t.Fatalf("best candidate = %s, want full category overlap", best.InfluencerName)
	}
	// Full overlap, exact audience match, 50% engagement:
	// 0.5*1 + 0.3*1 + 0.2*0.5 = 0.9
	if best.CategoryScore != 1 || best.AudienceScore != 1 || best.EngagementScore != 0.5 {
		t.Errorf("sub-scores = %v/%v/%v, want 1/1/0.5",
			best.CategoryScore, best.AudienceScore, best.EngagementScore)
	}
	if best.Score != 0.9 {
		t.Errorf("score = %v, want 0.9", best.Score)
	}

	if candidates[1].CategoryScore != 0 {
		t.Errorf("no-overlap candidate CategoryScore = %v, want 0", candidates[1].CategoryScore)
	}
}

func TestMatchInfluencers_BrandNotFound(t *testing.T) {
	p := newProcessor(fixtureStore())

	_, err := p.MatchInfluencers(context.Background(), missingUUID, 0)
	if !errors.Is(err, ErrBrandNotFound) {
		t.Errorf("expected ErrBrandNotFound for missing account, got %v", err)
	}
}

func TestMatchInfluencers_NonBrandAccount(t *testing.T) {
	p := newProcessor(fixtureStore())

	_, err := p.MatchInfluencers(context.Background(), customerID, 0)
	if !errors.Is(err, ErrBrandNotFound) {
		t.Errorf("expected ErrBrandNotFound for non-brand account, got %v", err)
	}
}

func TestMatchInfluencers_DefaultLimit(t *testing.T) {
	f := fixtureStore()
	for i := 0; i < 20; i++ {
		f.influencers = append(f.influencers, store.Account{
			ID:   uuid.New(),
			Type: store.AccountTypeInfluencer,
		})
	}
	p := newProcessor(f)

	candidates, err := p.MatchInfluencers(context.Background(), brandID, 0)
	if err != nil {
		t.Fatalf("MatchInfluencers() error = %v", err)
	}
	if len(candidates) != 10 {
		t.Errorf("expected default limit of 10 candidates, got %d", len(candidates))
	}
}

func TestMatchInfluencers_TieBreakByID(t *testing.T) {
	f := fixtureStore()
	// Two candidates with identical zero scores: gaming outsider plus a clone
	// with a lower id.
	lowID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	f.influencers = append(f.influencers, store.Account{
		ID:           lowID,
		Name:         "Clone",
		Type:         store.AccountTypeInfluencer,
		Categories:   store.StringArray{"gaming"},
		AudienceSize: 10000,
	})
	p := newProcessor(f)

	candidates, err := p.MatchInfluencers(context.Background(), brandID, 0)
	if err != nil {
		t.Fatalf("MatchInfluencers() error = %v", err)
	}
	// Positions 1 and 2 share a score; the lower id must come first.
	if candidates[1].InfluencerID != lowID.String() {
		t.Errorf("tie not broken by id: got %s first", candidates[1].InfluencerID)
	}
}

func TestMatchInfluencers_NoCollaborationHistory(t *testing.T) {
	f := fixtureStore()
	f.audienceSizes = nil
	p := newProcessor(f)

	candidates, err := p.MatchInfluencers(context.Background(), brandID, 0)
	if err != nil {
		t.Fatalf("MatchInfluencers() error = %v", err)
	}
	for _, c := range candidates {
		if c.AudienceScore != 0.5 {
			t.Errorf("AudienceScore = %v, want neutral 0.5 without history", c.AudienceScore)
		}
	}
}

func TestAudienceProximity(t *testing.T) {
	tests := []struct {
		name      string
		candidate int64
		target    int64
		want      float64
	}{
		{"exact match", 10000, 10000, 1},
		{"half the target", 5000, 10000, 0.5},
		{"double the target", 20000, 10000, 0.5},
		{"zero candidate", 0, 10000, 0},
		{"no history", 10000, 0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := audienceProximity(tt.candidate, tt.target); got != tt.want {
				t.Errorf("audienceProximity(%d, %d) = %v, want %v", tt.candidate, tt.target, got, tt.want)
			}
		})
	}
}

func TestCategoryOverlap_CaseInsensitive(t *testing.T) {
	if got := categoryOverlap([]string{"Food", "Tech"}, []string{"food"}); got != 0.5 {
		t.Errorf("overlap = %v, want 0.5", got)
	}
	if got := categoryOverlap(nil, []string{"food"}); got != 0 {
		t.Errorf("overlap with no brand categories = %v, want 0", got)
	}
}
