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
	links []store.AssignmentLink
	pairs []store.PairRevenue
	err   error
}

func (f *fakeStore) ListAssignmentLinks(context.Context) ([]store.AssignmentLink, error) {
	return f.links, f.err
}

func (f *fakeStore) CompletedPairRevenue(context.Context) ([]store.PairRevenue, error) {
	return f.pairs, f.err
}

var (
	brandA      = uuid.MustParse("aaaaaaaa-0000-0000-0000-00000000000a")
	brandB      = uuid.MustParse("bbbbbbbb-0000-0000-0000-00000000000b")
	influencerX = uuid.MustParse("eeeeeeee-0000-0000-0000-00000000000e")
	influencerY = uuid.MustParse("ffffffff-0000-0000-0000-00000000000f")
)

func link(brand, influencer uuid.UUID) store.AssignmentLink {
	return store.AssignmentLink{
		CampaignID:     uuid.New(),
		BrandID:        brand,
		InfluencerID:   influencer,
		BrandName:      "brand",
		InfluencerName: "influencer",
		Status:         store.AssignmentStatusActive,
	}
}

func TestBuildGraph_AssignmentWeighting(t *testing.T) {
	f := &fakeStore{links: []store.AssignmentLink{
		link(brandA, influencerX),
		link(brandA, influencerX), // second assignment for the same pair
		link(brandB, influencerY),
	}}
	p := New(f, observability.NewLogger())

	graph, err := p.BuildGraph(context.Background(), WeightingAssignments)
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}

	if len(graph.Nodes) != 4 {
		t.Errorf("expected 4 nodes, got %d", len(graph.Nodes))
	}
	if len(graph.Edges) != 2 {
		t.Fatalf("expected 2 deduplicated edges, got %d", len(graph.Edges))
	}

	// Edges sorted by brand id; brandA sorts before brandB.
	if graph.Edges[0].BrandID != brandA.String() || graph.Edges[0].Weight != 2 {
		t.Errorf("edge[0] = %+v, want brandA pair with weight 2", graph.Edges[0])
	}
	if graph.Edges[1].Weight != 1 {
		t.Errorf("edge[1] weight = %v, want 1", graph.Edges[1].Weight)
	}
}

func TestBuildGraph_RevenueWeighting(t *testing.T) {
	f := &fakeStore{
		links: []store.AssignmentLink{
			link(brandA, influencerX),
			link(brandB, influencerY), // collaboration with no completed payments
		},
		pairs: []store.PairRevenue{
			{BrandID: brandA, InfluencerID: influencerX, TotalRevenue: 750},
		},
	}
	p := New(f, observability.NewLogger())

	graph, err := p.BuildGraph(context.Background(), WeightingRevenue)
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	if len(graph.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(graph.Edges))
	}
	if graph.Edges[0].Weight != 750 {
		t.Errorf("paid pair weight = %v, want 750", graph.Edges[0].Weight)
	}
	if graph.Edges[1].Weight != 0 {
		t.Errorf("unpaid pair weight = %v, want 0", graph.Edges[1].Weight)
	}
}

func TestBuildGraph_DefaultsToAssignments(t *testing.T) {
	f := &fakeStore{links: []store.AssignmentLink{link(brandA, influencerX)}}
	p := New(f, observability.NewLogger())

	graph, err := p.BuildGraph(context.Background(), "")
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	if graph.Edges[0].Weight != 1 {
		t.Errorf("weight = %v, want assignment count", graph.Edges[0].Weight)
	}
}

func TestBuildGraph_InvalidWeighting(t *testing.T) {
	p := New(&fakeStore{}, observability.NewLogger())

	_, err := p.BuildGraph(context.Background(), "vibes")
	if !errors.Is(err, ErrInvalidWeighting) {
		t.Errorf("expected ErrInvalidWeighting, got %v", err)
	}
}

func TestBuildGraph_EmptyPlatform(t *testing.T) {
	p := New(&fakeStore{}, observability.NewLogger())

	graph, err := p.BuildGraph(context.Background(), WeightingAssignments)
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	if graph.Nodes == nil || graph.Edges == nil {
		t.Error("expected empty slices, not nil")
	}
	if len(graph.Nodes) != 0 || len(graph.Edges) != 0 {
		t.Errorf("expected empty graph, got %d nodes / %d edges", len(graph.Nodes), len(graph.Edges))
	}
}

func TestBuildGraph_DeterministicOrdering(t *testing.T) {
	f := &fakeStore{links: []store.AssignmentLink{
		link(brandB, influencerY),
		link(brandA, influencerX),
		link(brandB, influencerX),
	}}
	p := New(f, observability.NewLogger())

	first, err := p.BuildGraph(context.Background(), WeightingAssignments)
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	for i := 1; i < len(first.Nodes); i++ {
		if first.Nodes[i-1].ID >= first.Nodes[i].ID {
			t.Errorf("nodes not sorted by id at %d: %s >= %s", i, first.Nodes[i-1].ID, first.Nodes[i].ID)
		}
	}

	second, _ := p.BuildGraph(context.Background(), WeightingAssignments)
	for i := range first.Edges {
		if first.Edges[i] != second.Edges[i] {
			t.Errorf("edge ordering not stable at %d", i)
		}
	}
}

func TestBuildGraph_StoreError(t *testing.T) {
	p := New(&fakeStore{err: errors.New("connection refused")}, observability.NewLogger())

	_, err := p.BuildGraph(context.Background(), WeightingAssignments)
	if err == nil {
		t.Fatal("expected error to propagate from store")
	}
}
