package processor

import (
	"brandlink/internal/observability"
	"brandlink/internal/store"
	"context"
	"errors"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// EcosystemStore defines the database operations required by EcosystemProcessor
type EcosystemStore interface {
	ListAssignmentLinks(ctx context.Context) ([]store.AssignmentLink, error)
	CompletedPairRevenue(ctx context.Context) ([]store.PairRevenue, error)
}

const (
	WeightingAssignments = "assignments"
	WeightingRevenue     = "revenue"
)

var ErrInvalidWeighting = errors.New("invalid graph weighting")

type EcosystemProcessor struct {
	store  EcosystemStore
	logger *observability.Logger
}

func New(store EcosystemStore, logger *observability.Logger) EcosystemProcessor {
	return EcosystemProcessor{
		store:  store,
		logger: logger,
	}
}

// GraphNode is one account participating in at least one assignment
type GraphNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// GraphEdge connects a brand node to an influencer node. Weight is either the
// assignment count for the pair or its completed-payment revenue, depending on
// the requested weighting.
type GraphEdge struct {
	BrandID      string  `json:"brand_id"`
	InfluencerID string  `json:"influencer_id"`
	Weight       float64 `json:"weight"`
}

// Graph is the brand/influencer collaboration graph
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// BuildGraph assembles the collaboration graph. Nodes appear only for accounts
// on at least one assignment; one edge exists per (brand, influencer) pair and
// its weight accumulates across that pair's assignments. Node and edge order
// is deterministic so identical data always yields identical output.
func (p *EcosystemProcessor) BuildGraph(ctx context.Context, weighting string) (Graph, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "weighting", Value: weighting})

	if weighting == "" {
		weighting = WeightingAssignments
	}
	if weighting != WeightingAssignments && weighting != WeightingRevenue {
		return Graph{}, ErrInvalidWeighting
	}

	var (
		links []store.AssignmentLink
		pairs []store.PairRevenue
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		links, err = p.store.ListAssignmentLinks(gctx)
		return err
	})
	if weighting == WeightingRevenue {
		g.Go(func() error {
			var err error
			pairs, err = p.store.CompletedPairRevenue(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		p.logger.Error(ctx, "failed to gather ecosystem graph data", err)
		return Graph{}, err
	}

	type pairKey struct {
		brandID      string
		influencerID string
	}

	nodes := make(map[string]GraphNode)
	edgeWeights := make(map[pairKey]float64)
	for _, link := range links {
		brandID := link.BrandID.String()
		influencerID := link.InfluencerID.String()

		if _, ok := nodes[brandID]; !ok {
			nodes[brandID] = GraphNode{ID: brandID, Name: link.BrandName, Type: store.AccountTypeBrand}
		}
		if _, ok := nodes[influencerID]; !ok {
			nodes[influencerID] = GraphNode{ID: influencerID, Name: link.InfluencerName, Type: store.AccountTypeInfluencer}
		}
		edgeWeights[pairKey{brandID, influencerID}]++
	}

	if weighting == WeightingRevenue {
		// Keep edge existence from assignments; revenue only replaces weights.
		// Pairs with no completed payments stay at weight 0.
		for key := range edgeWeights {
			edgeWeights[key] = 0
		}
		for _, pair := range pairs {
			key := pairKey{pair.BrandID.String(), pair.InfluencerID.String()}
			if _, ok := edgeWeights[key]; ok {
				edgeWeights[key] += pair.TotalRevenue
			}
		}
	}

	graph := Graph{
		Nodes: make([]GraphNode, 0, len(nodes)),
		Edges: make([]GraphEdge, 0, len(edgeWeights)),
	}
	for _, node := range nodes {
		graph.Nodes = append(graph.Nodes, node)
	}
	for key, weight := range edgeWeights {
		graph.Edges = append(graph.Edges, GraphEdge{
			BrandID:      key.brandID,
			InfluencerID: key.influencerID,
			Weight:       weight,
		})
	}

	sort.Slice(graph.Nodes, func(i, j int) bool {
		return strings.Compare(graph.Nodes[i].ID, graph.Nodes[j].ID) < 0
	})
	sort.Slice(graph.Edges, func(i, j int) bool {
		if graph.Edges[i].BrandID != graph.Edges[j].BrandID {
			return strings.Compare(graph.Edges[i].BrandID, graph.Edges[j].BrandID) < 0
		}
		return strings.Compare(graph.Edges[i].InfluencerID, graph.Edges[j].InfluencerID) < 0
	})

	return graph, nil
}
