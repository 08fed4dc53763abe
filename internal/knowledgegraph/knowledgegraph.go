package knowledgegraph

import (
	"github.com/xkilldash9x/heronet/api/schemas"
	"go.uber.org/zap"
)

// Graph is an immutable, undirected adjacency view over a hero table and a
// link table. It is built fresh for every query and never updated in place,
// so it always reflects the tables it was built from.
type Graph struct {
	nodes     []int64                      // node ids in first-seen order
	index     map[int64]struct{}           // node membership
	adjacency map[int64][]int64            // neighbours in first-seen edge order
	edges     []schemas.Link               // distinct edges in first-seen order
	edgeSet   map[schemas.LinkKey]struct{} // orientation-free edge membership
}

// Build creates the graph for the given heroes and links. It accepts arbitrary
// input: repeated hero ids collapse to one node, repeated pairs collapse to one
// edge, and self-loops or edges touching an unknown node are dropped.
func Build(heroes []schemas.Hero, links []schemas.Link, logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("graph")

	g := &Graph{
		nodes:     make([]int64, 0, len(heroes)),
		index:     make(map[int64]struct{}, len(heroes)),
		adjacency: make(map[int64][]int64, len(heroes)),
		edgeSet:   make(map[schemas.LinkKey]struct{}, len(links)),
	}

	for _, hero := range heroes {
		if _, exists := g.index[hero.ID]; exists {
			log.Debug("Duplicate node collapsed", zap.Int64("id", hero.ID))
			continue
		}
		g.index[hero.ID] = struct{}{}
		g.nodes = append(g.nodes, hero.ID)
	}

	for _, link := range links {
		if link.IsLoop() {
			log.Warn("Self-loop dropped", zap.Int64("id", link.Source))
			continue
		}
		if !g.HasNode(link.Source) || !g.HasNode(link.Target) {
			log.Warn("Edge to unknown node dropped",
				zap.Int64("source", link.Source), zap.Int64("target", link.Target))
			continue
		}
		key := link.Key()
		if _, exists := g.edgeSet[key]; exists {
			log.Debug("Duplicate edge collapsed",
				zap.Int64("source", link.Source), zap.Int64("target", link.Target))
			continue
		}
		g.edgeSet[key] = struct{}{}
		g.edges = append(g.edges, link)
		g.adjacency[link.Source] = append(g.adjacency[link.Source], link.Target)
		g.adjacency[link.Target] = append(g.adjacency[link.Target], link.Source)
	}

	log.Debug("Graph built", zap.Int("nodes", len(g.nodes)), zap.Int("edges", len(g.edges)))
	return g
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct undirected edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id int64) bool {
	_, ok := g.index[id]
	return ok
}

// Degree returns the number of distinct neighbours of id, or 0 for an unknown id.
func (g *Graph) Degree(id int64) int {
	return len(g.adjacency[id])
}

// Neighbors returns the distinct neighbours of id in the order their edges were
// first seen. Unknown ids have no neighbours.
func (g *Graph) Neighbors(id int64) []int64 {
	nbrs := g.adjacency[id]
	out := make([]int64, len(nbrs))
	copy(out, nbrs)
	return out
}

// Nodes returns every node id in first-seen order.
func (g *Graph) Nodes() []int64 {
	out := make([]int64, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns every distinct edge in first-seen order.
func (g *Graph) Edges() []schemas.Link {
	out := make([]schemas.Link, len(g.edges))
	copy(out, g.edges)
	return out
}

// HasEdge reports whether a and b are adjacent.
func (g *Graph) HasEdge(a, b int64) bool {
	_, ok := g.edgeSet[schemas.KeyOf(a, b)]
	return ok
}
