// Package analytics derives the network statistics from a graph and the hero
// table: the recent-additions window, the most connected heroes and the
// ego-network of a named hero. Every function is pure; nothing is cached
// between calls.
package analytics

import (
	"sort"

	"github.com/xkilldash9x/heronet/api/schemas"
	"github.com/xkilldash9x/heronet/internal/knowledgegraph"
)

const (
	// DefaultWindowDays is the look-back of RecentHeroes.
	DefaultWindowDays = 3
	// DefaultTopK is the number of heroes reported by TopConnected.
	DefaultTopK = 3
)

// Ranked pairs a hero with its degree.
type Ranked struct {
	Hero   schemas.Hero `json:"hero"`
	Degree int          `json:"connections"`
}

// Ego is a hero together with its direct neighbours.
type Ego struct {
	Hero      schemas.Hero   `json:"hero"`
	Neighbors []schemas.Hero `json:"friends"`
}

// RecentHeroes returns the heroes created within windowDays of asOf, both
// bounds inclusive, in insertion order. A negative window is treated as 0.
func RecentHeroes(heroes []schemas.Hero, windowDays int, asOf schemas.Date) []schemas.Hero {
	if windowDays < 0 {
		windowDays = 0
	}
	from := asOf.AddDays(-windowDays)

	recent := make([]schemas.Hero, 0)
	for _, hero := range heroes {
		if hero.CreatedAt.Before(from) || hero.CreatedAt.After(asOf) {
			continue
		}
		recent = append(recent, hero)
	}
	return recent
}

// TopConnected ranks heroes by degree, highest first. Heroes with equal degree
// keep their insertion order. At most k entries are returned.
func TopConnected(g *knowledgegraph.Graph, heroes []schemas.Hero, k int) []Ranked {
	if k <= 0 {
		return []Ranked{}
	}

	ranked := make([]Ranked, 0, len(heroes))
	seen := make(map[int64]struct{}, len(heroes))
	for _, hero := range heroes {
		if _, dup := seen[hero.ID]; dup {
			continue
		}
		seen[hero.ID] = struct{}{}
		ranked = append(ranked, Ranked{Hero: hero, Degree: g.Degree(hero.ID)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Degree > ranked[j].Degree
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// EgoNetwork finds the hero with exactly the given name and resolves its
// neighbours in graph order. ok is false when no hero has that name.
func EgoNetwork(g *knowledgegraph.Graph, heroes []schemas.Hero, name string) (ego Ego, ok bool) {
	byID := make(map[int64]schemas.Hero, len(heroes))
	found := false
	for _, hero := range heroes {
		if _, dup := byID[hero.ID]; !dup {
			byID[hero.ID] = hero
		}
		if !found && hero.Name == name {
			ego.Hero = hero
			found = true
		}
	}
	if !found {
		return Ego{}, false
	}

	ego.Neighbors = make([]schemas.Hero, 0, g.Degree(ego.Hero.ID))
	for _, id := range g.Neighbors(ego.Hero.ID) {
		neighbor, known := byID[id]
		if !known {
			neighbor = schemas.Hero{ID: id}
		}
		ego.Neighbors = append(ego.Neighbors, neighbor)
	}
	return ego, true
}
