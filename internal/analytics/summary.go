package analytics

import (
	"github.com/xkilldash9x/heronet/api/schemas"
	"github.com/xkilldash9x/heronet/internal/knowledgegraph"
)

// Options tunes Summarize. A zero AsOf means today and an empty EgoName skips
// the ego section; every other field is used as given.
type Options struct {
	WindowDays int
	AsOf       schemas.Date
	TopK       int
	EgoName    string
}

// DefaultOptions returns the options of the interactive statistics view.
func DefaultOptions() Options {
	return Options{WindowDays: DefaultWindowDays, TopK: DefaultTopK}
}

func (o Options) withDefaults() Options {
	if o.AsOf.IsZero() {
		o.AsOf = schemas.Today()
	}
	if o.WindowDays < 0 {
		o.WindowDays = 0
	}
	return o
}

// Summary is the full statistics view of the network.
type Summary struct {
	TotalHeroes int            `json:"total_superheroes"`
	TotalLinks  int            `json:"total_connections"`
	AsOf        schemas.Date   `json:"as_of"`
	WindowDays  int            `json:"window_days"`
	TopK        int            `json:"top_k"`
	Recent      []schemas.Hero `json:"recently_added"`
	Top         []Ranked       `json:"top_connected"`
	EgoName     string         `json:"ego_name,omitempty"`
	Ego         *Ego           `json:"ego,omitempty"`
}

// Summarize computes every statistic in one pass over the graph.
func Summarize(g *knowledgegraph.Graph, heroes []schemas.Hero, opts Options) Summary {
	opts = opts.withDefaults()

	summary := Summary{
		TotalHeroes: g.NodeCount(),
		TotalLinks:  g.EdgeCount(),
		AsOf:        opts.AsOf,
		WindowDays:  opts.WindowDays,
		TopK:        opts.TopK,
		Recent:      RecentHeroes(heroes, opts.WindowDays, opts.AsOf),
		Top:         TopConnected(g, heroes, opts.TopK),
		EgoName:     opts.EgoName,
	}
	if opts.EgoName != "" {
		if ego, ok := EgoNetwork(g, heroes, opts.EgoName); ok {
			summary.Ego = &ego
		}
	}
	return summary
}
