// File: internal/service/network.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/heronet/api/schemas"
	"github.com/xkilldash9x/heronet/internal/analytics"
	"github.com/xkilldash9x/heronet/internal/knowledgegraph"
	"github.com/xkilldash9x/heronet/internal/roster"
)

// Network owns the hero and link tables for one session and runs every
// mutation against them, persisting after each one. All methods are safe for
// concurrent use; a single mutex serialises callers.
type Network struct {
	mu      sync.Mutex
	heroes  *roster.Heroes
	links   *roster.Links
	storage schemas.Storage
	clock   func() time.Time
	session string
	log     *zap.Logger
}

// Option configures a Network.
type Option func(*Network)

// WithClock overrides the clock used for new heroes and for the default
// as-of date of statistics.
func WithClock(now func() time.Time) Option {
	return func(n *Network) {
		if now != nil {
			n.clock = now
		}
	}
}

// Open loads the persisted tables through storage. A load failure is logged
// and the session starts from empty tables; rows that break the table rules
// are skipped with a warning.
func Open(ctx context.Context, storage schemas.Storage, logger *zap.Logger, opts ...Option) *Network {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &Network{
		storage: storage,
		clock:   time.Now,
		session: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.log = logger.Named("network").With(zap.String("session_id", n.session))

	tables, err := storage.Load(ctx)
	if err != nil {
		n.log.Error("Failed to load tables; starting with an empty network.", zap.Error(err))
		tables = schemas.Tables{}
	}

	heroes, links, skipped := roster.FromTables(tables, roster.WithClock(n.clock))
	for _, skipErr := range skipped {
		n.log.Warn("Skipping persisted row", zap.Error(skipErr))
	}
	n.heroes, n.links = heroes, links

	n.log.Info("Network opened",
		zap.Int("heroes", heroes.Len()), zap.Int("links", links.Len()), zap.Int("skipped", len(skipped)))
	return n
}

// Session returns the id attached to every log line of this session.
func (n *Network) Session() string { return n.session }

// AddHero creates a hero and persists the tables. When only the save fails,
// the hero is kept in memory and returned together with the error.
func (n *Network) AddHero(ctx context.Context, name string) (schemas.Hero, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	hero, err := n.heroes.Add(name)
	if err != nil {
		n.log.Debug("Hero rejected", zap.String("name", name), zap.Error(err))
		return schemas.Hero{}, err
	}
	n.log.Info("Hero added", zap.Int64("id", hero.ID), zap.String("name", hero.Name))
	return hero, n.saveLocked(ctx)
}

// AddLinks links source to each target token independently, then persists
// the tables once. The returned error only reports a failed save; per-target
// failures are in the result.
func (n *Network) AddLinks(ctx context.Context, source int64, targets []string) (roster.BatchResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	result := n.links.AddBatch(source, targets)
	for _, status := range result.Statuses {
		if status.Err != nil {
			n.log.Debug("Target skipped", zap.Int64("source", source), zap.String("target", status.Token), zap.Error(status.Err))
		}
	}
	n.log.Info("Link batch processed",
		zap.Int64("source", source), zap.Int("added", len(result.Added)), zap.Int("skipped", result.Skipped()))
	return result, n.saveLocked(ctx)
}

// Hero looks a hero up by id.
func (n *Network) Hero(id int64) (schemas.Hero, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.heroes.ByID(id)
}

// HeroByName looks a hero up by exact name.
func (n *Network) HeroByName(name string) (schemas.Hero, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.heroes.ByName(name)
}

// Heroes returns the hero table in insertion order.
func (n *Network) Heroes() []schemas.Hero {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.heroes.All()
}

// Links returns the link table in insertion order.
func (n *Network) Links() []schemas.Link {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.links.All()
}

// Graph builds a fresh graph from the current tables.
func (n *Network) Graph() *knowledgegraph.Graph {
	n.mu.Lock()
	defer n.mu.Unlock()
	return knowledgegraph.Build(n.heroes.All(), n.links.All(), n.log)
}

// Stats summarises the current tables. A zero opts.AsOf means today.
func (n *Network) Stats(opts analytics.Options) analytics.Summary {
	n.mu.Lock()
	heroes := n.heroes.All()
	links := n.links.All()
	now := n.clock()
	n.mu.Unlock()

	if opts.AsOf.IsZero() {
		opts.AsOf = schemas.DateOf(now)
	}
	g := knowledgegraph.Build(heroes, links, n.log)
	return analytics.Summarize(g, heroes, opts)
}

// Save persists the current tables.
func (n *Network) Save(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.saveLocked(ctx)
}

func (n *Network) saveLocked(ctx context.Context) error {
	tables := roster.Snapshot(n.heroes, n.links)
	if err := n.storage.Save(ctx, tables); err != nil {
		n.log.Error("Failed to save tables; changes are kept in memory.", zap.Error(err))
		if errors.Is(err, schemas.ErrIOFailure) {
			return err
		}
		return fmt.Errorf("%w: %w", schemas.ErrIOFailure, err)
	}
	return nil
}
