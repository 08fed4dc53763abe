// Package roster holds the two sources of truth of the network: the ordered
// hero table and the link table. Both validate every insert against their
// current contents before committing it, so a rejected insert leaves them
// unchanged.
//
// The stores are not safe for concurrent use; callers serialise access.
package roster

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/xkilldash9x/heronet/api/schemas"
)

// Heroes is the ordered, insert-only hero table.
type Heroes struct {
	items  []schemas.Hero
	byID   map[int64]int
	byName map[string]int
	maxID  int64
	now    func() time.Time
}

// Option configures a Heroes table.
type Option func(*Heroes)

// WithClock overrides the clock used to stamp new heroes.
func WithClock(now func() time.Time) Option {
	return func(h *Heroes) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHeroes returns an empty hero table.
func NewHeroes(opts ...Option) *Heroes {
	h := &Heroes{
		byID:   make(map[int64]int),
		byName: make(map[string]int),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Add creates a hero named name, stamped with today's date and the next id
// (one more than the largest id seen, or 1 for an empty table).
func (h *Heroes) Add(name string) (schemas.Hero, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return schemas.Hero{}, fmt.Errorf("%w: hero name is empty", schemas.ErrInvalidInput)
	}
	if _, exists := h.byName[name]; exists {
		return schemas.Hero{}, fmt.Errorf("%w: superhero '%s' already exists", schemas.ErrDuplicateName, name)
	}
	if h.maxID == math.MaxInt64 {
		return schemas.Hero{}, fmt.Errorf("%w: hero ids are exhausted", schemas.ErrInvalidInput)
	}

	hero := schemas.Hero{
		ID:        h.maxID + 1,
		Name:      name,
		CreatedAt: schemas.DateOf(h.now()),
	}
	h.insert(hero)
	return hero, nil
}

// Restore re-admits a previously persisted hero as-is. It enforces the same
// uniqueness rules as Add but keeps the stored id and date.
func (h *Heroes) Restore(hero schemas.Hero) error {
	if strings.TrimSpace(hero.Name) == "" {
		return fmt.Errorf("%w: hero %d has an empty name", schemas.ErrInvalidInput, hero.ID)
	}
	if _, exists := h.byID[hero.ID]; exists {
		return fmt.Errorf("%w: hero id %d is already taken", schemas.ErrInvalidInput, hero.ID)
	}
	if _, exists := h.byName[hero.Name]; exists {
		return fmt.Errorf("%w: superhero '%s' already exists", schemas.ErrDuplicateName, hero.Name)
	}
	h.insert(hero)
	return nil
}

func (h *Heroes) insert(hero schemas.Hero) {
	h.byID[hero.ID] = len(h.items)
	h.byName[hero.Name] = len(h.items)
	h.items = append(h.items, hero)
	if hero.ID > h.maxID {
		h.maxID = hero.ID
	}
}

// ByID looks a hero up by id.
func (h *Heroes) ByID(id int64) (schemas.Hero, error) {
	idx, ok := h.byID[id]
	if !ok {
		return schemas.Hero{}, fmt.Errorf("%w: superhero with ID %d", schemas.ErrNotFound, id)
	}
	return h.items[idx], nil
}

// ByName looks a hero up by exact, case-sensitive name.
func (h *Heroes) ByName(name string) (schemas.Hero, error) {
	idx, ok := h.byName[name]
	if !ok {
		return schemas.Hero{}, fmt.Errorf("%w: superhero '%s'", schemas.ErrNotFound, name)
	}
	return h.items[idx], nil
}

// Has reports whether id belongs to a known hero.
func (h *Heroes) Has(id int64) bool {
	_, ok := h.byID[id]
	return ok
}

// All returns a copy of the table in insertion order.
func (h *Heroes) All() []schemas.Hero {
	out := make([]schemas.Hero, len(h.items))
	copy(out, h.items)
	return out
}

// Len returns the number of heroes.
func (h *Heroes) Len() int { return len(h.items) }
