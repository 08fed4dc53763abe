package roster

import (
	"fmt"

	"github.com/xkilldash9x/heronet/api/schemas"
)

// Links is the insert-only table of undirected connections between heroes.
type Links struct {
	heroes *Heroes
	items  []schemas.Link
	seen   map[schemas.LinkKey]struct{}
}

// NewLinks returns an empty link table validated against heroes.
func NewLinks(heroes *Heroes) *Links {
	return &Links{
		heroes: heroes,
		seen:   make(map[schemas.LinkKey]struct{}),
	}
}

// Add connects source and target. Checks run in a fixed order: source exists,
// target exists, not a self-loop, not already connected in either orientation.
func (l *Links) Add(source, target int64) (schemas.Link, error) {
	link := schemas.Link{Source: source, Target: target}
	if err := l.validate(link); err != nil {
		return schemas.Link{}, err
	}
	l.items = append(l.items, link)
	l.seen[link.Key()] = struct{}{}
	return link, nil
}

// Restore re-admits a persisted link under the same rules as Add.
func (l *Links) Restore(link schemas.Link) error {
	_, err := l.Add(link.Source, link.Target)
	return err
}

func (l *Links) validate(link schemas.Link) error {
	if !l.heroes.Has(link.Source) {
		return fmt.Errorf("%w: superhero with ID %d doesn't exist", schemas.ErrUnknownSource, link.Source)
	}
	if !l.heroes.Has(link.Target) {
		return fmt.Errorf("%w: superhero with ID %d doesn't exist", schemas.ErrUnknownTarget, link.Target)
	}
	if link.IsLoop() {
		return fmt.Errorf("%w: id %d", schemas.ErrSelfLoop, link.Source)
	}
	if _, exists := l.seen[link.Key()]; exists {
		return fmt.Errorf("%w: %d and %d are already connected", schemas.ErrDuplicateRelation, link.Source, link.Target)
	}
	return nil
}

// Has reports whether a and b are connected, in either orientation.
func (l *Links) Has(a, b int64) bool {
	_, ok := l.seen[schemas.KeyOf(a, b)]
	return ok
}

// All returns a copy of the table in insertion order.
func (l *Links) All() []schemas.Link {
	out := make([]schemas.Link, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of links.
func (l *Links) Len() int { return len(l.items) }
