package roster

import (
	"fmt"

	"github.com/xkilldash9x/heronet/api/schemas"
)

// FromTables rebuilds both stores from persisted tables. Rows that violate the
// store invariants are skipped; one error per skipped row is returned so the
// caller can report them.
func FromTables(tables schemas.Tables, opts ...Option) (*Heroes, *Links, []error) {
	heroes := NewHeroes(opts...)
	links := NewLinks(heroes)

	var skipped []error
	for i, hero := range tables.Heroes {
		if err := heroes.Restore(hero); err != nil {
			skipped = append(skipped, fmt.Errorf("hero row %d: %w", i+1, err))
		}
	}
	for i, link := range tables.Links {
		if err := links.Restore(link); err != nil {
			skipped = append(skipped, fmt.Errorf("link row %d: %w", i+1, err))
		}
	}
	return heroes, links, skipped
}

// Snapshot copies both stores into a Tables value ready to be saved.
func Snapshot(heroes *Heroes, links *Links) schemas.Tables {
	return schemas.Tables{Heroes: heroes.All(), Links: links.All()}
}
