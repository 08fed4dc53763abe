package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xkilldash9x/heronet/api/schemas"
	"github.com/xkilldash9x/heronet/internal/roster"
)

// HeroLookup resolves a hero id for display.
type HeroLookup func(id int64) (schemas.Hero, error)

// WriteBatch prints one line per target of a link batch followed by the total.
func WriteBatch(w io.Writer, lookup HeroLookup, source schemas.Hero, result roster.BatchResult) {
	name := func(id int64) string {
		if hero, err := lookup(id); err == nil {
			return hero.Name
		}
		return strconv.FormatInt(id, 10)
	}

	for _, status := range result.Statuses {
		switch {
		case status.Added():
			fmt.Fprintf(w, "Added connection: %s <-> %s\n", source.Name, name(status.Target))
		case errors.Is(status.Err, schemas.ErrInvalidInput):
			fmt.Fprintf(w, "Skipping invalid target ID: %s\n", status.Token)
		case errors.Is(status.Err, schemas.ErrUnknownEntity):
			fmt.Fprintf(w, "Error: Superhero with ID %d doesn't exist - skipping\n", status.Target)
		case errors.Is(status.Err, schemas.ErrSelfLoop):
			fmt.Fprintf(w, "Warning: Cannot connect %s to itself - skipping\n", source.Name)
		case errors.Is(status.Err, schemas.ErrDuplicateRelation):
			fmt.Fprintf(w, "Warning: Connection between %s and %s already exists - skipping\n", source.Name, name(status.Target))
		default:
			fmt.Fprintf(w, "Error: %v - skipping\n", status.Err)
		}
	}

	if len(result.Added) > 0 {
		fmt.Fprintf(w, "\nSuccessfully added %d new connection(s) for %s\n", len(result.Added), source.Name)
	} else {
		fmt.Fprintln(w, "\nNo valid new connections were added")
	}
}
