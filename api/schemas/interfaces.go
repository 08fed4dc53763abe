package schemas

import "context"

// -- Storage Interface --

// Storage loads and persists the hero and link tables as a pair. Implementations
// return errors wrapping ErrIOFailure for any read or write problem. A missing
// table is not an error: Load returns it empty.
type Storage interface {
	// Load reads both tables.
	Load(ctx context.Context) (Tables, error)
	// Save replaces both persisted tables with the given contents.
	Save(ctx context.Context, tables Tables) error
}
