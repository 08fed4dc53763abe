package schemas

// -- Core Graph Records --
// These types are the persisted rows of the two tables. Everything else in the
// system (graph views, statistics) is derived from them.

// Hero is a single named entity in the network.
type Hero struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt Date   `json:"created_at"`
}

// Link is an undirected connection between two heroes. Source and Target only
// record the order in which the pair was entered; Link{1, 2} and Link{2, 1}
// describe the same connection.
type Link struct {
	Source int64 `json:"source"`
	Target int64 `json:"target"`
}

// LinkKey is the orientation-free identity of a Link.
type LinkKey struct {
	Low  int64
	High int64
}

// Key returns the canonical, order-independent key for the link.
func (l Link) Key() LinkKey {
	return KeyOf(l.Source, l.Target)
}

// IsLoop reports whether the link connects a hero to itself.
func (l Link) IsLoop() bool {
	return l.Source == l.Target
}

// KeyOf builds the canonical key for the pair (a, b).
func KeyOf(a, b int64) LinkKey {
	if a > b {
		a, b = b, a
	}
	return LinkKey{Low: a, High: b}
}

// Tables is the pair of tables loaded and saved together by a Storage.
type Tables struct {
	Heroes []Hero `json:"heroes"`
	Links  []Link `json:"links"`
}

// Column layout of the persisted tables.
var (
	HeroColumns = []string{"id", "name", "created_at"}
	LinkColumns = []string{"source", "target"}
)
