package reporting

import (
	"bufio"
	"fmt"
	"io"

	"github.com/xkilldash9x/heronet/internal/analytics"
)

type textReporter struct {
	w io.WriteCloser
}

// Write prints the summary in the menu's plain-text layout.
func (r *textReporter) Write(s analytics.Summary) error {
	bw := bufio.NewWriter(r.w)

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "=== Superhero Network Analysis ===")
	fmt.Fprintf(bw, "Total superheroes: %d\n", s.TotalHeroes)
	fmt.Fprintf(bw, "Total connections: %d\n", s.TotalLinks)

	fmt.Fprintf(bw, "\nRecently added (last %d days):\n", s.WindowDays)
	for _, h := range s.Recent {
		fmt.Fprintf(bw, "- %s (ID: %d, Added: %s)\n", h.Name, h.ID, h.CreatedAt)
	}

	fmt.Fprintf(bw, "\nTop %d most connected:\n", s.TopK)
	for _, entry := range s.Top {
		fmt.Fprintf(bw, "- %s (ID: %d): %d connections\n", entry.Hero.Name, entry.Hero.ID, entry.Degree)
	}

	if s.Ego != nil {
		fmt.Fprintf(bw, "\n%s info:\n", s.Ego.Hero.Name)
		fmt.Fprintf(bw, "- Added: %s\n", s.Ego.Hero.CreatedAt)
		fmt.Fprintln(bw, "- Friends:")
		for _, f := range s.Ego.Neighbors {
			fmt.Fprintf(bw, "  - %s (ID: %d)\n", f.Name, f.ID)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func (r *textReporter) Close() error { return r.w.Close() }
