// Package console drives the interactive menu over a Network. It only
// formats messages and forwards raw input; validation happens in the core.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/xkilldash9x/heronet/api/schemas"
	"github.com/xkilldash9x/heronet/internal/analytics"
	"github.com/xkilldash9x/heronet/internal/knowledgegraph"
	"github.com/xkilldash9x/heronet/internal/render"
	"github.com/xkilldash9x/heronet/internal/reporting"
	"github.com/xkilldash9x/heronet/internal/roster"
)

// Network is the part of service.Network the menu drives.
type Network interface {
	AddHero(ctx context.Context, name string) (schemas.Hero, error)
	AddLinks(ctx context.Context, source int64, targets []string) (roster.BatchResult, error)
	Hero(id int64) (schemas.Hero, error)
	Heroes() []schemas.Hero
	Graph() *knowledgegraph.Graph
	Stats(opts analytics.Options) analytics.Summary
	Save(ctx context.Context) error
}

// Renderer draws the current graph.
type Renderer interface {
	Render(ctx context.Context, g *knowledgegraph.Graph, heroes []schemas.Hero) (render.Artifact, error)
}

// Menu choices.
const (
	ChoiceStats = iota + 1
	ChoiceAddHero
	ChoiceAddLinks
	ChoiceRender
	ChoiceExit
)

// Menu is the five-option interactive loop.
type Menu struct {
	network  Network
	renderer Renderer
	prompt   *Prompter
	out      io.Writer
	stats    analytics.Options
	log      *zap.Logger
}

// NewMenu creates a menu that reads from in and writes to out. stats
// configures the statistics view; its AsOf is left to the network clock.
func NewMenu(network Network, renderer Renderer, in io.Reader, out io.Writer, stats analytics.Options, logger *zap.Logger) *Menu {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Menu{
		network:  network,
		renderer: renderer,
		prompt:   NewPrompter(in, out),
		out:      out,
		stats:    stats,
		log:      logger.Named("console"),
	}
}

// Run loops until the user exits or the input ends. Both paths persist the
// tables. A failed save on exit is reported and the loop continues so the user
// can retry; at end of input the save error is returned.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, err := m.readChoice()
		if errors.Is(err, io.EOF) {
			m.log.Info("Input closed; saving before exit.")
			return m.network.Save(ctx)
		}
		if err != nil {
			return err
		}

		switch choice {
		case ChoiceStats:
			err = m.showStats()
		case ChoiceAddHero:
			err = m.addHero(ctx)
		case ChoiceAddLinks:
			err = m.addLinks(ctx)
		case ChoiceRender:
			m.render(ctx)
		case ChoiceExit:
			m.println("Saving data and exiting...")
			if saveErr := m.network.Save(ctx); saveErr != nil {
				m.printf("Error: failed to save data: %v\n", saveErr)
				continue
			}
			return nil
		}

		if errors.Is(err, io.EOF) {
			m.log.Info("Input closed; saving before exit.")
			return m.network.Save(ctx)
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) readChoice() (int, error) {
	m.println("\n===== Superhero Network Manager =====")
	m.println("1. View Network Statistics")
	m.println("2. Add New Superhero")
	m.println("3. Add New Connections")
	m.println("4. Visualize Network")
	m.println("5. Exit")

	for {
		answer, err := m.prompt.Ask("Enter your choice (1-5): ")
		if err != nil {
			return 0, err
		}
		choice, err := strconv.Atoi(answer)
		if err != nil {
			m.println("Please enter a valid number")
			continue
		}
		if choice < ChoiceStats || choice > ChoiceExit {
			m.println("Please enter a number between 1 and 5")
			continue
		}
		return choice, nil
	}
}

func (m *Menu) showStats() error {
	reporter, err := reporting.NewWriter(reporting.FormatText, m.out)
	if err != nil {
		return err
	}
	defer reporter.Close()
	return reporter.Write(m.network.Stats(m.stats))
}

func (m *Menu) addHero(ctx context.Context) error {
	m.println("\n--- Add New Superhero ---")
	name, err := m.prompt.Ask("Enter superhero name: ")
	if err != nil {
		return err
	}

	hero, err := m.network.AddHero(ctx, name)
	switch {
	case errors.Is(err, schemas.ErrDuplicateName):
		m.printf("Error: Superhero '%s' already exists!\n", name)
		return nil
	case errors.Is(err, schemas.ErrInvalidInput) && strings.TrimSpace(name) == "":
		m.println("Error: Superhero name cannot be empty")
		return nil
	case errors.Is(err, schemas.ErrInvalidInput):
		m.printf("Error: %v\n", err)
		return nil
	}

	m.printf("Successfully added %s (ID: %d) on %s\n", hero.Name, hero.ID, hero.CreatedAt)
	if err != nil {
		m.printf("Warning: failed to save data: %v\n", err)
	}
	return nil
}

func (m *Menu) addLinks(ctx context.Context) error {
	m.println("\n--- Add New Connections ---")
	m.println("Current superheroes:")
	m.printHeroTable(m.network.Heroes())

	answer, err := m.prompt.Ask("\nEnter source superhero ID: ")
	if err != nil {
		return err
	}
	sourceID, err := roster.ParseID(answer)
	if err != nil {
		m.println("Error: Please enter a valid numeric ID")
		return nil
	}
	source, err := m.network.Hero(sourceID)
	if err != nil {
		m.printf("Error: Superhero with ID %d doesn't exist!\n", sourceID)
		return nil
	}

	line, err := m.prompt.Ask("Enter target superhero ID(s), separated by commas: ")
	if err != nil {
		return err
	}
	result, saveErr := m.network.AddLinks(ctx, source.ID, roster.SplitTargets(line))

	WriteBatch(m.out, m.network.Hero, source, result)
	if saveErr != nil {
		m.printf("Warning: failed to save data: %v\n", saveErr)
	}
	return nil
}

func (m *Menu) printHeroTable(heroes []schemas.Hero) {
	tw := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "id\tname\t")
	for _, hero := range heroes {
		fmt.Fprintf(tw, "%d\t%s\t\n", hero.ID, hero.Name)
	}
	_ = tw.Flush()
}

func (m *Menu) render(ctx context.Context) {
	artifact, err := m.renderer.Render(ctx, m.network.Graph(), m.network.Heroes())
	if err != nil {
		m.log.Warn("Render failed", zap.Error(err))
		if artifact.SVGPath != "" {
			m.printf("Network drawing saved as '%s'\n", artifact.SVGPath)
		}
		m.printf("Error: %v\n", err)
		return
	}
	if artifact.PNGPath != "" {
		m.printf("Network visualization saved as '%s'\n", artifact.PNGPath)
		return
	}
	m.printf("Network visualization saved as '%s'\n", artifact.SVGPath)
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}
