package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/heronet/api/schemas"
)

// CSVStore keeps the hero and link tables in two header-first CSV files.
type CSVStore struct {
	heroesPath string
	linksPath  string
	log        *zap.Logger
}

// NewCSVStore returns a store over heroesFile and linksFile. Relative file
// names are resolved against dataDir; a leading "~" is expanded in both.
func NewCSVStore(dataDir, heroesFile, linksFile string, logger *zap.Logger) (*CSVStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	heroesPath, err := resolvePath(dataDir, heroesFile)
	if err != nil {
		return nil, err
	}
	linksPath, err := resolvePath(dataDir, linksFile)
	if err != nil {
		return nil, err
	}
	return &CSVStore{
		heroesPath: heroesPath,
		linksPath:  linksPath,
		log:        logger.Named("store.csv"),
	}, nil
}

func resolvePath(dir, file string) (string, error) {
	expanded, err := homedir.Expand(file)
	if err != nil {
		return "", fmt.Errorf("failed to expand %q: %w", file, err)
	}
	if filepath.IsAbs(expanded) {
		return expanded, nil
	}
	if dir == "" {
		return expanded, nil
	}
	expandedDir, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("failed to expand %q: %w", dir, err)
	}
	return filepath.Join(expandedDir, expanded), nil
}

// Load reads both files concurrently. A missing file is an empty table.
func (s *CSVStore) Load(ctx context.Context) (schemas.Tables, error) {
	var tables schemas.Tables
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.readTable(ctx, s.heroesPath, schemas.HeroColumns)
		if err != nil {
			return err
		}
		tables.Heroes = s.parseHeroes(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.readTable(ctx, s.linksPath, schemas.LinkColumns)
		if err != nil {
			return err
		}
		tables.Links = s.parseLinks(rows)
		return nil
	})

	if err := g.Wait(); err != nil {
		return schemas.Tables{}, err
	}
	s.log.Debug("Tables loaded",
		zap.Int("heroes", len(tables.Heroes)), zap.Int("links", len(tables.Links)))
	return tables, nil
}

// csvRow is one data record keyed by column name, with its 1-based line.
type csvRow struct {
	line   int
	fields map[string]string
}

func (s *CSVStore) readTable(ctx context.Context, path string, columns []string) ([]csvRow, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Info("Table file not found; starting empty", zap.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schemas.ErrIOFailure, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header of %s: %v", schemas.ErrIOFailure, path, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, col := range columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s has no %q column", schemas.ErrIOFailure, path, col)
		}
	}

	var rows []csvRow
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				s.log.Warn("Skipping unreadable row", zap.String("path", path), zap.Int("line", line), zap.Error(err))
				continue
			}
			return nil, fmt.Errorf("%w: reading %s: %v", schemas.ErrIOFailure, path, err)
		}
		row := csvRow{line: line, fields: make(map[string]string, len(columns))}
		for _, col := range columns {
			if i := index[col]; i < len(record) {
				row.fields[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *CSVStore) parseHeroes(rows []csvRow) []schemas.Hero {
	heroes := make([]schemas.Hero, 0, len(rows))
	for _, row := range rows {
		hero, err := parseHero(row.fields)
		if err != nil {
			s.log.Warn("Skipping malformed hero row", zap.Int("line", row.line), zap.Error(err))
			continue
		}
		heroes = append(heroes, hero)
	}
	return heroes
}

func (s *CSVStore) parseLinks(rows []csvRow) []schemas.Link {
	links := make([]schemas.Link, 0, len(rows))
	for _, row := range rows {
		link, err := parseLink(row.fields)
		if err != nil {
			s.log.Warn("Skipping malformed link row", zap.Int("line", row.line), zap.Error(err))
			continue
		}
		links = append(links, link)
	}
	return links
}

func parseHero(fields map[string]string) (schemas.Hero, error) {
	id, err := parseInt(fields["id"])
	if err != nil {
		return schemas.Hero{}, fmt.Errorf("id: %w", err)
	}
	name := fields["name"]
	if name == "" {
		return schemas.Hero{}, fmt.Errorf("%w: empty name", schemas.ErrInvalidInput)
	}
	created, err := schemas.ParseDate(fields["created_at"])
	if err != nil {
		return schemas.Hero{}, fmt.Errorf("created_at: %w", err)
	}
	return schemas.Hero{ID: id, Name: name, CreatedAt: created}, nil
}

func parseLink(fields map[string]string) (schemas.Link, error) {
	source, err := parseInt(fields["source"])
	if err != nil {
		return schemas.Link{}, fmt.Errorf("source: %w", err)
	}
	target, err := parseInt(fields["target"])
	if err != nil {
		return schemas.Link{}, fmt.Errorf("target: %w", err)
	}
	return schemas.Link{Source: source, Target: target}, nil
}

// parseInt accepts integral floats such as "3.0", which spreadsheet tools
// tend to write back into id columns.
func parseInt(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("%w: %q is not an integer", schemas.ErrInvalidInput, s)
	}
	return int64(f), nil
}

// Save writes both tables as a pair. The files are staged concurrently as
// temporary siblings and only renamed into place once both are written; if a
// rename fails, the files already replaced are restored, so the directory
// never holds a mix of old and new tables.
func (s *CSVStore) Save(ctx context.Context, tables schemas.Tables) error {
	staged := make([]*stagedTable, 2)
	defer func() {
		for _, st := range staged {
			st.cleanup()
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records := make([][]string, 0, len(tables.Heroes))
		for _, h := range tables.Heroes {
			records = append(records, []string{strconv.FormatInt(h.ID, 10), h.Name, h.CreatedAt.String()})
		}
		st, err := stageTable(gctx, s.heroesPath, schemas.HeroColumns, records)
		staged[0] = st
		return err
	})
	g.Go(func() error {
		records := make([][]string, 0, len(tables.Links))
		for _, l := range tables.Links {
			records = append(records, []string{strconv.FormatInt(l.Source, 10), strconv.FormatInt(l.Target, 10)})
		}
		st, err := stageTable(gctx, s.linksPath, schemas.LinkColumns, records)
		staged[1] = st
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	for i, st := range staged {
		if err := os.Rename(st.tmp, st.path); err != nil {
			for _, done := range staged[:i] {
				if rerr := done.restore(); rerr != nil {
					s.log.Error("Failed to restore table after a partial save",
						zap.String("path", done.path), zap.Error(rerr))
				}
			}
			return fmt.Errorf("%w: replacing %s: %v", schemas.ErrIOFailure, st.path, err)
		}
	}

	s.log.Debug("Tables saved",
		zap.Int("heroes", len(tables.Heroes)), zap.Int("links", len(tables.Links)))
	return nil
}

// stagedTable is a table written next to its destination but not yet in place.
type stagedTable struct {
	path   string
	tmp    string
	backup string // copy of the previous file; empty when there was none
}

// restore puts the previous file back after tmp has been renamed over path.
func (st *stagedTable) restore() error {
	if st.backup == "" {
		return os.Remove(st.path)
	}
	if err := os.Rename(st.backup, st.path); err != nil {
		return err
	}
	st.backup = ""
	return nil
}

func (st *stagedTable) cleanup() {
	if st == nil {
		return
	}
	_ = os.Remove(st.tmp)
	if st.backup != "" {
		_ = os.Remove(st.backup)
	}
}

func stageTable(ctx context.Context, path string, header []string, records [][]string) (_ *stagedTable, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", schemas.ErrIOFailure, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schemas.ErrIOFailure, err)
	}
	st := &stagedTable{path: path, tmp: tmp.Name()}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			st.cleanup()
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("%w: writing %s: %v", schemas.ErrIOFailure, path, err)
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("%w: writing %s: %v", schemas.ErrIOFailure, path, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing %s: %v", schemas.ErrIOFailure, path, err)
	}

	st.backup, err = backupFile(path, st.tmp+".bak")
	if err != nil {
		return nil, fmt.Errorf("%w: backing up %s: %v", schemas.ErrIOFailure, path, err)
	}
	return st, nil
}

// backupFile preserves the current contents of path under backup, by hard link
// where the filesystem allows it. It returns "" when path does not exist.
func backupFile(path, backup string) (string, error) {
	if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err := os.Link(path, backup); err == nil {
		return backup, nil
	}

	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()
	dst, err := os.OpenFile(backup, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(backup)
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(backup)
		return "", err
	}
	return backup, nil
}
