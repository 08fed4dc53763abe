package store

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xkilldash9x/heronet/api/schemas"
	"github.com/xkilldash9x/heronet/internal/knowledgegraph"
)

func newTestCSVStore(t *testing.T, logger *zap.Logger) (*CSVStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewCSVStore(dir, "superheroes.csv", "links.csv", logger)
	require.NoError(t, err)
	return s, dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCSVStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestCSVStore(t, zap.NewNop())

	require.NoError(t, s.Save(ctx, sampleTables()))

	raw, err := os.ReadFile(filepath.Join(dir, "superheroes.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,name,created_at\n1,Alpha,2025-10-10\n2,Beta,2025-10-11\n", string(raw))
	raw, err = os.ReadFile(filepath.Join(dir, "links.csv"))
	require.NoError(t, err)
	assert.Equal(t, "source,target\n2,1\n", string(raw))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleTables(), got)

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary files are renamed into place")
}

func TestCSVStore_ShuffledRowsBuildTheSameGraph(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestCSVStore(t, zap.NewNop())

	tables := schemas.Tables{}
	for id := int64(1); id <= 8; id++ {
		tables.Heroes = append(tables.Heroes, schemas.Hero{
			ID: id, Name: string(rune('A' + id)), CreatedAt: schemas.NewDate(2025, time.January, int(id)),
		})
	}
	for id := int64(2); id <= 8; id++ {
		tables.Links = append(tables.Links, schemas.Link{Source: 1, Target: id}, schemas.Link{Source: id, Target: id/2 + 1})
	}
	want := knowledgegraph.Build(tables.Heroes, tables.Links, nil)

	shuffled := schemas.Tables{
		Heroes: append([]schemas.Hero(nil), tables.Heroes...),
		Links:  append([]schemas.Link(nil), tables.Links...),
	}
	rng := rand.New(rand.NewSource(7))
	rng.Shuffle(len(shuffled.Heroes), func(i, j int) { shuffled.Heroes[i], shuffled.Heroes[j] = shuffled.Heroes[j], shuffled.Heroes[i] })
	rng.Shuffle(len(shuffled.Links), func(i, j int) { shuffled.Links[i], shuffled.Links[j] = shuffled.Links[j], shuffled.Links[i] })

	require.NoError(t, s.Save(ctx, shuffled))
	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	got := knowledgegraph.Build(loaded.Heroes, loaded.Links, nil)

	assert.Equal(t, want.NodeCount(), got.NodeCount())
	assert.Equal(t, want.EdgeCount(), got.EdgeCount())
	for _, id := range want.Nodes() {
		assert.Equal(t, want.Degree(id), got.Degree(id), "degree of %d", id)
		assert.ElementsMatch(t, want.Neighbors(id), got.Neighbors(id), "neighbours of %d", id)
	}
}

func TestCSVStore_MissingFilesAreEmpty(t *testing.T) {
	s, _ := newTestCSVStore(t, zap.NewNop())

	tables, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tables.Heroes)
	assert.Empty(t, tables.Links)
}

func TestCSVStore_SkipsMalformedRows(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s, dir := newTestCSVStore(t, zap.New(core))

	writeFile(t, filepath.Join(dir, "superheroes.csv"),
		"\ufeffid,name,created_at\n"+
			"1,Alpha,2025-10-10\n"+
			"two,Beta,2025-10-11\n"+
			"3.0,Gamma,2025-10-12\n"+
			"4,,2025-10-13\n"+
			"5,Epsilon,yesterday\n")
	writeFile(t, filepath.Join(dir, "links.csv"),
		"target,source\n"+
			"1,3\n"+
			"x,1\n"+
			"3.5,1\n")

	tables, err := s.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []schemas.Hero{
		{ID: 1, Name: "Alpha", CreatedAt: schemas.NewDate(2025, time.October, 10)},
		{ID: 3, Name: "Gamma", CreatedAt: schemas.NewDate(2025, time.October, 12)},
	}, tables.Heroes)
	assert.Equal(t, []schemas.Link{{Source: 3, Target: 1}}, tables.Links, "columns are matched by header name")
	assert.Equal(t, 3, logs.FilterMessage("Skipping malformed hero row").Len())
	assert.Equal(t, 2, logs.FilterMessage("Skipping malformed link row").Len())
}

func TestCSVStore_MissingColumnIsAnIOFailure(t *testing.T) {
	s, dir := newTestCSVStore(t, zap.NewNop())
	writeFile(t, filepath.Join(dir, "superheroes.csv"), "id,name\n1,Alpha\n")

	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, schemas.ErrIOFailure)
	assert.Contains(t, err.Error(), `"created_at"`)
}

func TestCSVStore_SaveFailureKeepsPreviousFile(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestCSVStore(t, zap.NewNop())
	require.NoError(t, s.Save(ctx, sampleTables()))

	// A directory where the links file belongs makes the rename fail.
	blocked, err := NewCSVStore(dir, "other.csv", "blocked", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "blocked"), 0o755))
	writeFile(t, filepath.Join(dir, "blocked", "keep"), "x")

	err = blocked.Save(ctx, schemas.Tables{})
	require.Error(t, err)
	assert.ErrorIs(t, err, schemas.ErrIOFailure)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleTables(), got)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCSVStore_SaveIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestCSVStore(t, zap.NewNop())
	require.NoError(t, s.Save(ctx, sampleTables()))
	heroesBefore := readFile(t, filepath.Join(dir, "superheroes.csv"))
	linksBefore := readFile(t, filepath.Join(dir, "links.csv"))

	changed := sampleTables()
	changed.Heroes = append(changed.Heroes, schemas.Hero{ID: 3, Name: "Gamma", CreatedAt: schemas.NewDate(2025, time.October, 12)})

	tests := []struct {
		name      string
		linksFile string
		setup     func(t *testing.T)
	}{
		{
			name:      "links directory cannot be created",
			linksFile: filepath.Join("plain", "links.csv"),
			setup: func(t *testing.T) {
				writeFile(t, filepath.Join(dir, "plain"), "not a directory")
			},
		},
		{
			name:      "links destination is a directory",
			linksFile: "occupied",
			setup: func(t *testing.T) {
				require.NoError(t, os.Mkdir(filepath.Join(dir, "occupied"), 0o755))
				writeFile(t, filepath.Join(dir, "occupied", "keep"), "x")
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup(t)
			// Same heroes file as s, links file that cannot be written.
			half, err := NewCSVStore(dir, "superheroes.csv", tc.linksFile, zap.NewNop())
			require.NoError(t, err)

			err = half.Save(ctx, changed)
			require.Error(t, err)
			assert.ErrorIs(t, err, schemas.ErrIOFailure)

			assert.Equal(t, heroesBefore, readFile(t, filepath.Join(dir, "superheroes.csv")))
			assert.Equal(t, linksBefore, readFile(t, filepath.Join(dir, "links.csv")))
			leftovers, err := filepath.Glob(filepath.Join(dir, ".*.tmp*"))
			require.NoError(t, err)
			assert.Empty(t, leftovers)
		})
	}
}

func TestStagedTable_Restore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "superheroes.csv")
	writeFile(t, path, "old")

	st, err := stageTable(context.Background(), path, schemas.HeroColumns, nil)
	require.NoError(t, err)
	require.NotEmpty(t, st.backup)
	require.NoError(t, os.Rename(st.tmp, path))
	assert.NotEqual(t, "old", readFile(t, path))

	require.NoError(t, st.restore())
	st.cleanup()
	assert.Equal(t, "old", readFile(t, path))

	fresh := filepath.Join(dir, "links.csv")
	st, err = stageTable(context.Background(), fresh, schemas.LinkColumns, nil)
	require.NoError(t, err)
	assert.Empty(t, st.backup, "nothing to back up for a new file")
	require.NoError(t, os.Rename(st.tmp, fresh))
	require.NoError(t, st.restore())
	_, err = os.Stat(fresh)
	assert.True(t, os.IsNotExist(err))

	leftovers, err := filepath.Glob(filepath.Join(dir, ".*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestCSVStore_CancelledSaveLeavesPreviousFiles(t *testing.T) {
	s, dir := newTestCSVStore(t, zap.NewNop())
	require.NoError(t, s.Save(context.Background(), sampleTables()))
	heroesBefore := readFile(t, filepath.Join(dir, "superheroes.csv"))
	linksBefore := readFile(t, filepath.Join(dir, "links.csv"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Save(ctx, schemas.Tables{})
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, heroesBefore, readFile(t, filepath.Join(dir, "superheroes.csv")))
	assert.Equal(t, linksBefore, readFile(t, filepath.Join(dir, "links.csv")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestResolvePath(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	tests := []struct {
		dir, file, want string
	}{
		{dir: "/data", file: "heroes.csv", want: "/data/heroes.csv"},
		{dir: "/data", file: "/abs/heroes.csv", want: "/abs/heroes.csv"},
		{dir: "", file: "heroes.csv", want: "heroes.csv"},
		{dir: "~/net", file: "heroes.csv", want: filepath.Join(home, "net", "heroes.csv")},
		{dir: "/data", file: "~/heroes.csv", want: filepath.Join(home, "heroes.csv")},
	}
	for _, tc := range tests {
		got, err := resolvePath(tc.dir, tc.file)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseInt(t *testing.T) {
	for in, want := range map[string]int64{"7": 7, "-2": -2, "3.0": 3, "1e2": 100} {
		got, err := parseInt(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "x", "3.5", "NaN"} {
		_, err := parseInt(in)
		assert.ErrorIs(t, err, schemas.ErrInvalidInput, in)
	}
}
