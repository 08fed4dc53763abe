package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/heronet/internal/config"
	"github.com/xkilldash9x/heronet/internal/store"
)

func TestInitializeStorage(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("CSV", func(t *testing.T) {
		cfg := config.NewDefaultConfig().Storage()
		cfg.DataDir = t.TempDir()

		s, cleanup, err := InitializeStorage(ctx, cfg, config.DatabaseConfig{}, logger)
		require.NoError(t, err)
		assert.Nil(t, cleanup)
		assert.IsType(t, &store.CSVStore{}, s)
	})

	t.Run("Memory", func(t *testing.T) {
		cfg := config.StorageConfig{Backend: config.BackendMemory}

		s, _, err := InitializeStorage(ctx, cfg, config.DatabaseConfig{}, logger)
		require.NoError(t, err)
		assert.IsType(t, &store.MemoryStore{}, s)
	})

	t.Run("MissingDBURL", func(t *testing.T) {
		cfg := config.StorageConfig{Backend: config.BackendPostgres}

		_, _, err := InitializeStorage(ctx, cfg, config.DatabaseConfig{}, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database URL is not configured")
	})

	t.Run("MalformedDBURL", func(t *testing.T) {
		cfg := config.StorageConfig{Backend: config.BackendPostgres}

		_, _, err := InitializeStorage(ctx, cfg, config.DatabaseConfig{URL: "postgres://%zz"}, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to parse PGX pool config")
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, _, err := InitializeStorage(ctx, config.StorageConfig{Backend: "sqlite"}, config.DatabaseConfig{}, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported storage backend: sqlite")
	})
}

func TestCreate(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.StorageCfg.DataDir = t.TempDir()
	cfg.SetRenderOutput(filepath.Join(t.TempDir(), "net.svg"))

	components, err := NewComponentFactory(testClock).Create(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer components.Shutdown()

	require.NotNil(t, components.Network)
	require.NotNil(t, components.Renderer)
	assert.Empty(t, components.Network.Heroes())

	hero, err := components.Network.AddHero(context.Background(), "Alpha")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cfg.Storage().DataDir, "superheroes.csv"))
	assert.Equal(t, "2025-10-17", hero.CreatedAt.String())
}

func TestCreate_StorageFailure(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.StorageCfg.Backend = config.BackendPostgres

	_, err := NewComponentFactory().Create(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize storage")
}

func TestComponents_Shutdown(t *testing.T) {
	var order []int
	c := &Components{cleanups: []func(){
		func() { order = append(order, 1) },
		func() { order = append(order, 2) },
	}}

	c.Shutdown()
	c.Shutdown()

	assert.Equal(t, []int{2, 1}, order, "cleanups run once, newest first")
}
