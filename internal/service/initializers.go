// File: internal/service/initializers.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/xkilldash9x/heronet/api/schemas"
	"github.com/xkilldash9x/heronet/internal/config"
	"github.com/xkilldash9x/heronet/internal/render"
	"github.com/xkilldash9x/heronet/internal/store"
)

func newPostgresPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("unable to parse PGX pool config: %w", err)
	}
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create PGX connection pool: %w", err)
	}
	return pool, nil
}

// InitializeStorage builds the storage backend named by the configuration.
// The returned cleanup, when non-nil, releases backend resources.
func InitializeStorage(ctx context.Context, storageCfg config.StorageConfig, dbCfg config.DatabaseConfig, logger *zap.Logger) (schemas.Storage, func(), error) {
	switch storageCfg.Backend {
	case config.BackendCSV, "":
		s, err := store.NewCSVStore(storageCfg.DataDir, storageCfg.HeroesFile, storageCfg.LinksFile, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize csv storage: %w", err)
		}
		logger.Debug("CSV storage initialized.", zap.String("data_dir", storageCfg.DataDir))
		return s, nil, nil

	case config.BackendMemory:
		logger.Warn("Using in-memory storage; all changes will be lost on exit.")
		return store.NewMemoryStore(schemas.Tables{}), nil, nil

	case config.BackendPostgres:
		if dbCfg.URL == "" {
			return nil, nil, fmt.Errorf("database URL is not configured (hint: check HERONET_DATABASE_URL)")
		}
		pool, err := newPostgresPool(ctx, dbCfg.URL)
		if err != nil {
			return nil, nil, err
		}
		pgStore, err := store.New(ctx, pool, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := pgStore.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		cleanup := func() {
			logger.Debug("Closing PostgreSQL connection pool.")
			pool.Close()
		}
		logger.Debug("PostgreSQL storage initialized.")
		return pgStore, cleanup, nil
	}

	return nil, nil, fmt.Errorf("unsupported storage backend: %s", storageCfg.Backend)
}

// InitializeRenderer builds the renderer. PNG output goes through headless
// Chrome when enabled.
func InitializeRenderer(renderCfg config.RenderConfig, logger *zap.Logger) *render.Renderer {
	var raster render.Rasterizer
	if renderCfg.PNG {
		raster = render.NewChromeRasterizer(logger)
	}
	return render.New(render.OptionsFromConfig(renderCfg), raster, logger)
}
