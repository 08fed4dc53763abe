// File: internal/service/factory.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/heronet/internal/config"
)

// ComponentFactory builds the components of a session. Commands depend on
// the interface so tests can substitute in-memory parts.
type ComponentFactory interface {
	Create(ctx context.Context, cfg config.Interface, logger *zap.Logger) (*Components, error)
}

type concreteFactory struct {
	opts []Option
}

// NewComponentFactory creates the production factory. opts are applied to
// every Network it opens.
func NewComponentFactory(opts ...Option) ComponentFactory {
	return &concreteFactory{opts: opts}
}

// Create wires storage, the network and the renderer.
func (f *concreteFactory) Create(ctx context.Context, cfg config.Interface, logger *zap.Logger) (*Components, error) {
	components := &Components{}

	storage, cleanup, err := InitializeStorage(ctx, cfg.Storage(), cfg.Database(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if cleanup != nil {
		components.cleanups = append(components.cleanups, cleanup)
	}
	components.Storage = storage

	components.Network = Open(ctx, storage, logger, f.opts...)
	components.Renderer = InitializeRenderer(cfg.Render(), logger)

	logger.Debug("Session components initialized.", zap.String("session_id", components.Network.Session()))
	return components, nil
}
