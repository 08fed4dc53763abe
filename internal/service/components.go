// File: internal/service/components.go
package service

import (
	"github.com/xkilldash9x/heronet/api/schemas"
	"github.com/xkilldash9x/heronet/internal/observability"
	"github.com/xkilldash9x/heronet/internal/render"
)

// Components holds everything a command needs for one session.
type Components struct {
	Storage  schemas.Storage
	Network  *Network
	Renderer *render.Renderer

	cleanups []func()
}

// Shutdown releases backend resources in reverse order of creation. It does
// not save; callers persist through Network before shutting down.
func (c *Components) Shutdown() {
	logger := observability.GetLogger()
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil
	logger.Debug("Components shut down.")
}
