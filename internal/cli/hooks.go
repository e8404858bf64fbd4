package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/icongrid/pkg/observability"
)

// logHooks reports engine and store events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.LayoutHooks = logHooks{}
	_ observability.StoreHooks  = logHooks{}
)

// EnableTracing routes observability events to the CLI's logger.
func (c *CLI) EnableTracing() {
	h := logHooks{logger: c.Logger}
	observability.SetLayoutHooks(h)
	observability.SetStoreHooks(h)
}

func (h logHooks) OnLayoutStart(_ context.Context, op string, itemCount int) {
	h.logger.Debug("pass started", "op", op, "items", itemCount)
}

func (h logHooks) OnLayoutComplete(_ context.Context, op string, placed int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("pass failed", "op", op, "err", err, "took", d)
		return
	}
	h.logger.Debug("pass done", "op", op, "placed", placed, "took", d)
}

func (h logHooks) OnDrop(_ context.Context, dragged, pushed int, degraded bool) {
	h.logger.Debug("drop", "dragged", dragged, "pushed", pushed, "degraded", degraded)
}

func (h logHooks) OnPositionSaved(_ context.Context, scope string) {
	h.logger.Debug("position saved", "scope", scope)
}

func (h logHooks) OnPositionsLoaded(_ context.Context, scope string, count int) {
	h.logger.Debug("positions loaded", "scope", scope, "count", count)
}
