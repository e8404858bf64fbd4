package placement

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/icongrid/pkg/errors"
	"github.com/matzehuels/icongrid/pkg/geom"
	"github.com/matzehuels/icongrid/pkg/grid"
	"github.com/matzehuels/icongrid/pkg/observability"
)

// Operation names reported to observability hooks.
const (
	OpLayDown = "lay_down"
	OpAlign   = "align"
	OpDrop    = "drop"
)

// Options configures the grid an Engine builds for every pass.
type Options struct {
	Canvas         geom.Size
	Cell           geom.Size
	Orientation    grid.Orientation
	Variant        grid.Variant
	VerticalAdjust float64
	// IgnoreLazy leaves items with provisional positions out of the
	// occupancy, so their cells can be handed out again.
	IgnoreLazy bool
}

// NewGrid builds an empty grid for these options.
func (o Options) NewGrid() (*grid.Grid, error) {
	return grid.New(o.Variant, o.Canvas, o.Cell,
		grid.WithOrientation(o.Orientation),
		grid.WithVerticalAdjust(o.VerticalAdjust),
	)
}

// PositionSink receives the final anchor of every item a pass moves.
type PositionSink interface {
	SetPosition(ctx context.Context, id ID, anchor geom.Point) error
}

// PositionFunc adapts a function to PositionSink.
type PositionFunc func(ctx context.Context, id ID, anchor geom.Point) error

// SetPosition calls f.
func (f PositionFunc) SetPosition(ctx context.Context, id ID, anchor geom.Point) error {
	return f(ctx, id, anchor)
}

// Engine runs layout passes. Each call builds a fresh grid, so an Engine
// holds no state between passes and a new request simply starts over.
type Engine struct {
	opts   Options
	sink   PositionSink
	logger *log.Logger
}

// NewEngine creates an engine. sink may be nil; a nil logger falls back to
// log.Default().
func NewEngine(opts Options, sink PositionSink, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{opts: opts, sink: sink, logger: logger}
}

// Options returns the engine's options.
func (e *Engine) Options() Options { return e.opts }

// LayDown places fresh items around the placed ones. See LayDown.
func (e *Engine) LayDown(ctx context.Context, placed, fresh []Item) (out []Placement, err error) {
	done := e.begin(ctx, OpLayDown, len(fresh))
	defer func() { done(len(out), err) }()

	g, err := e.newGrid()
	if err != nil {
		return nil, err
	}
	out = LayDown(g, placed, fresh, e.opts.IgnoreLazy)
	e.logger.Debug("laid down icons", "new", len(out), "existing", len(placed), "occupied", g.Occupied())

	if err := e.persist(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Align re-snaps every item onto an empty grid. See Align.
func (e *Engine) Align(ctx context.Context, items []Item) (out []Placement, err error) {
	done := e.begin(ctx, OpAlign, len(items))
	defer func() { done(len(out), err) }()

	g, err := e.newGrid()
	if err != nil {
		return nil, err
	}
	out = Align(g, items)
	e.logger.Debug("aligned icons", "items", len(out))

	if err := e.persist(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Drop inserts dragged at the canvas point at. Items of existing whose ID is
// being dragged are treated as moving and do not block their own drop.
func (e *Engine) Drop(ctx context.Context, existing []Item, at geom.Point, dragged []DragItem) (res Insertion, err error) {
	done := e.begin(ctx, OpDrop, len(dragged))
	defer func() { done(len(res.Placed)+len(res.Pushed), err) }()

	g, err := e.newGrid()
	if err != nil {
		return Insertion{}, err
	}

	moving := make(map[ID]bool, len(dragged))
	for _, d := range dragged {
		moving[d.ID] = true
	}
	occupants := make([]Item, 0, len(existing))
	for _, it := range existing {
		if moving[it.ID] || (e.opts.IgnoreLazy && it.Lazy) {
			continue
		}
		occupants = append(occupants, it)
	}

	PrePopulate(g, occupants, false)
	res = Insert(g, occupants, at, dragged)
	observability.Layout().OnDrop(ctx, len(res.Placed), len(res.Pushed), res.Degraded)

	if res.Degraded {
		e.logger.Warn("grid out of room, stacking overflow on escape valve", "dragged", len(dragged), "pushed", len(res.Pushed), "cell", g.EscapeValve())
	} else {
		e.logger.Debug("dropped icons", "at", at, "dragged", len(res.Placed), "pushed", len(res.Pushed))
	}

	if err := e.persist(ctx, res.Placed); err != nil {
		return Insertion{}, err
	}
	if err := e.persist(ctx, res.Pushed); err != nil {
		return Insertion{}, err
	}
	return res, nil
}

func (e *Engine) begin(ctx context.Context, op string, n int) func(placed int, err error) {
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, op, n)
	return func(placed int, err error) {
		observability.Layout().OnLayoutComplete(ctx, op, placed, time.Since(start), err)
	}
}

func (e *Engine) newGrid() (*grid.Grid, error) {
	g, err := e.opts.NewGrid()
	if err != nil {
		if errors.Is(err, errors.ErrCodeCanvasTooSmall) {
			e.logger.Debug("skipping layout pass", "canvas", e.opts.Canvas, "cell", e.opts.Cell)
		}
		return nil, err
	}
	return g, nil
}

func (e *Engine) persist(ctx context.Context, ps []Placement) error {
	if e.sink == nil {
		return nil
	}
	for _, p := range ps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.sink.SetPosition(ctx, p.ID, p.Anchor); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "save position of %s", p.ID)
		}
	}
	return nil
}
