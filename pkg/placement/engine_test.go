package placement

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/icongrid/pkg/errors"
	"github.com/matzehuels/icongrid/pkg/geom"
	"github.com/matzehuels/icongrid/pkg/grid"
	"github.com/matzehuels/icongrid/pkg/observability"
)

func testOptions() Options {
	return Options{Canvas: geom.Size{Width: 30, Height: 30}, Cell: unit}
}

type recordingSink struct {
	mu    sync.Mutex
	calls map[ID]int
	last  map[ID]geom.Point
}

func newRecordingSink() *recordingSink {
	return &recordingSink{calls: make(map[ID]int), last: make(map[ID]geom.Point)}
}

func (s *recordingSink) SetPosition(_ context.Context, id ID, anchor geom.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[id]++
	s.last[id] = anchor
	return nil
}

type recordingHooks struct {
	observability.NoopLayoutHooks
	mu        sync.Mutex
	started   []string
	completed []string
	errs      []error
	drops     int
	degraded  bool
}

func (h *recordingHooks) OnLayoutStart(_ context.Context, op string, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, op)
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, op string, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed = append(h.completed, op)
	h.errs = append(h.errs, err)
}

func (h *recordingHooks) OnDrop(_ context.Context, _, _ int, degraded bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drops++
	h.degraded = degraded
}

func installHooks(t *testing.T) *recordingHooks {
	t.Helper()
	h := &recordingHooks{}
	observability.SetLayoutHooks(h)
	t.Cleanup(observability.Reset)
	return h
}

func TestEngineLayDownPersists(t *testing.T) {
	sink := newRecordingSink()
	e := NewEngine(testOptions(), sink, nil)

	got, err := e.LayDown(context.Background(), nil, fresh("a", "b"))
	if err != nil {
		t.Fatalf("LayDown: %v", err)
	}
	for _, p := range got {
		if sink.calls[p.ID] != 1 {
			t.Errorf("%s saved %d times, want 1", p.ID, sink.calls[p.ID])
		}
		if sink.last[p.ID] != p.Anchor {
			t.Errorf("%s saved at %v, placed at %v", p.ID, sink.last[p.ID], p.Anchor)
		}
	}
}

func TestEngineCanvasTooSmall(t *testing.T) {
	h := installHooks(t)
	opts := testOptions()
	opts.Canvas = geom.Size{Width: 5, Height: 40}
	sink := newRecordingSink()
	e := NewEngine(opts, sink, nil)

	_, err := e.Align(context.Background(), fresh("a"))
	if !errors.Is(err, errors.ErrCodeCanvasTooSmall) {
		t.Fatalf("Align() error = %v, want CANVAS_TOO_SMALL", err)
	}
	if len(sink.calls) != 0 {
		t.Error("nothing should be saved when the pass is skipped")
	}
	if len(h.errs) != 1 || h.errs[0] == nil {
		t.Errorf("completion hook errors = %v", h.errs)
	}
}

func TestEngineDropExcludesMovingItems(t *testing.T) {
	e := NewEngine(testOptions(), nil, nil)
	g := newTestGrid(t, 3, 3)
	existing := []Item{
		itemAt(g, "a", grid.Cell{X: 0, Y: 0}),
		itemAt(g, "b", grid.Cell{X: 1, Y: 0}),
	}

	res, err := e.Drop(context.Background(), existing, geom.Point{X: 5, Y: 5}, drag("a"))
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if res.Placed[0].Cell != (grid.Cell{}) {
		t.Errorf("a at %v, want origin", res.Placed[0].Cell)
	}
	if len(res.Pushed) != 0 {
		t.Errorf("moving an item onto its own cell pushed %+v", res.Pushed)
	}
}

func TestEngineDropIgnoresLazyItems(t *testing.T) {
	opts := testOptions()
	opts.IgnoreLazy = true
	e := NewEngine(opts, nil, nil)
	g := newTestGrid(t, 3, 3)
	stale := itemAt(g, "stale", grid.Cell{})
	stale.Lazy = true

	res, err := e.Drop(context.Background(), []Item{stale}, geom.Point{X: 1, Y: 1}, drag("x"))
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if len(res.Pushed) != 0 || res.Placed[0].Cell != (grid.Cell{}) {
		t.Errorf("Drop = %+v, want x at origin with nothing pushed", res)
	}
}

func TestEngineDropPersistsPushedItems(t *testing.T) {
	h := installHooks(t)
	sink := newRecordingSink()
	e := NewEngine(testOptions(), sink, nil)
	g := newTestGrid(t, 3, 3)
	existing := []Item{itemAt(g, "a", grid.Cell{}), itemAt(g, "z", grid.Cell{X: 2, Y: 2})}

	res, err := e.Drop(context.Background(), existing, geom.Point{X: 5, Y: 5}, drag("new"))
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if sink.calls["new"] != 1 || sink.calls["a"] != 1 {
		t.Errorf("sink calls = %v", sink.calls)
	}
	if _, ok := sink.calls["z"]; ok {
		t.Error("untouched item was saved")
	}
	if h.drops != 1 || h.degraded != res.Degraded {
		t.Errorf("drop hook: drops=%d degraded=%v", h.drops, h.degraded)
	}
	if len(h.started) != 1 || h.started[0] != OpDrop || len(h.completed) != 1 || h.errs[0] != nil {
		t.Errorf("hooks: started=%v completed=%v errs=%v", h.started, h.completed, h.errs)
	}
}

func TestEngineSinkError(t *testing.T) {
	boom := stderrors.New("disk full")
	sink := PositionFunc(func(context.Context, ID, geom.Point) error { return boom })
	e := NewEngine(testOptions(), sink, nil)

	_, err := e.LayDown(context.Background(), nil, fresh("a"))
	if !errors.Is(err, errors.ErrCodeStorage) {
		t.Fatalf("error = %v, want STORAGE", err)
	}
	if !stderrors.Is(err, boom) {
		t.Error("cause not preserved")
	}
}

func TestEngineCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewEngine(testOptions(), newRecordingSink(), nil)

	if _, err := e.Align(ctx, fresh("a")); !stderrors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestOptionsNewGrid(t *testing.T) {
	opts := Options{
		Canvas:      geom.Size{Width: 45, Height: 25},
		Cell:        unit,
		Orientation: grid.Vertical,
		Variant:     grid.Box,
	}
	g, err := opts.NewGrid()
	if err != nil {
		t.Fatal(err)
	}
	if g.Columns() != 4 || g.Rows() != 2 {
		t.Errorf("grid %dx%d, want 4x2", g.Columns(), g.Rows())
	}
	if g.Variant() != grid.Box || g.Orientation() != grid.Vertical {
		t.Errorf("variant %v orientation %v", g.Variant(), g.Orientation())
	}
	if g.Border() != (geom.Point{}) {
		t.Errorf("box grid border = %v", g.Border())
	}
}
