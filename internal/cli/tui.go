package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/icongrid/pkg/grid"
	"github.com/matzehuels/icongrid/pkg/placement"
	"github.com/matzehuels/icongrid/pkg/render"
	"github.com/matzehuels/icongrid/pkg/scene"
	"github.com/matzehuels/icongrid/pkg/store"
)

// Grid styles
var (
	cellCursorStyle   = lipgloss.NewStyle().Reverse(true)
	cellSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	cellItemStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	cellFreeStyle     = lipgloss.NewStyle().Foreground(colorDim)
	cellEscapeStyle   = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Key Map
// =============================================================================

// gridKeyMap holds the bindings of GridModel.
type gridKeyMap struct {
	Up, Down, Left, Right key.Binding
	Pick, Drop, Clear     key.Binding
	LayDown, Align, Save  key.Binding
	Quit                  key.Binding
}

func newGridKeyMap() gridKeyMap {
	return gridKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Pick:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick")),
		Drop:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "drop")),
		Clear:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		LayDown: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "lay down")),
		Align:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "align")),
		Save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k gridKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pick, k.Drop, k.Clear, k.LayDown, k.Align, k.Save, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k gridKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Pick, k.Drop, k.Clear},
		{k.LayDown, k.Align, k.Save, k.Quit},
	}
}

// =============================================================================
// GridModel - Interactive grid editor
// =============================================================================

// GridModel is the bubbletea model for moving icons around a grid.
//
// The cursor walks the grid cells. Picking collects the items under the
// cursor into a selection, which is then dropped at another cell the same
// way a drag-and-drop would: occupants in the way are pushed along the scan
// order.
type GridModel struct {
	ctx    context.Context
	engine *placement.Engine
	store  store.Store
	scene  *scene.Scene
	path   string
	keys   gridKeyMap
	help   help.Model

	grid      *grid.Grid
	cursor    grid.Cell
	selection []placement.ID

	status string
	warn   bool
	dirty  bool
	saved  bool
	err    error
}

// NewGridModel creates a grid model editing s, which is saved to path.
func NewGridModel(ctx context.Context, engine *placement.Engine, st store.Store, s *scene.Scene, path string) (GridModel, error) {
	m := GridModel{
		ctx:    ctx,
		engine: engine,
		store:  st,
		scene:  s,
		path:   path,
		keys:   newGridKeyMap(),
		help:   help.New(),
	}
	if err := m.rebuild(); err != nil {
		return GridModel{}, err
	}
	m.status = fmt.Sprintf("%d items on a %dx%d grid", len(s.Items), m.grid.Columns(), m.grid.Rows())
	return m, nil
}

func (m GridModel) Init() tea.Cmd {
	return nil
}

func (m GridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m GridModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.warn = false
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.move(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.move(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.move(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.move(1, 0)
	case key.Matches(msg, m.keys.Pick):
		m.pick()
	case key.Matches(msg, m.keys.Clear):
		m.selection = nil
		m.status = "Selection cleared"
	case key.Matches(msg, m.keys.Drop):
		m.drop()
	case key.Matches(msg, m.keys.LayDown):
		m.layDown()
	case key.Matches(msg, m.keys.Align):
		m.align()
	case key.Matches(msg, m.keys.Save):
		m.save()
	}
	return m, nil
}

func (m *GridModel) move(dx, dy int) {
	c := grid.Cell{X: m.cursor.X + dx, Y: m.cursor.Y + dy}
	if m.grid.Valid(c) {
		m.cursor = c
	}
}

// pick toggles the items under the cursor in the selection.
func (m *GridModel) pick() {
	ids := m.itemsAt(m.cursor)
	if len(ids) == 0 {
		m.status = "Nothing to pick at " + m.cursor.String()
		return
	}
	for _, id := range ids {
		if i := slices.Index(m.selection, id); i >= 0 {
			m.selection = slices.Delete(m.selection, i, i+1)
		} else {
			m.selection = append(m.selection, id)
		}
	}
	m.status = fmt.Sprintf("%d selected", len(m.selection))
}

// drop inserts the selection at the center of the cursor cell, which puts
// it before the current occupant.
func (m *GridModel) drop() {
	if len(m.selection) == 0 {
		m.status = "Select items with space first"
		return
	}
	ids := make([]string, len(m.selection))
	for i, id := range m.selection {
		ids[i] = string(id)
	}
	at := m.grid.GridToCanvasRect(m.cursor).Center()

	placed, _ := m.scene.Split()
	res, err := m.engine.Drop(m.ctx, placed, at, dragItems(m.scene, ids, m.grid.CellSize()))
	if err != nil {
		m.fail(err)
		return
	}
	m.scene.Apply(res.Placed)
	m.scene.Apply(res.Pushed)
	m.selection = nil
	m.dirty = true

	m.status = fmt.Sprintf("Dropped %d at %s, pushed %d", len(res.Placed), m.cursor, len(res.Pushed))
	if res.Degraded {
		m.status += "; grid full, overflow on escape valve"
		m.warn = true
	}
	m.fail(m.rebuild())
}

func (m *GridModel) layDown() {
	placed, fresh := m.scene.Split()
	ps, err := m.engine.LayDown(m.ctx, placed, fresh)
	if err != nil {
		m.fail(err)
		return
	}
	m.scene.Apply(ps)
	m.dirty = m.dirty || len(ps) > 0
	m.status = fmt.Sprintf("Placed %d icons", len(ps))
	m.fail(m.rebuild())
}

func (m *GridModel) align() {
	ps, err := m.engine.Align(m.ctx, m.scene.EngineItems())
	if err != nil {
		m.fail(err)
		return
	}
	m.scene.Apply(ps)
	m.dirty = true
	m.status = fmt.Sprintf("Aligned %d icons", len(ps))
	m.fail(m.rebuild())
}

func (m *GridModel) save() {
	changed, err := writeScene(m.scene, m.path)
	if err != nil {
		m.fail(err)
		return
	}
	m.dirty = false
	m.saved = m.saved || changed

	entries, err := m.store.Positions(m.ctx)
	if err != nil {
		m.fail(err)
		return
	}
	m.status = fmt.Sprintf("Saved %s (%d positions in scope %s)", m.path, len(entries), m.store.Scope())
}

// fail reports err in the status line. A nil err is ignored.
func (m *GridModel) fail(err error) {
	if err == nil {
		return
	}
	m.err = err
	m.status = err.Error()
	m.warn = true
}

// rebuild recomputes the occupancy after the scene changed.
func (m *GridModel) rebuild() error {
	g, err := populatedGrid(m.engine.Options(), m.scene)
	if err != nil {
		return err
	}
	m.grid = g
	return nil
}

// itemsAt returns the ids of the placed items drawn in c, sorted.
func (m *GridModel) itemsAt(c grid.Cell) []placement.ID {
	var out []placement.ID
	for _, it := range m.scene.Items {
		if it.Placed() && render.CellOf(m.grid, it) == c {
			out = append(out, placement.ID(it.ID))
		}
	}
	slices.Sort(out)
	return out
}

func (m GridModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("icongrid " + m.path))
	if m.dirty {
		b.WriteString(StyleWarning.Render(" *"))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")

	labels := render.CellLabels(m.grid, m.scene)
	selected := make(map[grid.Cell]bool)
	for _, id := range m.selection {
		if it, ok := m.scene.Lookup(string(id)); ok && it.Placed() {
			selected[render.CellOf(m.grid, it)] = true
		}
	}

	for y := 0; y < m.grid.Rows(); y++ {
		b.WriteString("  ")
		for x := 0; x < m.grid.Columns(); x++ {
			c := grid.Cell{X: x, Y: y}
			glyph := string(render.Glyph(labels[c], !m.grid.IsFree(c)))

			style := cellFreeStyle
			switch {
			case c == m.cursor:
				style = cellCursorStyle
			case selected[c]:
				style = cellSelectedStyle
			case len(labels[c]) > 1:
				style = StyleNumber
			case m.grid.IsEscapeValve(c) && !m.grid.IsFree(c):
				style = cellEscapeStyle
			case !m.grid.IsFree(c):
				style = cellItemStyle
			}
			b.WriteString(style.Render(glyph))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	under := m.itemsAt(m.cursor)
	names := make([]string, len(under))
	for i, id := range under {
		names[i] = string(id)
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s ", m.cursor)))
	b.WriteString(StyleHighlight.Render(strings.Join(names, ", ")))
	b.WriteString("\n")

	if len(m.selection) > 0 {
		sel := make([]string, len(m.selection))
		for i, id := range m.selection {
			sel[i] = string(id)
		}
		b.WriteString(StyleDim.Render("  selected: "))
		b.WriteString(cellSelectedStyle.Render(strings.Join(sel, ", ")))
		b.WriteString("\n")
	}

	status := StyleDim.Render("  " + m.status)
	if m.warn {
		status = "  " + StyleWarning.Render(m.status)
	}
	b.WriteString(status)
	b.WriteString("\n")

	return b.String()
}
