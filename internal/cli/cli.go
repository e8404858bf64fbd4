package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/icongrid/pkg/config"
	"github.com/matzehuels/icongrid/pkg/errors"
	"github.com/matzehuels/icongrid/pkg/placement"
	"github.com/matzehuels/icongrid/pkg/render"
	"github.com/matzehuels/icongrid/pkg/scene"
	"github.com/matzehuels/icongrid/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "icongrid"

	// storeFile is the position database name inside the data directory.
	storeFile = "positions.db"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			c.cfg = config.Default()
			return nil
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded config", "path", path)
	c.cfg = cfg
	return nil
}

// settings returns the loaded configuration, or the defaults when none was
// loaded.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Factories
// =============================================================================

// newEngine creates a layout engine sized for s. Positions are saved to sink
// when it is non-nil.
func (c *CLI) newEngine(s *scene.Scene, sink placement.PositionSink) (*placement.Engine, error) {
	opts, err := c.settings().Options(s.Canvas)
	if err != nil {
		return nil, err
	}
	return placement.NewEngine(opts, sink, c.Logger), nil
}

// storeFlags are shared by commands that can persist positions.
type storeFlags struct {
	enabled bool
	path    string
	scope   string
}

// newStore opens the position store, or a null store when persistence is
// disabled.
func (c *CLI) newStore(ctx context.Context, f storeFlags) (store.Store, error) {
	if !f.enabled {
		return store.NewNullStore(c.scopeOf(f)), nil
	}
	st, err := c.openSQLite(ctx, f)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// openSQLite opens the position database named by f, whether or not
// persistence is enabled for the command.
func (c *CLI) openSQLite(ctx context.Context, f storeFlags) (*store.SQLiteStore, error) {
	scope := c.scopeOf(f)
	path, err := c.storePath(f.path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opening position store", "path", path, "scope", scope)
	return store.OpenSQLite(ctx, path, scope)
}

// scopeOf returns the scope named by f, or the configured one.
func (c *CLI) scopeOf(f storeFlags) string {
	if f.scope != "" {
		return f.scope
	}
	return c.settings().Store.Scope
}

// storePath resolves the database location: the flag, then the config file,
// then the data directory.
func (c *CLI) storePath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if p := c.settings().Store.Path; p != "" {
		return p, nil
	}
	dir, err := dataDir()
	if err != nil {
		return "", fmt.Errorf("get data dir: %w", err)
	}
	return filepath.Join(dir, storeFile), nil
}

// =============================================================================
// Paths
// =============================================================================

// dataDir returns the data directory using XDG standard (~/.local/share/icongrid/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// =============================================================================
// Scene Helpers
// =============================================================================

// restorePositions gives unplaced items the positions saved in st. Restored
// positions are marked lazy: they may collide with items placed since.
func restorePositions(ctx context.Context, s *scene.Scene, st store.Store) (int, error) {
	entries, err := st.Positions(ctx)
	if err != nil {
		return 0, err
	}
	saved := store.Lookup(entries)

	n := 0
	for i := range s.Items {
		it := &s.Items[i]
		if it.Placed() {
			continue
		}
		if p, ok := saved[placement.ID(it.ID)]; ok {
			it.Position = &p
			it.Lazy = true
			n++
		}
	}
	return n, nil
}

// writeScene writes s to path unless the file already holds the same bytes.
// It reports whether the file changed.
func writeScene(s *scene.Scene, path string) (bool, error) {
	format, err := scene.FormatOf(path)
	if err != nil {
		return false, err
	}
	data, err := s.Marshal(format)
	if err != nil {
		return false, fmt.Errorf("encode scene: %w", err)
	}
	if old, err := os.ReadFile(path); err == nil && string(old) == string(data) {
		return false, nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// stackedOnEscape returns how many items share the escape valve, or 0 when
// it holds at most one.
func stackedOnEscape(s *scene.Scene, e *placement.Engine) int {
	g, err := e.Options().NewGrid()
	if err != nil {
		return 0
	}
	if n := len(render.CellLabels(g, s)[g.EscapeValve()]); n > 1 {
		return n
	}
	return 0
}

// skipPass reports whether err means the canvas cannot hold a grid, in
// which case the pass is skipped with a warning instead of failing.
func skipPass(err error) bool {
	if errors.Is(err, errors.ErrCodeCanvasTooSmall) {
		printWarning("%s; layout skipped", errors.UserMessage(err))
		return true
	}
	return false
}
