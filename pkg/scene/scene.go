package scene

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/icongrid/pkg/errors"
	"github.com/matzehuels/icongrid/pkg/geom"
	"github.com/matzehuels/icongrid/pkg/placement"
)

// Format is a scene file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Extensions lists the file extensions recognized as scene files.
var Extensions = []string{".json", ".yaml", ".yml"}

// Scene is a canvas and its items.
type Scene struct {
	// Canvas is the drawable area. It may be empty, in which case callers
	// fall back to a configured default.
	Canvas geom.Size `json:"canvas" yaml:"canvas"`
	Items  []Item    `json:"items" yaml:"items"`
}

// Item is one entry of a scene.
type Item struct {
	ID        string      `json:"id" yaml:"id"`
	Label     string      `json:"label,omitempty" yaml:"label,omitempty"`
	Footprint geom.Size   `json:"footprint" yaml:"footprint"`
	Position  *geom.Point `json:"position,omitempty" yaml:"position,omitempty"`
	Lazy      bool        `json:"lazy,omitempty" yaml:"lazy,omitempty"`
}

// DisplayLabel returns the label, or the id when no label is set.
func (it Item) DisplayLabel() string {
	if it.Label != "" {
		return it.Label
	}
	return it.ID
}

// Placed reports whether the item has a position.
func (it Item) Placed() bool { return it.Position != nil }

// Engine returns the item as seen by the layout engine. Unplaced items are
// anchored at the origin and flagged lazy.
func (it Item) Engine() placement.Item {
	out := placement.Item{ID: placement.ID(it.ID), Footprint: it.Footprint, Lazy: it.Lazy}
	if it.Position != nil {
		out.Anchor = *it.Position
	} else {
		out.Lazy = true
	}
	return out
}

// =============================================================================
// Engine Bridge
// =============================================================================

// Split returns the placed items and the items still waiting for a
// position, each in file order.
func (s *Scene) Split() (placed, fresh []placement.Item) {
	for _, it := range s.Items {
		if it.Placed() {
			placed = append(placed, it.Engine())
		} else {
			fresh = append(fresh, it.Engine())
		}
	}
	return placed, fresh
}

// EngineItems returns every item in file order.
func (s *Scene) EngineItems() []placement.Item {
	out := make([]placement.Item, len(s.Items))
	for i, it := range s.Items {
		out[i] = it.Engine()
	}
	return out
}

// Apply writes the anchors of ps back into the scene. Placements for ids the
// scene does not know yet are appended as new items. It returns the number
// of items added.
func (s *Scene) Apply(ps []placement.Placement) int {
	index := make(map[string]int, len(s.Items))
	for i, it := range s.Items {
		index[it.ID] = i
	}

	added := 0
	for _, p := range ps {
		pos := p.Anchor
		if i, ok := index[string(p.ID)]; ok {
			s.Items[i].Position = &pos
			s.Items[i].Lazy = false
			continue
		}
		index[string(p.ID)] = len(s.Items)
		s.Items = append(s.Items, Item{ID: string(p.ID), Footprint: p.Footprint, Position: &pos})
		added++
	}
	return added
}

// Lookup returns the item with the given id.
func (s *Scene) Lookup(id string) (Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Labels maps item ids to their display labels.
func (s *Scene) Labels() map[placement.ID]string {
	out := make(map[placement.ID]string, len(s.Items))
	for _, it := range s.Items {
		out[placement.ID(it.ID)] = it.DisplayLabel()
	}
	return out
}

// Validate checks the canvas, item ids and footprints. Ids must be unique.
func (s *Scene) Validate() error {
	if err := errors.ValidateCanvas(s.Canvas.Width, s.Canvas.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidScene, err, "canvas")
	}
	seen := make(map[string]bool, len(s.Items))
	for i, it := range s.Items {
		if err := errors.ValidateItemID(it.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "item %d", i)
		}
		if seen[it.ID] {
			return errors.New(errors.ErrCodeInvalidScene, "duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
		if err := errors.ValidateSize("footprint", it.Footprint.Width, it.Footprint.Height); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "item %q", it.ID)
		}
	}
	return nil
}

// =============================================================================
// Serialization API
// =============================================================================

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported scene file %q (want .json, .yaml or .yml)", path)
}

// IsSceneFile reports whether path has a scene file extension.
func IsSceneFile(path string) bool {
	_, err := FormatOf(path)
	return err == nil
}

// Marshal encodes the scene. JSON output is indented with two spaces.
func (s *Scene) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported scene format %q", format)
}

// Unmarshal decodes and validates a scene. Items without an id get a random
// UUID.
func Unmarshal(data []byte, format Format) (*Scene, error) {
	var s Scene
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &s)
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported scene format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode %s scene", format)
	}

	for i := range s.Items {
		if s.Items[i].ID == "" {
			s.Items[i].ID = uuid.NewString()
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ReadFile reads a scene file. The format follows the extension.
func ReadFile(path string) (*Scene, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return Unmarshal(data, format)
}

// WriteFile writes the scene to path. The format follows the extension.
// The file is created with 0644 permissions.
func WriteFile(s *Scene, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := s.Marshal(format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
