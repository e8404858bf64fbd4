package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/icongrid/pkg/errors"
	"github.com/matzehuels/icongrid/pkg/geom"
)

// parsePoint parses a canvas point like "120,48".
func parsePoint(s string) (geom.Point, error) {
	x, y, err := parsePair(s, ",")
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return geom.Point{X: x, Y: y}, nil
}

// parseSize parses a footprint like "72x90".
func parseSize(s string) (geom.Size, error) {
	w, h, err := parsePair(strings.ToLower(s), "x")
	if err != nil {
		return geom.Size{}, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if err := errors.ValidateSize("size", w, h); err != nil {
		return geom.Size{}, err
	}
	return geom.Size{Width: w, Height: h}, nil
}

func parsePair(s, sep string) (float64, float64, error) {
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want two numbers separated by %q", sep)
	}
	var out [2]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, fmt.Errorf("invalid number %q", p)
		}
		out[i] = v
	}
	return out[0], out[1], nil
}

// parseIDs splits a comma-separated id list, dropping empty entries and
// duplicates while keeping the first occurrence's order.
func parseIDs(s string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range strings.Split(s, ",") {
		id := strings.TrimSpace(p)
		if id == "" || seen[id] {
			continue
		}
		if err := errors.ValidateItemID(id); err != nil {
			return nil, err
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("need at least one item id")
	}
	return out, nil
}
