package buildings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/xy"
)

var (
	// ErrNotFound is returned when no building matches an id or location.
	ErrNotFound = errors.New("building not found")
	// ErrNoTemperature is returned for buildings without any reading.
	ErrNoTemperature = errors.New("building has no temperature readings")
)

// Building is one footprint of the buildings layer.
type Building struct {
	ID          string
	Geometry    geom.T
	Properties  map[string]interface{}
	Temperature map[string]Reading

	bounds *geom.Bounds
}

// Contains reports whether (lon, lat) lies inside the footprint. Points
// inside a hole are outside.
func (b *Building) Contains(lon, lat float64) bool {
	if b.Geometry == nil || b.bounds == nil {
		return false
	}
	c := geom.Coord{lon, lat}
	if !b.bounds.OverlapsPoint(geom.XY, c) {
		return false
	}
	switch g := b.Geometry.(type) {
	case *geom.Polygon:
		return polygonContains(g, c)
	case *geom.MultiPolygon:
		for i := 0; i < g.NumPolygons(); i++ {
			if polygonContains(g.Polygon(i), c) {
				return true
			}
		}
	}
	return false
}

func polygonContains(p *geom.Polygon, c geom.Coord) bool {
	if p.NumLinearRings() == 0 {
		return false
	}
	if !xy.IsPointInRing(p.Layout(), c, p.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < p.NumLinearRings(); i++ {
		if xy.IsPointInRing(p.Layout(), c, p.LinearRing(i).FlatCoords()) {
			return false
		}
	}
	return true
}

// Store holds the buildings layer in file order.
type Store struct {
	buildings []*Building
	byID      map[string]*Building
}

// NewStore indexes buildings by id. Ids must be unique.
func NewStore(buildings ...*Building) (*Store, error) {
	s := &Store{
		buildings: buildings,
		byID:      make(map[string]*Building, len(buildings)),
	}
	for _, b := range buildings {
		if _, ok := s.byID[b.ID]; ok {
			return nil, fmt.Errorf("duplicate building id %q", b.ID)
		}
		if b.Geometry != nil && b.bounds == nil {
			b.bounds = b.Geometry.Bounds()
		}
		s.byID[b.ID] = b
	}
	return s, nil
}

// LoadFile reads a GeoJSON FeatureCollection from path.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open buildings file: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

type rawCollection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

// Load reads a GeoJSON FeatureCollection. Each feature carries a
// "temperature" property mapping acquisition timestamps to readings.
func Load(r io.Reader) (*Store, error) {
	var raw rawCollection
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode feature collection: %w", err)
	}
	if raw.Type != "FeatureCollection" {
		return nil, fmt.Errorf("expected FeatureCollection, got %q", raw.Type)
	}

	buildings := make([]*Building, 0, len(raw.Features))
	for i, msg := range raw.Features {
		b, err := decodeFeature(msg, i)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		buildings = append(buildings, b)
	}
	slog.Debug("Loaded buildings", "count", len(buildings))
	return NewStore(buildings...)
}

// decodeFeature takes the id out before handing the feature to geojson,
// since OSM exports use numeric ids.
func decodeFeature(msg json.RawMessage, index int) (*Building, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil {
		return nil, err
	}
	rawID := fields["id"]
	delete(fields, "id")
	stripped, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	var f geojson.Feature
	if err := json.Unmarshal(stripped, &f); err != nil {
		return nil, err
	}

	b := &Building{
		ID:          featureID(rawID, f.Properties, index),
		Geometry:    f.Geometry,
		Properties:  f.Properties,
		Temperature: parseTemperature(f.Properties["temperature"]),
	}
	if b.Geometry != nil {
		b.bounds = b.Geometry.Bounds()
	}
	return b, nil
}

func featureID(raw json.RawMessage, props map[string]interface{}, index int) string {
	if len(raw) > 0 {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err == nil {
			if id, ok := idString(v); ok {
				return id
			}
		}
	}
	for _, key := range []string{"id", "osm_id"} {
		if id, ok := idString(props[key]); ok {
			return id
		}
	}
	return strconv.Itoa(index)
}

func idString(v interface{}) (string, bool) {
	switch v := v.(type) {
	case string:
		if v != "" {
			return v, true
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

func parseTemperature(v interface{}) map[string]Reading {
	out := map[string]Reading{}
	entries, ok := v.(map[string]interface{})
	if !ok {
		return out
	}
	for t, e := range entries {
		values, _ := e.(map[string]interface{})
		out[t] = Reading{
			Inside:        number(values["tMeanInside"]),
			Outside:       number(values["tMeanOutside"]),
			OutsideNature: number(values["tMeanOutsideNature"]),
		}
	}
	return out
}

func number(v interface{}) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return math.NaN()
}

// Len returns the number of buildings.
func (s *Store) Len() int {
	return len(s.buildings)
}

// Get returns the building with the given id.
func (s *Store) Get(id string) (*Building, error) {
	b, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return b, nil
}

// All returns the buildings in file order.
func (s *Store) All() []*Building {
	out := make([]*Building, len(s.buildings))
	copy(out, s.buildings)
	return out
}

// At returns the first building whose footprint contains (lon, lat).
func (s *Store) At(lon, lat float64) (*Building, error) {
	for _, b := range s.buildings {
		if b.Contains(lon, lat) {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w at %g,%g", ErrNotFound, lon, lat)
}

// Times returns every acquisition timestamp of the layer in ascending order.
func (s *Store) Times() []string {
	seen := map[string]struct{}{}
	for _, b := range s.buildings {
		for t := range b.Temperature {
			seen[t] = struct{}{}
		}
	}
	times := make([]string, 0, len(seen))
	for t := range seen {
		times = append(times, t)
	}
	sort.Strings(times)
	return times
}
