package buildings

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "id": "town-hall",
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]],[[4,4],[6,4],[6,6],[4,6],[4,4]]]},
      "properties": {
        "name": "Town hall",
        "temperature": {
          "2020-12-19 10:04:26.7534760Z": {"tMeanInside": 3.5, "tMeanOutside": 2.5, "tMeanOutsideNature": 1.0},
          "2020-11-17 10:04:26.7534760Z": {"tMeanInside": 1.5, "tMeanOutside": 2.0, "tMeanOutsideNature": null}
        }
      }
    },
    {
      "type": "Feature",
      "id": 4711,
      "geometry": {"type": "MultiPolygon", "coordinates": [[[[20,0],[25,0],[25,5],[20,5],[20,0]]],[[[30,0],[35,0],[35,5],[30,5],[30,0]]]]},
      "properties": {
        "temperature": {
          "2021-02-21 10:00:00Z": {"tMeanInside": -1.0, "tMeanOutside": 0.5, "tMeanOutsideNature": -0.5}
        }
      }
    },
    {
      "type": "Feature",
      "geometry": {"type": "Polygon", "coordinates": [[[5,5],[15,5],[15,15],[5,15],[5,5]]]},
      "properties": {"osm_id": 99}
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [50, 50]},
      "properties": {}
    }
  ]
}`

func loadTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Load(strings.NewReader(testCollection))
	require.NoError(t, err)
	return s
}

func TestLoad(t *testing.T) {
	s := loadTestStore(t)
	require.Equal(t, 4, s.Len())

	ids := make([]string, 0, s.Len())
	for _, b := range s.All() {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"town-hall", "4711", "99", "3"}, ids)

	b, err := s.Get("town-hall")
	require.NoError(t, err)
	assert.Equal(t, "Town hall", b.Properties["name"])
	require.Len(t, b.Temperature, 2)

	r := b.Temperature["2020-11-17 10:04:26.7534760Z"]
	assert.Equal(t, 1.5, r.Inside)
	assert.Equal(t, 2.0, r.Outside)
	assert.True(t, math.IsNaN(r.OutsideNature), "null reads as NaN")

	empty, err := s.Get("99")
	require.NoError(t, err)
	assert.Empty(t, empty.Temperature)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "{"},
		{"wrong type", `{"type": "Feature"}`},
		{"bad geometry", `{"type": "FeatureCollection", "features": [{"type": "Feature", "geometry": {"type": "Polygon", "coordinates": 5}, "properties": {}}]}`},
		{"duplicate id", `{"type": "FeatureCollection", "features": [
			{"type": "Feature", "id": "a", "geometry": {"type": "Point", "coordinates": [0, 0]}, "properties": {}},
			{"type": "Feature", "id": "a", "geometry": {"type": "Point", "coordinates": [1, 1]}, "properties": {}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buildings.geo.json")
	require.NoError(t, os.WriteFile(path, []byte(testCollection), 0600))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestStore_Get_NotFound(t *testing.T) {
	s := loadTestStore(t)
	_, err := s.Get("nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_At(t *testing.T) {
	s := loadTestStore(t)

	tests := []struct {
		name     string
		lon, lat float64
		expected string
	}{
		{"outer ring", 1, 1, "town-hall"},
		{"hole falls through to next footprint", 5.5, 5.5, "99"},
		{"overlap prefers file order", 8, 8, "town-hall"},
		{"first part of multipolygon", 22, 2, "4711"},
		{"second part of multipolygon", 33, 3, "4711"},
		{"only second footprint", 14, 14, "99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := s.At(tt.lon, tt.lat)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, b.ID)
		})
	}

	_, err := s.At(27, 2)
	assert.True(t, errors.Is(err, ErrNotFound), "gap between multipolygon parts")
	_, err = s.At(50, 50)
	assert.True(t, errors.Is(err, ErrNotFound), "points are not footprints")
	_, err = s.At(-50, -50)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_Times(t *testing.T) {
	s := loadTestStore(t)
	assert.Equal(t, []string{
		"2020-11-17 10:04:26.7534760Z",
		"2020-12-19 10:04:26.7534760Z",
		"2021-02-21 10:00:00Z",
	}, s.Times())
}

func TestStore_All_IsCopy(t *testing.T) {
	s := loadTestStore(t)
	all := s.All()
	all[0] = nil
	assert.NotNil(t, s.All()[0])
}

func TestNewStore(t *testing.T) {
	s, err := NewStore(&Building{ID: "a"}, &Building{ID: "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	_, err = s.At(0, 0)
	assert.True(t, errors.Is(err, ErrNotFound), "buildings without geometry never match")

	_, err = NewStore(&Building{ID: "a"}, &Building{ID: "a"})
	assert.Error(t, err)
}
