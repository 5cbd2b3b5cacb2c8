package layout_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annelo/go-kitchen-server/internal/catalog"
	"github.com/annelo/go-kitchen-server/internal/layout"
	"github.com/annelo/go-kitchen-server/internal/station"
)

func TestDefault_IsValid(t *testing.T) {
	l := layout.Default()
	require.NoError(t, l.Validate(catalog.DefaultRegistry()))
	assert.Equal(t, "sushi-bar", l.Name)

	stations := l.Build()
	require.Len(t, stations, len(l.Stations))
	seen := make(map[int]bool)
	for _, st := range stations {
		assert.False(t, seen[st.ID], "duplicate id %d", st.ID)
		seen[st.ID] = true
	}
}

func TestBuild_IndexesPerTypeAndIngredient(t *testing.T) {
	l, err := layout.Parse([]byte(`
stations:
  - {type: Oven}
  - {type: Stock, ingredient: Rice}
  - {type: Oven}
  - {type: stock, ingredient: nori}
  - {type: Stock, ingredient: Rice}
`))
	require.NoError(t, err)
	require.NoError(t, l.Validate(catalog.DefaultRegistry()))

	var ids []int
	for _, st := range l.Build() {
		ids = append(ids, st.ID)
	}
	assert.Equal(t, []int{
		station.ID(catalog.Oven, catalog.None, 0),
		station.ID(catalog.Stock, catalog.Rice, 0),
		station.ID(catalog.Oven, catalog.None, 1),
		station.ID(catalog.Stock, catalog.Nori, 0),
		station.ID(catalog.Stock, catalog.Rice, 1),
	}, ids)
}

func TestBuild_CarriesPositions(t *testing.T) {
	l, err := layout.Parse([]byte(`
stations:
  - {type: Oven, x: 1.5, z: 2}
  - {type: Oven, x: 3, z: 2}
`))
	require.NoError(t, err)
	require.NoError(t, l.Validate(catalog.DefaultRegistry()))

	stations := l.Build()
	require.Len(t, stations, 2)
	assert.Equal(t, station.ID(catalog.Oven, catalog.None, 0), stations[0].ID)
	assert.Equal(t, station.ID(catalog.Oven, catalog.None, 1), stations[1].ID, "positions do not split the index")
	assert.Equal(t, 1.5, stations[0].X)
	assert.Equal(t, 2.0, stations[0].Z)
	assert.Equal(t, 3.0, stations[1].X)

	moved, err := layout.Parse([]byte("stations: [{type: Oven, x: 9}, {type: Oven}]"))
	require.NoError(t, err)
	assert.Equal(t, l.Hash(), moved.Hash(), "moving a station keeps its id")
}

func TestDefault_StationsArePlaced(t *testing.T) {
	stations := layout.Default().Build()
	last := stations[len(stations)-1]
	assert.Equal(t, catalog.ServingOrder, last.Type)
	assert.Equal(t, 6.0, last.X)
	assert.Equal(t, 6.0, last.Z)
}

func TestBuild_ReturnsFreshStations(t *testing.T) {
	l := layout.Default()
	a, b := l.Build(), l.Build()
	a[0].Push(catalog.Rice)
	assert.True(t, b[0].Empty())
}

func TestHash(t *testing.T) {
	parse := func(src string) *layout.Layout {
		l, err := layout.Parse([]byte(src))
		require.NoError(t, err)
		return l
	}
	a := parse("stations: [{type: Oven}, {type: Trash}]")
	b := parse("name: other\nstations: [{type: Oven}, {type: Trash}]")
	c := parse("stations: [{type: Trash}, {type: Oven}]")

	assert.Len(t, a.Hash(), 16)
	assert.Equal(t, a.Hash(), b.Hash(), "the name does not change station ids")
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.Equal(t, layout.Default().Hash(), layout.Default().Hash())
}

func TestValidate(t *testing.T) {
	reg := catalog.DefaultRegistry()
	cases := []struct {
		name string
		src  string
		err  error
	}{
		{"empty", "name: x", layout.ErrNoStations},
		{"missing type", "stations: [{ingredient: Rice}]", layout.ErrBadStation},
		{"stock without ingredient", "stations: [{type: Stock}]", layout.ErrBadStation},
		{"oven with ingredient", "stations: [{type: Oven, ingredient: Rice}]", layout.ErrBadStation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := layout.Parse([]byte(tc.src))
			require.NoError(t, err)
			assert.ErrorIs(t, l.Validate(reg), tc.err)
		})
	}
}

func TestParse_UnknownNames(t *testing.T) {
	_, err := layout.Parse([]byte("stations: [{type: Microwave}]"))
	assert.Error(t, err)
	_, err = layout.Parse([]byte("stations: [{type: Stock, ingredient: Tofu}]"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	l, err := layout.Load("")
	require.NoError(t, err)
	assert.Equal(t, layout.Default().Hash(), l.Hash())

	path := filepath.Join(t.TempDir(), "k.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: tiny\nstations: [{type: Trash}]\n"), 0o644))
	l, err = layout.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tiny", l.Name)

	_, err = layout.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
