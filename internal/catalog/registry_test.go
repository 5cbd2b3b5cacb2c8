package catalog_test

import (
	"testing"

	"github.com/annelo/go-kitchen-server/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountIngredients_SkipsNone(t *testing.T) {
	counts := catalog.CountIngredients([]catalog.Ingredient{catalog.Rice, catalog.None, catalog.Rice, catalog.Nori})
	assert.Equal(t, catalog.Counts{catalog.Rice: 2, catalog.Nori: 1}, counts)
}

func TestCountRequirements(t *testing.T) {
	counts := catalog.CountRequirements([]catalog.Quantity{
		{Ingredient: catalog.Rice, Amount: 2},
		{Ingredient: catalog.Nori, Amount: 1},
		{Ingredient: catalog.Rice, Amount: 1},
	})
	assert.Equal(t, catalog.Counts{catalog.Rice: 3, catalog.Nori: 1}, counts)
}

func TestFindCompletedRecipe_ExactMatchOnly(t *testing.T) {
	reg := catalog.DefaultRegistry()

	tests := []struct {
		name  string
		board []catalog.Ingredient
		st    catalog.StationType
		want  string
	}{
		{"exact onigiri", []catalog.Ingredient{catalog.CookedRice, catalog.Nori}, catalog.ChoppingBoard, "onigiri_recipe"},
		{"reversed order", []catalog.Ingredient{catalog.Nori, catalog.CookedRice}, catalog.ChoppingBoard, "onigiri_recipe"},
		{"subset", []catalog.Ingredient{catalog.CookedRice}, catalog.ChoppingBoard, ""},
		{"superset", []catalog.Ingredient{catalog.CookedRice, catalog.Nori, catalog.Nori}, catalog.ChoppingBoard, ""},
		{"wrong station", []catalog.Ingredient{catalog.CookedRice, catalog.Nori}, catalog.Oven, ""},
		{"oven rice", []catalog.Ingredient{catalog.Rice}, catalog.Oven, "cooked_rice_recipe"},
		{"upgrade exact", []catalog.Ingredient{catalog.Ebi, catalog.Nori, catalog.CookedRice}, catalog.ChoppingBoard, "ebi_nigiri_recipe"},
		{"empty", nil, catalog.ChoppingBoard, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reg.FindCompletedRecipe(tt.board, tt.st)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

// Any recipe found must exactly match its own requirements at that station.
func TestFindCompletedRecipe_NoFalsePositives(t *testing.T) {
	reg := catalog.DefaultRegistry()
	all := []catalog.Ingredient{catalog.Rice, catalog.CookedRice, catalog.Nori, catalog.Ebi, catalog.SlicedCucumber, catalog.SlicedSalmon}
	stations := []catalog.StationType{catalog.Oven, catalog.ChoppingBoard}

	var boards [][]catalog.Ingredient
	var build func(prefix []catalog.Ingredient, depth int)
	build = func(prefix []catalog.Ingredient, depth int) {
		boards = append(boards, append([]catalog.Ingredient(nil), prefix...))
		if depth == 0 {
			return
		}
		for _, ing := range all {
			build(append(prefix, ing), depth-1)
		}
	}
	build(nil, 3)

	for _, st := range stations {
		for _, board := range boards {
			rec := reg.FindCompletedRecipe(board, st)
			if rec == nil {
				continue
			}
			assert.Equal(t, st, rec.StationType)
			assert.True(t, catalog.CountIngredients(board).Equal(catalog.CountRequirements(rec.Required)),
				"board %v matched %s", board, rec.ID)
		}
	}
}

func TestFindRecipeByResult(t *testing.T) {
	reg := catalog.DefaultRegistry()

	rec, ok := reg.FindRecipeByResult(catalog.Onigiri)
	require.True(t, ok)
	assert.Equal(t, "onigiri_recipe", rec.ID)

	rec, ok = reg.FindRecipeByResult(catalog.CookedRice)
	require.True(t, ok)
	assert.Equal(t, "cooked_rice_recipe", rec.ID)

	_, ok = reg.FindRecipeByResult(catalog.Nori)
	assert.False(t, ok)
}

func TestFindUpgrade(t *testing.T) {
	reg := catalog.DefaultRegistry()

	up, ok := reg.FindUpgrade("onigiri_recipe", catalog.Ebi, catalog.ChoppingBoard)
	require.True(t, ok)
	assert.Equal(t, "ebi_nigiri_recipe", up.ID)

	up, ok = reg.FindUpgrade("onigiri_recipe", catalog.SlicedCucumber, catalog.ChoppingBoard)
	require.True(t, ok)
	assert.Equal(t, "kappa_maki_recipe", up.ID)

	_, ok = reg.FindUpgrade("onigiri_recipe", catalog.Ebi, catalog.Oven)
	assert.False(t, ok, "upgrade must match the station")

	_, ok = reg.FindUpgrade("cooked_rice_recipe", catalog.Nori, catalog.ChoppingBoard)
	assert.False(t, ok, "onigiri is a base combination, not an upgrade of cooked rice")
}

func TestCanProgress(t *testing.T) {
	reg := catalog.DefaultRegistry()

	assert.True(t, reg.CanProgress([]catalog.Ingredient{catalog.Rice}, catalog.Oven))
	assert.False(t, reg.CanProgress([]catalog.Ingredient{catalog.Nori}, catalog.Oven))
	assert.True(t, reg.CanProgress([]catalog.Ingredient{catalog.SlicedCucumber, catalog.CookedRice}, catalog.ChoppingBoard))
	assert.False(t, reg.CanProgress([]catalog.Ingredient{catalog.Rice, catalog.Rice}, catalog.Oven))
	assert.False(t, reg.CanProgress([]catalog.Ingredient{catalog.Ebi, catalog.Salmon}, catalog.ChoppingBoard))
}

func TestServingRecipes_AreFinal(t *testing.T) {
	reg := catalog.DefaultRegistry()
	require.NotEmpty(t, reg.ServingRecipes())
	for _, rec := range reg.ServingRecipes() {
		def, ok := reg.Item(rec.Result.Ingredient)
		require.True(t, ok)
		assert.True(t, def.IsFinal, rec.ID)
	}
}

func TestNewRegistry_Validation(t *testing.T) {
	items := []catalog.ItemDefinition{
		{Ingredient: catalog.Rice},
		{Ingredient: catalog.Nori},
		{Ingredient: catalog.CookedRice, IsResult: true},
		{Ingredient: catalog.Onigiri, IsResult: true, IsFinal: true},
		{Ingredient: catalog.EbiNigiri, IsResult: true, IsFinal: true},
		{Ingredient: catalog.Ebi},
	}
	base := catalog.Recipe{
		ID:          "base",
		Result:      catalog.Quantity{Ingredient: catalog.Onigiri, Amount: 1},
		Required:    []catalog.Quantity{{Ingredient: catalog.CookedRice, Amount: 1}, {Ingredient: catalog.Nori, Amount: 1}},
		StationType: catalog.ChoppingBoard,
		ForServing:  true,
	}

	tests := []struct {
		name    string
		recipes []catalog.Recipe
		wantErr bool
	}{
		{"valid base", []catalog.Recipe{base}, false},
		{"duplicate id", []catalog.Recipe{base, base}, true},
		{"duplicate result without upgrade", []catalog.Recipe{base, func() catalog.Recipe {
			r := base
			r.ID = "other"
			return r
		}()}, true},
		{"unknown upgrade base", []catalog.Recipe{{
			ID:           "up",
			Result:       catalog.Quantity{Ingredient: catalog.EbiNigiri},
			Required:     []catalog.Quantity{{Ingredient: catalog.Ebi, Amount: 1}},
			StationType:  catalog.ChoppingBoard,
			UpgradesFrom: "missing",
		}}, true},
		{"upgrade adds two", []catalog.Recipe{base, {
			ID:           "up",
			Result:       catalog.Quantity{Ingredient: catalog.EbiNigiri},
			Required:     []catalog.Quantity{{Ingredient: catalog.CookedRice, Amount: 1}, {Ingredient: catalog.Nori, Amount: 1}, {Ingredient: catalog.Ebi, Amount: 2}},
			StationType:  catalog.ChoppingBoard,
			UpgradesFrom: "base",
		}}, true},
		{"valid upgrade", []catalog.Recipe{base, {
			ID:           "up",
			Result:       catalog.Quantity{Ingredient: catalog.EbiNigiri},
			Required:     []catalog.Quantity{{Ingredient: catalog.CookedRice, Amount: 1}, {Ingredient: catalog.Nori, Amount: 1}, {Ingredient: catalog.Ebi, Amount: 1}},
			StationType:  catalog.ChoppingBoard,
			UpgradesFrom: "base",
		}}, false},
		{"serving non-final", []catalog.Recipe{{
			ID:          "rice",
			Result:      catalog.Quantity{Ingredient: catalog.CookedRice},
			Required:    []catalog.Quantity{{Ingredient: catalog.Rice, Amount: 1}},
			StationType: catalog.Oven,
			ForServing:  true,
		}}, true},
		{"unregistered requirement", []catalog.Recipe{{
			ID:          "salmon",
			Result:      catalog.Quantity{Ingredient: catalog.CookedRice},
			Required:    []catalog.Quantity{{Ingredient: catalog.Salmon, Amount: 1}},
			StationType: catalog.Oven,
		}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.NewRegistry(items, tt.recipes)
			if tt.wantErr {
				assert.ErrorIs(t, err, catalog.ErrInvalidRecipe)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseNames(t *testing.T) {
	ing, err := catalog.ParseIngredient("cookedrice")
	require.NoError(t, err)
	assert.Equal(t, catalog.CookedRice, ing)

	_, err = catalog.ParseIngredient("durian")
	assert.ErrorIs(t, err, catalog.ErrUnknownIngredient)

	st, err := catalog.ParseStationType("ChoppingBoard")
	require.NoError(t, err)
	assert.Equal(t, catalog.ChoppingBoard, st)
}
