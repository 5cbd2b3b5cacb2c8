package kitchen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annelo/go-kitchen-server/internal/catalog"
)

func TestUpdateProcessingStations_ResetsOnVanishedRecipe(t *testing.T) {
	oven := newStation(catalog.Oven, catalog.None, 0)
	f := newFixture(t, oven)
	oven.Push(catalog.Rice)
	oven.StartProcessing("retired_recipe", time.Second, testStart)

	f.k.Recipes.UpdateProcessingStations(f.k.State.Stations, 500*time.Millisecond)
	require.True(t, oven.Processing())

	f.k.Recipes.UpdateProcessingStations(f.k.State.Stations, 500*time.Millisecond)
	assert.False(t, oven.IsActive)
	assert.Empty(t, oven.ProcessingRecipeID)
	assert.True(t, oven.Empty())
}

func TestCheckAndCompleteRecipe(t *testing.T) {
	board := newStation(catalog.ChoppingBoard, catalog.None, 0)
	f := newFixture(t, board)

	board.Push(catalog.Salmon)
	rec := f.k.Recipes.CheckAndCompleteRecipe(board)
	require.NotNil(t, rec)
	assert.Equal(t, "sliced_salmon_recipe", rec.ID)
	assert.Equal(t, []catalog.Ingredient{catalog.SlicedSalmon}, board.IngredientsOnBoard)

	assert.Nil(t, f.k.Recipes.CheckAndCompleteRecipe(board), "a lone result is not a recipe input")
	assert.True(t, f.k.Recipes.CheckRecipeProgress([]catalog.Ingredient{catalog.SlicedSalmon}, catalog.ChoppingBoard))
}
