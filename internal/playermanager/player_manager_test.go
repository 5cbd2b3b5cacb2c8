package playermanager_test

import (
	"testing"
	"time"

	"github.com/annelo/go-kitchen-server/internal/catalog"
	"github.com/annelo/go-kitchen-server/internal/playermanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerManager_AddGetRemove(t *testing.T) {
	pm := playermanager.NewPlayerManager()

	// Add
	p, err := pm.AddPlayer("player1", "Alice", "tok-1")
	require.NoError(t, err)
	assert.True(t, p.Connected)
	assert.True(t, p.EmptyHanded())

	// Duplicate add should error
	_, err = pm.AddPlayer("player1", "Alice", "tok-1")
	assert.ErrorIs(t, err, playermanager.ErrPlayerExists)

	// Get
	got, err := pm.GetPlayer("player1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	// Update transform
	require.NoError(t, pm.UpdatePlayerTransform("player1", playermanager.Vec3{X: 10, Y: 5}, 1.5, "walk"))
	assert.Equal(t, 10.0, got.Position.X)
	assert.Equal(t, "walk", got.AnimationState)

	// Token lookup
	byToken, err := pm.FindByToken("tok-1")
	require.NoError(t, err)
	assert.Same(t, got, byToken)
	_, err = pm.FindByToken("")
	assert.ErrorIs(t, err, playermanager.ErrPlayerNotFound)

	// Remove
	require.NoError(t, pm.RemovePlayer("player1"))
	_, err = pm.GetPlayer("player1")
	assert.ErrorIs(t, err, playermanager.ErrPlayerNotFound)
	assert.ErrorIs(t, pm.RemovePlayer("player1"), playermanager.ErrPlayerNotFound)
}

func TestPlayerManager_ConnectedCount(t *testing.T) {
	pm := playermanager.NewPlayerManager()
	_, _ = pm.AddPlayer("b", "Bob", "")
	_, _ = pm.AddPlayer("a", "Ann", "")

	now := time.Unix(50, 0)
	require.NoError(t, pm.SetConnected("a", false, now))
	assert.Equal(t, 2, pm.Count())
	assert.Equal(t, 1, pm.ConnectedCount())

	a, _ := pm.GetPlayer("a")
	assert.Equal(t, now, a.DisconnectedAt)

	all := pm.GetAllPlayers()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
}

func TestPlayer_HandsValid(t *testing.T) {
	reg := catalog.DefaultRegistry()
	p := &playermanager.Player{}

	assert.True(t, p.HandsValid(reg))

	p.HoldingPlate = true
	p.HeldIngredient = catalog.Onigiri
	assert.True(t, p.HandsValid(reg))

	p.HeldIngredient = catalog.CookedRice
	assert.False(t, p.HandsValid(reg))

	assert.Equal(t, catalog.CookedRice, p.TakeIngredient())
	assert.False(t, p.HoldsIngredient())
	p.ClearHands()
	assert.True(t, p.EmptyHanded())
}
