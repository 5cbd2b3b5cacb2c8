package kitchen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annelo/go-kitchen-server/internal/catalog"
	"github.com/annelo/go-kitchen-server/internal/station"
)

func seatFixture(t *testing.T, seats int) (*fixture, []*station.Station) {
	t.Helper()
	var list []*station.Station
	for i := 0; i < seats; i++ {
		list = append(list, newStation(catalog.ServingOrder, catalog.None, i))
	}
	f := newFixture(t, list...)
	f.k.Start()
	return f, list
}

func TestOrders_SpawnAfterIntervalOnFreeSeat(t *testing.T) {
	f, seats := seatFixture(t, 1)

	f.step(500 * time.Millisecond)
	assert.Empty(t, f.k.State.Orders)

	f.step(500 * time.Millisecond)
	require.Len(t, f.k.State.Orders, 1)
	o := f.k.State.Orders[0]
	assert.Equal(t, seats[0].ID, o.ChairID)
	assert.False(t, seats[0].Disabled, "seat opens for its order")
	assert.Equal(t, testStart.Add(time.Second+10*time.Second), o.Deadline)
	assert.Contains(t, CustomerTypes, o.CustomerType)

	rec, ok := f.k.Registry.Recipe(o.RecipeID)
	require.True(t, ok)
	assert.True(t, rec.ForServing)

	// the only seat is taken
	f.step(time.Second)
	assert.Len(t, f.k.State.Orders, 1)
	assert.Empty(t, f.k.Orders.AvailableChairs())
}

func TestOrders_RespectsCap(t *testing.T) {
	f, _ := seatFixture(t, 4)
	for i := 0; i < 6; i++ {
		f.step(time.Second)
	}
	assert.Len(t, f.k.State.Orders, 2)
	assert.Len(t, f.k.Orders.AvailableChairs(), 2)
}

func TestOrders_Expire(t *testing.T) {
	f, seats := seatFixture(t, 1)
	f.step(time.Second)
	require.Len(t, f.k.State.Orders, 1)

	f.step(5 * time.Second)
	require.Len(t, f.k.State.Orders, 1)
	assert.Equal(t, 5*time.Second, f.k.State.Orders[0].TimeLeft)

	f.step(5 * time.Second)
	assert.Empty(t, f.k.State.Orders)
	assert.True(t, seats[0].Disabled)
	assert.Equal(t, []Notice{NoticeOrderExpired}, f.notifier.broadcasts)
	assert.Equal(t, []int{seats[0].ID}, f.k.Orders.AvailableChairs())
}

func TestServe_CompletesOrderAndLeavesDirtyPlate(t *testing.T) {
	f, seats := seatFixture(t, 1)
	seat := seats[0]
	p := f.addPlayer(t, "p1")

	f.step(time.Second)
	require.Len(t, f.k.State.Orders, 1)
	o := f.k.State.Orders[0]
	o.RecipeID = "onigiri_recipe"

	p.HoldingPlate = true
	p.HeldIngredient = catalog.Onigiri
	f.k.Interactions.HandleInteraction("p1", seat.ID)

	assert.Equal(t, NoticeOrderCompleted, f.notifier.last())
	assert.True(t, o.Completed)
	assert.Equal(t, 100, f.k.State.Score)
	assert.True(t, seat.HasDirtyPlate)
	assert.True(t, seat.Disabled)
	assert.True(t, p.EmptyHanded())

	// cleanup removes the order; the dirty seat opens for pickup only
	f.step(50 * time.Millisecond)
	assert.Empty(t, f.k.State.Orders)
	assert.False(t, seat.Disabled)
	assert.Empty(t, f.k.Orders.AvailableChairs())

	// no new order lands on a dirty seat
	f.step(2 * time.Second)
	assert.Empty(t, f.k.State.Orders)

	// empty-handed pickup cleans the seat
	require.NoError(t, f.k.Interactions.Resolve("p1", seat.ID))
	assert.True(t, p.HoldingPlate)
	assert.False(t, seat.HasDirtyPlate)
	assert.True(t, seat.Disabled)
	assert.Equal(t, []int{seat.ID}, f.k.Orders.AvailableChairs())
}

func TestServe_Rejections(t *testing.T) {
	f, seats := seatFixture(t, 2)
	p := f.addPlayer(t, "p1")
	f.step(time.Second)
	require.Len(t, f.k.State.Orders, 1)
	o := f.k.State.Orders[0]
	o.RecipeID = "salmon_nigiri_recipe"

	var emptySeat *station.Station
	for _, s := range seats {
		if s.ID != o.ChairID {
			emptySeat = s
		}
	}
	emptySeat.Disabled = false

	p.HeldIngredient = catalog.SalmonNigiri
	requireRejection(t, f.k.Interactions.Resolve("p1", o.ChairID), NoticeNeedPlate)

	p.HoldingPlate = true
	p.HeldIngredient = catalog.None
	requireRejection(t, f.k.Interactions.Resolve("p1", o.ChairID), NoticeNoIngredient)

	p.HeldIngredient = catalog.Onigiri
	requireRejection(t, f.k.Interactions.Resolve("p1", o.ChairID), NoticeWrongOrder)
	requireRejection(t, f.k.Interactions.Resolve("p1", emptySeat.ID), NoticeNoOrderHere)

	assert.False(t, o.Completed)
	assert.Zero(t, f.k.State.Score)

	p.HeldIngredient = catalog.SalmonNigiri
	require.NoError(t, f.k.Interactions.Resolve("p1", o.ChairID))
	assert.Equal(t, 120, f.k.State.Score)

	// a completed order cannot be served twice
	p.HoldingPlate = true
	p.HeldIngredient = catalog.SalmonNigiri
	seat, _ := f.k.State.Station(o.ChairID)
	seat.Disabled = false
	seat.HasDirtyPlate = false
	requireRejection(t, f.k.Interactions.Resolve("p1", o.ChairID), NoticeNoOrderHere)
	assert.Equal(t, 120, f.k.State.Score)
}

func TestServe_DefaultScore(t *testing.T) {
	f, _ := seatFixture(t, 1)
	p := f.addPlayer(t, "p1")
	f.step(time.Second)
	require.Len(t, f.k.State.Orders, 1)
	o := f.k.State.Orders[0]
	o.RecipeID = "zero_score"

	// score falls back to the default when the recipe has none
	f.k.Orders.reg = mustRegistry(t, catalog.Recipe{
		ID:          "zero_score",
		Result:      catalog.Quantity{Ingredient: catalog.KappaMaki},
		Required:    []catalog.Quantity{{Ingredient: catalog.Cucumber, Amount: 1}, {Ingredient: catalog.Nori, Amount: 1}},
		StationType: catalog.ChoppingBoard,
		ForServing:  true,
	})
	p.HoldingPlate = true
	p.HeldIngredient = catalog.KappaMaki
	require.NoError(t, f.k.Interactions.Resolve("p1", o.ChairID))
	assert.Equal(t, 100, f.k.State.Score)
}

func mustRegistry(t *testing.T, recipes ...catalog.Recipe) *catalog.Registry {
	t.Helper()
	reg, err := catalog.NewRegistry(catalog.DefaultItems, recipes)
	require.NoError(t, err)
	return reg
}
