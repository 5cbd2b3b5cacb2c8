package kitchen

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/annelo/go-kitchen-server/internal/catalog"
	"github.com/annelo/go-kitchen-server/internal/playermanager"
	"github.com/annelo/go-kitchen-server/internal/station"
)

type sentNotice struct {
	player  string
	notice  Notice
	message string
}

type recordingNotifier struct {
	sent       []sentNotice
	broadcasts []Notice
}

func (r *recordingNotifier) Notify(playerID string, n Notice, msg string) {
	r.sent = append(r.sent, sentNotice{player: playerID, notice: n, message: msg})
}

func (r *recordingNotifier) Broadcast(n Notice, _ string) {
	r.broadcasts = append(r.broadcasts, n)
}

func (r *recordingNotifier) last() Notice {
	if len(r.sent) == 0 {
		return ""
	}
	return r.sent[len(r.sent)-1].notice
}

type recordingControl struct {
	locked       int
	gameOvers    []int
	disconnected int
}

func (c *recordingControl) Lock()                   { c.locked++ }
func (c *recordingControl) BroadcastGameOver(s int) { c.gameOvers = append(c.gameOvers, s) }
func (c *recordingControl) DisconnectAll()          { c.disconnected++ }

var testStart = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		MatchDuration: 180 * time.Second,
		TimerChunk:    time.Second,
		EndGrace:      2 * time.Second,
		FlashDuration: 300 * time.Millisecond,
		Orders: OrderConfig{
			MinInterval:  time.Second,
			MaxInterval:  time.Second,
			MaxActive:    2,
			Deadline:     10 * time.Second,
			DefaultScore: 100,
		},
	}
}

type fixture struct {
	k        *Kitchen
	notifier *recordingNotifier
	control  *recordingControl
}

func newFixture(t *testing.T, stations ...*station.Station) *fixture {
	t.Helper()
	n := &recordingNotifier{}
	c := &recordingControl{}
	k := New(catalog.DefaultRegistry(), stations, "hash", testConfig(), Deps{
		Notifier: n,
		Control:  c,
		Rand:     rand.New(rand.NewSource(1)),
		Room:     "TEST01",
		Start:    testStart,
	})
	return &fixture{k: k, notifier: n, control: c}
}

func (f *fixture) addPlayer(t *testing.T, id string) *playermanager.Player {
	t.Helper()
	p, err := f.k.State.Players.AddPlayer(id, id, "")
	require.NoError(t, err)
	return p
}

// step продвигает симуляцию так же, как тик комнаты
func (f *fixture) step(dt time.Duration) {
	f.k.Clock.Advance(dt)
	f.k.Schedule.RunDue()
	f.k.Recipes.UpdateProcessingStations(f.k.State.Stations, dt)
	f.k.Orders.Update(dt, f.k.Orders.AvailableChairs())
	f.k.Timer.Update(dt)
}

func newStation(t catalog.StationType, ing catalog.Ingredient, idx int) *station.Station {
	return station.New(station.ID(t, ing, idx), t, ing)
}
