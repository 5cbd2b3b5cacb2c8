package kitchen

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/annelo/go-kitchen-server/internal/catalog"
	"github.com/annelo/go-kitchen-server/internal/events"
	"github.com/annelo/go-kitchen-server/internal/station"
)

// Config игровые параметры одной кухни
type Config struct {
	MatchDuration time.Duration
	TimerChunk    time.Duration
	EndGrace      time.Duration
	FlashDuration time.Duration
	Orders        OrderConfig
}

// Deps внешние зависимости кухни
type Deps struct {
	Notifier Notifier
	Control  MatchControl
	Events   events.Sink
	Logger   *zap.SugaredLogger
	Rand     *rand.Rand
	Room     string
	Start    time.Time
}

// Kitchen собирает состояние и сервисы одной комнаты
type Kitchen struct {
	Registry     *catalog.Registry
	State        *State
	Clock        *Clock
	Schedule     *Schedule
	Recipes      *RecipeService
	Orders       *OrderService
	Interactions *InteractionService
	Timer        *GameTimer

	events events.Sink
	room   string
	logger *zap.SugaredLogger
}

// New создает кухню из станций карты
func New(reg *catalog.Registry, stations []*station.Station, mapHash string, cfg Config, deps Deps) *Kitchen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	if deps.Events == nil {
		deps.Events = events.Discard
	}
	if deps.Start.IsZero() {
		deps.Start = time.Now()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(deps.Start.UnixNano()))
	}

	clock := NewClock(deps.Start)
	state := NewState(stations, mapHash, cfg.MatchDuration)
	schedule := NewSchedule(clock)
	recipes := NewRecipeService(reg, clock, deps.Logger)
	orders := NewOrderService(cfg.Orders, state, reg, OrderDeps{
		Clock:    clock,
		Rand:     deps.Rand,
		Mood:     NewCustomerMood(deps.Rand.Int63()),
		Notifier: deps.Notifier,
		Events:   deps.Events,
		Room:     deps.Room,
		Logger:   deps.Logger,
	})
	interactions := NewInteractionService(state, reg, InteractionDeps{
		Recipes:       recipes,
		Orders:        orders,
		Schedule:      schedule,
		Clock:         clock,
		FlashDuration: cfg.FlashDuration,
	}, deps.Notifier, deps.Logger)
	timer := NewGameTimer(GameTimerConfig{Chunk: cfg.TimerChunk, EndGrace: cfg.EndGrace},
		state, schedule, clock, deps.Control, deps.Events, deps.Room, deps.Logger)

	return &Kitchen{
		Registry:     reg,
		State:        state,
		Clock:        clock,
		Schedule:     schedule,
		Recipes:      recipes,
		Orders:       orders,
		Interactions: interactions,
		Timer:        timer,
		events:       deps.Events,
		room:         deps.Room,
		logger:       deps.Logger,
	}
}

// Start переводит матч из ожидания в игру
func (k *Kitchen) Start() bool {
	if k.State.Phase != PhaseWaiting {
		return false
	}
	k.State.Phase = PhasePlaying
	k.Orders.Start()
	k.logger.Infof("match in room %s started", k.room)
	k.events.Emit(events.Event{Subject: events.SubjectMatchStarted, Room: k.room, At: k.Clock.Now()})
	return true
}

// Playing сообщает, идет ли матч
func (k *Kitchen) Playing() bool {
	return k.State.Phase == PhasePlaying
}
