package kitchen

import (
	"time"

	"go.uber.org/zap"

	"github.com/annelo/go-kitchen-server/internal/events"
)

// GameTimer обратный отсчет матча. Время списывается порциями по chunk,
// чтобы не менять реплицируемое поле каждый тик.
type GameTimer struct {
	state    *State
	control  MatchControl
	schedule *Schedule
	events   events.Sink
	clock    *Clock
	room     string
	logger   *zap.SugaredLogger

	chunk    time.Duration
	endGrace time.Duration
	pending  time.Duration
	finished bool
}

// GameTimerConfig параметры таймера
type GameTimerConfig struct {
	Chunk    time.Duration
	EndGrace time.Duration
}

func NewGameTimer(cfg GameTimerConfig, state *State, schedule *Schedule, clock *Clock, control MatchControl, sink events.Sink, room string, logger *zap.SugaredLogger) *GameTimer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if control == nil {
		control = nopControl{}
	}
	if sink == nil {
		sink = events.Discard
	}
	if cfg.Chunk <= 0 {
		cfg.Chunk = time.Second
	}
	return &GameTimer{
		state:    state,
		control:  control,
		schedule: schedule,
		events:   sink,
		clock:    clock,
		room:     room,
		logger:   logger,
		chunk:    cfg.Chunk,
		endGrace: cfg.EndGrace,
	}
}

// Update копит прошедшее время и списывает его с TimeLeft целыми порциями
func (t *GameTimer) Update(dt time.Duration) {
	if t.finished || t.state.Phase != PhasePlaying {
		return
	}
	t.pending += dt
	for t.pending >= t.chunk && t.state.TimeLeft > 0 {
		t.pending -= t.chunk
		t.state.TimeLeft -= t.chunk
	}
	if t.state.TimeLeft <= 0 {
		t.state.TimeLeft = 0
		t.EndGame()
	}
}

// Finished сообщает, завершен ли матч
func (t *GameTimer) Finished() bool {
	return t.finished
}

// EndGame завершает матч. Повторные вызовы ничего не делают.
func (t *GameTimer) EndGame() {
	if t.finished {
		return
	}
	t.finished = true
	t.state.Phase = PhaseFinished

	t.logger.Infof("match in room %s finished with score %d", t.room, t.state.Score)
	t.control.Lock()
	t.control.BroadcastGameOver(t.state.Score)
	t.events.Emit(events.Event{
		Subject: events.SubjectMatchFinished,
		Room:    t.room,
		Score:   t.state.Score,
		At:      t.clock.Now(),
	})
	// пауза, чтобы gameOver успел дойти до клиентов
	t.schedule.After(t.endGrace, t.control.DisconnectAll)
}
