// Package room содержит комнату матча: одна горутина владеет кухней,
// принимает команды игроков через Inbox и двигает симуляцию по тикеру.
package room

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/annelo/go-kitchen-server/internal/catalog"
	"github.com/annelo/go-kitchen-server/internal/config"
	"github.com/annelo/go-kitchen-server/internal/events"
	"github.com/annelo/go-kitchen-server/internal/gameloop"
	"github.com/annelo/go-kitchen-server/internal/kitchen"
	"github.com/annelo/go-kitchen-server/internal/layout"
	"github.com/annelo/go-kitchen-server/internal/playermanager"
	"github.com/annelo/go-kitchen-server/pkg/protocol"
)

const maxChatLen = 200

// Options параметры, общие для всех комнат сервера
type Options struct {
	TickHz         int
	BroadcastEvery int
	MaxPlayers     int
	ReconnectGrace time.Duration
	Kitchen        kitchen.Config
	Registry       *catalog.Registry
	Layout         *layout.Layout
	Events         events.Sink
	Logger         *zap.SugaredLogger
	// Seed 0 означает случайный сид для каждой комнаты
	Seed int64
}

// OptionsFromConfig переносит настройки сервера в параметры комнаты
func OptionsFromConfig(cfg config.Config, reg *catalog.Registry, lay *layout.Layout, sink events.Sink, logger *zap.SugaredLogger) Options {
	return Options{
		TickHz:         cfg.Game.TickHz,
		BroadcastEvery: cfg.BroadcastEvery(),
		MaxPlayers:     cfg.Game.MaxPlayers,
		ReconnectGrace: cfg.Game.ReconnectGrace,
		Kitchen: kitchen.Config{
			MatchDuration: cfg.Game.MatchDuration,
			TimerChunk:    cfg.Game.TimerChunk,
			EndGrace:      cfg.Game.EndGrace,
			FlashDuration: cfg.Stations.FlashDuration,
			Orders: kitchen.OrderConfig{
				MinInterval:  cfg.Orders.MinInterval,
				MaxInterval:  cfg.Orders.MaxInterval,
				MaxActive:    cfg.Orders.MaxActive,
				Deadline:     cfg.Orders.Deadline,
				DefaultScore: cfg.Orders.DefaultScore,
			},
		},
		Registry: reg,
		Layout:   lay,
		Events:   sink,
		Logger:   logger,
	}
}

// Info сводка комнаты для списка комнат
type Info struct {
	Code      string `json:"code"`
	Players   int    `json:"players"`
	Connected int    `json:"connected"`
	Phase     string `json:"phase"`
	Score     int    `json:"score"`
	TimeLeft  int64  `json:"timeLeftMs"`
	Locked    bool   `json:"locked"`
}

type Room struct {
	Inbox chan any

	Code    string
	OnEmpty func(code string)

	opts    Options
	kitchen *kitchen.Kitchen
	loop    *gameloop.Loop
	clients map[string]Conn
	locked  bool
	tick    uint64
	// idleArmed взведена проверка пустой комнаты, emptied OnEmpty уже вызван
	idleArmed bool
	emptied   bool
	logger  *zap.SugaredLogger

	ctx      context.Context
	cancel   context.CancelFunc
	quit     chan struct{}
	stopOnce sync.Once

	mu   sync.RWMutex
	info Info
}

// New создает комнату с кухней по карте из opts.Layout
func New(code string, opts Options) *Room {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Registry == nil {
		opts.Registry = catalog.DefaultRegistry()
	}
	if opts.Layout == nil {
		opts.Layout = layout.Default()
	}
	if opts.TickHz <= 0 {
		opts.TickHz = 20
	}
	if opts.BroadcastEvery <= 0 {
		opts.BroadcastEvery = 1
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Room{
		Inbox:   make(chan any, 256),
		Code:    code,
		opts:    opts,
		clients: make(map[string]Conn),
		logger:  opts.Logger.With("room", code),
		ctx:     ctx,
		cancel:  cancel,
		quit:    make(chan struct{}),
	}
	r.kitchen = kitchen.New(opts.Registry, opts.Layout.Build(), opts.Layout.Hash(), opts.Kitchen, kitchen.Deps{
		Notifier: r,
		Control:  r,
		Events:   opts.Events,
		Logger:   r.logger,
		Rand:     rand.New(rand.NewSource(seed)),
		Room:     code,
		Start:    time.Now(),
	})
	r.loop = gameloop.NewLoop(gameloop.Dependencies{Kitchen: r.kitchen, Logger: r.logger}, gameloop.DefaultSystems()...)
	r.publishInfo()
	return r
}

func (r *Room) tickInterval() time.Duration {
	return time.Second / time.Duration(r.opts.TickHz)
}

// Stop останавливает цикл комнаты. Повторный вызов безопасен.
func (r *Room) Stop() {
	r.stopOnce.Do(func() {
		r.cancel()
		close(r.quit)
	})
}

// Done закрывается после Stop
func (r *Room) Done() <-chan struct{} {
	return r.quit
}

// Info возвращает последнюю сводку; безопасно из любой горутины
func (r *Room) Info() Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.info
}

// Run крутит цикл комнаты до Stop
func (r *Room) Run() {
	ticker := time.NewTicker(r.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		case <-ticker.C:
			r.step()
		}
	}
}

// Submit кладет команду в Inbox, не блокируясь на остановленной комнате
func (r *Room) Submit(ctx context.Context, cmd any) error {
	select {
	case r.Inbox <- cmd:
		return nil
	case <-r.quit:
		return ErrRoomStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// JoinPlayer отправляет Join и ждет ответа комнаты
func (r *Room) JoinPlayer(ctx context.Context, conn Conn, name, token string) (JoinResult, error) {
	reply := make(chan JoinResult, 1)
	if err := r.Submit(ctx, Join{Conn: conn, Name: name, ReconnectToken: token, Reply: reply}); err != nil {
		return JoinResult{}, err
	}
	select {
	case res := <-reply:
		return res, res.Err
	case <-r.quit:
		return JoinResult{}, ErrRoomStopped
	case <-ctx.Done():
		return JoinResult{}, ctx.Err()
	}
}

func (r *Room) step() {
	r.tick++
	r.loop.Step(r.ctx, r.tickInterval())
	if r.tick%uint64(r.opts.BroadcastEvery) == 0 {
		r.broadcastState()
	}
	r.armIdleReap()
	r.publishInfo()
}

// armIdleReap закрывает комнату, в которой никого нет дольше ReconnectGrace,
// в том числе если в нее так никто и не зашел.
func (r *Room) armIdleReap() {
	if r.idleArmed || r.emptied || r.kitchen.State.Players.Count() > 0 {
		return
	}
	r.idleArmed = true
	r.kitchen.Schedule.After(r.opts.ReconnectGrace, func() {
		r.idleArmed = false
		if r.kitchen.State.Players.Count() == 0 {
			r.logger.Infof("room idle for %s, closing", r.opts.ReconnectGrace)
			r.notifyEmpty()
		}
	})
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		res := r.join(c)
		if c.Reply != nil {
			c.Reply <- res
		}
	case Move:
		if _, ok := r.clients[c.PlayerID]; !ok {
			return
		}
		pos := playermanager.Vec3{X: c.Move.Position.X, Y: c.Move.Position.Y, Z: c.Move.Position.Z}
		if err := r.kitchen.State.Players.UpdatePlayerTransform(c.PlayerID, pos, c.Move.Rotation.Y, c.Move.AnimationState); err != nil {
			r.logger.Warnf("move from %s: %v", c.PlayerID, err)
		}
	case Interact:
		if r.locked {
			return
		}
		if _, ok := r.clients[c.PlayerID]; !ok {
			return
		}
		r.kitchen.Interactions.HandleInteraction(c.PlayerID, c.ObjectID)
	case Chat:
		r.chat(c)
	case Leave:
		r.leave(c.PlayerID)
	case shutdown:
		r.DisconnectAll()
		close(c.done)
	default:
		r.logger.Warnf("unknown room command %T", cmd)
	}
	r.publishInfo()
}

func (r *Room) join(c Join) JoinResult {
	if r.locked {
		return JoinResult{Err: ErrRoomLocked}
	}
	players := r.kitchen.State.Players
	now := r.kitchen.Clock.Now()

	// Переподключение в пределах отсрочки сохраняет игрока и его руки
	if c.ReconnectToken != "" {
		if p, err := players.FindByToken(c.ReconnectToken); err == nil {
			if p.Connected {
				return JoinResult{Err: ErrTokenInUse}
			}
			_ = players.SetConnected(p.ID, true, now)
			r.clients[p.ID] = c.Conn
			addGauge(metricPlayersConnected, 1)
			r.logger.Infof("player %s (%s) reconnected", p.ID, p.Name)
			r.welcome(c.Conn, p)
			r.sendStateTo(c.Conn)
			return JoinResult{PlayerID: p.ID, ReconnectToken: p.ReconnectToken, Reconnected: true}
		}
	}

	if players.Count() >= r.opts.MaxPlayers && r.opts.MaxPlayers > 0 {
		return JoinResult{Err: ErrRoomFull}
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = "Cook " + uuid.NewString()[:4]
	}
	p, err := players.AddPlayer(uuid.NewString(), name, uuid.NewString())
	if err != nil {
		return JoinResult{Err: err}
	}
	r.clients[p.ID] = c.Conn
	r.emptied = false
	addGauge(metricPlayersConnected, 1)
	r.logger.Infof("player %s (%s) joined", p.ID, p.Name)

	// Первый игрок запускает матч
	r.kitchen.Start()

	r.welcome(c.Conn, p)
	r.sendStateTo(c.Conn)
	return JoinResult{PlayerID: p.ID, ReconnectToken: p.ReconnectToken}
}

func (r *Room) welcome(conn Conn, p *playermanager.Player) {
	b, err := protocol.Encode(protocol.MsgWelcome, protocol.Welcome{
		PlayerID:       p.ID,
		ReconnectToken: p.ReconnectToken,
		Room:           r.Code,
		TickHz:         r.opts.TickHz,
		MapHash:        r.kitchen.State.MapHash,
	})
	if err != nil {
		r.logger.Errorf("encode welcome: %v", err)
		return
	}
	_ = conn.SendHigh(b)
}

func (r *Room) leave(playerID string) {
	conn, ok := r.clients[playerID]
	if !ok {
		return
	}
	delete(r.clients, playerID)
	_ = conn.Close()
	addGauge(metricPlayersConnected, -1)

	if r.locked {
		r.removePlayer(playerID)
		return
	}
	at := r.kitchen.Clock.Now()
	if err := r.kitchen.State.Players.SetConnected(playerID, false, at); err != nil {
		r.logger.Warnf("leave %s: %v", playerID, err)
		return
	}
	r.logger.Infof("player %s disconnected, waiting %s for reconnect", playerID, r.opts.ReconnectGrace)
	r.kitchen.Schedule.After(r.opts.ReconnectGrace, func() {
		p, err := r.kitchen.State.Players.GetPlayer(playerID)
		if err != nil || p.Connected || !p.DisconnectedAt.Equal(at) {
			return
		}
		r.removePlayer(playerID)
	})
}

func (r *Room) removePlayer(playerID string) {
	if err := r.kitchen.State.Players.RemovePlayer(playerID); err != nil {
		return
	}
	r.logger.Infof("player %s removed", playerID)
	if r.kitchen.State.Players.Count() == 0 {
		r.notifyEmpty()
	}
}

func (r *Room) notifyEmpty() {
	if r.emptied {
		return
	}
	r.emptied = true
	if r.OnEmpty != nil && r.Code != "" {
		r.OnEmpty(r.Code)
	}
}

func (r *Room) chat(c Chat) {
	if _, ok := r.clients[c.PlayerID]; !ok {
		return
	}
	p, err := r.kitchen.State.Players.GetPlayer(c.PlayerID)
	if err != nil {
		return
	}
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return
	}
	if utf8.RuneCountInString(text) > maxChatLen {
		text = string([]rune(text)[:maxChatLen])
	}
	b, err := protocol.Encode(protocol.MsgChat, protocol.Chat{From: p.ID, Name: p.Name, Text: text})
	if err != nil {
		return
	}
	r.broadcast(b, false)
}

// broadcast рассылает кадр всем клиентам; отвалившиеся отключаются после рассылки
func (r *Room) broadcast(b []byte, high bool) {
	var failed []string
	for id, c := range r.clients {
		send := c.Send
		if high {
			send = c.SendHigh
		}
		if err := send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		r.logger.Warnf("dropping client %s after failed send", id)
		r.leave(id)
	}
}

func (r *Room) broadcastState() {
	b, err := protocol.Encode(protocol.MsgState, r.snapshot())
	if err != nil {
		r.logger.Errorf("encode state: %v", err)
		return
	}
	r.broadcast(b, false)
}

func (r *Room) sendStateTo(c Conn) {
	b, err := protocol.Encode(protocol.MsgState, r.snapshot())
	if err != nil {
		return
	}
	_ = c.Send(b)
}

// Notify отправляет уведомление одному игроку (kitchen.Notifier)
func (r *Room) Notify(playerID string, notice kitchen.Notice, message string) {
	c, ok := r.clients[playerID]
	if !ok {
		return
	}
	b, err := protocol.Encode(string(notice), protocol.Notice{Message: message})
	if err != nil {
		return
	}
	if err := c.SendHigh(b); err != nil {
		r.leave(playerID)
	}
}

// Broadcast отправляет уведомление всем игрокам (kitchen.Notifier)
func (r *Room) Broadcast(notice kitchen.Notice, message string) {
	b, err := protocol.Encode(string(notice), protocol.Notice{Message: message})
	if err != nil {
		return
	}
	r.broadcast(b, true)
}

// Lock запрещает новые подключения и действия (kitchen.MatchControl)
func (r *Room) Lock() {
	r.locked = true
}

// BroadcastGameOver рассылает итоговое состояние и счет
func (r *Room) BroadcastGameOver(finalScore int) {
	r.broadcastState()
	b, err := protocol.Encode(protocol.MsgGameOver, protocol.GameOver{FinalScore: finalScore})
	if err != nil {
		return
	}
	r.broadcast(b, true)
}

// DisconnectAll закрывает все соединения и убирает игроков
func (r *Room) DisconnectAll() {
	for id, c := range r.clients {
		_ = c.Close()
		delete(r.clients, id)
		addGauge(metricPlayersConnected, -1)
	}
	had := r.kitchen.State.Players.Count() > 0
	for _, p := range r.kitchen.State.Players.GetAllPlayers() {
		_ = r.kitchen.State.Players.RemovePlayer(p.ID)
	}
	r.logger.Infof("all players disconnected")
	if had {
		r.notifyEmpty()
	}
}

func (r *Room) publishInfo() {
	s := r.kitchen.State
	info := Info{
		Code:      r.Code,
		Players:   s.Players.Count(),
		Connected: len(r.clients),
		Phase:     s.Phase.String(),
		Score:     s.Score,
		TimeLeft:  s.TimeLeft.Milliseconds(),
		Locked:    r.locked,
	}
	r.mu.Lock()
	r.info = info
	r.mu.Unlock()
}
