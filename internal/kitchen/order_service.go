package kitchen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/annelo/go-kitchen-server/internal/catalog"
	"github.com/annelo/go-kitchen-server/internal/events"
	"github.com/annelo/go-kitchen-server/internal/playermanager"
	"github.com/annelo/go-kitchen-server/internal/station"
)

// OrderConfig параметры генерации заказов
type OrderConfig struct {
	MinInterval  time.Duration
	MaxInterval  time.Duration
	MaxActive    int
	Deadline     time.Duration
	DefaultScore int
}

// OrderService генерирует заказы на свободные места, следит за сроками и
// принимает подачу блюд
type OrderService struct {
	cfg      OrderConfig
	state    *State
	reg      *catalog.Registry
	clock    *Clock
	rng      *rand.Rand
	mood     *CustomerMood
	notifier Notifier
	events   events.Sink
	room     string
	logger   *zap.SugaredLogger

	startedAt time.Time
	untilNext time.Duration
}

// OrderDeps внешние зависимости сервиса заказов
type OrderDeps struct {
	Clock    *Clock
	Rand     *rand.Rand
	Mood     *CustomerMood
	Notifier Notifier
	Events   events.Sink
	Room     string
	Logger   *zap.SugaredLogger
}

func NewOrderService(cfg OrderConfig, state *State, reg *catalog.Registry, deps OrderDeps) *OrderService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Events == nil {
		deps.Events = events.Discard
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deps.Mood == nil {
		deps.Mood = NewCustomerMood(deps.Rand.Int63())
	}
	s := &OrderService{
		cfg:       cfg,
		state:     state,
		reg:       reg,
		clock:     deps.Clock,
		rng:       deps.Rand,
		mood:      deps.Mood,
		notifier:  deps.Notifier,
		events:    deps.Events,
		room:      deps.Room,
		logger:    deps.Logger,
		startedAt: deps.Clock.Now(),
	}
	s.untilNext = s.randomInterval()
	return s
}

// Start отмечает начало матча для расчета типа посетителей
func (s *OrderService) Start() {
	s.startedAt = s.clock.Now()
}

func (s *OrderService) randomInterval() time.Duration {
	span := s.cfg.MaxInterval - s.cfg.MinInterval
	if span <= 0 {
		return s.cfg.MinInterval
	}
	return s.cfg.MinInterval + time.Duration(s.rng.Int63n(int64(span)+1))
}

// AvailableChairs места без заказа и без грязной тарелки, по возрастанию id
func (s *OrderService) AvailableChairs() []int {
	var out []int
	for _, st := range s.state.SortedStations() {
		if st.Type != catalog.ServingOrder || st.HasDirtyPlate {
			continue
		}
		if s.boundOrder(st.ID) != nil {
			continue
		}
		out = append(out, st.ID)
	}
	return out
}

// boundOrder любой заказ на месте, включая завершенный, но еще не удаленный
func (s *OrderService) boundOrder(chairID int) *Order {
	for _, o := range s.state.Orders {
		if o.ChairID == chairID {
			return o
		}
	}
	return nil
}

// Update убирает завершенные и просроченные заказы и по таймеру создает новый
func (s *OrderService) Update(dt time.Duration, available []int) {
	now := s.clock.Now()
	s.cleanup(now)

	s.untilNext -= dt
	if s.untilNext > 0 {
		return
	}
	if s.state.ActiveOrders() >= s.cfg.MaxActive || len(available) == 0 {
		return
	}
	if s.spawn(now, available) != nil {
		s.untilNext = s.randomInterval()
	}
}

func (s *OrderService) cleanup(now time.Time) {
	kept := s.state.Orders[:0]
	for _, o := range s.state.Orders {
		switch {
		case o.Completed:
			s.releaseSeat(o.ChairID)
		case !now.Before(o.Deadline):
			s.releaseSeat(o.ChairID)
			incCounter(metricOrdersExpired)
			s.logger.Debugf("order %s at seat %d expired", o.ID, o.ChairID)
			s.notifier.Broadcast(NoticeOrderExpired, fmt.Sprintf("order for %s expired", o.RecipeID))
			s.events.Emit(events.Event{
				Subject:  events.SubjectOrderExpired,
				Room:     s.room,
				OrderID:  o.ID,
				RecipeID: o.RecipeID,
				ChairID:  o.ChairID,
				Score:    s.state.Score,
				At:       now,
			})
		default:
			o.TimeLeft = o.Deadline.Sub(now)
			kept = append(kept, o)
		}
	}
	// хвост обнуляем, чтобы не держать ссылки на удаленные заказы
	for i := len(kept); i < len(s.state.Orders); i++ {
		s.state.Orders[i] = nil
	}
	s.state.Orders = kept
}

// releaseSeat освобождает место. Место с грязной тарелкой остается включенным
// только для сбора тарелки и в пул свободных не возвращается.
func (s *OrderService) releaseSeat(chairID int) {
	seat, ok := s.state.Station(chairID)
	if !ok {
		s.logger.Warnf("order seat %d not found", chairID)
		return
	}
	seat.Disabled = !seat.HasDirtyPlate
}

func (s *OrderService) spawn(now time.Time, available []int) *Order {
	serving := s.reg.ServingRecipes()
	if len(serving) == 0 {
		s.logger.Warnf("no serving recipes, cannot create orders")
		return nil
	}
	rec := serving[s.rng.Intn(len(serving))]
	chairID := available[s.rng.Intn(len(available))]

	seat, ok := s.state.Station(chairID)
	if !ok {
		s.logger.Warnf("order seat %d not found", chairID)
		return nil
	}

	o := &Order{
		ID:            uuid.NewString(),
		RecipeID:      rec.ID,
		CreatedAt:     now,
		Deadline:      now.Add(s.cfg.Deadline),
		ChairID:       chairID,
		CustomerType:  s.mood.At(now.Sub(s.startedAt)),
		TimeLeft:      s.cfg.Deadline,
		TotalDuration: s.cfg.Deadline,
	}
	seat.Disabled = false
	s.state.Orders = append(s.state.Orders, o)

	s.logger.Debugf("order %s: %s at seat %d for a %s customer", o.ID, rec.ID, chairID, o.CustomerType)
	s.events.Emit(events.Event{
		Subject:  events.SubjectOrderCreated,
		Room:     s.room,
		OrderID:  o.ID,
		RecipeID: o.RecipeID,
		ChairID:  chairID,
		Score:    s.state.Score,
		At:       now,
	})
	return o
}

// HandleServeAttempt принимает блюдо на тарелке для заказа на месте chairID
func (s *OrderService) HandleServeAttempt(p *playermanager.Player, chairID int) error {
	if !p.HoldsIngredient() {
		return reject(NoticeNoIngredient, "bring a dish to serve")
	}
	if !p.HoldingPlate {
		return reject(NoticeNeedPlate, "dishes are served on a plate")
	}
	held, ok := s.reg.Item(p.HeldIngredient)
	if !ok {
		return fmt.Errorf("%w: no definition for %s", ErrInvariant, p.HeldIngredient)
	}
	if !held.IsFinal {
		return reject(NoticeInvalidIngredient, "%s is not a finished dish", p.HeldIngredient)
	}

	o := s.state.OrderAt(chairID)
	if o == nil {
		return reject(NoticeNoOrderHere, "nobody is waiting here")
	}
	rec, ok := s.reg.Recipe(o.RecipeID)
	if !ok {
		return fmt.Errorf("%w: order %s references unknown recipe %s", ErrInvariant, o.ID, o.RecipeID)
	}
	if p.HeldIngredient != rec.Result.Ingredient {
		return reject(NoticeWrongOrder, "this customer ordered %s", rec.Name)
	}
	seat, ok := s.state.Station(chairID)
	if !ok {
		return fmt.Errorf("%w: station %d", ErrStaleReference, chairID)
	}

	score := rec.ScoreValue
	if score <= 0 {
		score = s.cfg.DefaultScore
	}
	o.Completed = true
	s.state.Score += score
	markServed(seat)
	p.ClearHands()

	incCounter(metricOrdersCompleted)
	s.notifier.Notify(p.ID, NoticeOrderCompleted, fmt.Sprintf("%s served, +%d", rec.Name, score))
	s.events.Emit(events.Event{
		Subject:  events.SubjectOrderCompleted,
		Room:     s.room,
		OrderID:  o.ID,
		RecipeID: o.RecipeID,
		ChairID:  chairID,
		Score:    s.state.Score,
		Delta:    score,
		At:       s.clock.Now(),
	})
	return nil
}

// markServed на месте остается грязная тарелка, до уборки место закрыто
func markServed(seat *station.Station) {
	seat.HasDirtyPlate = true
	seat.Disabled = true
}
