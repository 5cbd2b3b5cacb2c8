package kitchen

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/annelo/go-kitchen-server/internal/catalog"
	"github.com/annelo/go-kitchen-server/internal/playermanager"
	"github.com/annelo/go-kitchen-server/internal/station"
)

// StationHandler правила взаимодействия для одного типа станции.
// Возвращает *Rejection для запрещенного действия; любая другая ошибка
// считается внутренней.
type StationHandler interface {
	Interact(p *playermanager.Player, st *station.Station) error
}

// InteractionService центральный диспетчер действия "interact"
type InteractionService struct {
	state    *State
	reg      *catalog.Registry
	notifier Notifier
	logger   *zap.SugaredLogger
	handlers map[catalog.StationType]StationHandler
}

// InteractionDeps зависимости обработчиков станций
type InteractionDeps struct {
	Recipes       *RecipeService
	Orders        *OrderService
	Schedule      *Schedule
	Clock         *Clock
	FlashDuration time.Duration
}

// NewInteractionService создает диспетчер и регистрирует обработчики по типам станций
func NewInteractionService(state *State, reg *catalog.Registry, deps InteractionDeps, notifier Notifier, logger *zap.SugaredLogger) *InteractionService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	s := &InteractionService{
		state:    state,
		reg:      reg,
		notifier: notifier,
		logger:   logger,
		handlers: make(map[catalog.StationType]StationHandler),
	}

	hands := handsRules{reg: reg}
	stock := &stockHandler{hands: hands, schedule: deps.Schedule, clock: deps.Clock, flash: deps.FlashDuration}
	processing := &processingHandler{hands: hands, reg: reg, recipes: deps.Recipes}

	s.RegisterHandler(catalog.Stock, stock)
	s.RegisterHandler(catalog.Fridge, stock)
	s.RegisterHandler(catalog.Trash, trashHandler{})
	s.RegisterHandler(catalog.ChoppingBoard, processing)
	s.RegisterHandler(catalog.Oven, processing)
	s.RegisterHandler(catalog.ServingBoard, &servingBoardHandler{hands: hands})
	s.RegisterHandler(catalog.ServingOrder, &seatHandler{orders: deps.Orders})
	s.RegisterHandler(catalog.Counter, inertHandler{})
	s.RegisterHandler(catalog.Sink, inertHandler{})
	return s
}

// RegisterHandler задает обработчик для типа станции
func (s *InteractionService) RegisterHandler(t catalog.StationType, h StationHandler) {
	s.handlers[t] = h
}

// HandleInteraction выполняет действие игрока над станцией и сообщает результат
// клиенту. Никогда не паникует наружу.
func (s *InteractionService) HandleInteraction(playerID string, objectID int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("panic while %s interacts with %d: %v", playerID, objectID, r)
			s.notifier.Notify(playerID, NoticeError, "internal error")
		}
	}()

	err := s.Resolve(playerID, objectID)
	if err == nil {
		return
	}

	var rej *Rejection
	switch {
	case errors.Is(err, ErrStaleReference):
		s.logger.Warnf("interaction dropped: %v", err)
	case errors.As(err, &rej):
		s.logger.Debugf("player %s rejected at %d: %v", playerID, objectID, rej)
		incCounter(metricInteractionsRejected)
		s.notifier.Notify(playerID, rej.Notice, rej.Message)
	default:
		s.logger.Errorf("interaction of %s with %d failed: %v", playerID, objectID, err)
		s.notifier.Notify(playerID, NoticeError, "internal error")
	}
}

// Resolve находит игрока и станцию и передает действие обработчику типа станции
func (s *InteractionService) Resolve(playerID string, objectID int) error {
	p, err := s.state.Players.GetPlayer(playerID)
	if err != nil {
		return fmt.Errorf("%w: player %s: %v", ErrStaleReference, playerID, err)
	}
	st, ok := s.state.Station(objectID)
	if !ok {
		return fmt.Errorf("%w: station %d", ErrStaleReference, objectID)
	}
	if p.HoldsIngredient() {
		if _, ok := s.reg.Item(p.HeldIngredient); !ok {
			return fmt.Errorf("%w: player %s holds unregistered %s", ErrInvariant, p.ID, p.HeldIngredient)
		}
	}
	if st.Disabled {
		return reject(NoticeCannotInteract, "station is not available")
	}
	h, ok := s.handlers[st.Type]
	if !ok {
		return reject(NoticeCannotInteract, "nothing to do with %s", st.Type)
	}
	return h.Interact(p, st)
}
