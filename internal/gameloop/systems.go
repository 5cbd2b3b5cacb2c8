package gameloop

import (
	"context"
	"errors"
	"time"

	"github.com/annelo/go-kitchen-server/internal/kitchen"
)

var errNoKitchen = errors.New("kitchen dependency is nil")

// ScheduleSystem двигает время симуляции и выполняет отложенные действия.
// Работает во всех фазах: после конца матча еще ждет отключение клиентов.
type ScheduleSystem struct {
	k *kitchen.Kitchen
}

func NewScheduleSystem() *ScheduleSystem { return &ScheduleSystem{} }

func (s *ScheduleSystem) Name() string { return "schedule" }

func (s *ScheduleSystem) Init(deps Dependencies) error {
	if deps.Kitchen == nil {
		return errNoKitchen
	}
	s.k = deps.Kitchen
	return nil
}

func (s *ScheduleSystem) Tick(ctx context.Context, dt time.Duration) {
	s.k.Clock.Advance(dt)
	s.k.Schedule.RunDue()
}

// ProcessingSystem ведет таймеры обработки на станциях (печь).
type ProcessingSystem struct {
	k *kitchen.Kitchen
}

func NewProcessingSystem() *ProcessingSystem { return &ProcessingSystem{} }

func (p *ProcessingSystem) Name() string { return "processing" }

func (p *ProcessingSystem) Init(deps Dependencies) error {
	if deps.Kitchen == nil {
		return errNoKitchen
	}
	p.k = deps.Kitchen
	return nil
}

func (p *ProcessingSystem) Tick(ctx context.Context, dt time.Duration) {
	if !p.k.Playing() {
		return
	}
	p.k.Recipes.UpdateProcessingStations(p.k.State.Stations, dt)
}

// OrderSystem создает и убирает заказы.
type OrderSystem struct {
	k *kitchen.Kitchen
}

func NewOrderSystem() *OrderSystem { return &OrderSystem{} }

func (o *OrderSystem) Name() string { return "orders" }

func (o *OrderSystem) Init(deps Dependencies) error {
	if deps.Kitchen == nil {
		return errNoKitchen
	}
	o.k = deps.Kitchen
	return nil
}

func (o *OrderSystem) Tick(ctx context.Context, dt time.Duration) {
	if !o.k.Playing() {
		return
	}
	o.k.Orders.Update(dt, o.k.Orders.AvailableChairs())
}

// TimerSystem отвечает за ход времени матча.
type TimerSystem struct {
	k *kitchen.Kitchen
}

func NewTimerSystem() *TimerSystem { return &TimerSystem{} }

func (t *TimerSystem) Name() string { return "timer" }

func (t *TimerSystem) Init(deps Dependencies) error {
	if deps.Kitchen == nil {
		return errNoKitchen
	}
	t.k = deps.Kitchen
	return nil
}

func (t *TimerSystem) Tick(ctx context.Context, dt time.Duration) {
	t.k.Timer.Update(dt)
}
