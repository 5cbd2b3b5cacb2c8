package gameloop

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/annelo/go-kitchen-server/internal/kitchen"
)

// System описывает логику, выполняемую каждый тик цикла.
type System interface {
	// Init вызывается один раз перед запуском цикла.
	Init(deps Dependencies) error
	// Tick вызывается каждый игровой тик.
	Tick(ctx context.Context, dt time.Duration)
	// Name возвращает читаемое имя системы.
	Name() string
}

// Dependencies передаются системам при инициализации.
type Dependencies struct {
	Kitchen *kitchen.Kitchen
	Logger  *zap.SugaredLogger
}

// DefaultSystems системы кухни в порядке выполнения: сначала время и
// отложенные действия, затем обработка на станциях, заказы и таймер матча.
func DefaultSystems() []System {
	return []System{
		NewScheduleSystem(),
		NewProcessingSystem(),
		NewOrderSystem(),
		NewTimerSystem(),
	}
}
