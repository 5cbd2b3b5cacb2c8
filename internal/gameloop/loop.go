package gameloop

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Loop вызывает Tick всех зарегистрированных систем. Тикер принадлежит
// владельцу цикла (комнате), поэтому Step никогда не выполняется параллельно.
type Loop struct {
	systems []System
	logger  *zap.SugaredLogger
}

// NewLoop инициализирует системы и создает цикл.
func NewLoop(deps Dependencies, systems ...System) *Loop {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	l := &Loop{logger: deps.Logger}
	// Инициализируем все системы; система с ошибкой в цикл не попадает
	for _, s := range systems {
		if err := s.Init(deps); err != nil {
			deps.Logger.Errorf("[GameLoop] init %s error: %v", s.Name(), err)
			continue
		}
		l.systems = append(l.systems, s)
	}
	return l
}

// Step выполняет один тик всех систем. Паника в системе логируется и не
// останавливает остальные.
func (l *Loop) Step(ctx context.Context, dt time.Duration) {
	for _, s := range l.systems {
		func(sys System) {
			defer func() {
				if r := recover(); r != nil {
					l.logger.Errorf("[GameLoop] panic in %s: %v", sys.Name(), r)
				}
			}()
			sys.Tick(ctx, dt)
		}(s)
	}
}

// Systems возвращает имена активных систем
func (l *Loop) Systems() []string {
	names := make([]string, 0, len(l.systems))
	for _, s := range l.systems {
		names = append(names, s.Name())
	}
	return names
}
