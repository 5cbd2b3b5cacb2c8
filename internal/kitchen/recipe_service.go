package kitchen

import (
	"time"

	"go.uber.org/zap"

	"github.com/annelo/go-kitchen-server/internal/catalog"
	"github.com/annelo/go-kitchen-server/internal/station"
)

// RecipeService проверяет прогресс рецептов на станциях и ведет таймеры обработки
type RecipeService struct {
	reg    *catalog.Registry
	clock  *Clock
	logger *zap.SugaredLogger
}

func NewRecipeService(reg *catalog.Registry, clock *Clock, logger *zap.SugaredLogger) *RecipeService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &RecipeService{reg: reg, clock: clock, logger: logger}
}

// CheckRecipeProgress true, если набор является подмножеством хотя бы одного
// рецепта станции, то есть еще может к чему-то привести
func (s *RecipeService) CheckRecipeProgress(potential []catalog.Ingredient, st catalog.StationType) bool {
	return s.reg.CanProgress(potential, st)
}

// CheckAndCompleteRecipe ищет точное совпадение доски с рецептом и, если нашел,
// снимает входные ингредиенты и запускает рецепт
func (s *RecipeService) CheckAndCompleteRecipe(st *station.Station) *catalog.Recipe {
	rec := s.reg.FindCompletedRecipe(st.IngredientsOnBoard, st.Type)
	if rec == nil {
		return nil
	}
	st.ClearBoard()
	s.Complete(st, rec)
	return rec
}

// Complete применяет рецепт к станции с уже очищенной доской: мгновенный
// рецепт сразу кладет результат, рецепт со временем запускает обработку
func (s *RecipeService) Complete(st *station.Station, rec *catalog.Recipe) {
	if rec.Timed() {
		st.StartProcessing(rec.ID, rec.ProcessingTime, s.clock.Now())
		s.logger.Debugf("station %d started %s for %v", st.ID, rec.ID, rec.ProcessingTime)
		return
	}
	pushResult(st, rec)
	s.logger.Debugf("station %d produced %s", st.ID, rec.Result.Ingredient)
}

// UpdateProcessingStations уменьшает таймеры обработки и выдает результат по
// истечении. Это единственный путь, которым станция со временем выдает результат.
func (s *RecipeService) UpdateProcessingStations(stations map[string]*station.Station, dt time.Duration) {
	for _, st := range stations {
		if !st.Processing() {
			continue
		}
		st.ProcessingTimeLeft -= dt
		if st.ProcessingTimeLeft > 0 {
			continue
		}
		rec, ok := s.reg.Recipe(st.ProcessingRecipeID)
		st.ClearBoard()
		if !ok {
			// Иначе станция зависнет навсегда
			s.logger.Errorf("station %d: processing recipe %q vanished, resetting station", st.ID, st.ProcessingRecipeID)
			st.ResetProcessing()
			continue
		}
		st.ResetProcessing()
		pushResult(st, rec)
		s.logger.Debugf("station %d finished %s", st.ID, rec.ID)
	}
}

func pushResult(st *station.Station, rec *catalog.Recipe) {
	for i := 0; i < rec.Result.Amount; i++ {
		st.Push(rec.Result.Ingredient)
	}
}
