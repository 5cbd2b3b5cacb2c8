package kitchen

import (
	"fmt"
	"time"

	"github.com/annelo/go-kitchen-server/internal/catalog"
	"github.com/annelo/go-kitchen-server/internal/playermanager"
	"github.com/annelo/go-kitchen-server/internal/station"
)

// handsRules общие правила того, что игрок может взять в руки
type handsRules struct {
	reg *catalog.Registry
}

func (h handsRules) item(ing catalog.Ingredient) (catalog.ItemDefinition, error) {
	def, ok := h.reg.Item(ing)
	if !ok {
		return def, fmt.Errorf("%w: no definition for %s", ErrInvariant, ing)
	}
	return def, nil
}

// canReceive проверяет, может ли игрок взять item, не нарушив правило рук
func (h handsRules) canReceive(p *playermanager.Player, item catalog.Ingredient) error {
	def, err := h.item(item)
	if err != nil {
		return err
	}
	if def.IsPlate {
		if p.HoldingPlate {
			return reject(NoticeAlreadyCarrying, "already holding a plate")
		}
		if p.HoldsIngredient() {
			held, err := h.item(p.HeldIngredient)
			if err != nil {
				return err
			}
			if !held.IsFinal {
				return reject(NoticeAlreadyCarrying, "hands are full")
			}
		}
		return nil
	}
	if p.HoldsIngredient() {
		return reject(NoticeAlreadyCarrying, "hands are full")
	}
	if p.HoldingPlate && !def.IsFinal {
		return reject(NoticeInvalidPickup, "%s cannot go on a plate", item)
	}
	return nil
}

func give(p *playermanager.Player, item catalog.Ingredient) {
	if item == catalog.Plate {
		p.HoldingPlate = true
		return
	}
	p.HeldIngredient = item
}

// stockHandler выдает ингредиент или тарелку. Fridge ведет себя так же.
type stockHandler struct {
	hands    handsRules
	schedule *Schedule
	clock    *Clock
	flash    time.Duration
}

func (h *stockHandler) Interact(p *playermanager.Player, st *station.Station) error {
	if st.Ingredient == catalog.None {
		return fmt.Errorf("%w: stock %d dispenses nothing", ErrInvariant, st.ID)
	}
	if err := h.hands.canReceive(p, st.Ingredient); err != nil {
		return err
	}
	give(p, st.Ingredient)

	now := h.clock.Now()
	st.Flash(now)
	h.schedule.After(h.flash, func() {
		// более позднее нажатие продлевает подсветку
		if st.ActiveSince.Equal(now) {
			st.Unflash()
		}
	})
	return nil
}

// trashHandler выбрасывает сначала ингредиент, потом тарелку
type trashHandler struct{}

func (trashHandler) Interact(p *playermanager.Player, _ *station.Station) error {
	switch {
	case p.HoldsIngredient():
		p.TakeIngredient()
	case p.HoldingPlate:
		p.HoldingPlate = false
	default:
		return reject(NoticeNoIngredient, "nothing to throw away")
	}
	return nil
}

// processingHandler разделочная доска и печь: размещение, апгрейд и снятие результата
type processingHandler struct {
	hands   handsRules
	reg     *catalog.Registry
	recipes *RecipeService
}

func (h *processingHandler) Interact(p *playermanager.Player, st *station.Station) error {
	if st.Processing() {
		return reject(NoticeStationBusy, "%s is busy", st.Type)
	}
	if p.HoldsIngredient() {
		if p.HoldingPlate {
			return reject(NoticeInvalidPlacement, "put the plate down first")
		}
		return h.place(p, st)
	}
	return h.pickup(p, st)
}

func (h *processingHandler) place(p *playermanager.Player, st *station.Station) error {
	x := p.HeldIngredient

	up, err := h.findUpgrade(st, x)
	if err != nil {
		return err
	}
	if up != nil {
		p.TakeIngredient()
		st.ClearBoard()
		h.recipes.Complete(st, up)
		return nil
	}

	for _, ing := range st.IngredientsOnBoard {
		def, err := h.hands.item(ing)
		if err != nil {
			return err
		}
		if def.IsFinal {
			return reject(NoticeBoardNotEmpty, "take the %s first", ing)
		}
	}

	potential := append(st.Board(), x)
	if !h.recipes.CheckRecipeProgress(potential, st.Type) {
		return reject(NoticeInvalidCombination, "%s does not fit here", x)
	}
	st.Push(p.TakeIngredient())
	h.recipes.CheckAndCompleteRecipe(st)
	return nil
}

// findUpgrade ищет рецепт, расширяющий единственный результат на доске ингредиентом x
func (h *processingHandler) findUpgrade(st *station.Station, x catalog.Ingredient) (*catalog.Recipe, error) {
	if len(st.IngredientsOnBoard) != 1 {
		return nil, nil
	}
	y := st.IngredientsOnBoard[0]
	def, err := h.hands.item(y)
	if err != nil {
		return nil, err
	}
	if def.IsPlate || !def.IsResult {
		return nil, nil
	}
	base, ok := h.reg.FindRecipeByResult(y)
	if !ok {
		return nil, nil
	}
	up, ok := h.reg.FindUpgrade(base.ID, x, st.Type)
	if !ok {
		return nil, nil
	}
	return up, nil
}

func (h *processingHandler) pickup(p *playermanager.Player, st *station.Station) error {
	top, ok := st.Top()
	if !ok {
		return reject(NoticeBoardEmpty, "nothing to pick up")
	}
	if err := h.hands.canReceive(p, top); err != nil {
		return err
	}
	st.Pop()
	give(p, top)
	return nil
}

// servingBoardHandler общая поверхность на два слота: тарелка и блюдо
type servingBoardHandler struct {
	hands handsRules
}

func (h *servingBoardHandler) Interact(p *playermanager.Player, st *station.Station) error {
	hasPlate := st.Contains(catalog.Plate)
	full := hasPlate && len(st.IngredientsOnBoard) > 1

	switch {
	case p.HoldingPlate && p.HoldsIngredient():
		if !st.Empty() {
			return reject(NoticeBoardFull, "board is occupied")
		}
		st.Push(catalog.Plate)
		st.Push(p.HeldIngredient)
		p.ClearHands()
		return nil

	case p.HoldingPlate:
		if full {
			return reject(NoticeAlreadyCarrying, "cannot take a served plate while carrying a plate")
		}
		if hasPlate {
			return reject(NoticeBoardFull, "board already has a plate")
		}
		st.Push(catalog.Plate)
		p.HoldingPlate = false
		return nil

	case p.HoldsIngredient():
		def, err := h.hands.item(p.HeldIngredient)
		if err != nil {
			return err
		}
		if !def.IsFinal {
			return reject(NoticeCannotPlaceRaw, "only finished dishes go on the serving board")
		}
		if full {
			return reject(NoticeBoardFull, "board is full")
		}
		if !hasPlate {
			return reject(NoticeNeedPlateOnBoard, "put a plate on the board first")
		}
		st.Push(p.TakeIngredient())
		return nil
	}

	if st.Empty() {
		return reject(NoticeBoardEmpty, "nothing to pick up")
	}
	for _, ing := range st.IngredientsOnBoard {
		give(p, ing)
	}
	st.ClearBoard()
	return nil
}

// seatHandler место клиента: сбор грязной тарелки или подача заказа
type seatHandler struct {
	orders *OrderService
}

func (h *seatHandler) Interact(p *playermanager.Player, st *station.Station) error {
	if st.HasDirtyPlate && p.EmptyHanded() {
		st.HasDirtyPlate = false
		st.Disabled = true
		p.HoldingPlate = true
		return nil
	}
	return h.orders.HandleServeAttempt(p, st.ID)
}

// inertHandler станции без правил взаимодействия (стол, мойка)
type inertHandler struct{}

func (inertHandler) Interact(_ *playermanager.Player, st *station.Station) error {
	return reject(NoticeCannotInteract, "nothing to do with %s", st.Type)
}
