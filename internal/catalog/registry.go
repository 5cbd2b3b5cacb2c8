package catalog

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownIngredient  = errors.New("unknown ingredient")
	ErrUnknownStationType = errors.New("unknown station type")
	ErrInvalidRecipe      = errors.New("invalid recipe")
	ErrInvalidItem        = errors.New("invalid item definition")
)

// Quantity ингредиент и его количество
type Quantity struct {
	Ingredient Ingredient
	Amount     int
}

// Recipe правило: нужные ингредиенты на станции дают результат
type Recipe struct {
	ID             string
	Name           string
	Result         Quantity
	Required       []Quantity
	StationType    StationType
	ProcessingTime time.Duration // ноль у мгновенных рецептов
	ScoreValue     int           // ноль значит не задано
	ForServing     bool
	UpgradesFrom   string // id рецепта, который этот расширяет одним ингредиентом
}

// Timed сообщает, готовится ли рецепт по таймеру
func (r *Recipe) Timed() bool {
	return r.ProcessingTime > 0
}

type upgradeKey struct {
	base  string
	added Ingredient
}

// Registry неизменяемая таблица ингредиентов и рецептов. Строится один раз
// при старте и общая для всех комнат только на чтение.
type Registry struct {
	items     map[Ingredient]ItemDefinition
	recipes   []*Recipe
	byID      map[string]*Recipe
	byStation map[StationType][]*Recipe
	upgrades  map[upgradeKey]*Recipe
	serving   []*Recipe
}

// NewRegistry проверяет описания и строит индексы поиска
func NewRegistry(items []ItemDefinition, recipes []Recipe) (*Registry, error) {
	r := &Registry{
		items:     make(map[Ingredient]ItemDefinition, len(items)),
		byID:      make(map[string]*Recipe, len(recipes)),
		byStation: make(map[StationType][]*Recipe),
		upgrades:  make(map[upgradeKey]*Recipe),
	}

	for _, item := range items {
		if item.Ingredient == None {
			return nil, fmt.Errorf("%w: None cannot be registered", ErrInvalidItem)
		}
		if _, dup := r.items[item.Ingredient]; dup {
			return nil, fmt.Errorf("%w: duplicate definition for %s", ErrInvalidItem, item.Ingredient)
		}
		r.items[item.Ingredient] = item
	}

	results := make(map[Ingredient]string)
	for i := range recipes {
		rec := recipes[i]
		if err := r.validateRecipe(&rec); err != nil {
			return nil, err
		}
		if prev, dup := results[rec.Result.Ingredient]; dup && rec.UpgradesFrom == "" {
			return nil, fmt.Errorf("%w: %s and %s both produce %s", ErrInvalidRecipe, prev, rec.ID, rec.Result.Ingredient)
		} else if !dup {
			results[rec.Result.Ingredient] = rec.ID
		}
		r.recipes = append(r.recipes, &rec)
		r.byID[rec.ID] = &rec
		r.byStation[rec.StationType] = append(r.byStation[rec.StationType], &rec)
		if rec.ForServing {
			r.serving = append(r.serving, &rec)
		}
	}

	// Ссылки апгрейдов разбираем, когда известны все рецепты; порядок объявления не важен
	for _, rec := range r.recipes {
		if rec.UpgradesFrom == "" {
			continue
		}
		base, ok := r.byID[rec.UpgradesFrom]
		if !ok {
			return nil, fmt.Errorf("%w: %s upgrades from unknown recipe %s", ErrInvalidRecipe, rec.ID, rec.UpgradesFrom)
		}
		if base.StationType != rec.StationType {
			return nil, fmt.Errorf("%w: %s upgrades %s across stations", ErrInvalidRecipe, rec.ID, base.ID)
		}
		added, err := singleAddition(CountRequirements(base.Required), CountRequirements(rec.Required))
		if err != nil {
			return nil, fmt.Errorf("%w: %s upgrades %s: %v", ErrInvalidRecipe, rec.ID, base.ID, err)
		}
		key := upgradeKey{base: base.ID, added: added}
		if other, dup := r.upgrades[key]; dup {
			return nil, fmt.Errorf("%w: %s and %s are both %s + %s", ErrInvalidRecipe, other.ID, rec.ID, base.ID, added)
		}
		r.upgrades[key] = rec
	}
	return r, nil
}

func (r *Registry) validateRecipe(rec *Recipe) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecipe)
	}
	if _, dup := r.byID[rec.ID]; dup {
		return fmt.Errorf("%w: duplicate id %s", ErrInvalidRecipe, rec.ID)
	}
	if _, ok := stationTypeNames[rec.StationType]; !ok {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRecipe, rec.ID, ErrUnknownStationType)
	}
	if len(rec.Required) == 0 {
		return fmt.Errorf("%w: %s has no requirements", ErrInvalidRecipe, rec.ID)
	}
	for _, q := range rec.Required {
		if q.Amount <= 0 {
			return fmt.Errorf("%w: %s requires non-positive amount of %s", ErrInvalidRecipe, rec.ID, q.Ingredient)
		}
		if _, ok := r.items[q.Ingredient]; !ok {
			return fmt.Errorf("%w: %s requires unregistered %s", ErrInvalidRecipe, rec.ID, q.Ingredient)
		}
	}
	result, ok := r.items[rec.Result.Ingredient]
	if !ok {
		return fmt.Errorf("%w: %s produces unregistered %s", ErrInvalidRecipe, rec.ID, rec.Result.Ingredient)
	}
	if !result.IsResult {
		return fmt.Errorf("%w: %s produces %s which is not marked as a result", ErrInvalidRecipe, rec.ID, result.Ingredient)
	}
	if rec.ForServing && !result.IsFinal {
		return fmt.Errorf("%w: serving recipe %s produces non-final %s", ErrInvalidRecipe, rec.ID, result.Ingredient)
	}
	if rec.Result.Amount <= 0 {
		rec.Result.Amount = 1
	}
	if rec.ProcessingTime < 0 {
		return fmt.Errorf("%w: %s has negative processing time", ErrInvalidRecipe, rec.ID)
	}
	return nil
}

// singleAddition возвращает единственный ингредиент, которым upgrade отличается от base
func singleAddition(base, upgrade Counts) (Ingredient, error) {
	added := None
	for ing, n := range upgrade {
		switch diff := n - base[ing]; {
		case diff == 0:
		case diff == 1 && added == None:
			added = ing
		default:
			return None, errors.New("requirements must add exactly one unit")
		}
	}
	for ing := range base {
		if _, ok := upgrade[ing]; !ok {
			return None, fmt.Errorf("requirements drop %s", ing)
		}
	}
	if added == None {
		return None, errors.New("requirements are identical")
	}
	return added, nil
}

// Item возвращает описание ингредиента
func (r *Registry) Item(ing Ingredient) (ItemDefinition, bool) {
	def, ok := r.items[ing]
	return def, ok
}

// Recipe возвращает рецепт по id
func (r *Registry) Recipe(id string) (*Recipe, bool) {
	rec, ok := r.byID[id]
	return rec, ok
}

// Recipes возвращает все рецепты в порядке реестра
func (r *Registry) Recipes() []*Recipe {
	return r.recipes
}

// RecipesFor рецепты для типа станции в порядке реестра
func (r *Registry) RecipesFor(st StationType) []*Recipe {
	return r.byStation[st]
}

// ServingRecipes рецепты, которые могут заказать посетители
func (r *Registry) ServingRecipes() []*Recipe {
	return r.serving
}

// FindRecipeByResult возвращает первый по порядку рецепт, дающий ing.
// NewRegistry гарантирует, что общий результат бывает только у апгрейдов,
// а они объявлены после базового рецепта.
func (r *Registry) FindRecipeByResult(ing Ingredient) (*Recipe, bool) {
	for _, rec := range r.recipes {
		if rec.Result.Ingredient == ing {
			return rec, true
		}
	}
	return nil, false
}

// FindCompletedRecipe возвращает рецепт станции st, требования которого точно
// совпадают с ингредиентами, иначе nil. Под- и надмножества не совпадают.
func (r *Registry) FindCompletedRecipe(ingredients []Ingredient, st StationType) *Recipe {
	have := CountIngredients(ingredients)
	if len(have) == 0 {
		return nil
	}
	for _, rec := range r.byStation[st] {
		if have.Equal(CountRequirements(rec.Required)) {
			return rec
		}
	}
	return nil
}

// FindUpgrade ищет рецепт станции st, расширяющий base одной единицей added
func (r *Registry) FindUpgrade(baseID string, added Ingredient, st StationType) (*Recipe, bool) {
	rec, ok := r.upgrades[upgradeKey{base: baseID, added: added}]
	if !ok || rec.StationType != st {
		return nil, false
	}
	return rec, true
}

// CanProgress сообщает, входят ли ингредиенты хотя бы в один рецепт станции st,
// то есть может ли набор еще к чему-то привести.
func (r *Registry) CanProgress(ingredients []Ingredient, st StationType) bool {
	have := CountIngredients(ingredients)
	for _, rec := range r.byStation[st] {
		if have.SubsetOf(CountRequirements(rec.Required)) {
			return true
		}
	}
	return false
}
