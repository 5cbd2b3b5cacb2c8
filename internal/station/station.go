// Package station хранит изменяемое состояние интерактивных станций кухни.
package station

import (
	"strconv"
	"time"

	"github.com/annelo/go-kitchen-server/internal/catalog"
)

// Формат id: type*1_000_000 + ingredient*1_000 + index
const (
	typeStride       = 1_000_000
	ingredientStride = 1_000
	MaxIndex         = 999
)

// ID вычисляет стабильный числовой id станции. index это номер вхождения
// пары (тип, ингредиент) в порядке объявления на карте.
func ID(t catalog.StationType, ing catalog.Ingredient, index int) int {
	if index < 0 {
		index = 0
	}
	if index > MaxIndex {
		index = MaxIndex
	}
	return int(t)*typeStride + int(ing)*ingredientStride + index
}

// Key переводит числовой id в ключ реплицируемой карты
func Key(id int) string {
	return strconv.Itoa(id)
}

// Station одна физическая станция на кухне
type Station struct {
	ID         int
	Type       catalog.StationType
	Ingredient catalog.Ingredient // что выдает Stock или Fridge
	X, Z       float64            // позиция на полу кухни

	IsActive    bool
	ActiveSince time.Time
	Disabled    bool

	ProcessingRecipeID      string
	ProcessingTimeLeft      time.Duration
	TotalProcessingDuration time.Duration

	IngredientsOnBoard []catalog.Ingredient
	HasDirtyPlate      bool
}

// New создает станцию в покое
func New(id int, t catalog.StationType, ing catalog.Ingredient) *Station {
	return &Station{
		ID:                 id,
		Type:               t,
		Ingredient:         ing,
		Disabled:           t == catalog.ServingOrder, // место открывается только под заказ
		IngredientsOnBoard: make([]catalog.Ingredient, 0, 4),
	}
}

// Key ключ станции в реплицируемой карте
func (s *Station) Key() string {
	return Key(s.ID)
}

// Empty сообщает, что на доске пусто
func (s *Station) Empty() bool {
	return len(s.IngredientsOnBoard) == 0
}

// Top возвращает последний положенный предмет, самый готовый из лежащих
func (s *Station) Top() (catalog.Ingredient, bool) {
	if s.Empty() {
		return catalog.None, false
	}
	return s.IngredientsOnBoard[len(s.IngredientsOnBoard)-1], true
}

// Push кладет предмет наверх
func (s *Station) Push(ing catalog.Ingredient) {
	s.IngredientsOnBoard = append(s.IngredientsOnBoard, ing)
}

// Pop снимает верхний предмет
func (s *Station) Pop() (catalog.Ingredient, bool) {
	top, ok := s.Top()
	if !ok {
		return catalog.None, false
	}
	s.IngredientsOnBoard = s.IngredientsOnBoard[:len(s.IngredientsOnBoard)-1]
	return top, true
}

// Contains сообщает, лежит ли ing на доске
func (s *Station) Contains(ing catalog.Ingredient) bool {
	for _, have := range s.IngredientsOnBoard {
		if have == ing {
			return true
		}
	}
	return false
}

// Board возвращает копию содержимого доски
func (s *Station) Board() []catalog.Ingredient {
	return append([]catalog.Ingredient(nil), s.IngredientsOnBoard...)
}

// ClearBoard очищает доску
func (s *Station) ClearBoard() {
	s.IngredientsOnBoard = s.IngredientsOnBoard[:0]
}

// Processing сообщает, идет ли таймер рецепта
func (s *Station) Processing() bool {
	return s.IsActive && s.ProcessingRecipeID != ""
}

// StartProcessing запускает таймер рецепта
func (s *Station) StartProcessing(recipeID string, d time.Duration, now time.Time) {
	s.IsActive = true
	s.ActiveSince = now
	s.ProcessingRecipeID = recipeID
	s.ProcessingTimeLeft = d
	s.TotalProcessingDuration = d
}

// ResetProcessing возвращает станцию в покой, доску не трогает
func (s *Station) ResetProcessing() {
	s.IsActive = false
	s.ActiveSince = time.Time{}
	s.ProcessingRecipeID = ""
	s.ProcessingTimeLeft = 0
	s.TotalProcessingDuration = 0
}

// Flash подсвечивает станцию, только для отклика в клиенте
func (s *Station) Flash(now time.Time) {
	if s.Processing() {
		return
	}
	s.IsActive = true
	s.ActiveSince = now
}

// Unflash снимает подсветку Flash. Флаг, который уже принадлежит обработке,
// не трогается.
func (s *Station) Unflash() {
	if s.Processing() {
		return
	}
	s.IsActive = false
	s.ActiveSince = time.Time{}
}
