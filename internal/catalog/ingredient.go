// Package catalog содержит статические данные ингредиентов и рецептов кухни
// и поиск по ним для симуляции.
package catalog

import (
	"fmt"
	"strings"
)

// Ingredient базовый или приготовленный продукт либо тарелка
type Ingredient int

const (
	None Ingredient = iota
	Plate
	Rice
	CookedRice
	Nori
	Onigiri
	Ebi
	EbiNigiri
	Salmon
	SlicedSalmon
	SalmonNigiri
	Cucumber
	SlicedCucumber
	KappaMaki
)

var ingredientNames = map[Ingredient]string{
	None:           "None",
	Plate:          "Plate",
	Rice:           "Rice",
	CookedRice:     "CookedRice",
	Nori:           "Nori",
	Onigiri:        "Onigiri",
	Ebi:            "Ebi",
	EbiNigiri:      "EbiNigiri",
	Salmon:         "Salmon",
	SlicedSalmon:   "SlicedSalmon",
	SalmonNigiri:   "SalmonNigiri",
	Cucumber:       "Cucumber",
	SlicedCucumber: "SlicedCucumber",
	KappaMaki:      "KappaMaki",
}

func (i Ingredient) String() string {
	if name, ok := ingredientNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Ingredient(%d)", int(i))
}

// ParseIngredient находит ингредиент по имени без учета регистра
func ParseIngredient(name string) (Ingredient, error) {
	for ing, n := range ingredientNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return ing, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownIngredient, name)
}

// MarshalText передает ингредиенты по имени в JSON и YAML
func (i Ingredient) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Ingredient) UnmarshalText(text []byte) error {
	ing, err := ParseIngredient(string(text))
	if err != nil {
		return err
	}
	*i = ing
	return nil
}

// ItemDefinition описание ингредиента для отображения и игровых правил
type ItemDefinition struct {
	Ingredient Ingredient
	Name       string
	Icon       string
	Model      string
	IsPlate    bool
	IsResult   bool // результат какого-то рецепта
	IsFinal    bool // можно подать посетителю
}

// StationType вид интерактивной станции кухни
type StationType int

const (
	Fridge StationType = iota + 1
	Oven
	Counter
	ChoppingBoard
	Sink
	Stock
	Trash
	ServingOrder
	ServingBoard
)

var stationTypeNames = map[StationType]string{
	Fridge:        "Fridge",
	Oven:          "Oven",
	Counter:       "Counter",
	ChoppingBoard: "ChoppingBoard",
	Sink:          "Sink",
	Stock:         "Stock",
	Trash:         "Trash",
	ServingOrder:  "ServingOrder",
	ServingBoard:  "ServingBoard",
}

func (t StationType) String() string {
	if name, ok := stationTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("StationType(%d)", int(t))
}

// ParseStationType находит тип станции по имени без учета регистра
func ParseStationType(name string) (StationType, error) {
	for t, n := range stationTypeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStationType, name)
}

func (t StationType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *StationType) UnmarshalText(text []byte) error {
	st, err := ParseStationType(string(text))
	if err != nil {
		return err
	}
	*t = st
	return nil
}
