package catalog

import "time"

// DefaultItems встроенная таблица ингредиентов
var DefaultItems = []ItemDefinition{
	{Ingredient: Plate, Name: "Plate", Icon: "icons/plate.png", Model: "models/plate.glb", IsPlate: true},
	{Ingredient: Rice, Name: "Rice", Icon: "icons/rice.png", Model: "models/rice.glb"},
	{Ingredient: CookedRice, Name: "Cooked Rice", Icon: "icons/cooked_rice.png", Model: "models/cooked_rice.glb", IsResult: true},
	{Ingredient: Nori, Name: "Nori", Icon: "icons/nori.png", Model: "models/nori.glb"},
	{Ingredient: Onigiri, Name: "Onigiri", Icon: "icons/onigiri.png", Model: "models/onigiri.glb", IsResult: true, IsFinal: true},
	{Ingredient: Ebi, Name: "Ebi", Icon: "icons/ebi.png", Model: "models/ebi.glb"},
	{Ingredient: EbiNigiri, Name: "Ebi Nigiri", Icon: "icons/ebi_nigiri.png", Model: "models/ebi_nigiri.glb", IsResult: true, IsFinal: true},
	{Ingredient: Salmon, Name: "Salmon", Icon: "icons/salmon.png", Model: "models/salmon.glb"},
	{Ingredient: SlicedSalmon, Name: "Sliced Salmon", Icon: "icons/sliced_salmon.png", Model: "models/sliced_salmon.glb", IsResult: true},
	{Ingredient: SalmonNigiri, Name: "Salmon Nigiri", Icon: "icons/salmon_nigiri.png", Model: "models/salmon_nigiri.glb", IsResult: true, IsFinal: true},
	{Ingredient: Cucumber, Name: "Cucumber", Icon: "icons/cucumber.png", Model: "models/cucumber.glb"},
	{Ingredient: SlicedCucumber, Name: "Sliced Cucumber", Icon: "icons/sliced_cucumber.png", Model: "models/sliced_cucumber.glb", IsResult: true},
	{Ingredient: KappaMaki, Name: "Kappa Maki", Icon: "icons/kappa_maki.png", Model: "models/kappa_maki.glb", IsResult: true, IsFinal: true},
}

// DefaultRecipes встроенная таблица рецептов. Порядок важен для FindRecipeByResult.
var DefaultRecipes = []Recipe{
	{
		ID:             "cooked_rice_recipe",
		Name:           "Cooked Rice",
		Result:         Quantity{Ingredient: CookedRice, Amount: 1},
		Required:       []Quantity{{Ingredient: Rice, Amount: 1}},
		StationType:    Oven,
		ProcessingTime: 5 * time.Second,
	},
	{
		ID:          "sliced_salmon_recipe",
		Name:        "Sliced Salmon",
		Result:      Quantity{Ingredient: SlicedSalmon, Amount: 1},
		Required:    []Quantity{{Ingredient: Salmon, Amount: 1}},
		StationType: ChoppingBoard,
	},
	{
		ID:          "sliced_cucumber_recipe",
		Name:        "Sliced Cucumber",
		Result:      Quantity{Ingredient: SlicedCucumber, Amount: 1},
		Required:    []Quantity{{Ingredient: Cucumber, Amount: 1}},
		StationType: ChoppingBoard,
	},
	{
		ID:          "onigiri_recipe",
		Name:        "Onigiri",
		Result:      Quantity{Ingredient: Onigiri, Amount: 1},
		Required:    []Quantity{{Ingredient: CookedRice, Amount: 1}, {Ingredient: Nori, Amount: 1}},
		StationType: ChoppingBoard,
		ScoreValue:  100,
		ForServing:  true,
	},
	{
		ID:           "ebi_nigiri_recipe",
		Name:         "Ebi Nigiri",
		Result:       Quantity{Ingredient: EbiNigiri, Amount: 1},
		Required:     []Quantity{{Ingredient: CookedRice, Amount: 1}, {Ingredient: Nori, Amount: 1}, {Ingredient: Ebi, Amount: 1}},
		StationType:  ChoppingBoard,
		ScoreValue:   150,
		ForServing:   true,
		UpgradesFrom: "onigiri_recipe",
	},
	{
		ID:           "kappa_maki_recipe",
		Name:         "Kappa Maki",
		Result:       Quantity{Ingredient: KappaMaki, Amount: 1},
		Required:     []Quantity{{Ingredient: CookedRice, Amount: 1}, {Ingredient: Nori, Amount: 1}, {Ingredient: SlicedCucumber, Amount: 1}},
		StationType:  ChoppingBoard,
		ScoreValue:   140,
		ForServing:   true,
		UpgradesFrom: "onigiri_recipe",
	},
	{
		ID:          "salmon_nigiri_recipe",
		Name:        "Salmon Nigiri",
		Result:      Quantity{Ingredient: SalmonNigiri, Amount: 1},
		Required:    []Quantity{{Ingredient: CookedRice, Amount: 1}, {Ingredient: SlicedSalmon, Amount: 1}},
		StationType: ChoppingBoard,
		ScoreValue:  120,
		ForServing:  true,
	},
}

// DefaultRegistry строит реестр из встроенных таблиц. Таблицы вшиты в бинарник,
// поэтому ошибка проверки здесь это ошибка программиста.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(DefaultItems, DefaultRecipes)
	if err != nil {
		panic(err)
	}
	return reg
}
