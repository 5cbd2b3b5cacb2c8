package catalog

// Counts мультимножество ингредиентов
type Counts map[Ingredient]int

// CountIngredients считает ингредиенты списка. None пропускается.
func CountIngredients(ingredients []Ingredient) Counts {
	counts := make(Counts, len(ingredients))
	for _, ing := range ingredients {
		if ing == None {
			continue
		}
		counts[ing]++
	}
	return counts
}

// CountRequirements считает требования рецепта
func CountRequirements(requirements []Quantity) Counts {
	counts := make(Counts, len(requirements))
	for _, q := range requirements {
		if q.Ingredient == None || q.Amount <= 0 {
			continue
		}
		counts[q.Ingredient] += q.Amount
	}
	return counts
}

// Equal сообщает, совпадают ли ингредиенты и их количества
func (c Counts) Equal(other Counts) bool {
	if len(c) != len(other) {
		return false
	}
	for ing, n := range c {
		if other[ing] != n {
			return false
		}
	}
	return true
}

// SubsetOf сообщает, что ни один ингредиент c не превышает своего количества в other
func (c Counts) SubsetOf(other Counts) bool {
	for ing, n := range c {
		if n > other[ing] {
			return false
		}
	}
	return true
}

// With возвращает копию c с еще одной единицей ing
func (c Counts) With(ing Ingredient) Counts {
	out := make(Counts, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	if ing != None {
		out[ing]++
	}
	return out
}
