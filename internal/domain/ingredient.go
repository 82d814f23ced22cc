package domain

// MaxIngredientFieldLength bounds ingredient name and unit.
const MaxIngredientFieldLength = 200

// Ingredient is catalogue reference data. The (Name, MeasurementUnit) pair is unique.
type Ingredient struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// IngredientAmount is an ingredient as it appears inside a recipe.
type IngredientAmount struct {
	Ingredient
	Amount int `json:"amount"`
}

// ShoppingItem is one aggregated line of a shopping list.
type ShoppingItem struct {
	Name            string `db:"name"`
	MeasurementUnit string `db:"measurement_unit"`
	Amount          int    `db:"total"`
}
