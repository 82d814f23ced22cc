package domain

// Bounds for recipe numeric fields.
const (
	MinCookingTime      = 1
	MaxCookingTime      = 32000
	MinIngredientAmount = 1
	MaxIngredientAmount = 32000
	MaxRecipeNameLength = 200
)

// Recipe is a user-authored recipe. Tags and ingredients live in join tables.
type Recipe struct {
	Entity
	AuthorID      string `json:"author_id"`
	Name          string `json:"name"`
	Text          string `json:"text"`
	Image         string `json:"image"`
	ImageBlurHash string `json:"image_blurhash,omitempty"`
	CookingTime   int    `json:"cooking_time"`
}

// IsAuthor reports whether userID authored the recipe.
func (r *Recipe) IsAuthor(userID string) bool {
	return userID != "" && r.AuthorID == userID
}

// RecipeIngredient links a recipe to an ingredient with an amount.
type RecipeIngredient struct {
	IngredientID string `json:"id"`
	Amount       int    `json:"amount"`
}

// RecipeFilter narrows recipe listings. Empty fields do not filter.
type RecipeFilter struct {
	AuthorID string
	// TagSlugs matches recipes carrying any of the slugs.
	TagSlugs []string
	// ViewerID scopes the favorited and shopping cart filters.
	ViewerID           string
	OnlyFavorited      bool
	OnlyInShoppingCart bool
}
