// Package search provides full-text recipe search backed by Bleve.
package search

import (
	"github.com/foodgram/foodgram-server/internal/domain"
)

// RecipeDocument is the indexed form of a recipe.
type RecipeDocument struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Text        string `json:"text"`
	AuthorID    string `json:"author_id"`
	CookingTime int    `json:"cooking_time"`
	CreatedAt   int64  `json:"created_at"` // unix millis
}

// RecipeToDocument converts a recipe to its search document.
func RecipeToDocument(r *domain.Recipe) *RecipeDocument {
	return &RecipeDocument{
		ID:          r.ID,
		Name:        r.Name,
		Text:        r.Text,
		AuthorID:    r.AuthorID,
		CookingTime: r.CookingTime,
		CreatedAt:   r.CreatedAt.UnixMilli(),
	}
}

// ToMap keys the document by the field names used in the mapping.
func (d *RecipeDocument) ToMap() map[string]any {
	return map[string]any{
		"id":           d.ID,
		"name":         d.Name,
		"text":         d.Text,
		"author_id":    d.AuthorID,
		"cooking_time": float64(d.CookingTime),
		"created_at":   float64(d.CreatedAt),
	}
}
