package domain

// MaxTagFieldLength bounds tag name and slug.
const MaxTagFieldLength = 200

// Tag is administrator-managed reference data used to categorize recipes.
// Color is a unique "#RRGGBB" string; Slug is unique and URL-safe.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}
