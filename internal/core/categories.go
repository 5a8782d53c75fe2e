package core

import "encoding/json"

const (
	// CategoriesURI identifies the category catalog resource.
	CategoriesURI      = "expense:///categories"
	CategoriesMIMEType = "application/json"
)

var defaultCategories = [...]string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Travel",
	"Education",
	"Business",
	"Other",
}

// CategoryCatalog is the document served for the categories resource.
type CategoryCatalog struct {
	Categories []string `json:"categories"`
}

// DefaultCategories returns a fresh copy of the suggested categories.
// The list is advisory: records may carry any category text.
func DefaultCategories() CategoryCatalog {
	cats := make([]string, len(defaultCategories))
	copy(cats, defaultCategories[:])
	return CategoryCatalog{Categories: cats}
}

// JSON renders the catalog as indented JSON.
func (c CategoryCatalog) JSON() (string, error) {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
