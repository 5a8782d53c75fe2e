package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCategories(t *testing.T) {
	cat := DefaultCategories()
	require.Len(t, cat.Categories, 10)
	assert.Equal(t, "Food & Dining", cat.Categories[0])
	assert.Equal(t, "Other", cat.Categories[9])
}

func TestDefaultCategoriesIsACopy(t *testing.T) {
	first := DefaultCategories()
	first.Categories[0] = "Mutated"
	first.Categories = append(first.Categories, "Extra")

	again := DefaultCategories()
	assert.Equal(t, "Food & Dining", again.Categories[0])
	assert.Len(t, again.Categories, 10)
}

func TestCategoryCatalogJSON(t *testing.T) {
	body, err := DefaultCategories().JSON()
	require.NoError(t, err)

	var decoded map[string][]string
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, DefaultCategories().Categories, decoded["categories"])
}
