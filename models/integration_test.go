package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Walks the whole create→reference→blocked-delete→delete flow across
// both repositories.
func TestCatalogLifecycle(t *testing.T) {
	db := setupTestDB(t)
	categories := NewCategoriesRepository(db)
	buzzwords := NewBuzzwordsRepository(db, testAdminPassword)

	languages, err := categories.Create("Languages", "desc")
	require.NoError(t, err)

	rust, err := buzzwords.Create(BuzzwordFields{
		Name:          "Rust",
		Description:   "desc",
		Price:         decimal.NewFromInt(10),
		NumberInStock: 100,
	}, []string{languages.ID})
	require.NoError(t, err)

	found, err := buzzwords.GetByID(rust.ID)
	require.NoError(t, err)
	require.Len(t, found.Categories, 1)
	assert.Equal(t, languages.ID, found.Categories[0].ID)

	// Deleting a referenced category is refused and names the dependents.
	err = categories.Delete(languages.ID)
	assert.ErrorIs(t, err, ErrCategoryHasDependents)
	dependents, err := categories.Dependents(languages.ID)
	require.NoError(t, err)
	require.Len(t, dependents, 1)
	assert.Equal(t, "Rust", dependents[0].Name)

	// Once the dependent is gone the delete goes through.
	require.NoError(t, buzzwords.Delete(rust.ID, testAdminPassword))
	require.NoError(t, categories.Delete(languages.ID))

	_, err = categories.GetByID(languages.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
