package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb/proj/internal/domain/fields"
)

func TestTitleRowToTitle(t *testing.T) {
	t.Run("zero-review title serializes a null rating", func(t *testing.T) {
		row := titleRow{ID: 1, Name: "Dune", Year: 1965}
		title := row.toTitle()
		assert.False(t, title.Rating.Valid)
		assert.Nil(t, title.Category)
		assert.Empty(t, title.Genres)

		data, err := json.Marshal(title)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"rating":null`)
	})
	t.Run("reviewed title carries the mean score", func(t *testing.T) {
		categoryID := int64(3)
		categoryName := "Books"
		categorySlug := "books"
		row := titleRow{
			ID:           2,
			Name:         "Dune",
			Year:         1965,
			Rating:       fields.Rating{Value: 7.5, Valid: true},
			CategoryID:   &categoryID,
			CategoryName: &categoryName,
			CategorySlug: &categorySlug,
		}
		title := row.toTitle()
		require.NotNil(t, title.Category)
		assert.Equal(t, "books", title.Category.Slug)

		data, err := json.Marshal(title)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"rating":7.5`)
	})
}
