package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/whatsfordinner/backend/internal/testhelpers"
)

// pgDimension matches the migrated vector column width
const pgDimension = 1536

// pgVectorFor returns a unit basis vector with the given component set
func pgVectorFor(component int) []float32 {
	v := make([]float32, pgDimension)
	v[component] = 1
	return v
}

func TestRecipeStore_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}

	db := testhelpers.SetupTestDatabase(t)
	s := NewRecipeStore(db, pgDimension)
	ctx := context.Background()

	t.Run("should rank results by cosine distance", func(t *testing.T) {
		require.NoError(t, s.Upsert(ctx, testRecipe("pasta", pgVectorFor(0))))
		require.NoError(t, s.Upsert(ctx, testRecipe("soup", pgVectorFor(1))))

		near := pgVectorFor(0)
		near[1] = 0.1
		require.NoError(t, s.Upsert(ctx, testRecipe("risotto", near)))

		results, err := s.Search(ctx, pgVectorFor(0), 3)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "pasta", results[0].Recipe.Title)
		assert.Equal(t, "risotto", results[1].Recipe.Title)
		assert.Equal(t, "soup", results[2].Recipe.Title)
		assert.InDelta(t, 1.0, results[0].Score, 1e-4)
		assert.Greater(t, results[1].Score, results[2].Score)
	})

	t.Run("should cap results at k", func(t *testing.T) {
		results, err := s.Search(ctx, pgVectorFor(0), 2)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("should update in place on conflicting id", func(t *testing.T) {
		before, err := s.Count(ctx)
		require.NoError(t, err)

		updated := testRecipe("pasta", pgVectorFor(2))
		updated.Ingredients = append(updated.Ingredients, "olive oil")
		require.NoError(t, s.Upsert(ctx, updated))

		after, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)

		got, err := s.GetByID(ctx, updated.ID.String())
		require.NoError(t, err)
		assert.Contains(t, []string(got.Ingredients), "olive oil")
	})

	t.Run("should reject a query of the wrong dimension", func(t *testing.T) {
		_, err := s.Search(ctx, []float32{1, 0}, 3)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}
