package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisionService_ExtractIngredients(t *testing.T) {
	ctx := context.Background()
	image := []byte{0x89, 0x50, 0x4E, 0x47}

	t.Run("should strip bullet prefixes from the reply", func(t *testing.T) {
		vision := &countingVision{reply: "• chicken breast\n- soy sauce\n* garlic\n1. broccoli\n10. carrots\n"}
		svc := NewVisionService(vision)

		ingredients, err := svc.ExtractIngredients(ctx, image, "image/png")
		require.NoError(t, err)
		assert.Equal(t, []string{"chicken breast", "soy sauce", "garlic", "broccoli", "carrots"}, ingredients)
	})

	t.Run("should keep plain lines untouched", func(t *testing.T) {
		vision := &countingVision{reply: "chicken\nrice\n"}
		svc := NewVisionService(vision)

		ingredients, err := svc.ExtractIngredients(ctx, image, "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, []string{"chicken", "rice"}, ingredients)
	})

	t.Run("should drop blank and single character lines", func(t *testing.T) {
		vision := &countingVision{reply: "chicken\n\n- \nx\nrice\n"}
		svc := NewVisionService(vision)

		ingredients, err := svc.ExtractIngredients(ctx, image, "image/webp")
		require.NoError(t, err)
		assert.Equal(t, []string{"chicken", "rice"}, ingredients)
	})

	t.Run("should return an empty list for an empty reply", func(t *testing.T) {
		vision := &countingVision{reply: ""}
		svc := NewVisionService(vision)

		ingredients, err := svc.ExtractIngredients(ctx, image, "image/gif")
		require.NoError(t, err)
		assert.Empty(t, ingredients)
		assert.Equal(t, 1, vision.calls)
	})

	t.Run("should reject unsupported formats before calling the provider", func(t *testing.T) {
		vision := &countingVision{reply: "chicken\n"}
		svc := NewVisionService(vision)

		for _, mimeType := range []string{"image/bmp", "image/tiff", "text/plain", ""} {
			_, err := svc.ExtractIngredients(ctx, image, mimeType)
			assert.ErrorIs(t, err, ErrUnsupportedImageFormat, mimeType)
		}
		assert.Zero(t, vision.calls)
	})

	t.Run("should accept MIME types case-insensitively", func(t *testing.T) {
		vision := &countingVision{reply: "chicken\n"}
		svc := NewVisionService(vision)

		_, err := svc.ExtractIngredients(ctx, image, "IMAGE/JPEG")
		assert.NoError(t, err)
	})

	t.Run("should surface provider failures", func(t *testing.T) {
		vision := &countingVision{err: ErrVision}
		svc := NewVisionService(vision)

		_, err := svc.ExtractIngredients(ctx, image, "image/png")
		assert.ErrorIs(t, err, ErrVision)
	})
}
