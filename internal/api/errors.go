package api

import (
	"errors"
	"net/http"

	"github.com/pageza/whatsfordinner/backend/internal/service"
)

// statusForError maps a taxonomy error to an HTTP status: caller errors
// to 400, provider failures to 502, everything else (including
// dimension drift) to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidQuery),
		errors.Is(err, service.ErrUnsupportedImageFormat),
		errors.Is(err, service.ErrMalformedRecipe),
		errors.Is(err, service.ErrNoIngredientsDetected):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrEmbedding),
		errors.Is(err, service.ErrGeneration),
		errors.Is(err, service.ErrVision):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
