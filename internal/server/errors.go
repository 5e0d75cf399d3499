package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/medplat/internal/analytics"
	"github.com/Skufu/medplat/internal/forecast"
	"github.com/Skufu/medplat/internal/ingest"
	"github.com/Skufu/medplat/internal/store"
)

// writeError maps domain errors onto status codes. Anything unrecognised is a
// 500 carrying msg and the underlying error as details.
func writeError(c *gin.Context, err error, msg string) {
	switch {
	case tooLarge(err):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
	case errors.Is(err, ingest.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
	case errors.Is(err, ingest.ErrNoData):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data found in file"})
	case errors.Is(err, forecast.ErrInsufficientData):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not enough data for forecasting"})
	case errors.Is(err, ingest.ErrInvalidShape),
		errors.Is(err, analytics.ErrUnknownField),
		errors.Is(err, analytics.ErrInvalidInterval),
		errors.Is(err, forecast.ErrInvalidRequest),
		errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, analytics.ErrNoNumericData),
		errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "details": err.Error()})
	}
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	// multipart parsing drops the typed error
	return err != nil && strings.Contains(err.Error(), "request body too large")
}
