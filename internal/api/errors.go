package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/smartmeal/backend/internal/service"
	"github.com/pageza/smartmeal/backend/internal/store"
)

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	var (
		rateErr   *service.RateLimitError
		upErr     *service.UpstreamError
		ratingErr *service.InvalidRatingError
		filterErr *service.FilterError
	)
	switch {
	case errors.Is(err, service.ErrEmptyQuery),
		errors.Is(err, service.ErrInvalidMealID),
		errors.As(err, &ratingErr),
		errors.As(err, &filterErr):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, service.ErrNoFavorites),
		errors.Is(err, service.ErrNoSimilar),
		errors.Is(err, service.ErrNoRatedMeals):
		return http.StatusNotFound
	case errors.As(err, &rateErr):
		return http.StatusTooManyRequests
	case errors.As(err, &upErr):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrExportDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error body with the mapped status.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)

	var rateErr *service.RateLimitError
	if errors.As(err, &rateErr) && rateErr.RetryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rateErr.RetryAfter.Seconds()))))
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}
