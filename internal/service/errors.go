package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrEmptyQuery is returned when a search is issued without a query.
	ErrEmptyQuery = errors.New("search query must not be empty")
	// ErrInvalidMealID is returned for ids that are not UUIDs.
	ErrInvalidMealID = errors.New("invalid meal id")
	// ErrNoFavorites is returned by Surprise when nothing has been favorited.
	ErrNoFavorites = errors.New("no favorite meals saved yet")
	// ErrNoSimilar is returned by Surprise when upstream has no unseen similar meals.
	ErrNoSimilar = errors.New("no similar meals found")
	// ErrNoRatedMeals is returned by DishOfTheDay when no meal carries a rating.
	ErrNoRatedMeals = errors.New("no rated meals")
	// ErrExportDisabled is returned when no export bucket is configured.
	ErrExportDisabled = errors.New("overview export is not configured")
)

// UpstreamError reports that the recipe API was unreachable, answered with a
// non-success status, or sent a body that could not be decoded.
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("upstream error (status %d): %s: %v", e.StatusCode, e.Message, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("upstream error (status %d): %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("upstream error: %s: %v", e.Message, e.Err)
	}
	return "upstream error: " + e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// RateLimitError reports that the recipe API is throttling this client.
// RetryAfter is zero when the upstream did not say.
type RateLimitError struct {
	StatusCode int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("upstream rate limit exceeded (status %d), retry after %s", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("upstream rate limit exceeded (status %d)", e.StatusCode)
}

// InvalidRatingError rejects a star count outside [1,5].
type InvalidRatingError struct {
	Stars int
}

func (e *InvalidRatingError) Error() string {
	return fmt.Sprintf("invalid rating %d: must be between 1 and 5", e.Stars)
}

// MissingDataError lists nutrition fields the upstream omitted. It is
// informational: the presenter substitutes zero for each of them.
type MissingDataError struct {
	Meal   string
	Fields []string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("meal %q is missing nutrition data: %s", e.Meal, strings.Join(e.Fields, ", "))
}

// FilterError rejects a malformed search filter.
type FilterError struct {
	Field   string
	Message string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid filter %s: %s", e.Field, e.Message)
}
