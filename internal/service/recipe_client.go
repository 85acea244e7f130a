package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pageza/smartmeal/backend/internal/model"
)

// DefaultRecipeAPIURL is the Spoonacular API root.
const DefaultRecipeAPIURL = "https://api.spoonacular.com"

// maxErrorBody bounds how much of an upstream error body is kept.
const maxErrorBody = 512

var upstreamRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "smartmeal_upstream_requests_total",
		Help: "Requests sent to the recipe API by endpoint and outcome",
	},
	[]string{"endpoint", "outcome"},
)

// nutrientNames maps Spoonacular nutrient names onto ours.
var nutrientNames = map[string]string{
	"Protein":       model.NutrientProtein,
	"Calories":      model.NutrientCalories,
	"Fat":           model.NutrientFat,
	"Carbohydrates": model.NutrientCarbohydrate,
}

type nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type instructionBlock struct {
	Steps []struct {
		Number int    `json:"number"`
		Step   string `json:"step"`
	} `json:"steps"`
}

// recipeInfo is the subset of a Spoonacular recipe we ingest.
type recipeInfo struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Image           string   `json:"image"`
	PricePerServing *float64 `json:"pricePerServing"`
	Nutrition       *struct {
		Nutrients []nutrient `json:"nutrients"`
	} `json:"nutrition"`
	AnalyzedInstructions []instructionBlock `json:"analyzedInstructions"`
}

type complexSearchResponse struct {
	Results      []recipeInfo `json:"results"`
	TotalResults int          `json:"totalResults"`
}

type similarRecipe struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// RecipeClient talks to the Spoonacular recipe API. Each call is a single
// attempt bounded by the client timeout.
type RecipeClient struct {
	apiKey        string
	apiURL        string
	client        *http.Client
	defaultNumber int
}

// RecipeClientOption customizes a RecipeClient.
type RecipeClientOption func(*RecipeClient)

// WithHTTPClient replaces the HTTP client, e.g. with one from httptest.
func WithHTTPClient(c *http.Client) RecipeClientOption {
	return func(rc *RecipeClient) {
		rc.client = c
	}
}

// WithDefaultNumber sets the result count used when a search doesn't ask for one.
func WithDefaultNumber(n int) RecipeClientOption {
	return func(rc *RecipeClient) {
		if n > 0 {
			rc.defaultNumber = n
		}
	}
}

// NewRecipeClient creates a new RecipeClient instance
func NewRecipeClient(apiKey, apiURL string, timeout time.Duration, opts ...RecipeClientOption) (*RecipeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("recipe API key must be set")
	}
	if apiURL == "" {
		apiURL = DefaultRecipeAPIURL
	}
	if _, err := url.Parse(apiURL); err != nil {
		return nil, fmt.Errorf("invalid recipe API URL %q: %w", apiURL, err)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	rc := &RecipeClient{
		apiKey:        apiKey,
		apiURL:        strings.TrimRight(apiURL, "/"),
		client:        &http.Client{Timeout: timeout},
		defaultNumber: DefaultSearchNumber,
	}
	for _, opt := range opts {
		opt(rc)
	}
	return rc, nil
}

// Search runs a complex search and returns the matching meals in upstream
// order. Meals failing the filters locally are dropped even if the upstream
// returned them.
func (c *RecipeClient) Search(ctx context.Context, query string, filters SearchFilters) ([]model.Meal, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("number", strconv.Itoa(filters.Limit(c.defaultNumber)))
	params.Set("addRecipeInformation", "true")
	params.Set("addRecipeNutrition", "true")
	setFloat(params, "minProtein", filters.MinProtein)
	setFloat(params, "maxProtein", filters.MaxProtein)
	setFloat(params, "minCalories", filters.MinCalories)
	setFloat(params, "maxCalories", filters.MaxCalories)

	var resp complexSearchResponse
	if err := c.get(ctx, "complexSearch", "/recipes/complexSearch", params, &resp); err != nil {
		return nil, err
	}

	meals := make([]model.Meal, 0, len(resp.Results))
	for _, r := range resp.Results {
		meals = append(meals, r.toMeal())
	}
	return filters.Apply(meals), nil
}

// Similar returns full recipe information for recipes similar to sourceID.
func (c *RecipeClient) Similar(ctx context.Context, sourceID int64, number int) ([]model.Meal, error) {
	if number <= 0 {
		number = c.defaultNumber
	}
	params := url.Values{}
	params.Set("number", strconv.Itoa(number))

	var similar []similarRecipe
	path := fmt.Sprintf("/recipes/%d/similar", sourceID)
	if err := c.get(ctx, "similar", path, params, &similar); err != nil {
		return nil, err
	}
	if len(similar) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(similar))
	for _, s := range similar {
		ids = append(ids, strconv.FormatInt(s.ID, 10))
	}
	bulk := url.Values{}
	bulk.Set("ids", strings.Join(ids, ","))
	bulk.Set("includeNutrition", "true")

	var infos []recipeInfo
	if err := c.get(ctx, "informationBulk", "/recipes/informationBulk", bulk, &infos); err != nil {
		return nil, err
	}

	meals := make([]model.Meal, 0, len(infos))
	for _, r := range infos {
		meals = append(meals, r.toMeal())
	}
	return meals, nil
}

func (c *RecipeClient) get(ctx context.Context, endpoint, path string, params url.Values, target interface{}) error {
	params.Set("apiKey", c.apiKey)
	u := c.apiURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		upstreamRequests.WithLabelValues(endpoint, "unreachable").Inc()
		return &UpstreamError{Message: "failed to call recipe API " + endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusPaymentRequired {
		upstreamRequests.WithLabelValues(endpoint, "throttled").Inc()
		return &RateLimitError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		upstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return &UpstreamError{StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstreamRequests.WithLabelValues(endpoint, "error").Inc()
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(body, target); err != nil {
		upstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return &UpstreamError{StatusCode: resp.StatusCode, Message: "failed to parse response", Err: err}
	}

	upstreamRequests.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

func (r recipeInfo) toMeal() model.Meal {
	meal := model.Meal{
		SourceID: r.ID,
		Name:     r.Title,
		ImageURL: r.Image,
	}
	if r.PricePerServing != nil && *r.PricePerServing > 0 && !math.IsInf(*r.PricePerServing, 0) {
		meal.BasePrice = roundCents(*r.PricePerServing / 100)
	}
	if r.Nutrition != nil {
		for _, n := range r.Nutrition.Nutrients {
			name, ok := nutrientNames[n.Name]
			if !ok {
				continue
			}
			amount := n.Amount
			switch name {
			case model.NutrientProtein:
				meal.Nutrition.Protein = &amount
			case model.NutrientCalories:
				meal.Nutrition.Calories = &amount
			case model.NutrientFat:
				meal.Nutrition.Fat = &amount
			case model.NutrientCarbohydrate:
				meal.Nutrition.Carbohydrate = &amount
			}
		}
	}
	for _, block := range r.AnalyzedInstructions {
		for _, s := range block.Steps {
			if step := strings.TrimSpace(s.Step); step != "" {
				meal.Instructions = append(meal.Instructions, step)
			}
		}
	}
	return meal
}

func setFloat(params url.Values, key string, v *float64) {
	if v != nil {
		params.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}

// parseRetryAfter accepts either delay seconds or an HTTP date.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
