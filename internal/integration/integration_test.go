package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/smartmeal/backend/config"
	"github.com/pageza/smartmeal/backend/internal/api"
	"github.com/pageza/smartmeal/backend/internal/app"
	"github.com/pageza/smartmeal/backend/internal/database"
	"github.com/pageza/smartmeal/backend/internal/router"
	"github.com/pageza/smartmeal/backend/internal/service"
	"github.com/pageza/smartmeal/backend/internal/store"
	"github.com/pageza/smartmeal/backend/internal/testhelpers"
	"github.com/pageza/smartmeal/backend/migrations"
)

type client struct {
	t    *testing.T
	base string
}

func (c *client) do(method, path string, body any) (int, []byte) {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, r)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func startServer(t *testing.T, meals service.IMealService) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{CORSAllowedOrigins: []string{"http://localhost:5173"}}
	srv := httptest.NewServer(router.SetupRouter(cfg, meals, nil))
	t.Cleanup(srv.Close)
	return &client{t: t, base: srv.URL}
}

// exerciseMealFlow drives search, rating, favorites, surprise and the dish
// of the day through the HTTP API.
func exerciseMealFlow(t *testing.T, c *client) {
	status, body := c.do("GET", "/api/v1/meals/search?q=pasta&min_protein=20", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	found := decode[api.MealsResponse](t, body)
	require.Equal(t, 2, found.Count)
	chicken, tuna := found.Meals[0], found.Meals[1]
	assert.Equal(t, "Chicken Pasta", chicken.Name)
	assert.Equal(t, "Tuna Pasta Salad", tuna.Name)

	status, body = c.do("POST", "/api/v1/meals/"+chicken.ID.String()+"/rating", api.RateRequest{Stars: intPtr(1)})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, 3.72, decode[service.MealView](t, body).Price)

	status, body = c.do("POST", "/api/v1/meals/"+tuna.ID.String()+"/rating", api.RateRequest{Stars: intPtr(5)})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, 3.6, decode[service.MealView](t, body).Price)

	// searching again keeps the ratings
	status, body = c.do("GET", "/api/v1/meals/search?q=tuna", nil)
	require.Equal(t, http.StatusOK, status)
	again := decode[api.MealsResponse](t, body)
	require.Equal(t, 1, again.Count)
	assert.Equal(t, tuna.ID, again.Meals[0].ID)
	require.NotNil(t, again.Meals[0].Rating)
	assert.Equal(t, 5, *again.Meals[0].Rating)

	status, body = c.do("GET", "/api/v1/meals/dish-of-the-day", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, "Tuna Pasta Salad", decode[service.DishOfTheDay](t, body).Meal.Name)

	status, _ = c.do("POST", "/api/v1/meals/"+chicken.ID.String()+"/favorite", nil)
	require.Equal(t, http.StatusOK, status)
	status, body = c.do("GET", "/api/v1/meals/surprise", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Contains(t, []string{"Pesto Pasta", "Tuna Pasta Salad"}, decode[service.MealView](t, body).Name)

	status, body = c.do("GET", "/api/v1/meals/"+chicken.ID.String()+"/nutrition", nil)
	require.Equal(t, http.StatusOK, status)
	facts := decode[service.NutritionFacts](t, body)
	assert.Equal(t, 40.0, facts.Facts["protein"])
	assert.Empty(t, facts.Missing)

	status, _ = c.do("GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, status)
}

func intPtr(v int) *int { return &v }

func TestMealFlowSQLite(t *testing.T) {
	upstream := testhelpers.NewSpoonacular(t, testhelpers.SampleRecipes()...)
	cfg := &config.Config{
		StoreBackend:        config.StoreSQLite,
		SQLitePath:          filepath.Join(t.TempDir(), "smartmeal.db"),
		RecipeAPIKey:        "test-key",
		RecipeAPIURL:        upstream.URL,
		UpstreamTimeout:     2 * time.Second,
		SearchDefaultNumber: config.DefaultSearchNumber,
		PriceCurrency:       config.DefaultPriceCurrency,
	}

	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	exerciseMealFlow(t, startServer(t, a.Meals))

	for _, r := range upstream.Requests() {
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
	}
}

func TestMealFlowPostgresMigrations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	pg := testhelpers.SetupPostgres(t)

	sqlDB, err := sql.Open("postgres", pg.DSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	_, err = database.ApplyMigrations(context.Background(), sqlDB, migrations.FS)
	require.NoError(t, err)

	upstream := testhelpers.NewSpoonacular(t, testhelpers.SampleRecipes()...)
	recipes, err := service.NewRecipeClient("test-key", upstream.URL, 2*time.Second)
	require.NoError(t, err)
	pricing, err := service.NewPricingEngine(service.DefaultPricingTable())
	require.NoError(t, err)
	meals := service.NewMealService(recipes, store.NewGormStore(pg.Gorm), pricing)

	exerciseMealFlow(t, startServer(t, meals))
}

func TestUpstreamFailuresSurface(t *testing.T) {
	upstream := testhelpers.NewSpoonacular(t)
	recipes, err := service.NewRecipeClient("test-key", upstream.URL, 2*time.Second)
	require.NoError(t, err)
	pricing, err := service.NewPricingEngine(service.DefaultPricingTable())
	require.NoError(t, err)
	c := startServer(t, service.NewMealService(recipes, store.NewMemoryStore(), pricing))

	upstream.Fail(http.StatusPaymentRequired, http.Header{"Retry-After": []string{"30"}}, `{"message":"quota"}`)
	status, body := c.do("GET", "/api/v1/meals/search?q=pasta", nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.NotEmpty(t, decode[api.ErrorResponse](t, body).Error)

	upstream.Fail(http.StatusInternalServerError, nil, "boom")
	status, _ = c.do("GET", "/api/v1/meals/search?q=pasta", nil)
	assert.Equal(t, http.StatusBadGateway, status)

	// only one attempt per search
	assert.Len(t, upstream.Requests(), 2)
}
