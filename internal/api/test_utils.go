package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/pageza/smartmeal/backend/internal/service"
	"github.com/pageza/smartmeal/backend/internal/store"
	"github.com/pageza/smartmeal/backend/internal/testhelpers"
)

// SetupTestRouter wires a router around a meal service backed by a memory
// store and a fake recipe API.
func SetupTestRouter(t *testing.T, opts ...service.MealServiceOption) (*gin.Engine, *testhelpers.Spoonacular) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := testhelpers.NewSpoonacular(t, testhelpers.SampleRecipes()...)
	client, err := service.NewRecipeClient("test-key", upstream.URL, 2*time.Second)
	require.NoError(t, err)
	engine, err := service.NewPricingEngine(service.DefaultPricingTable())
	require.NoError(t, err)

	opts = append([]service.MealServiceOption{service.WithPicker(func(int) int { return 0 })}, opts...)
	meals := service.NewMealService(client, store.NewMemoryStore(), engine, opts...)

	router := gin.New()
	RegisterRoutes(router, meals, nil)
	return router, upstream
}

// PerformRequest sends a JSON request through the router.
func PerformRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
