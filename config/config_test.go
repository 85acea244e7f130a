package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points config loading at empty directories so the developer's
// .env and secrets don't leak into tests.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("SECRETS_DIR", dir)
	for _, key := range []string{
		"SPOONACULAR_API_KEY", "SPOONACULAR_API_KEY_FILE", "STORE_BACKEND", "SERVER_PORT",
		"UPSTREAM_TIMEOUT", "SEARCH_DEFAULT_NUMBER", "PRICING_TABLE_FILE", "DB_PASSWORD",
		"CORS_ALLOWED_ORIGINS", "S3_BUCKET_NAME", "PRICE_CURRENCY",
	} {
		// Setenv restores the original value on cleanup; unset so .env files apply.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestLoadConfig(t *testing.T) {
	isolate(t)
	t.Setenv("SPOONACULAR_API_KEY", "test-key")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "smartmeal")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.RecipeAPIKey)
	assert.Equal(t, StorePostgres, cfg.StoreBackend)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "smartmeal", cfg.DBName)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("SPOONACULAR_API_KEY", "test-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, DefaultServerPort, cfg.ServerPort)
	assert.Equal(t, DefaultRecipeAPIURL, cfg.RecipeAPIURL)
	assert.Equal(t, DefaultUpstreamTimeout, cfg.UpstreamTimeout)
	assert.Equal(t, DefaultSearchNumber, cfg.SearchDefaultNumber)
	assert.Equal(t, DefaultPriceCurrency, cfg.PriceCurrency)
	assert.Nil(t, cfg.PricingTable)
}

func TestLoadConfigRequiresAPIKey(t *testing.T) {
	isolate(t)

	_, err := LoadConfig()
	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "SPOONACULAR_API_KEY", ve.Field)
}

func TestLoadConfigAPIKeyFromSecret(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spoonacular_api_key"), []byte("secret-key\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.RecipeAPIKey)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SPOONACULAR_API_KEY=from-dotenv\nPRICE_CURRENCY=EUR\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.RecipeAPIKey)
	assert.Equal(t, "EUR", cfg.PriceCurrency)
}

func TestLoadConfigInvalidValues(t *testing.T) {
	isolate(t)
	t.Setenv("SPOONACULAR_API_KEY", "test-key")
	t.Setenv("SERVER_PORT", "99999")
	t.Setenv("SEARCH_DEFAULT_NUMBER", "0")
	t.Setenv("STORE_BACKEND", "mongo")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
	assert.Contains(t, err.Error(), "SEARCH_DEFAULT_NUMBER")
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}

func TestLoadPricingTable(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "pricing.yaml")
	require.NoError(t, os.WriteFile(path, []byte("multipliers:\n  1: 0.8\n  2: 0.9\n  3: 1.0\n  4: 1.1\n  5: 1.3\n"), 0o600))
	t.Setenv("SPOONACULAR_API_KEY", "test-key")
	t.Setenv("PRICING_TABLE_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, map[int]float64{1: 0.8, 2: 0.9, 3: 1.0, 4: 1.1, 5: 1.3}, cfg.PricingTable)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("multipliers: {}\n"), 0o600))
	_, err = LoadPricingTable(empty)
	assert.Error(t, err)

	_, err = LoadPricingTable(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Production, ParseEnvironment("prod"))
	assert.Equal(t, Production, ParseEnvironment("Production"))
	assert.Equal(t, Test, ParseEnvironment("test"))
	assert.Equal(t, Development, ParseEnvironment(""))
}
