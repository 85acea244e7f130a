package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Defaults applied when the environment leaves a value unset.
const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = "8080"
	DefaultSQLitePath      = "smartmeal.db"
	DefaultRecipeAPIURL    = "https://api.spoonacular.com"
	DefaultUpstreamTimeout = 15 * time.Second
	DefaultSearchNumber    = 5
	DefaultPriceCurrency   = "CHF"
	DefaultExportPrefix    = "overviews/"
	DefaultLogLevel        = "info"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort         string
	ServerHost         string
	CORSAllowedOrigins []string

	// Meal store configuration
	StoreBackend string
	SQLitePath   string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Recipe API configuration
	RecipeAPIKey        string
	RecipeAPIURL        string
	UpstreamTimeout     time.Duration
	SearchDefaultNumber int

	// Pricing configuration
	PriceCurrency    string
	PricingTableFile string
	PricingTable     map[int]float64

	// Overview export configuration
	S3Bucket  string
	S3Prefix  string
	AWSRegion string

	LogLevel string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	// Load configuration based on environment
	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if cfg.PricingTableFile != "" {
		table, err := LoadPricingTable(cfg.PricingTableFile)
		if err != nil {
			return nil, err
		}
		cfg.PricingTable = table
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig loads configuration for CI environment from environment variables only
func loadCIConfig(cfg *Config) error {
	if err := loadCommon(cfg); err != nil {
		return err
	}
	cfg.RecipeAPIKey = os.Getenv("SPOONACULAR_API_KEY")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	return nil
}

// loadDevConfig loads configuration for development environment. A .env file
// in the working directory is honored; real environment variables win.
func loadDevConfig(cfg *Config) error {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if err := loadCommon(cfg); err != nil {
		return err
	}

	apiKey, err := envOrFile("SPOONACULAR_API_KEY")
	if err != nil {
		return err
	}
	if apiKey == "" {
		apiKey = readSecret("spoonacular_api_key")
	}
	cfg.RecipeAPIKey = apiKey
	cfg.DBPassword = getEnv("DB_PASSWORD", readSecret("db_password"))
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", readSecret("redis_password"))
	return nil
}

// loadProdConfig loads configuration for production environment; sensitive
// values come only from Docker secrets
func loadProdConfig(cfg *Config) error {
	if err := loadCommon(cfg); err != nil {
		return err
	}
	cfg.RecipeAPIKey = readSecret("spoonacular_api_key")
	cfg.DBPassword = readSecret("db_password")
	cfg.RedisPassword = readSecret("redis_password")
	return nil
}

// loadCommon reads the non-sensitive settings shared by every environment.
func loadCommon(cfg *Config) error {
	cfg.ServerHost = getEnv("SERVER_HOST", DefaultServerHost)
	cfg.ServerPort = getEnv("SERVER_PORT", DefaultServerPort)
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	cfg.StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", StoreMemory))
	cfg.SQLitePath = getEnv("SQLITE_PATH", DefaultSQLitePath)

	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")

	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return err
	}
	cfg.RedisDB = redisDB

	cfg.RecipeAPIURL = getEnv("SPOONACULAR_BASE_URL", DefaultRecipeAPIURL)
	timeout, err := getEnvDuration("UPSTREAM_TIMEOUT", DefaultUpstreamTimeout)
	if err != nil {
		return err
	}
	cfg.UpstreamTimeout = timeout
	number, err := getEnvInt("SEARCH_DEFAULT_NUMBER", DefaultSearchNumber)
	if err != nil {
		return err
	}
	cfg.SearchDefaultNumber = number

	cfg.PriceCurrency = getEnv("PRICE_CURRENCY", DefaultPriceCurrency)
	cfg.PricingTableFile = os.Getenv("PRICING_TABLE_FILE")

	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.S3Prefix = getEnv("S3_EXPORT_PREFIX", DefaultExportPrefix)
	cfg.AWSRegion = os.Getenv("AWS_REGION")

	cfg.LogLevel = getEnv("LOG_LEVEL", DefaultLogLevel)
	return nil
}

// pricingFile is the YAML layout of PRICING_TABLE_FILE.
type pricingFile struct {
	Multipliers map[int]float64 `yaml:"multipliers"`
}

// LoadPricingTable reads a rating -> multiplier table from a YAML file:
//
//	multipliers:
//	  1: 0.9
//	  5: 1.2
func LoadPricingTable(path string) (map[int]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing table %s: %w", path, err)
	}
	var pf pricingFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse pricing table %s: %w", path, err)
	}
	if len(pf.Multipliers) == 0 {
		return nil, fmt.Errorf("pricing table %s has no multipliers", path)
	}
	return pf.Multipliers, nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// envOrFile returns $KEY, or the trimmed contents of the file named by $KEY_FILE.
func envOrFile(key string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	path := os.Getenv(key + "_FILE")
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s_FILE: %w", key, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
