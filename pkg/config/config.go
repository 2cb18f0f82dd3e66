package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends selectable through STORE_BACKEND.
const (
	StoreBackendFile     = "file"
	StoreBackendPostgres = "postgres"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// ErrInvalidConfig is returned when a setting cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration.
type Config struct {
	// Ledger storage
	DataDir        string
	AccountsFile   string
	MovementsFile  string
	StoreBackend   string
	DatabaseURL    string
	MigrationsPath string

	// Account engine
	HistoryDefaultCount int
	ReconcileOnLoad     bool

	// HTTP shell
	Port               string
	IsProduction       bool
	JWTSecret          string
	JWTExpiryDuration  time.Duration
	JWTIssuer          string
	LoginRateLimit     string
	CORSAllowedOrigins []string

	LogLevel slog.Level
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("ACCOUNTS_FILE", "usuarios.csv")
	v.SetDefault("MOVEMENTS_FILE", "movimientos.csv")
	v.SetDefault("STORE_BACKEND", StoreBackendFile)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("HISTORY_DEFAULT_COUNT", 5)
	v.SetDefault("RECONCILE_ON_LOAD", false)
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "15m")
	v.SetDefault("JWT_ISSUER", "atm-ledger")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")

	// Environment variables override .env values, which override the defaults above.
	v.AutomaticEnv()

	cfg := &Config{
		DataDir:             v.GetString("DATA_DIR"),
		AccountsFile:        v.GetString("ACCOUNTS_FILE"),
		MovementsFile:       v.GetString("MOVEMENTS_FILE"),
		StoreBackend:        strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		DatabaseURL:         v.GetString("PGSQL_URL"),
		MigrationsPath:      v.GetString("MIGRATIONS_PATH"),
		HistoryDefaultCount: v.GetInt("HISTORY_DEFAULT_COUNT"),
		ReconcileOnLoad:     v.GetBool("RECONCILE_ON_LOAD"),
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTIssuer:           v.GetString("JWT_ISSUER"),
		LoginRateLimit:      v.GetString("LOGIN_RATE_LIMIT"),
		CORSAllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	switch cfg.StoreBackend {
	case StoreBackendFile:
	case StoreBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("%w: PGSQL_URL is required when STORE_BACKEND=%s", ErrInvalidConfig, StoreBackendPostgres)
		}
	default:
		return nil, fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrInvalidConfig, cfg.StoreBackend)
	}

	if cfg.HistoryDefaultCount <= 0 {
		log.Printf("Warning: Invalid value for HISTORY_DEFAULT_COUNT (%d). Defaulting to 5.\n", cfg.HistoryDefaultCount)
		cfg.HistoryDefaultCount = 5
	}

	// Load JWT Expiry Duration (e.g., "15m", "1h")
	jwtExpiryStr := v.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiryDuration <= 0 {
		jwtExpiryDuration = 15 * time.Minute
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("%w: JWT_SECRET must be set in production", ErrInvalidConfig)
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	levelStr := v.GetString("LOG_LEVEL")
	if err := cfg.LogLevel.UnmarshalText([]byte(levelStr)); err != nil {
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to info.\n", levelStr)
		cfg.LogLevel = slog.LevelInfo
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
