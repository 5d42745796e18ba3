package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	LogLevel string

	AuthJWTSecret string

	Gateway GatewayConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
}

// GatewayConfig carries the raw payment-gateway settings. Exactly one server
// key is active at a time, selected by Environment; Resolve picks it so the
// transaction client and the notification verifier always share the same key.
type GatewayConfig struct {
	Environment         string
	ServerKeySandbox    string
	ServerKeyProduction string
	BaseURLSandbox      string
	BaseURLProduction   string
	TimeoutSeconds      int
}

const (
	GatewayEnvSandbox    = "sandbox"
	GatewayEnvProduction = "production"
)

// Credentials is the resolved gateway identity handed to both the outbound
// transaction client and the inbound signature verifier.
type Credentials struct {
	Environment string
	ServerKey   string
	BaseURL     string
}

// Resolve returns the environment-correct credentials.
func (g GatewayConfig) Resolve() Credentials {
	if g.Environment == GatewayEnvProduction {
		return Credentials{
			Environment: GatewayEnvProduction,
			ServerKey:   g.ServerKeyProduction,
			BaseURL:     g.BaseURLProduction,
		}
	}
	return Credentials{
		Environment: GatewayEnvSandbox,
		ServerKey:   g.ServerKeySandbox,
		BaseURL:     g.BaseURLSandbox,
	}
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "meshmart"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		LogLevel: strings.ToLower(getenv("LOG_LEVEL", "info")),

		AuthJWTSecret: strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),

		Gateway: GatewayConfig{
			Environment:         normalizeGatewayEnv(getenv("GATEWAY_ENVIRONMENT", GatewayEnvSandbox)),
			ServerKeySandbox:    strings.TrimSpace(getenv("GATEWAY_SERVER_KEY_SANDBOX", "")),
			ServerKeyProduction: strings.TrimSpace(getenv("GATEWAY_SERVER_KEY_PRODUCTION", "")),
			BaseURLSandbox:      getenv("GATEWAY_BASE_URL_SANDBOX", "https://app.sandbox.midtrans.com"),
			BaseURLProduction:   getenv("GATEWAY_BASE_URL_PRODUCTION", "https://app.midtrans.com"),
			TimeoutSeconds:      getenvInt("GATEWAY_TIMEOUT_SECONDS", 15),
		},

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "meshmart"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
	}

	return cfg
}

func normalizeGatewayEnv(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == GatewayEnvProduction {
		return GatewayEnvProduction
	}
	return GatewayEnvSandbox
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
