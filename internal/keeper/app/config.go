package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/tokenkeeper/pkg/authsdk"
	"github.com/aussiebroadwan/tokenkeeper/pkg/httpx"
	"github.com/aussiebroadwan/tokenkeeper/pkg/jwtx"
	"github.com/aussiebroadwan/tokenkeeper/pkg/securestore/drivers/keyring"
)

// Store drivers selectable with KEEPER_STORE.
const (
	StoreSQLite  = "sqlite"
	StoreKeyring = "keyring"
	StoreMemory  = "memory"
)

type Config struct {
	Region           string        // Optional: region key (KOREA, CANADA, US_EAST) (default: KOREA)
	ServerType       string        // Optional: server type infix, e.g. "-dev" (default: none)
	TokenURL         string        // Optional: overrides the region derived token URL
	Timeout          time.Duration // Optional: per request timeout to the auth server (default: 5s)
	Threshold        time.Duration // Optional: near expiry look-ahead (default: 60s)
	CredentialPolicy string        // Optional: on-success or on-attempt (default: on-success)

	StoreDriver    string // Optional: sqlite, keyring, memory (default: sqlite)
	DatabaseFile   string // Optional: path to SQLite database file (default: ./keeper.db)
	MasterKey      string // Optional: master key material for sealing stored secrets
	MasterKeyPath  string // Optional: path to master key file, preferred over MasterKey
	KeyringService string // Optional: keyring service name (default: tokenkeeper)

	Username string // Optional: log in with these at startup
	Password string
	APIToken string // Optional: bearer token required on /v1 routes

	ReauthPerMinute int           // Reauthentication attempts allowed per minute (default: 5, 0 = unlimited)
	WarmInterval    time.Duration // Background token warm interval (default: 30s, 0 disables)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Addr                string        // HTTP listen address (default: 127.0.0.1:8090)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Region:           getEnvOrDefault("KEEPER_REGION", string(authsdk.RegionKorea)),
		ServerType:       os.Getenv("KEEPER_SERVER_TYPE"),
		TokenURL:         os.Getenv("KEEPER_TOKEN_URL"),
		Timeout:          getEnvDurationOrDefault("KEEPER_TIMEOUT", httpx.DefaultTimeout),
		Threshold:        getEnvDurationOrDefault("KEEPER_THRESHOLD", jwtx.DefaultNearExpiryThreshold),
		CredentialPolicy: getEnvOrDefault("KEEPER_CREDENTIAL_POLICY", "on-success"),

		StoreDriver:    getEnvOrDefault("KEEPER_STORE", StoreSQLite),
		DatabaseFile:   getEnvOrDefault("KEEPER_DATABASE_FILE", "keeper.db"),
		MasterKey:      os.Getenv("KEEPER_MASTER_KEY"),
		MasterKeyPath:  os.Getenv("KEEPER_MASTER_KEY_PATH"),
		KeyringService: getEnvOrDefault("KEEPER_KEYRING_SERVICE", keyring.DefaultService),

		Username: os.Getenv("KEEPER_USERNAME"),
		Password: os.Getenv("KEEPER_PASSWORD"),
		APIToken: os.Getenv("KEEPER_API_TOKEN"),

		ReauthPerMinute: getEnvIntOrDefault("KEEPER_REAUTH_PER_MINUTE", 5),
		WarmInterval:    getEnvDurationOrDefault("KEEPER_WARM_INTERVAL", 30*time.Second),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Addr:                getEnvOrDefault("ADDR", "127.0.0.1:8090"),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
