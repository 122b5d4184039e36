package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"KEEPER_REGION", "KEEPER_SERVER_TYPE", "KEEPER_TOKEN_URL", "KEEPER_TIMEOUT",
		"KEEPER_THRESHOLD", "KEEPER_CREDENTIAL_POLICY", "KEEPER_STORE", "KEEPER_DATABASE_FILE",
		"KEEPER_KEYRING_SERVICE", "KEEPER_REAUTH_PER_MINUTE", "KEEPER_WARM_INTERVAL",
		"ENV", "LOG_LEVEL", "LOG_FORMAT", "ADDR", "SHUTDOWN_GRACE_PERIOD",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "KOREA", cfg.Region)
	assert.Empty(t, cfg.ServerType)
	assert.Empty(t, cfg.TokenURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 60*time.Second, cfg.Threshold)
	assert.Equal(t, "on-success", cfg.CredentialPolicy)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, "keeper.db", cfg.DatabaseFile)
	assert.Equal(t, "tokenkeeper", cfg.KeyringService)
	assert.Equal(t, 5, cfg.ReauthPerMinute)
	assert.Equal(t, 30*time.Second, cfg.WarmInterval)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "127.0.0.1:8090", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("KEEPER_REGION", "canada")
	t.Setenv("KEEPER_SERVER_TYPE", "-dev")
	t.Setenv("KEEPER_TIMEOUT", "2s")
	t.Setenv("KEEPER_THRESHOLD", "90")
	t.Setenv("KEEPER_STORE", "memory")
	t.Setenv("KEEPER_REAUTH_PER_MINUTE", "0")
	t.Setenv("KEEPER_WARM_INTERVAL", "0")
	t.Setenv("KEEPER_USERNAME", "alice")
	t.Setenv("KEEPER_API_TOKEN", "s3cret")

	cfg := LoadConfig()

	assert.Equal(t, "canada", cfg.Region)
	assert.Equal(t, "-dev", cfg.ServerType)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Threshold)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 0, cfg.ReauthPerMinute)
	assert.Equal(t, time.Duration(0), cfg.WarmInterval)
	assert.Equal(t, "alice", cfg.Username)
	assert.Equal(t, "s3cret", cfg.APIToken)
}

func TestEnvHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("KEEPER_TEST_INT", "many")
	t.Setenv("KEEPER_TEST_DURATION", "soon")

	assert.Equal(t, 7, getEnvIntOrDefault("KEEPER_TEST_INT", 7))
	assert.Equal(t, time.Minute, getEnvDurationOrDefault("KEEPER_TEST_DURATION", time.Minute))
}
