package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.True(t, cfg.AI.Search)
	assert.Equal(t, "file", cfg.History.Backend)
	assert.Equal(t, "rook_lite_history", cfg.History.Key)
	assert.Equal(t, 20, cfg.History.Limit)
	assert.Empty(t, cfg.AI.APIKey)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 30s
ai:
  provider: openai
  model: gpt-4o-mini
history:
  backend: memory
auth:
  keys:
    dashboard: secret
`)
	t.Setenv("ROOK_SERVER_PORT", "7070")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port, "env wins over file")
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, "memory", cfg.History.Backend)
	assert.Equal(t, map[string]string{"dashboard": "secret"}, cfg.Auth.Keys)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	path := writeConfig(t, "ai:\n  provider: llama\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "ai.provider")

	path = writeConfig(t, "history:\n  backend: redis\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "history.backend")
}

func TestCredentialFallbacks(t *testing.T) {
	env := map[string]string{"API_KEY": "generic", "OPENAI_API_KEY": "sk"}
	getenv := func(k string) string { return env[k] }

	var c Config
	c.AI.Provider = "gemini"
	c.applyCredentialFallbacks(getenv)
	assert.Equal(t, "generic", c.AI.APIKey)

	env["GEMINI_API_KEY"] = "gem"
	c.AI.APIKey = ""
	c.applyCredentialFallbacks(getenv)
	assert.Equal(t, "gem", c.AI.APIKey)

	c = Config{}
	c.AI.Provider = "openai"
	c.applyCredentialFallbacks(getenv)
	assert.Equal(t, "sk", c.AI.APIKey)

	c.AI.APIKey = "explicit"
	c.applyCredentialFallbacks(getenv)
	assert.Equal(t, "explicit", c.AI.APIKey)
}

func TestDSNs(t *testing.T) {
	var c Config
	c.Database.Host = "db"
	c.Database.User = "rook"
	c.Database.Password = "pw"
	c.Database.Name = "rook"
	c.Database.SSLMode = "disable"
	assert.Equal(t, "rook:pw@tcp(db:3306)/rook?parseTime=true&charset=utf8mb4&loc=UTC", c.MySQLDSN())
	assert.Equal(t, "host=db port=5432 user=rook password=pw dbname=rook sslmode=disable", c.PostgresDSN())
}

func TestRedactedYAML(t *testing.T) {
	var c Config
	c.AI.APIKey = "sk-live-XYZ"
	c.Database.Password = "pw-db-7731"
	c.Minio.SecretKey = "minio-sk-4410"
	c.Auth.Keys = map[string]string{"ui": "rk-ui-9902"}
	data, err := c.Redacted().YAML()
	require.NoError(t, err)
	for _, leaked := range []string{"sk-live-XYZ", "pw-db-7731", "minio-sk-4410", "rk-ui-9902"} {
		assert.NotContains(t, string(data), leaked)
	}

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "****", back.AI.APIKey)
	assert.Equal(t, "****", back.Database.Password)
	assert.Equal(t, "****", back.Minio.SecretKey)
	assert.Equal(t, "****", back.Auth.Keys["ui"])
	assert.Empty(t, back.Minio.AccessKey, "unset values stay empty")

	assert.Equal(t, "sk-live-XYZ", c.AI.APIKey, "original untouched")
	assert.Equal(t, "rk-ui-9902", c.Auth.Keys["ui"])
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	var c Config
	c.Log.Level = "warn"
	c.Log.Format = "json"
	logger := c.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestDefaultRoundTripsThroughLoad(t *testing.T) {
	data, err := Default().YAML()
	require.NoError(t, err)
	path := writeConfig(t, string(data))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
	assert.Equal(t, Default().History, cfg.History)
}
