package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides: ROOK_AI_PROVIDER sets ai.provider.
const EnvPrefix = "ROOK"

type Config struct {
	Server struct {
		Port         int           `yaml:"port" mapstructure:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
		CORSOrigins  []string      `yaml:"cors_origins" mapstructure:"cors_origins"`
	} `yaml:"server" mapstructure:"server"`

	Log struct {
		Level  string `yaml:"level" mapstructure:"level"`
		Format string `yaml:"format" mapstructure:"format"`
	} `yaml:"log" mapstructure:"log"`

	AI AIConfig `yaml:"ai" mapstructure:"ai"`

	History struct {
		Backend string `yaml:"backend" mapstructure:"backend"`
		Key     string `yaml:"key" mapstructure:"key"`
		Limit   int    `yaml:"limit" mapstructure:"limit"`
		Dir     string `yaml:"dir" mapstructure:"dir"`
	} `yaml:"history" mapstructure:"history"`

	Database struct {
		Host     string `yaml:"host" mapstructure:"host"`
		Port     int    `yaml:"port" mapstructure:"port"`
		User     string `yaml:"user" mapstructure:"user"`
		Password string `yaml:"password" mapstructure:"password"`
		Name     string `yaml:"name" mapstructure:"name"`
		SSLMode  string `yaml:"sslmode" mapstructure:"sslmode"`
	} `yaml:"database" mapstructure:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint" mapstructure:"endpoint"`
		AccessKey  string `yaml:"access_key" mapstructure:"access_key"`
		SecretKey  string `yaml:"secret_key" mapstructure:"secret_key"`
		BucketName string `yaml:"bucket_name" mapstructure:"bucket_name"`
		Prefix     string `yaml:"prefix" mapstructure:"prefix"`
		Region     string `yaml:"region" mapstructure:"region"`
		UseSSL     bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	} `yaml:"minio" mapstructure:"minio"`

	Sessions struct {
		Capacity int `yaml:"capacity" mapstructure:"capacity"`
	} `yaml:"sessions" mapstructure:"sessions"`

	Auth struct {
		// Keys maps a client name to its API key. Empty disables auth.
		Keys map[string]string `yaml:"keys" mapstructure:"keys"`
	} `yaml:"auth" mapstructure:"auth"`

	RateLimit struct {
		RPS   float64 `yaml:"rps" mapstructure:"rps"`
		Burst int     `yaml:"burst" mapstructure:"burst"`
	} `yaml:"ratelimit" mapstructure:"ratelimit"`

	Media struct {
		Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	} `yaml:"media" mapstructure:"media"`
}

type AIConfig struct {
	Provider        string `yaml:"provider" mapstructure:"provider"`
	APIKey          string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL         string `yaml:"base_url" mapstructure:"base_url"`
	Model           string `yaml:"model" mapstructure:"model"`
	TranscribeModel string `yaml:"transcribe_model" mapstructure:"transcribe_model"`
	SpeechModel     string `yaml:"speech_model" mapstructure:"speech_model"`
	Voice           string `yaml:"voice" mapstructure:"voice"`
	Search          bool   `yaml:"search" mapstructure:"search"`
}

// SetDefaults registers every key so environment overrides resolve even when
// no config file sets them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	// Analyses routinely take longer than a typical API call.
	v.SetDefault("server.write_timeout", 5*time.Minute)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.transcribe_model", "")
	v.SetDefault("ai.speech_model", "")
	v.SetDefault("ai.voice", "")
	v.SetDefault("ai.search", true)

	v.SetDefault("history.backend", "file")
	v.SetDefault("history.key", "rook_lite_history")
	v.SetDefault("history.limit", 20)
	v.SetDefault("history.dir", defaultDataDir())

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.user", "rook")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "rook")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket_name", "rook")
	v.SetDefault("minio.prefix", "history")
	v.SetDefault("minio.region", "")
	v.SetDefault("minio.use_ssl", false)

	v.SetDefault("sessions.capacity", 256)
	v.SetDefault("auth.keys", map[string]string{})
	v.SetDefault("ratelimit.rps", 2.0)
	v.SetDefault("ratelimit.burst", 5)
	v.SetDefault("media.concurrency", 4)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rook"
	}
	return filepath.Join(home, ".rook")
}

// Default is the configuration with no file, environment or flags applied.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads .env, then defaults < config file < ROOK_* environment.
// An empty path searches ./config.yaml and ~/.rook/config.yaml and is fine
// when neither exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load on a caller-owned viper, so CLI flags bound to it win.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(defaultDataDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyCredentialFallbacks(os.Getenv)
	return &cfg, cfg.Validate()
}

// applyCredentialFallbacks fills ai.api_key from the provider's conventional
// variables. A missing key is not an error here; calls fail with it later.
func (c *Config) applyCredentialFallbacks(getenv func(string) string) {
	if c.AI.APIKey != "" {
		return
	}
	var names []string
	switch strings.ToLower(c.AI.Provider) {
	case "openai":
		names = []string{"OPENAI_API_KEY"}
	default:
		names = []string{"GEMINI_API_KEY", "API_KEY"}
	}
	for _, n := range names {
		if v := getenv(n); v != "" {
			c.AI.APIKey = v
			return
		}
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.AI.Provider) {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unknown ai.provider %q (supported: gemini, openai)", c.AI.Provider)
	}
	switch c.History.Backend {
	case "file", "memory", "mysql", "postgres", "minio":
	default:
		return fmt.Errorf("unknown history.backend %q (supported: file, memory, mysql, postgres, minio)", c.History.Backend)
	}
	if c.History.Limit <= 0 {
		return fmt.Errorf("history.limit must be positive, got %d", c.History.Limit)
	}
	return nil
}

// MySQLDSN builds the go-sql-driver DSN.
func (c *Config) MySQLDSN() string {
	port := c.Database.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	port := c.Database.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Redacted returns a copy with secrets masked, for printing.
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "****"
	}
	c.AI.APIKey = mask(c.AI.APIKey)
	c.Database.Password = mask(c.Database.Password)
	c.Minio.SecretKey = mask(c.Minio.SecretKey)
	keys := make(map[string]string, len(c.Auth.Keys))
	for name, k := range c.Auth.Keys {
		keys[name] = mask(k)
	}
	c.Auth.Keys = keys
	return c
}

// YAML renders the config the way a config file would hold it.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
