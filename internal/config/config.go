package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Scoring modes
const (
	ScoringLocal   = "local"
	ScoringBackend = "backend"
	ScoringLLM     = "llm"
)

// app config
type Config struct {
	Port           string        `yaml:"port"`
	Development    bool          `yaml:"development"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	TickInterval   time.Duration `yaml:"tick_interval"`
	NoticeTTL      time.Duration `yaml:"notice_ttl"`

	ScoringMode    string        `yaml:"scoring_mode"`
	ScoringURL     string        `yaml:"scoring_url"`
	ScoringTimeout time.Duration `yaml:"scoring_timeout"`
	Provider       string        `yaml:"provider"`

	KVBackend     string `yaml:"kv_backend"`
	KVNamespace   string `yaml:"kv_namespace"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`

	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`

	ExportEnabled  bool   `yaml:"export_enabled"`
	ExportSchedule string `yaml:"export_schedule"`
	ExportDir      string `yaml:"export_dir"`

	Interview Settings `yaml:"interview"`
}

func defaults() *Config {
	return &Config{
		Port:           "8080",
		AllowedOrigins: []string{"http://localhost:5173"},
		TickInterval:   250 * time.Millisecond,
		NoticeTTL:      15 * time.Minute,
		ScoringMode:    ScoringLocal,
		ScoringTimeout: 30 * time.Second,
		Provider:       "gemini",
		KVBackend:      "memory",
		KVNamespace:    "interviewassist",
		DBDriver:       "sqlite",
		DBDSN:          "interviewassist.db",
		ExportSchedule: "0 2 * * *",
		ExportDir:      "./exports",
		Interview:      DefaultSettings(),
	}
}

// LoadConfig builds the config from defaults, then the YAML file named by
// CONFIG_FILE, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnvOrDefault("PORT", c.Port)
	c.Development = getEnvBool("DEVELOPMENT", c.Development)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
	c.TickInterval = getEnvDuration("TICK_INTERVAL", c.TickInterval)
	c.NoticeTTL = getEnvDuration("NOTICE_TTL", c.NoticeTTL)

	c.ScoringMode = getEnvOrDefault("SCORING_MODE", c.ScoringMode)
	c.ScoringURL = getEnvOrDefault("SCORING_URL", c.ScoringURL)
	c.ScoringTimeout = getEnvDuration("SCORING_TIMEOUT", c.ScoringTimeout)
	c.Provider = getEnvOrDefault("AI_PROVIDER", c.Provider)

	c.KVBackend = getEnvOrDefault("KV_BACKEND", c.KVBackend)
	c.KVNamespace = getEnvOrDefault("KV_NAMESPACE", c.KVNamespace)
	c.RedisAddr = getEnvOrDefault("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnvOrDefault("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.MongoURI = getEnvOrDefault("MONGO_URI", c.MongoURI)
	c.MongoDatabase = getEnvOrDefault("MONGO_DATABASE", c.MongoDatabase)

	c.DBDriver = getEnvOrDefault("DB_DRIVER", c.DBDriver)
	c.DBDSN = getEnvOrDefault("DB_DSN", c.DBDSN)

	c.ExportEnabled = getEnvBool("RESULT_EXPORT_ENABLED", c.ExportEnabled)
	c.ExportSchedule = getEnvOrDefault("RESULT_EXPORT_SCHEDULE", c.ExportSchedule)
	c.ExportDir = getEnvOrDefault("RESULT_EXPORT_DIR", c.ExportDir)

	c.Interview.Role = getEnvOrDefault("INTERVIEW_ROLE", c.Interview.Role)
	c.Interview.Seed = getEnvInt("INTERVIEW_SEED", c.Interview.Seed)
}

func (c *Config) Validate() error {
	switch c.ScoringMode {
	case ScoringLocal, ScoringLLM:
	case ScoringBackend:
		if c.ScoringURL == "" {
			return errors.New("SCORING_URL is required when SCORING_MODE=backend")
		}
	default:
		return errors.New("unsupported scoring mode: " + c.ScoringMode + ". Supported: local, backend, llm")
	}
	switch c.KVBackend {
	case "memory", "redis", "mongo":
	default:
		return errors.New("unsupported kv backend: " + c.KVBackend)
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return errors.New("unsupported database driver: " + c.DBDriver)
	}
	if c.TickInterval <= 0 {
		return errors.New("tick interval must be positive")
	}
	if err := c.Interview.Validate(); err != nil {
		return fmt.Errorf("invalid interview settings: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
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
