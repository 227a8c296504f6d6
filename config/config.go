package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv             string `yaml:"app_env"`
	AppPort            string `yaml:"app_port"`
	AllowedOrigins     string `yaml:"allowed_origins"`
	DBDriver           string `yaml:"db_driver"`
	DBHost             string `yaml:"db_host"`
	DBPort             string `yaml:"db_port"`
	DBUser             string `yaml:"db_user"`
	DBPassword         string `yaml:"db_password"`
	DBName             string `yaml:"db_name"`
	DBPath             string `yaml:"db_path"`
	DBMaxIdleConns     int    `yaml:"db_max_idle_conns"`
	DBMaxOpenConns     int    `yaml:"db_max_open_conns"`
	NatsURL            string `yaml:"nats_url"`
	JWTSecret          string `yaml:"jwt_secret"`
	JWTExpirationHours int    `yaml:"jwt_expiration_hours"`

	// Summarization. An empty LLMAPIKey selects the local fallback summary.
	LLMAPIKey              string `yaml:"llm_api_key"`
	LLMBaseURL             string `yaml:"llm_base_url"`
	LLMModel               string `yaml:"llm_model"`
	SummarizeRatePerMinute int    `yaml:"summarize_rate_per_minute"`
	SummarizeBurst         int    `yaml:"summarize_burst"`

	EventPollIntervalMs int `yaml:"event_poll_interval_ms"`
}

// Defaults returns the configuration used when neither a file nor the
// environment provide a value.
func Defaults() Config {
	return Config{
		AppEnv:                 "development",
		AppPort:                "8080",
		AllowedOrigins:         "*",
		DBDriver:               "postgres",
		DBHost:                 "localhost",
		DBPort:                 "5432",
		DBUser:                 "notesai",
		DBPassword:             "notesai",
		DBName:                 "notesai",
		DBPath:                 "notesai.db",
		DBMaxIdleConns:         10,
		DBMaxOpenConns:         100,
		NatsURL:                "nats://localhost:4222",
		JWTSecret:              "your-super-secret-key-change-this-in-production",
		JWTExpirationHours:     24,
		LLMBaseURL:             "https://api.groq.com/openai/v1",
		LLMModel:               "llama3-8b-8192",
		SummarizeRatePerMinute: 10,
		SummarizeBurst:         5,
		EventPollIntervalMs:    1000,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("%s not set, defaulting to %s", key, defaultValue)
	return defaultValue
}

// getSecretEnv behaves like getEnv but never logs the fallback value.
func getSecretEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("%s not set", key)
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Invalid integer value for %s, defaulting to %d", key, defaultValue)
	}
	return defaultValue
}

// LoadFile reads a YAML configuration file on top of Defaults. Keys missing
// from the file keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Load builds the configuration from the environment. When path is not empty
// the YAML file at path provides the base values; environment variables
// always win.
func Load(path string) (Config, error) {
	log.Println("Loading configuration...")

	base := Defaults()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		base = fileCfg
		log.Printf("Loaded configuration file %s", path)
	}

	return Config{
		AppEnv:                 getEnv("APP_ENV", base.AppEnv),
		AppPort:                getEnv("APP_PORT", base.AppPort),
		AllowedOrigins:         getEnv("ALLOWED_ORIGINS", base.AllowedOrigins),
		DBDriver:               getEnv("DB_DRIVER", base.DBDriver),
		DBHost:                 getEnv("DB_HOST", base.DBHost),
		DBPort:                 getEnv("DB_PORT", base.DBPort),
		DBUser:                 getEnv("DB_USER", base.DBUser),
		DBPassword:             getSecretEnv("DB_PASSWORD", base.DBPassword),
		DBName:                 getEnv("DB_NAME", base.DBName),
		DBPath:                 getEnv("DB_PATH", base.DBPath),
		DBMaxIdleConns:         getEnvAsInt("DB_MAX_IDLE_CONNS", base.DBMaxIdleConns),
		DBMaxOpenConns:         getEnvAsInt("DB_MAX_OPEN_CONNS", base.DBMaxOpenConns),
		NatsURL:                getEnv("NATS_URL", base.NatsURL),
		JWTSecret:              getSecretEnv("JWT_SECRET", base.JWTSecret),
		JWTExpirationHours:     getEnvAsInt("JWT_EXPIRATION_HOURS", base.JWTExpirationHours),
		LLMAPIKey:              getSecretEnv("GROQ_API_KEY", base.LLMAPIKey),
		LLMBaseURL:             getEnv("LLM_BASE_URL", base.LLMBaseURL),
		LLMModel:               getEnv("LLM_MODEL", base.LLMModel),
		SummarizeRatePerMinute: getEnvAsInt("SUMMARIZE_RATE_PER_MINUTE", base.SummarizeRatePerMinute),
		SummarizeBurst:         getEnvAsInt("SUMMARIZE_BURST", base.SummarizeBurst),
		EventPollIntervalMs:    getEnvAsInt("EVENT_POLL_INTERVAL_MS", base.EventPollIntervalMs),
	}, nil
}
