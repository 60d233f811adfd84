package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendTree   = "tree"
	BackendGemini = "gemini"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Gemini     GeminiConfig
	Storage    StorageConfig
	Classifier ClassifierConfig
	Scoring    ScoringConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type ClassifierConfig struct {
	Backend    string
	ModelPath  string
	MaxRetries int
}

// ScoringConfig holds the calibration constants of the résumé bonus and
// the status thresholds.
type ScoringConfig struct {
	Divisor            float64
	Cap                float64
	BonusMultiplier    float64
	ThresholdAderente  float64
	ThresholdPotencial float64
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads .env when present and falls back to defaults for anything unset.
// The bool reports whether a .env file was found.
func Load() (*Config, bool) {
	envLoaded := godotenv.Load() == nil

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "7860"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "talentscope"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Classifier: ClassifierConfig{
			Backend:    strings.ToLower(getEnv("CLASSIFIER_BACKEND", BackendTree)),
			ModelPath:  getEnv("MODEL_PATH", "modelo_estagio_cs.json"),
			MaxRetries: getEnvAsInt("CLASSIFIER_MAX_RETRIES", 3),
		},
		Scoring: ScoringConfig{
			Divisor:            getEnvAsFloat("SCORE_DIVISOR", 3),
			Cap:                getEnvAsFloat("SCORE_CAP", 10),
			BonusMultiplier:    getEnvAsFloat("BONUS_MULTIPLIER", 3),
			ThresholdAderente:  getEnvAsFloat("THRESHOLD_ADERENTE", 75),
			ThresholdPotencial: getEnvAsFloat("THRESHOLD_POTENCIAL", 50),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}, envLoaded
}

func (c *Config) Validate() error {
	switch c.Classifier.Backend {
	case BackendTree:
	case BackendGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when CLASSIFIER_BACKEND=%s", BackendGemini)
		}
	default:
		return fmt.Errorf("unknown CLASSIFIER_BACKEND %q", c.Classifier.Backend)
	}

	if c.Scoring.Divisor <= 0 || c.Scoring.Cap <= 0 || c.Scoring.BonusMultiplier <= 0 {
		return fmt.Errorf("scoring divisor, cap and bonus multiplier must be positive")
	}
	if c.Scoring.ThresholdPotencial > c.Scoring.ThresholdAderente {
		return fmt.Errorf("THRESHOLD_POTENCIAL (%v) must not exceed THRESHOLD_ADERENTE (%v)",
			c.Scoring.ThresholdPotencial, c.Scoring.ThresholdAderente)
	}

	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
