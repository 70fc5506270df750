// Package config provides centralized default values for LeadPulse
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database
	DatabaseDriver           string
	DatabasePath             string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	SlowQueryThreshold       time.Duration

	// Language inference service
	InferenceBaseURL   string
	InferenceModel     string
	InferenceTimeout   time.Duration
	InferenceCadence   int // run the signal pass every Nth message
	InferenceMinTurns  int // never before this many messages exist
	ChatMaxTokens      int
	ChatTemperature    float64
	HistoryLoadLimit   int
	ResumeIdleDuration time.Duration

	// Retention
	RetentionSweepInterval time.Duration
	SessionInactiveDays    int

	// Auth
	JWTSecret         string
	AdminPasswordHash string
	TokenLifetime     time.Duration

	// Lead source tag on new leads
	LeadSource string

	// Comma-separated log channels forced to debug level
	DebugLogChannels string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Database
	DatabaseDriver = getEnvString("DATABASE_DRIVER", "sqlite3")
	DatabasePath = getEnvString("DATABASE_PATH", "leadpulse.db")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 100*time.Millisecond)

	// Language inference service
	InferenceBaseURL = getEnvString("INFERENCE_BASE_URL", "https://api.openai.com/v1")
	InferenceModel = getEnvString("INFERENCE_MODEL", "gpt-4o")
	InferenceTimeout = getEnvDuration("INFERENCE_TIMEOUT", 20*time.Second)
	InferenceCadence = getEnvInt("INFERENCE_CADENCE", 3)
	InferenceMinTurns = getEnvInt("INFERENCE_MIN_TURNS", 3)
	ChatMaxTokens = getEnvInt("CHAT_MAX_TOKENS", 150)
	ChatTemperature = float64(getEnvInt("CHAT_TEMPERATURE_PCT", 70)) / 100.0
	HistoryLoadLimit = getEnvInt("HISTORY_LOAD_LIMIT", 50)
	ResumeIdleDuration = getEnvDuration("RESUME_IDLE_DURATION", time.Hour)

	// Retention
	RetentionSweepInterval = getEnvDuration("RETENTION_SWEEP_INTERVAL", 6*time.Hour)
	SessionInactiveDays = getEnvInt("SESSION_INACTIVE_DAYS", 30)

	// Auth
	JWTSecret = getEnvString("JWT_SECRET", "")
	AdminPasswordHash = getEnvString("ADMIN_PASSWORD_HASH", "")
	TokenLifetime = getEnvDuration("TOKEN_LIFETIME", 24*time.Hour)

	LeadSource = getEnvString("LEAD_SOURCE", "website")

	DebugLogChannels = getEnvString("DEBUG_LOG_CHANNELS", "")
}
