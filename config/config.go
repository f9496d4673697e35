package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store delete policies
const (
	DeletePolicyCascade  = "cascade"
	DeletePolicyRestrict = "restrict"
)

// Blocklist backends
const (
	BlocklistBackendDatabase = "database"
	BlocklistBackendRedis    = "redis"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Blocklist BlocklistConfig
	Store     StoreConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Driver   string // postgres, sqlite
	URL      string // overrides the individual fields when set
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	AdminUserID        uint
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type BlocklistConfig struct {
	Backend       string
	PruneSchedule string // cron expression, empty disables pruning
}

type StoreConfig struct {
	DeletePolicy string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	defaultLevel := "info"
	if environment == "development" {
		defaultLevel = "debug"
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: environment,
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "stores"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
			AdminUserID:        uint(parseInt(getEnv("JWT_ADMIN_USER_ID", "2"), 2)),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Blocklist: BlocklistConfig{
			Backend:       getEnv("BLOCKLIST_BACKEND", BlocklistBackendDatabase),
			PruneSchedule: getEnv("BLOCKLIST_PRUNE_SCHEDULE", ""),
		},
		Store: StoreConfig{
			DeletePolicy: getEnv("STORE_DELETE_POLICY", DeletePolicyCascade),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", defaultLevel),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Blocklist.Backend {
	case BlocklistBackendDatabase, BlocklistBackendRedis:
	default:
		return fmt.Errorf("unsupported BLOCKLIST_BACKEND %q", c.Blocklist.Backend)
	}
	switch c.Store.DeletePolicy {
	case DeletePolicyCascade, DeletePolicyRestrict:
	default:
		return fmt.Errorf("unsupported STORE_DELETE_POLICY %q", c.Store.DeletePolicy)
	}
	return nil
}

// DSN returns the connection string for the configured driver.
// For sqlite, DBName is the database file path.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	if c.Driver == "sqlite" {
		return c.DBName
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
