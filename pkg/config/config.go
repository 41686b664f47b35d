package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// devJWTSecret signs local tokens. It is only a default in development.
const devJWTSecret = "supersecretjwtkey"

type Config struct {
	Port                    string
	Env                     string
	Backend                 string
	PostgresURL             string
	MongoURI                string
	MongoDatabase           string
	AuthProvider            string
	JWTSecret               string
	FirebaseCredentialsPath string
	DirectoryCacheSize      int
	DirectoryCacheTTL       time.Duration
	FeedIncludeOwnPosts     bool
	RequestTimeout          time.Duration
}

// Load reads .env when present, then the process environment
func Load() (*Config, error) {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	env := getEnv("ENV", "development")
	jwtDefault := ""
	if env == "development" {
		jwtDefault = devJWTSecret
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     env,
		Backend:                 getEnv("STORAGE_BACKEND", "memory"),
		PostgresURL:             getEnv("POSTGRES_URL", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "socialmedia"),
		AuthProvider:            getEnv("AUTH_PROVIDER", "jwt"),
		JWTSecret:               getEnv("JWT_SECRET", jwtDefault),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
	}

	var err error
	if cfg.DirectoryCacheSize, err = strconv.Atoi(getEnv("DIRECTORY_CACHE_SIZE", "1024")); err != nil {
		return nil, fmt.Errorf("DIRECTORY_CACHE_SIZE: %w", err)
	}
	if cfg.DirectoryCacheTTL, err = time.ParseDuration(getEnv("DIRECTORY_CACHE_TTL", "30s")); err != nil {
		return nil, fmt.Errorf("DIRECTORY_CACHE_TTL: %w", err)
	}
	if cfg.FeedIncludeOwnPosts, err = strconv.ParseBool(getEnv("FEED_INCLUDE_OWN_POSTS", "false")); err != nil {
		return nil, fmt.Errorf("FEED_INCLUDE_OWN_POSTS: %w", err)
	}
	if cfg.RequestTimeout, err = time.ParseDuration(getEnv("REQUEST_TIMEOUT", "5s")); err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the selected backend and auth provider need.
// Backend names themselves are checked by the backend selector.
func (c *Config) Validate() error {
	switch c.AuthProvider {
	case "jwt":
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET must be set for the jwt auth provider")
		}
		if c.JWTSecret == devJWTSecret && c.Env != "development" {
			return fmt.Errorf("JWT_SECRET must not be the development secret when ENV=%s", c.Env)
		}
	case "firebase":
		if c.FirebaseCredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH must be set for the firebase auth provider")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}
	if c.DirectoryCacheSize < 0 {
		return fmt.Errorf("DIRECTORY_CACHE_SIZE must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
