package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"contenthub/app/objectstore"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverBadger = "badger"
	DriverMongo  = "mongo"
)

type Config struct {
	Port    string
	BaseURL string

	StoreDriver   string
	BadgerPath    string
	MongoURI      string
	MongoDatabase string

	JWTSecret string
	TokenTTL  time.Duration

	UploadEndpoint       string
	UploadPreset         string
	UploadDeleteEndpoint string
	ImagePolicy          objectstore.Policy

	FeedLimit       int
	ProfileCacheTTL time.Duration
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Ignoring invalid %s=%q: %v", key, raw, err)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Ignoring invalid %s=%q: %v", key, raw, err)
		return fallback
	}
	return d
}

// Load reads the given env files (".env" when none are named) into the
// process environment and builds a Config from it. Missing files are not
// an error. Callers that start the server should Validate the result.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		BaseURL:              strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		StoreDriver:          strings.ToLower(getEnv("STORE_DRIVER", DriverBadger)),
		BadgerPath:           getEnv("BADGER_PATH", "data/badger"),
		MongoURI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:        getEnv("MONGO_DB", "contenthub"),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		TokenTTL:             getDuration("TOKEN_TTL", 72*time.Hour),
		UploadEndpoint:       getEnv("UPLOAD_ENDPOINT", ""),
		UploadPreset:         getEnv("UPLOAD_PRESET", ""),
		UploadDeleteEndpoint: getEnv("UPLOAD_DELETE_ENDPOINT", ""),
		ImagePolicy:          objectstore.ParsePolicy(getEnv("IMAGE_POLICY", string(objectstore.PolicyKeep))),
		FeedLimit:            getInt("FEED_LIMIT", 50),
		ProfileCacheTTL:      getDuration("PROFILE_CACHE_TTL", 5*time.Minute),
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverBadger, DriverMongo:
	default:
		return errors.New("STORE_DRIVER must be badger or mongo")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.FeedLimit <= 0 {
		return errors.New("FEED_LIMIT must be positive")
	}
	return nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
