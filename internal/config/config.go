package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration values
)

// Config holds all runtime configuration values. Each field
// corresponds to an environment variable. Most values have sensible
// development defaults; only the JWT secret is mandatory.
type Config struct {
	Env              string        // application environment (e.g. "dev", "prod")
	Port             string        // HTTP port to listen on
	DataDir          string        // directory holding the collection files
	JWTSecret        string        // secret used to sign JWTs
	AccessTTLMin     int           // access token time-to-live in minutes
	BcryptCost       int           // bcrypt cost for password hashing
	PenaltyThreshold int           // active penalties that block new reviews
	RecommendTopN    int           // default number of recommendations returned
	ResetTTLMin      int           // password reset token time-to-live in minutes
	ExternalAPIURL   string        // base URL of the metadata provider
	ExternalAPIKey   string        // API key for the metadata provider
	ExternalTimeout  time.Duration // per-call timeout for provider requests
	SyncSource       string        // provider name recorded in the sync log
}

// Load reads configuration values from environment variables and
// returns a Config. JWT_SECRET is enforced by must(); a missing value
// causes the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:              getenv("APP_ENV", "dev"),
		Port:             getenv("APP_PORT", "8080"),
		DataDir:          getenv("DATA_DIR", "data"),
		JWTSecret:        must("JWT_SECRET"),
		AccessTTLMin:     atoi(getenv("ACCESS_TOKEN_TTL_MIN", "1440")),
		BcryptCost:       atoi(getenv("BCRYPT_COST", "10")),
		PenaltyThreshold: atoi(getenv("PENALTY_THRESHOLD", "5")),
		RecommendTopN:    atoi(getenv("RECOMMEND_TOP_N", "10")),
		ResetTTLMin:      atoi(getenv("RESET_TOKEN_TTL_MIN", "30")),
		ExternalAPIURL:   getenv("EXTERNAL_API_BASE_URL", "https://example.com/movie-api"),
		ExternalAPIKey:   os.Getenv("EXTERNAL_API_KEY"),
		ExternalTimeout:  dur(getenv("EXTERNAL_API_TIMEOUT", "10s")),
		SyncSource:       getenv("SYNC_SOURCE", "omdb"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the variable's value or a default when unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int: %q", s)
	}
	return n
}

func dur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("invalid duration: %q", s)
	}
	return d
}
