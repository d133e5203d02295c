package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Strings for identifiers and secrets, ints
// for durations and limits.
type Config struct {
	Env                string // application environment (e.g. "dev", "prod")
	Port               string // HTTP port to listen on
	DBUser             string // database username
	DBPass             string // database password (optional)
	DBHost             string // database host address
	DBPort             string // database port number
	DBName             string // database name
	JWTSecret          string // secret used to verify tenant access tokens
	WebhookSecret      string // shared secret for payment webhook signatures
	HoldTTLMin         int    // minutes a new hold stays alive before lapsing
	HoldMaxExtendMin   int    // upper bound on a single extend request
	DefaultSlotDurMin  int    // fallback slot duration when no package is chosen
	SweepRetentionDays int    // how long terminal holds are kept before the sweep deletes them
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Tunables with safe
// defaults use intOr().
func Load() Config {
	return Config{
		Env:                must("APP_ENV"),
		Port:               must("APP_PORT"),
		DBUser:             must("DB_USER"),
		DBPass:             os.Getenv("DB_PASS"), // empty allowed
		DBHost:             must("DB_HOST"),
		DBPort:             must("DB_PORT"),
		DBName:             must("DB_NAME"),
		JWTSecret:          must("JWT_SECRET"),
		WebhookSecret:      must("PAYMENT_WEBHOOK_SECRET"),
		HoldTTLMin:         intOr("HOLD_TTL_MIN", 10),
		HoldMaxExtendMin:   intOr("HOLD_MAX_EXTEND_MIN", 30),
		DefaultSlotDurMin:  intOr("DEFAULT_SLOT_DURATION_MIN", 120),
		SweepRetentionDays: intOr("HOLD_SWEEP_RETENTION_DAYS", 7),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr retrieves an integer environment variable, returning def when the
// variable is unset.  A present but malformed value is fatal: silently
// running with a wrong hold TTL would be worse than failing to boot.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
