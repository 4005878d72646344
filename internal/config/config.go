// Package config loads application configuration from a .env file with
// fallback to process environment variables. Adapters receive only the
// credential fields they need via their constructors; nothing reads the
// environment after startup.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mfreeman/venuescout/internal/logger"
)

// Config holds all application configuration.
type Config struct {
	GoogleMapsAPIKey   string
	GeminiAPIKey       string
	TicketmasterAPIKey string
	EventbriteAPIKey   string

	// City scopes the event-search API queries.
	City string

	// DBPath is the SQLite database file.
	DBPath string

	// LocalEventsURL is the listing page scraped for non-venue events.
	LocalEventsURL string

	// ListenAddr is the read API bind address.
	ListenAddr string

	// HTTPTimeout bounds every external HTTP call; a timeout is treated
	// as an adapter failure.
	HTTPTimeout time.Duration

	// ChromeBin optionally points at the browser binary for the headless
	// renderer. Empty means let chromedp find one.
	ChromeBin string
}

// Load reads the .env file (if present) and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Missing .env just means the process environment is authoritative.
		logger.Debug("no .env file found, using process environment", nil)
	}

	return &Config{
		GoogleMapsAPIKey:   getEnv("GOOGLE_MAPS_API_KEY", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		TicketmasterAPIKey: getEnv("TICKETMASTER_CONSUMER_KEY", ""),
		EventbriteAPIKey:   getEnv("EVENTBRITE_API_KEY", ""),

		City:           getEnv("CITY", "Detroit"),
		DBPath:         getEnv("DB_PATH", "data/venues.db"),
		LocalEventsURL: getEnv("LOCAL_EVENTS_URL", "https://visitdetroit.com/events/"),
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		HTTPTimeout:    time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		ChromeBin:      getEnv("CHROME_BIN", ""),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
