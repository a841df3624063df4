// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where you put everything specific to YOUR application.
// The struct is passed to most lifecycle hooks, so any configuration
// needed during startup, request handling, or shutdown should live here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: parishhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for OAuth callbacks
	BaseURL string // e.g., "https://parishhub.example.org" or "http://localhost:3000"

	// Visitor monitoring
	SweepInterval time.Duration // how often the lapsed-window sweep runs

	// Analytics
	AnalyticsCacheTTL time.Duration // expiry for cached analytics reports
}
