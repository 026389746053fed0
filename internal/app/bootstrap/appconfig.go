// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (ORGADMIN_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers the framework-level settings: ports, TLS, logging level and the
// environment name.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database holding admins, organizations and every org_* collection
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer tokens
	JWTSecret string        // HS256 signing secret; required
	JWTTTL    time.Duration // token lifetime (default 7 days)
	JWTIssuer string        // "iss" claim; blank omits the check

	// Password hashing
	BcryptCost int

	// Login throttling, per client IP and per email
	LoginRateLimit  int // attempts per window; 0 disables
	LoginRateWindow time.Duration

	// Audit logging: "all" (db+log), "db", "log", or "off"
	AuditLog string

	// CORS
	CORSAllowedOrigins []string
}
