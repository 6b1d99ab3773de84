// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level and format, CORS, and request body size
// limits. AppConfig is everything specific to this application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// File storage configuration
	StorageLocalPath string // Local storage path (e.g., "./uploads/images")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files")

	// Base URL of the deployment, used when composing absolute links
	BaseURL string // e.g., "https://spellhub.example.com" or "http://localhost:3000"

	// Audit logging: "all" (db+log), "db", "log", or "off"
	AuditLogAdmin string

	// UserGroups is the fixed set of audience tags entities may carry,
	// e.g. "elementary,middle,high".
	UserGroups []string
}
