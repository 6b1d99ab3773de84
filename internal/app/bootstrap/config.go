// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for SpellHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, storage_local_path, etc.
//   - Environment variables: SPELLHUB_MONGO_URI, SPELLHUB_STORAGE_LOCAL_PATH, etc.
//   - Command-line flags: --mongo_uri, --storage_local_path, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "spellhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// File storage configuration
	{Name: "storage_local_path", Default: "./uploads/images", Desc: "Local storage path for uploaded images"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},

	// Base URL for composing absolute links
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL of this deployment"},

	// Audit logging settings
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Audience tags entities may carry, comma-separated
	{Name: "user_groups", Default: "elementary,middle,high", Desc: "Allowed user-group tags, comma-separated"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, SPELLHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SPELLHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		BaseURL: appValues.String("base_url"),

		AuditLogAdmin: appValues.String("audit_log_admin"),

		UserGroups: splitGroups(appValues.String("user_groups")),
	}

	return coreCfg, appCfg, nil
}

func splitGroups(s string) []string {
	var out []string
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// SpellHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.StorageLocalPath == "" {
		return fmt.Errorf("storage_local_path must be set")
	}
	switch appCfg.AuditLogAdmin {
	case "all", "db", "log", "off":
	default:
		return fmt.Errorf("audit_log_admin must be 'all', 'db', 'log', or 'off' (got %q)", appCfg.AuditLogAdmin)
	}
	return nil
}
