// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	categoriesfeature "github.com/dalemusser/spellhub/internal/app/features/categories"
	healthfeature "github.com/dalemusser/spellhub/internal/app/features/health"
	lessonsfeature "github.com/dalemusser/spellhub/internal/app/features/lessons"
	postsfeature "github.com/dalemusser/spellhub/internal/app/features/posts"
	quizzesfeature "github.com/dalemusser/spellhub/internal/app/features/quizzes"
	auditstore "github.com/dalemusser/spellhub/internal/app/store/audit"
	"github.com/dalemusser/spellhub/internal/app/store/docstore"
	"github.com/dalemusser/spellhub/internal/app/system/auditlog"
	"github.com/dalemusser/spellhub/internal/app/system/editor"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// SpellHub mounts the health endpoint, the four content feature routers,
// and a static file server for locally stored images.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := docstore.NewMongo(deps.MongoDatabase)

	blobStore, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.StorageLocalPath,
		BaseURL:  appCfg.StorageLocalURL,
	})
	if err != nil {
		logger.Error("local storage init failed", zap.Error(err))
		return nil, err
	}

	auditLogger := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Admin: appCfg.AuditLogAdmin,
	})

	groups := editor.NewGroupSet(appCfg.UserGroups)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Locally stored images, with pre-compressed file support
	r.Handle("/files/*", fileserver.Handler("/files", appCfg.StorageLocalPath))

	// Content management
	categoriesHandler := categoriesfeature.NewHandler(db, blobStore, auditLogger, logger)
	r.Mount("/categories", categoriesfeature.Routes(categoriesHandler))

	lessonsHandler := lessonsfeature.NewHandler(db, blobStore, auditLogger, groups, logger)
	r.Mount("/lessons", lessonsfeature.Routes(lessonsHandler))

	quizzesHandler := quizzesfeature.NewHandler(db, blobStore, auditLogger, groups, logger)
	r.Mount("/quizzes", quizzesfeature.Routes(quizzesHandler))

	postsHandler := postsfeature.NewHandler(db, blobStore, auditLogger, groups, logger)
	r.Mount("/posts", postsfeature.Routes(postsHandler))

	return r, nil
}
