// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/orgadmin/internal/app/features/errors"
	healthfeature "github.com/dalemusser/orgadmin/internal/app/features/health"
	loginfeature "github.com/dalemusser/orgadmin/internal/app/features/login"
	organizationsfeature "github.com/dalemusser/orgadmin/internal/app/features/organizations"
	"github.com/dalemusser/orgadmin/internal/app/registry"
	adminstore "github.com/dalemusser/orgadmin/internal/app/store/admins"
	auditstore "github.com/dalemusser/orgadmin/internal/app/store/audit"
	collectionstore "github.com/dalemusser/orgadmin/internal/app/store/collections"
	organizationstore "github.com/dalemusser/orgadmin/internal/app/store/organizations"
	"github.com/dalemusser/orgadmin/internal/app/system/auditlog"
	"github.com/dalemusser/orgadmin/internal/app/system/auth"
	"github.com/dalemusser/orgadmin/internal/app/system/credentials"
	"github.com/dalemusser/orgadmin/internal/app/system/ratelimit"
	"github.com/dalemusser/orgadmin/internal/app/system/respond"
	"github.com/dalemusser/orgadmin/internal/app/system/txn"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. The services shared by the features
// (password hasher, token issuer, registry, audit logger, login limiter)
// are built here from appCfg and deps, then the feature routers are mounted:
//
//	GET    /health
//	POST   /org/create
//	GET    /org/get?organization_name=
//	PUT    /org/update
//	DELETE /org/delete?organization_name=   (bearer token)
//	POST   /admin/login
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	hasher := credentials.NewHasher(appCfg.BcryptCost)

	var issuerOpts []credentials.IssuerOption
	if appCfg.JWTIssuer != "" {
		issuerOpts = append(issuerOpts, credentials.WithIssuerName(appCfg.JWTIssuer))
	}
	issuer, err := credentials.NewIssuer(appCfg.JWTSecret, appCfg.JWTTTL, issuerOpts...)
	if err != nil {
		logger.Error("token issuer init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode includes internal error causes in response details.
	rs := respond.NewResponder(logger, coreCfg.Env == "dev")

	admins := adminstore.New(db)
	reg := registry.New(registry.Deps{
		Admins:        admins,
		Organizations: organizationstore.New(db),
		Collections:   collectionstore.New(db, logger),
		Hasher:        hasher,
		Tx:            txn.NewRunner(db, logger),
		Log:           logger,
	})

	auditLog := auditlog.New(auditstore.New(db), logger, auditlog.Uniform(appCfg.AuditLog))

	var limiter *ratelimit.LoginLimiter
	if appCfg.LoginRateLimit > 0 {
		limiter = ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, appCfg.LoginRateWindow)
	}

	verifier := auth.NewVerifier(issuer, rs, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(recoverer(rs, logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: appCfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Set before mounting so sub-routers inherit them.
	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Organization management
	orgHandler := organizationsfeature.NewHandler(reg, rs, auditLog, logger)
	r.Mount("/org", organizationsfeature.Routes(orgHandler, verifier))

	// Authentication
	loginHandler := loginfeature.NewHandler(admins, hasher, issuer, limiter, rs, auditLog, logger)
	r.Mount("/admin", loginfeature.Routes(loginHandler))

	return r, nil
}
