package v1

import (
	"time"

	"ironforge-backend/config"
	"ironforge-backend/internal/delivery/http/middleware"
	"ironforge-backend/internal/domain"
	"ironforge-backend/internal/usecase"
	"ironforge-backend/pkg/metrics"
	"ironforge-backend/pkg/security"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	ContactUC   domain.ContactUsecase
	CatalogUC   domain.CatalogUsecase
	HealthUC    usecase.HealthUsecase
	Limiter     *middleware.RateLimiter
	Config      *config.Config
	Log         *zap.Logger
	SecurityLog *security.SecurityLogger // CSRF rejections, may be nil
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if !deps.Config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	// Rate limits key on ClientIP, so X-Forwarded-For only counts from known proxies
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		deps.Log.Warn("Invalid TRUSTED_PROXIES, trusting no proxy", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins)) // CORS must be first!
	r.Use(
		ginzap.Ginzap(deps.Log, time.RFC3339, true),
		ginzap.RecoveryWithZap(deps.Log, true),
	)
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(deps.Log))
	r.Use(deps.Limiter.Middleware(middleware.GlobalRateLimitConfig(deps.Config.RateLimitGlobalPerMinute)))
	r.Use(middleware.CSRFMiddleware(middleware.CSRFConfig{
		Enabled:      deps.Config.CSRFEnabled,
		SecureCookie: deps.Config.Environment == config.EnvProduction,
		ExemptPaths:  []string{"/v1/health", "/metrics"},
		Events:       deps.SecurityLog,
	}))

	r.NoRoute(middleware.NotFound())
	r.NoMethod(middleware.MethodNotAllowed())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/v1")

	NewHealthHandler(v1, deps.HealthUC)
	NewCatalogHandler(v1, deps.CatalogUC)
	NewContactHandler(v1, deps.ContactUC,
		deps.Limiter.Middleware(middleware.ContactRateLimitConfig(deps.Config.RateLimitContactPerMinute)),
	)

	return r
}
