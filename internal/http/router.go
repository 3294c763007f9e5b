// Package httpapi wires the HTTP transport (Gin) to the claim services,
// middleware, and route handlers. It owns the cross-cutting chain (tracing,
// correlation ids, logging, recovery, body limits, metrics, CORS, security
// headers) and the per-route authentication, idempotency, rate limiting and
// authorization of the API.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/claims-backend/internal/config"
	_ "github.com/tbourn/claims-backend/internal/docs"
	"github.com/tbourn/claims-backend/internal/domain"
	"github.com/tbourn/claims-backend/internal/http/handlers"
	"github.com/tbourn/claims-backend/internal/http/middleware"
	"github.com/tbourn/claims-backend/internal/repo"
	"github.com/tbourn/claims-backend/internal/services"
)

// claimRepoShim adapts the repository free functions to services.ClaimRepo.
type claimRepoShim struct{}

func (claimRepoShim) CreateClaim(ctx context.Context, db *gorm.DB, c *domain.Claim) error {
	return repo.CreateClaim(ctx, db, c)
}

func (claimRepoShim) GetClaim(ctx context.Context, db *gorm.DB, claimID string) (*domain.Claim, error) {
	return repo.GetClaim(ctx, db, claimID)
}

func (claimRepoShim) CountClaims(ctx context.Context, db *gorm.DB, deleted bool) (int64, error) {
	return repo.CountClaims(ctx, db, deleted)
}

func (claimRepoShim) ListClaimsPage(ctx context.Context, db *gorm.DB, deleted bool, offset, limit int) ([]domain.Claim, error) {
	return repo.ListClaimsPage(ctx, db, deleted, offset, limit)
}

// ClaimsStats feeds the list ETag.
func (claimRepoShim) ClaimsStats(ctx context.Context, db *gorm.DB, deleted bool) (int64, *time.Time, error) {
	return repo.ClaimsStats(ctx, db, deleted)
}

func (claimRepoShim) SetClaimDeleted(ctx context.Context, db *gorm.DB, claimID string, deleted bool, at *time.Time) error {
	return repo.SetClaimDeleted(ctx, db, claimID, deleted, at)
}

func (claimRepoShim) MarkInvoiceSent(ctx context.Context, db *gorm.DB, claimID string) (*domain.Claim, error) {
	return repo.MarkInvoiceSent(ctx, db, claimID)
}

func (claimRepoShim) DeleteClaim(ctx context.Context, db *gorm.DB, claimID string) error {
	return repo.DeleteClaim(ctx, db, claimID)
}

func (claimRepoShim) PurgeSoftDeleted(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	return repo.PurgeSoftDeleted(ctx, db, cutoff)
}

// Services builds the application services over db from cfg. cmd/claimsd
// uses the same constructor for its offline commands.
func Services(db *gorm.DB, cfg config.Config) (handlers.Services, *services.AuthService, *services.IdempotencyService) {
	users := services.NewUserService(db)
	auth := services.NewAuthService(users, []byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	idem := services.NewIdempotencyService(db)
	idem.TTL = cfg.IdempotencyTTL

	retry := repo.RetryPolicy{Attempts: cfg.DB.Retries, Backoff: cfg.DB.RetryBackoff}
	forms := services.NewFormService(db)
	forms.Retry = retry
	claims := services.NewClaimService(db, claimRepoShim{})
	claims.Retry = retry
	docs := services.NewDocumentService(db)
	docs.Retry = retry
	users.Retry = retry

	return handlers.Services{
		Forms:       forms,
		Claims:      claims,
		Documents:   docs,
		Users:       users,
		Auth:        auth,
		Idempotency: idem,
	}, auth, idem
}

// RegisterRoutes attaches all middleware and endpoints to r.
//
// Global middleware order:
//  1. OpenTelemetry
//  2. RequestID
//  3. Access logger (redacting unless LOG_REDACT=false)
//  4. Recovery
//  5. Body size limit
//  6. gzip
//  7. Metrics
//  8. CORS and security headers
//
// The API group then runs RequireAuth, the idempotency validator (before
// the limiter so replays bypass it), the per-user rate limiter, and a
// per-route Authorize(op).
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	if cfg.LogRedact {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))
	} else {
		r.Use(middleware.Logger())
	}
	r.Use(middleware.Recovery())
	r.Use(limitBody(cfg.MaxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(middleware.Metrics())
	r.Use(corsPolicy(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		CacheControl: "private, no-cache",
		EnablePolicy: true,
		HTMLPrefixes: []string{"/swagger/"},
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Ops
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := repo.Ping(ctx, db); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("readiness check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	svcs, auth, idem := Services(db, cfg)
	h := handlers.New(svcs)

	// Public token endpoints get their own, stricter bucket.
	authRL := middleware.NewRateLimiter(cfg.AuthRateRPS, cfg.AuthRateBurst, middleware.KeyByUserOrIP())
	ag := groupWithPrefix(r, cfg.AuthBasePath)
	ag.Use(authRL.Handler())
	{
		ag.POST("/login", h.Login)
		ag.POST("/refresh", h.Refresh)
	}

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(
		middleware.RequireAuth(auth),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idem.Exists),
		rl.Handler(),
	)
	can := middleware.Authorize
	{
		api.GET("/me", can(domain.OpViewIdentity), h.Me)

		// Forms
		api.POST("/accident-claims/:claim_id", can(domain.OpWriteForm), h.UpsertFormByPath(domain.FormAccidentClaim))
		api.PUT("/accident-claims/:claim_id", can(domain.OpWriteForm), h.UpsertFormByPath(domain.FormAccidentClaim))
		api.GET("/accident-claims/:claim_id", can(domain.OpReadForm), h.GetForm(domain.FormAccidentClaim))

		api.POST("/pre-inspection-forms", can(domain.OpWriteForm), h.UpsertFormByBody(domain.FormPreInspection))
		api.PUT("/pre-inspection-forms", can(domain.OpWriteForm), h.UpsertFormByBody(domain.FormPreInspection))
		api.GET("/pre-inspection-forms/:claim_id", can(domain.OpReadForm), h.ListForms(domain.FormPreInspection))
		api.GET("/pre-inspection-forms/:claim_id/:inspection_id", can(domain.OpReadForm), h.GetForm(domain.FormPreInspection))

		for path, kind := range map[string]domain.FormKind{
			"/cancellation-forms": domain.FormCancellation,
			"/storage-forms":      domain.FormStorage,
			"/rental-agreements":  domain.FormRental,
		} {
			api.POST(path, can(domain.OpWriteForm), h.UpsertFormByBody(kind))
			api.PUT(path, can(domain.OpWriteForm), h.UpsertFormByBody(kind))
			api.GET(path+"/:claim_id", can(domain.OpReadForm), h.GetForm(kind))
		}

		// Claims
		api.POST("/claims", can(domain.OpCreateClaim), h.CreateClaim)
		api.GET("/claims", can(domain.OpReadClaim), h.ListClaims)
		api.GET("/claims/recently-deleted", can(domain.OpReadClaim), h.ListRecentlyDeletedClaims)
		api.POST("/claims/purge", can(domain.OpPurgeClaims), h.PurgeClaims)
		api.GET("/claims/:claim_id", can(domain.OpReadClaim), h.GetClaim)
		api.DELETE("/claims/:claim_id", can(domain.OpDeleteClaim), h.DeleteClaim)
		api.PUT("/claims/:claim_id/soft-delete", can(domain.OpUpdateClaim), h.SoftDeleteClaim)
		api.PUT("/claims/:claim_id/restore", can(domain.OpUpdateClaim), h.RestoreClaim)
		api.PUT("/claims/:claim_id/invoice-sent", can(domain.OpUpdateClaim), h.MarkInvoiceSent)

		// Documents
		api.GET("/claim-documents/:claim_id", can(domain.OpReadDocuments), h.GetDocuments)
		api.PUT("/claim-documents/:claim_id", can(domain.OpWriteDocuments), h.SaveDocuments)
		api.DELETE("/claim-documents/:claim_id/:doc_name", can(domain.OpWriteDocuments), h.DeleteDocument)

		// Users
		api.POST("/register", can(domain.OpRegisterUser), h.Register)
		api.GET("/users", can(domain.OpListUsers), h.ListUsers)
		api.DELETE("/users/:id", can(domain.OpDeleteUser), h.DeleteUser)
		api.PUT("/users/:id/password", can(domain.OpChangePassword), h.ChangePassword)
	}
}

// corsPolicy allows every origin when none is configured (without
// credentials) and otherwise only the listed ones.
func corsPolicy(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey, "If-None-Match"},
		ExposeHeaders: []string{"X-Request-ID", "ETag", "Idempotency-Replayed", "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		base.AllowAllOrigins = true
		return []gin.HandlerFunc{cors.New(base)}
	}
	base.AllowOrigins = origins
	base.AllowCredentials = true
	return []gin.HandlerFunc{cors.New(base)}
}

// limitBody caps request bodies at maxBytes; reads past the cap fail with
// *http.MaxBytesError, which handlers answer with 413.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
