package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Paul1o1/rendojobs-frontend/internal/auth/handler"
	"github.com/Paul1o1/rendojobs-frontend/internal/auth/replay"
	"github.com/Paul1o1/rendojobs-frontend/internal/auth/resolver"
	"github.com/Paul1o1/rendojobs-frontend/internal/auth/telegram"
	"github.com/Paul1o1/rendojobs-frontend/internal/auth/token"
	"github.com/Paul1o1/rendojobs-frontend/internal/clock"
	"github.com/Paul1o1/rendojobs-frontend/internal/config"
	"github.com/Paul1o1/rendojobs-frontend/internal/middleware"
	"github.com/Paul1o1/rendojobs-frontend/internal/user"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	clk := clock.New()

	userStore := user.NewPostgresStore(infra.DB)
	validator := telegram.NewValidator(cfg.TelegramBotToken, cfg.InitDataMaxAge, clk)
	issuer := token.NewIssuer(cfg.JWTSecret, clk)
	identityResolver := resolver.NewStoreResolver(userStore)

	var guard replay.Guard = replay.Noop{}
	if infra.Redis != nil {
		guard = replay.NewRedisGuard(infra.Redis.Client, cfg.InitDataMaxAge)
	}

	authHandler := handler.NewHandler(validator, identityResolver, issuer, guard)
	authMiddleware := middleware.NewAuthMiddleware(issuer)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", func(c *gin.Context) {
		claims, ok := middleware.ClaimsFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		u, err := userStore.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
			return
		}

		c.JSON(200, gin.H{
			"id":          u.ID,
			"telegram_id": u.TelegramID,
			"name":        u.Name,
		})
	})

	api.PUT("/profile", func(c *gin.Context) {
		claims, ok := middleware.ClaimsFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if len(req.Name) < 2 || len(req.Name) > 50 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "name must be between 2 and 50 characters",
			})
			return
		}

		u, err := userStore.UpdateName(c.Request.Context(), claims.UserID, req.Name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
			return
		}

		c.JSON(200, gin.H{
			"id":   u.ID,
			"name": u.Name,
		})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
