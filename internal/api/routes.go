package api

import (
	"codeflex/fitness-api/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RateLimits holds the per-route limits. A zero Limit disables a rule.
type RateLimits struct {
	LoginLimit     int
	LoginWindow    time.Duration
	GenerateLimit  int
	GenerateWindow time.Duration
}

// Dependencies are the services and settings the HTTP layer needs.
type Dependencies struct {
	AuthService       service.AuthService
	UserService       service.UserService
	PlanService       service.PlanService
	GenerationService service.GenerationService
	Cookie            SessionCookie
	Limiter           RateLimiter // nil disables rate limiting
	RateLimits        RateLimits
	// TrustedProxies may set X-Forwarded-For. Empty trusts no proxy, so
	// rate limits key on the peer address.
	TrustedProxies []string
}

// NewRouter builds a gin engine with the standard middleware chain and all
// routes registered.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	router := gin.New()
	var proxies []string
	if len(deps.TrustedProxies) > 0 {
		proxies = deps.TrustedProxies
	}
	if err := router.SetTrustedProxies(proxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	router.Use(Recovery(), RequestID(), RequestLogger(), Metrics())
	SetupRoutes(router, deps)
	return router, nil
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	authHandler := NewAuthHandler(deps.AuthService, deps.Cookie)
	userHandler := NewUserHandler(deps.UserService)
	planHandler := NewPlanHandler(deps.PlanService, deps.GenerationService)

	authMiddleware := AuthMiddleware(deps.AuthService, deps.Cookie.Name)
	adminMiddleware := AdminMiddleware(deps.AuthService)

	loginLimit := RateLimit(deps.Limiter, RateLimitRule{
		Name:   "login",
		Limit:  deps.RateLimits.LoginLimit,
		Window: deps.RateLimits.LoginWindow,
		Key:    ByClientIP,
	})
	generateLimit := RateLimit(deps.Limiter, RateLimitRule{
		Name:   "generate",
		Limit:  deps.RateLimits.GenerateLimit,
		Window: deps.RateLimits.GenerateWindow,
		Key:    ByUser,
	})

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api")

	users := apiGroup.Group("/users")
	{
		users.POST("/register", authHandler.Register)
		users.POST("/login", loginLimit, authHandler.Login)
		users.POST("/logout", authHandler.Logout)

		users.GET("/profile", authMiddleware, userHandler.GetProfile)
		users.GET("/me", authMiddleware, userHandler.GetProfile)
		users.POST("/profile/image", authMiddleware, userHandler.CreateImageUpload)
		users.GET("/all", authMiddleware, adminMiddleware, userHandler.ListUsers)
	}

	plans := apiGroup.Group("/plans")
	plans.Use(authMiddleware)
	{
		plans.POST("", planHandler.CreatePlan)
		plans.POST("/generate", generateLimit, planHandler.GeneratePlan)
		plans.GET("/:userId", planHandler.GetUserPlans)
	}
}
