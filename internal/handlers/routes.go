package handlers

import (
	"net/http"
	"time"

	"monkeybets/internal/auth"
	"monkeybets/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterDeps is everything the HTTP surface needs
type RouterDeps struct {
	Sessions    *auth.Manager
	AuthLimiter *auth.RateLimiter
	Metrics     *metrics.Metrics
	Changes     http.Handler
	CORSOrigins []string

	Auth   *AuthHandler
	Props  *PropHandler
	Wagers *WagerHandler
	Drafts *DraftHandler
	Pages  *PageHandler
}

// RegisterRoutes mounts API, auth and page routes on router
func RegisterRoutes(router *gin.Engine, deps RouterDeps) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", Health)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if deps.Changes != nil {
		router.GET("/ws/changes", gin.WrapH(deps.Changes))
	}

	// Authentication routes (public, rate limited)
	authRoutes := router.Group("/auth")
	if deps.AuthLimiter != nil {
		authRoutes.Use(deps.AuthLimiter.Middleware())
	}
	{
		authRoutes.POST("/code", deps.Auth.SendCode)
		authRoutes.POST("/signup", deps.Auth.SignUp)
		authRoutes.POST("/signin", deps.Auth.SignIn)
		authRoutes.POST("/logout", deps.Auth.Logout)
	}

	authProtected := router.Group("/auth")
	authProtected.Use(deps.Sessions.RequireSession())
	{
		authProtected.GET("/me", deps.Auth.GetMe)
	}

	// Public API routes
	router.GET("/api/shared/:code", deps.Sessions.OptionalSession(), deps.Props.GetShared)
	drafts := router.Group("/api/drafts")
	{
		drafts.PUT("/wager", deps.Drafts.SaveDraft)
		drafts.GET("/wager", deps.Drafts.GetDraft)
		drafts.DELETE("/wager", deps.Drafts.ClearDraft)
	}

	// API routes (protected)
	api := router.Group("/api")
	api.Use(deps.Sessions.RequireSession())
	{
		api.GET("/dashboard", deps.Props.Dashboard)
		api.GET("/props", deps.Props.History)
		api.POST("/props", deps.Props.CreateProp)
		api.GET("/props/:id", deps.Props.GetProp)
		api.DELETE("/props/:id", deps.Props.DeleteProp)
		api.POST("/props/:id/result", deps.Props.SetResult)
		api.GET("/props/:id/share", deps.Props.Share)
		api.POST("/props/:id/wagers", deps.Wagers.PlaceWager)
		api.GET("/props/:id/wager", deps.Wagers.WagerDetail)
	}

	// Browser pages
	router.GET("/login", deps.Pages.Index)
	router.GET("/wager/:id", deps.Pages.Index)

	pages := router.Group("/")
	pages.Use(deps.Sessions.RequireSession())
	{
		pages.GET("/", deps.Pages.Index)
		pages.GET("/create", deps.Pages.Index)
		pages.GET("/prop/:id", deps.Pages.Index)
		pages.GET("/wager-details/:id", deps.Pages.Index)
	}
}
