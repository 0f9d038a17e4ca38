package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"gametracker/api"
	"gametracker/cache"
	"gametracker/config"
	"gametracker/db"
	"gametracker/engine"
	"gametracker/handlers"
	"gametracker/middleware"
	"gametracker/monitoring"
	"gametracker/preferences"
	"gametracker/utils"
)

func main() {
	cfg := config.Load()

	utils.InitLogger(cfg.LogLevel, cfg.LogFile, cfg.IsRelease())
	utils.LogInfo("Starting GameTracker", map[string]interface{}{
		"api":    cfg.APIBaseURL,
		"locale": cfg.CollationLocale,
	})

	locale, err := language.Parse(cfg.CollationLocale)
	if err != nil {
		utils.LogWarn("Invalid collation locale, using Spanish", map[string]interface{}{"locale": cfg.CollationLocale})
		locale = language.Spanish
	}
	engine.SetTitleLocale(locale)

	if err := db.InitDB(cfg.DatabaseURL, cfg.PreferencesDBPath); err != nil {
		utils.Log.WithError(err).Fatal("Failed to initialize preference store")
	}

	if err := cache.InitRedis(cfg.RedisURL, cfg.RedisPassword); err != nil {
		utils.LogWarn("Redis unavailable, running without cache", map[string]interface{}{"error": err.Error()})
	}
	defer cache.CloseRedis()

	monitoring.InitMetrics()

	breaker := api.NewCircuitBreaker(cfg.BreakerMaxFailures, cfg.BreakerTimeout)
	handlers.Client = api.NewClient(cfg.APIBaseURL, cfg.APITimeout, breaker)
	handlers.Prefs = preferences.NewService(preferences.NewGormStore(db.DB), preferences.ParseSignal(cfg.PrefersColorScheme))
	handlers.CacheTTL = cfg.CacheTTL
	handlers.ImportWorkers = cfg.ImportWorkers

	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := setupRouter(cfg)
	serve(cfg, r)
}

func setupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorLogger())
	r.Use(monitoring.PrometheusMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RemovePoweredBy())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", middleware.CSRFHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Operational routes
	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", monitoring.PrometheusHandler())
	r.GET("/csrf-token", middleware.GetCSRFTokenHandler)

	app := r.Group("/")
	app.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
	app.Use(middleware.CSRFProtection())
	{
		app.GET("/library", handlers.GetLibrary)
		app.GET("/stats", handlers.GetDashboard)
		app.GET("/search", handlers.QuickSearch)

		app.GET("/games", handlers.GetLibrary)
		app.GET("/games/:id", handlers.GetGame)
		app.POST("/games", handlers.CreateGame)
		app.POST("/games/import", handlers.ImportGames)
		app.PUT("/games/:id", handlers.UpdateGame)
		app.PATCH("/games/:id", handlers.PatchGame)
		app.DELETE("/games/:id", handlers.DeleteGame)

		app.GET("/reviews", handlers.GetReviews)
		app.GET("/reviews/:id", handlers.GetReview)
		app.POST("/reviews", handlers.CreateReview)
		app.PUT("/reviews/:id", handlers.UpdateReview)
		app.DELETE("/reviews/:id", handlers.DeleteReview)
		app.POST("/reviews/:id/like", handlers.LikeReview)

		app.GET("/preferences", handlers.GetPreferences)
		app.PUT("/preferences", handlers.SavePreferences)
		app.POST("/preferences/theme/toggle", handlers.ToggleTheme)
		app.POST("/preferences/sound/toggle", handlers.ToggleSound)
		app.POST("/preferences/reset", handlers.ResetPreferences)
	}

	return r
}

func serve(cfg *config.Config, r *gin.Engine) {
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	useTLS := cfg.UseHTTPS && cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""
	if useTLS {
		server.TLSConfig = &tls.Config{
			MinVersion:       tls.VersionTLS12,
			CurvePreferences: []tls.CurveID{tls.X25519, tls.CurveP384, tls.CurveP256},
		}
	}

	go func() {
		var err error
		if useTLS {
			utils.LogInfo("Starting server with HTTPS", map[string]interface{}{"port": cfg.Port, "cert": cfg.TLSCertFile})
			err = server.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			utils.LogInfo("Starting server with HTTP", map[string]interface{}{"port": cfg.Port})
			if cfg.IsRelease() {
				utils.LogWarn("Running without HTTPS. Set USE_HTTPS=true for production", nil)
			}
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	utils.LogInfo("Shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogError("Forced shutdown", map[string]interface{}{"error": err.Error()})
	}
}
