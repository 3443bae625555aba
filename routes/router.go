package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/drpal/commandments/config"
	"github.com/drpal/commandments/controllers"
	"github.com/drpal/commandments/metrics"
	"github.com/drpal/commandments/middleware"
	"github.com/drpal/commandments/services"
	"github.com/drpal/commandments/utils"
)

// SetupRouter wires routes, middlewares, and controllers. cache may be nil.
func SetupRouter(db *gorm.DB, cache services.Cache) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log and panic recovery go to their own rolling file
	gl, err := accessLogger(cfg)
	if err == nil {
		r.Use(ginzap.Ginzap(gl, time.RFC3339, true))
		r.Use(ginzap.RecoveryWithZap(gl, false))
	} else {
		utils.Sugar.Warnf("access logger init failed, using default recovery: %v", err)
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders())
	r.Use(metrics.Middleware())
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	days, err := services.NewDayResolver(cfg.Timezone)
	if err != nil {
		utils.Logger.Warn("unknown timezone, falling back to Local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		days, _ = services.NewDayResolver("Local")
	}
	timeout := time.Duration(cfg.DBTimeoutSec) * time.Second
	cacheTTL := time.Duration(cfg.LeaderboardCacheTTLSec) * time.Second

	users := services.NewUserStore(db, timeout)
	logs := services.NewDailyLogStore(db, timeout)
	engine := services.NewEngine(db, users, logs, cache, timeout)
	leaderboard := services.NewLeaderboard(db, cache, cacheTTL, cfg.LeaderboardLimit, timeout)
	community := services.NewCommunity(db, timeout)

	userController := controllers.NewUserController(users, logs, leaderboard, days, cfg.WaterGoalML)
	logController := controllers.NewLogController(engine, days)
	leaderboardController := controllers.NewLeaderboardController(leaderboard)
	communityController := controllers.NewCommunityController(community)
	configController := controllers.NewConfigController(days)
	statsController := controllers.NewStatsController(db, days)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute), middleware.BodyLimit(cfg.MaxBodyBytes))

	api.POST("/login", userController.Login)
	api.POST("/goal", userController.SetGoal)
	api.POST("/reality-check", userController.RealityCheck)
	api.GET("/history/:userId", userController.History)
	api.GET("/users/:id", userController.Summary)

	api.POST("/submit", logController.Submit)
	api.POST("/water", logController.AddWater)

	api.GET("/leaderboard", leaderboardController.Top)

	api.POST("/nudge", communityController.SendNudge)
	api.GET("/nudges/:userId", communityController.Nudges)
	api.POST("/nudges/read", communityController.MarkRead)
	api.GET("/fails", communityController.ListFails)
	api.POST("/fails", communityController.PostFail)

	api.GET("/habits", configController.GetHabits)
	api.GET("/config", configController.GetConfig)
	api.GET("/stats", statsController.GetStats)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
	})

	return r
}

func accessLogger(cfg config.AppConfig) (*zap.Logger, error) {
	if gin.Mode() == gin.TestMode {
		return zap.NewNop(), nil
	}
	return utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
}
