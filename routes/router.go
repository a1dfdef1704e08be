package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/askme/config"
	"github.com/cppla/askme/controllers"
	"github.com/cppla/askme/middleware"
	"github.com/cppla/askme/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
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
	// Access log goes to its own rolling file; the application log stays on stdout
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, true))
	} else {
		utils.Sugar.Warnf("access log disabled: %v", err)
		r.Use(utils.RecoveryWithZap(utils.Logger, true))
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.Metrics())
	r.Use(middleware.CurrentUser())

	r.Static("/uploads", cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", middleware.MetricsHandler())

	questionController := controllers.NewQuestionController(db)
	authController := controllers.NewAuthController(db)
	settingsController := controllers.NewSettingsController(db)
	voteController := controllers.NewVoteController(db)
	sidebarController := controllers.NewSidebarController(db)

	limited := middleware.RateLimit(cfg.RateLimitPerMinute)
	login := middleware.AuthRequired()

	// Listings
	r.GET("/", questionController.Index)
	r.GET("/hot/", questionController.Hot)
	r.GET("/active/", questionController.Active)
	r.GET("/unanswered/", questionController.Unanswered)
	r.GET("/tag/:name/", questionController.ByTag)
	r.GET("/sidebar/", sidebarController.GetSidebar)

	// Questions and answers
	r.GET("/question/:id/", questionController.Detail)
	r.POST("/question/:id/", login, limited, questionController.CreateAnswer)
	r.GET("/ask/", login, questionController.AskForm)
	r.POST("/ask/", login, limited, questionController.Ask)

	// Votes
	r.POST("/question/:id/vote/", login, limited, voteController.VoteQuestion)
	r.POST("/answer/:id/vote/", login, limited, voteController.VoteAnswer)

	// Accounts
	r.GET("/login/", authController.LoginForm)
	r.POST("/login/", limited, authController.Login)
	r.GET("/signup/", authController.SignupForm)
	r.POST("/signup/", limited, authController.Signup)
	r.GET("/logout/", authController.Logout)
	r.GET("/settings/", login, settingsController.GetSettings)
	r.POST("/settings/", login, limited, settingsController.UpdateSettings)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
