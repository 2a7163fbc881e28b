package api

import (
	"net/http"

	"workout-tracker/internal/config"
	"workout-tracker/internal/repository"
	"workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRoutes registers all API routes on the given engine.
func SetupRoutes(
	router *gin.Engine,
	cfg config.RateLimitConfig,
	authService service.AuthService,
	workoutService service.WorkoutService,
	tokenService service.TokenService,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) {
	authHandler := NewAuthHandler(authService, logger)
	workoutHandler := NewWorkoutHandler(workoutService, logger)

	authMiddleware := AuthMiddleware(tokenService, userRepo)

	router.Use(RequestID())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		authGroup.Use(RateLimit(cfg.AuthRPS, cfg.AuthBurst))
		{
			authGroup.POST("/signup", authHandler.Signup)
			authGroup.POST("/login", authHandler.Login)
		}

		workoutGroup := apiGroup.Group("/workouts")
		workoutGroup.Use(authMiddleware)
		{
			workoutGroup.GET("", workoutHandler.List)
			workoutGroup.POST("", workoutHandler.Create)
			workoutGroup.GET("/:id", workoutHandler.Get)
			workoutGroup.PUT("/:id", workoutHandler.Update)
			workoutGroup.DELETE("/:id", workoutHandler.Delete)
			workoutGroup.GET("/progress/:exerciseName", workoutHandler.Progress)
		}
	}
}
