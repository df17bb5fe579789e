package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/recipehub/backend/config"
	"github.com/recipehub/backend/internal/api"
	"github.com/recipehub/backend/internal/middleware"
	"github.com/recipehub/backend/internal/service"
)

// Options carries the optional infrastructure. A nil Redis client
// disables rate limiting, a nil S3 config disables image uploads, a nil
// Mailer disables notification email; the rest of the API works without
// any of them.
type Options struct {
	Redis          *redis.Client
	S3             *config.S3Config
	Mailer         service.RatingNotifier
	AllowedOrigins []string
}

// Setup wires the services and handlers onto a gin engine. Everything
// hangs off /api/v1.
func Setup(db *gorm.DB, jwtSecret string, opts Options) *gin.Engine {
	authService := service.NewAuthService(db, jwtSecret)
	ratingService := service.NewRatingService(db)
	if opts.Mailer != nil {
		ratingService.SetNotifier(opts.Mailer)
	}
	recipeService := service.NewRecipeService(db, ratingService)
	searchService := service.NewSearchService(db)
	favoriteService := service.NewFavoriteService(db)
	categoryService := service.NewCategoryService(db)
	adminService := service.NewAdminService(db)

	var submissionLimiter, ratingLimiter *middleware.RateLimiter
	if opts.Redis != nil {
		submissionLimiter = middleware.NewSubmissionRateLimiter(opts.Redis)
		ratingLimiter = middleware.NewRatingRateLimiter(opts.Redis)
	}

	engine := gin.Default()
	engine.Use(middleware.CORS(opts.AllowedOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")

	api.NewAuthHandler(authService).RegisterRoutes(v1)
	api.NewRecipeHandler(recipeService, searchService, ratingService, favoriteService,
		authService, submissionLimiter, ratingLimiter).RegisterRoutes(v1)
	api.NewCategoryHandler(categoryService, authService).RegisterRoutes(v1)
	api.NewAdminHandler(adminService, recipeService, searchService, authService).RegisterRoutes(v1)

	if opts.S3 != nil {
		imageService := service.NewImageService(db, opts.S3)
		api.NewImageHandler(imageService, authService).RegisterRoutes(v1)
	}

	return engine
}
