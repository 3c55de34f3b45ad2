package routes

import (
	"log"

	"forum/backend/config"
	"forum/backend/controllers"
	"forum/backend/middleware"
	"forum/backend/repository"
	"forum/backend/services"
	"forum/backend/utils"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// securityRules lists the requests anonymous clients may make. Everything
// else requires a bearer token.
var securityRules = []middleware.Rule{
	{Method: fiber.MethodGet, Pattern: "/topicos"},
	{Method: fiber.MethodGet, Pattern: "/topicos/*"},
	{Method: fiber.MethodPost, Pattern: "/auth"},
	{Method: fiber.MethodGet, Pattern: "/actuator/**"},
}

// NewApp builds the fiber application with its middleware and routes.
func NewApp(db *gorm.DB, cfg *config.Config, logger *log.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "forum",
		ErrorHandler: utils.ErrorHandler,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Location",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	SetupRoutes(app, db, cfg, logger)
	return app
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) {
	topicRepo := repository.NewGormTopicRepository(db)
	courseRepo := repository.NewGormCourseRepository(db)
	userRepo := repository.NewGormUserRepository(db)

	tokens := utils.NewTokenService(cfg)
	authService := services.NewAuthService(userRepo, tokens)

	app.Use(middleware.Security(middleware.SecurityConfig{
		PermitAll: securityRules,
		Tokens:    tokens,
		Users:     userRepo,
		Logger:    logger,
	}))

	// Auth routes
	authController := controllers.NewAuthController(authService, logger)
	app.Post("/auth", authController.Authenticate)

	// Actuator routes
	actuatorController := controllers.NewActuatorController(db)
	app.Get("/actuator/health", actuatorController.Health)

	// Topic routes
	listCache := middleware.NewListCache(cfg.CacheTTL, logger)
	topicsController := controllers.NewTopicsController(topicRepo, courseRepo, listCache, logger)
	answersController := controllers.NewAnswersController(topicRepo, listCache, logger)

	topics := app.Group("/topicos")
	topics.Get("/", listCache.Handler(), topicsController.List)
	topics.Post("/", topicsController.Create)
	topics.Get("/:id", topicsController.Detail)
	topics.Put("/:id", topicsController.Update)
	topics.Delete("/:id", topicsController.Delete)
	topics.Post("/:id/respostas", answersController.Create)
}
