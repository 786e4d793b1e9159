package main

import (
	"os"

	"lawdesk/internal/domain/policy"
	"lawdesk/internal/domain/sqlite"
	"lawdesk/internal/domain/sqlite/repository"
	"lawdesk/internal/http/handler"
	authmw "lawdesk/internal/http/middleware"
	"lawdesk/internal/infrastructure/disk"
	"lawdesk/internal/service"
	"lawdesk/internal/utils"
	"lawdesk/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	defaultPort      = "7070"
	defaultDBPath    = "lawdesk.db"
	defaultFilesDir  = "attachments"
	defaultOwnerUser = "owner"
	defaultOwnerPass = "change-me"
	defaultOwnerName = "Bootstrap Owner"
)

func main() {
	// .env is only expected outside production
	if os.Getenv("GO_ENV") != "production" {
		_ = godotenv.Load()
	}

	validate := validator.New()
	registerValidators(validate)

	if err := utils.InitTokenSigner(os.Getenv("JWT_SECRET")); err != nil {
		panic(err)
	}

	// Init SQLite
	db, err := sqlite.Init(envOr("DATABASE_PATH", defaultDBPath))
	if err != nil {
		panic(err)
	}

	bootstrapUser := envOr("BOOTSTRAP_USERNAME", defaultOwnerUser)
	err = sqlite.SeedOwner(db,
		bootstrapUser,
		envOr("BOOTSTRAP_PASSWORD", defaultOwnerPass),
		envOr("BOOTSTRAP_NAME", defaultOwnerName),
	)
	if err != nil {
		panic(err)
	}

	// Init attachment tree
	files, err := disk.NewAttachmentStore(envOr("ATTACHMENTS_DIR", defaultFilesDir))
	if err != nil {
		panic(err)
	}

	// Getting repos
	caseRepo := repository.NewCaseRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Getting services
	userPolicy := policy.NewUserPolicy(bootstrapUser)
	caseService := service.NewCaseService(caseRepo, userRepo, files, validate)
	userService := service.NewUserService(userRepo, caseRepo, validate, userPolicy)

	// Getting handlers
	caseRoutes := handler.NewCaseDefault(caseService)
	userRoutes := handler.NewUserDefault(userService)

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("30M"))

	auth := authmw.NewAuthMiddleware(&authmw.AuthMiddlewareConfig{UserRepo: userRepo})

	// Public intake and protocol lookup
	e.POST("/api/cases", caseRoutes.CreateCase)
	e.GET("/api/cases/:id", caseRoutes.GetProtocol)
	e.GET("/api/cases/:id/attachments", caseRoutes.ListAttachments)
	e.GET("/api/cases/:id/attachments/:uploader/:name", caseRoutes.DownloadAttachment)
	e.POST("/api/auth/login", userRoutes.Login)

	// Staff workspace
	e.GET("/api/cases", caseRoutes.ListCases, auth)
	e.GET("/api/cases/stats", caseRoutes.GetStats, auth)
	e.GET("/api/cases/:id/details", caseRoutes.GetCase, auth)
	e.POST("/api/cases/:id/assign", caseRoutes.AssignCase, auth)
	e.POST("/api/cases/:id/respond", caseRoutes.RespondCase, auth)
	e.POST("/api/cases/:id/review", caseRoutes.ReviewCase, auth)
	e.POST("/api/cases/:id/approve", caseRoutes.ApproveCase, auth)

	// Team management
	e.GET("/api/users", userRoutes.GetUsers, auth)
	e.GET("/api/users/assignable", userRoutes.GetAssignable, auth)
	e.POST("/api/users", userRoutes.CreateUser, auth)
	e.PATCH("/api/users/:username/password", userRoutes.UpdatePassword, auth)
	e.DELETE("/api/users/:username", userRoutes.DeleteUser, auth)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	if err := e.Start(":" + envOr("PORT", defaultPort)); err != nil {
		panic(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}
