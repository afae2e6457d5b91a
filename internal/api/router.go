package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/curationlink/board-api/docs"
	"github.com/curationlink/board-api/internal/api/handler"
	"github.com/curationlink/board-api/internal/api/middleware"
	"github.com/curationlink/board-api/internal/core/domain"
	"github.com/curationlink/board-api/internal/core/ports"
	"github.com/curationlink/board-api/internal/infrastructure/http/handlers"
	"github.com/curationlink/board-api/pkg/logger"
)

// Deps carries everything the HTTP layer needs. Services are constructed in
// main so their background pieces share the process lifecycle.
type Deps struct {
	Boards    ports.BoardService
	Templates ports.TemplateService
	Users     ports.UserService
	Auth      ports.AuthService
	Drafts    ports.DraftService
	Preview   ports.PreviewService

	SessionSecret string

	// DB and RDB back the readiness probe only.
	DB  *mongo.Database
	RDB *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("curation"))

	requireAuth := middleware.Auth(deps.SessionSecret)

	boardHandler := handler.NewBoardHandler(deps.Boards, deps.Users)
	templateHandler := handler.NewTemplateHandler(deps.Templates)
	userHandler := handler.NewUserHandler(deps.Users)
	authHandler := handler.NewAuthHandler(deps.Auth)
	draftHandler := handler.NewDraftHandler(deps.Drafts)
	ogHandler := handler.NewOGHandler(deps.Preview)

	// --- Auth ---
	e.POST("/auth/login", authHandler.Login)

	// --- Public reads: board pages, profiles, the template picker ---
	e.GET("/v1/boards/:id", boardHandler.Get)
	e.GET("/v1/boards/:id/share", boardHandler.Share)
	e.GET("/v1/boards/:id/events", boardHandler.Events)
	e.GET("/v1/users/:username", userHandler.GetByUsername)
	e.GET("/v1/users/:username/boards", boardHandler.ListByUsername)
	e.GET("/v1/users/:username/boards/events", boardHandler.EventsByUsername)
	e.GET("/v1/templates", templateHandler.ListOfficial)
	e.GET("/v1/templates/:id", templateHandler.Get)

	// --- Social preview image (consumed by link unfurlers, never fails) ---
	e.GET("/api/og/board/:id", ogHandler.BoardImage)

	// --- Session-scoped routes ---
	me := e.Group("/v1/me", requireAuth)
	me.GET("", userHandler.Me)
	me.PUT("/profile", userHandler.UpdateProfile)
	me.GET("/boards", boardHandler.ListMine)

	boards := e.Group("/v1/boards", requireAuth)
	boards.POST("", boardHandler.Create)
	boards.PATCH("/:id", boardHandler.Update)
	boards.DELETE("/:id", boardHandler.Delete)

	templates := e.Group("/v1/templates", requireAuth)
	templates.POST("", templateHandler.Create)
	templates.DELETE("/:id", templateHandler.Delete)

	// Official template seeding is an administrative operation.
	admin := e.Group("/v1/admin", requireAuth, middleware.RBAC(domain.RoleAdmin))
	admin.POST("/templates", templateHandler.Create)

	drafts := e.Group("/v1/drafts", requireAuth)
	drafts.POST("", draftHandler.Start)
	drafts.GET("/:id", draftHandler.Get)
	drafts.POST("/:id/template", draftHandler.ChooseTemplate)
	drafts.POST("/:id/template/apply", draftHandler.ApplyTemplate)
	drafts.POST("/:id/blank", draftHandler.StartBlank)
	drafts.PUT("/:id/title", draftHandler.SetTitle)
	drafts.PUT("/:id/items", draftHandler.SetItem)
	drafts.PUT("/:id/style", draftHandler.SetStyle)
	drafts.POST("/:id/back", draftHandler.Back)
	drafts.POST("/:id/save", draftHandler.Save)

	// --- Operational endpoints ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.DB, deps.RDB)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
