package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/daskousik/blog-api/docs"
	appgraphql "github.com/daskousik/blog-api/internal/api/graphql"
	"github.com/daskousik/blog-api/internal/api/handler"
	"github.com/daskousik/blog-api/internal/api/middleware"
	"github.com/daskousik/blog-api/internal/core/service"
	mongodb "github.com/daskousik/blog-api/internal/infrastructure/db/mongo"
	"github.com/daskousik/blog-api/internal/infrastructure/storage"
	"github.com/daskousik/blog-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("blog"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodOptions, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.Auth(cfg.JWTSecret))

	// --- Dependencies ---
	images, err := storage.NewImageStore(cfg.Upload.Dir, log)
	if err != nil {
		return nil, err
	}

	userRepo := mongodb.NewUserRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, time.Hour, log)
	postService := service.NewPostService(postRepo, userRepo, images, log)

	schema, err := appgraphql.NewSchema(authService, postService)
	if err != nil {
		return nil, err
	}
	graphqlHandler := appgraphql.NewHandler(schema, log)
	uploadHandler := handler.NewUploadHandler(images)

	// --- Routes ---
	e.POST("/graphql", graphqlHandler.Handle)
	e.PUT("/post-image", uploadHandler.Upload)
	e.Static("/images", cfg.Upload.Dir)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
