package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"academy/docs" // swagger docs

	"github.com/labstack/echo/v4"
	glog "github.com/labstack/gommon/log"

	"academy/internal/auth"
	"academy/internal/cache"
	"academy/internal/config"
	"academy/internal/db"
	"academy/internal/handler"
	"academy/internal/repository"
	"academy/internal/router"
	"academy/internal/seed"
	"academy/internal/service"
)

// @title Academy API
// @version 1.0
// @description Learning portal API with courses, resources, lesson progress and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if cfg.ResetDB {
		log.Println("RESET_DB=true detected, dropping all tables...")
		if err := db.Reset(gormDB); err != nil {
			log.Printf("Warning: Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("%v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Printf("Warning: redis unavailable at %s, catalog reads go straight to the database: %v", cfg.RedisAddr, err)
	}
	defer cacheClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	courseRepo := repository.NewCourseRepository(gormDB)
	resourceRepo := repository.NewResourceRepository(gormDB)
	progressRepo := repository.NewProgressRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	catalogService := service.NewCatalogService(courseRepo, resourceRepo, cacheClient, cfg.CatalogCacheTTL)
	progressService := service.NewProgressService(progressRepo, courseRepo, catalogService)
	seeder := seed.NewSeeder(userRepo, courseRepo, resourceRepo)

	if cfg.SeedOnStart {
		data := seed.Default()
		result, err := seeder.Run(context.Background(), data)
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		catalogService.InvalidateCache(context.Background(), data.CourseIDs()...)
		log.Printf("Seeded users=%+v courses=%+v resources=%+v", result.Users, result.Courses, result.Resources)
	} else if n, err := userRepo.Count(context.Background()); err == nil && n == 0 {
		log.Println("Warning: no users in database, run cmd/seed or set SEED_ON_START=true")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	courseHandler := handler.NewCourseHandler(catalogService)
	resourceHandler := handler.NewResourceHandler(catalogService)
	progressHandler := handler.NewProgressHandler(progressService)
	seedHandler := handler.NewSeedHandler(seeder, catalogService)

	// Register routes
	router.Register(
		e,
		cfg,
		jwtService,
		authHandler,
		courseHandler,
		resourceHandler,
		progressHandler,
		seedHandler,
	)

	// Log swagger full path
	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
		docs.SwaggerInfo.Host = host
		if strings.HasPrefix(cfg.SwaggerHost, "http") {
			swaggerURL = strings.TrimSuffix(cfg.SwaggerHost, "/") + "/swagger/index.html"
		} else {
			swaggerURL = "http://" + cfg.SwaggerHost + "/swagger/index.html"
		}
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

func logLevel(level string) glog.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return glog.DEBUG
	case "warn", "warning":
		return glog.WARN
	case "error":
		return glog.ERROR
	case "off":
		return glog.OFF
	default:
		return glog.INFO
	}
}
