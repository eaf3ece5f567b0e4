package main

import (
	"context"
	"flag"
	"log"

	"academy/internal/cache"
	"academy/internal/config"
	"academy/internal/db"
	"academy/internal/repository"
	"academy/internal/seed"
	"academy/internal/service"
)

func main() {
	from := flag.String("from", "", "load the dataset from a JSON file or http(s) URL instead of the built-in one")
	flag.Parse()

	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	data := seed.Default()
	if *from != "" {
		log.Printf("Loading dataset from: %s", *from)
		data, err = seed.Load(ctx, *from)
		if err != nil {
			log.Fatalf("Failed to load dataset: %v", err)
		}
	}

	userRepo := repository.NewUserRepository(gormDB)
	courseRepo := repository.NewCourseRepository(gormDB)
	resourceRepo := repository.NewResourceRepository(gormDB)

	log.Println("Seeding database...")
	result, err := seed.NewSeeder(userRepo, courseRepo, resourceRepo).Run(ctx, data)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	// Drop cached catalog entries so a running server serves the new data
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	service.NewCatalogService(courseRepo, resourceRepo, cacheClient, cfg.CatalogCacheTTL).
		InvalidateCache(ctx, data.CourseIDs()...)

	log.Printf("Seed completed successfully!")
	log.Printf("  - Users created: %d, updated: %d", result.Users.Created, result.Users.Updated)
	log.Printf("  - Courses created: %d, updated: %d", result.Courses.Created, result.Courses.Updated)
	log.Printf("  - Resources created: %d, updated: %d", result.Resources.Created, result.Resources.Updated)
}
