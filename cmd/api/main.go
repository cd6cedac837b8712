package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"parkshare/internal/config"
	"parkshare/internal/database"
	"parkshare/internal/middleware"
	"parkshare/internal/modules/auth"
	"parkshare/internal/modules/events"
	"parkshare/internal/modules/registry"
	"parkshare/internal/modules/rental"
	"parkshare/internal/modules/wallet"
	jwtsvc "parkshare/internal/pkg/jwt"
	"parkshare/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	rentalRepo := repository.NewRentalRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := events.NewHub()
	defer hub.Close()

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	registryService := registry.NewService(db, spaceRepo, hub)
	registryHandler := registry.NewHandler(registryService)

	rentalService := rental.NewService(db, rentalRepo, hub)
	rentalHandler := rental.NewHandler(rentalService)

	walletService := wallet.NewService(db)
	walletHandler := wallet.NewHandler(walletService)

	eventsService := events.NewService(db)
	eventsHandler := events.NewHandler(eventsService, hub, j)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		registryHandler.RegisterPublicRoutes(v1)
		eventsHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			registryHandler.RegisterProtectedRoutes(protected)
			rentalHandler.RegisterRoutes(protected)
			walletHandler.RegisterRoutes(protected)
		}
	}

	r.GET("/ws/events", eventsHandler.HandleWebSocket)

	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal(err)
	}
}
