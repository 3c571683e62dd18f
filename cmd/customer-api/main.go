package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pinewood-labs/customer-store/internal/api"
	"github.com/pinewood-labs/customer-store/internal/config"
	"github.com/pinewood-labs/customer-store/internal/database"
	"github.com/pinewood-labs/customer-store/internal/logging"
	"github.com/pinewood-labs/customer-store/internal/middleware"
	"github.com/pinewood-labs/customer-store/internal/services"
	"github.com/sirupsen/logrus"
)

func main() {
	// Cargar configuración
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// Configurar logging
	logger := logging.New(cfg.Logging)
	logger.Info("Starting Customer API...")

	// Configurar modo de Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Aplicar migraciones pendientes antes de abrir el pool
	if cfg.Database.AutoMigrate {
		if err := runMigrations(cfg, logger); err != nil {
			logger.Fatalf("Error running migrations: %v", err)
		}
	}

	// Conectar a la base de datos
	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatalf("Error connecting to database: %v", err)
	}
	defer db.Close()

	// Conectar a Redis (opcional)
	var redisChecker api.HealthChecker
	if cfg.Redis.Enabled {
		redis, err := database.ConnectRedis(cfg)
		if err != nil {
			logger.Warnf("Error connecting to Redis: %v", err)
		} else {
			defer redis.Close()
			defer redis.LogStats(logger)
			redisChecker = redis
		}
	} else {
		logger.Info("Redis disabled, health check will report it as disabled")
	}

	// Inicializar repositorio, servicio y API
	customerRepo := database.NewCustomerRepository(db, logger)
	customerService := services.NewCustomerService(customerRepo, logger)
	apiHandler := api.NewAPI(customerService, db, redisChecker, logger)

	// Configurar router
	router := setupRouter(apiHandler, cfg, logger)

	// Crear servidor HTTP
	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Canal para señales de terminación
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Iniciar servidor en goroutine
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":      cfg.GetServerAddr(),
			"base_path": cfg.Server.BasePath,
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	// Esperar señal de terminación
	<-quit
	logger.Info("Shutting down server...")

	// Contexto con timeout para shutdown graceful
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown graceful del servidor
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	db.LogStats(logger)
	logger.Info("Server exited")
}

// runMigrations aplica las migraciones embebidas con una conexión dedicada
func runMigrations(cfg *config.Config, logger *logrus.Logger) error {
	migrator, err := database.OpenMigrator(cfg, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Up()
}

// setupRouter configura el router principal
func setupRouter(apiHandler *api.API, cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	router := gin.New()

	// Middleware global
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())

	// Middleware de CORS para desarrollo
	if cfg.IsDevelopment() {
		router.Use(middleware.CORS())
	}

	// Health check
	router.GET("/health", apiHandler.Health)

	apiHandler.RegisterRoutes(router.Group(cfg.Server.BasePath))

	return router
}
