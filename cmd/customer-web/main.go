package main

import (
	"context"
	"crypto/rand"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pinewood-labs/customer-store/internal/config"
	"github.com/pinewood-labs/customer-store/internal/logging"
	"github.com/pinewood-labs/customer-store/internal/middleware"
	"github.com/pinewood-labs/customer-store/internal/web"
	"github.com/sirupsen/logrus"
)

func main() {
	// Cargar configuración
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := logging.New(cfg.Logging)
	logger.Info("Starting Customer Web...")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Cliente de la API REST
	client := web.NewClient(cfg.Web.APIBaseURL, cfg.Web.ClientTimeout, logger)

	csrfKey, err := cfg.Web.CSRFKeyBytes()
	if err != nil {
		logger.Fatalf("Error reading CSRF key: %v", err)
	}
	if csrfKey == nil {
		// Sin clave fija los formularios abiertos se invalidan al reiniciar
		logger.Warn("WEB_CSRF_KEY not set, using a random key for this process")
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			logger.Fatalf("Error generating CSRF key: %v", err)
		}
	}

	handler, err := web.NewHandler(client, csrfKey, cfg.Web.SecureCookies, logger)
	if err != nil {
		logger.Fatalf("Error loading templates: %v", err)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.GetWebAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":         cfg.GetWebAddr(),
			"api_base_url": cfg.Web.APIBaseURL,
		}).Info("Web server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting web server: %v", err)
		}
	}()

	<-quit
	logger.Info("Shutting down web server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Web server forced to shutdown: %v", err)
	}

	logger.Info("Web server exited")
}
