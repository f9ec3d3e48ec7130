//	@title			Brightfolio Media API
//	@version		1.0
//	@description	Media-asset backend for the Brightfolio marketing site — gallery lifecycle, presigned uploads, and curated slots.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/brightfolio/media-service/internal/config"
	"github.com/brightfolio/media-service/internal/db"
	"github.com/brightfolio/media-service/internal/gallery"
	"github.com/brightfolio/media-service/internal/kv"
	appMiddleware "github.com/brightfolio/media-service/internal/middleware"
	"github.com/brightfolio/media-service/internal/slots"
	"github.com/brightfolio/media-service/internal/storage"
	"github.com/brightfolio/media-service/internal/uploads"

	_ "github.com/brightfolio/media-service/docs/swagger"
)

func main() {
	cfg := config.Load()

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	kvStore, err := kv.NewRedisStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("configuration store init failed: %v", err)
	}
	defer kvStore.Close()

	store, err := storage.NewMinioStorage(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.AssetBaseURL,
		cfg.StorageUseSSL,
	)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	// Wire dependencies: repository → service → handler
	galleryRepo := gallery.NewRepository(pool)
	gallerySvc := gallery.NewService(galleryRepo, store)
	galleryHandler := gallery.NewHandler(gallerySvc)

	uploadSvc := uploads.NewService(store, gallerySvc, time.Duration(cfg.PresignExpirySeconds)*time.Second)
	uploadHandler := uploads.NewHandler(uploadSvc)

	slotStore := slots.NewStore(kvStore)
	slotSvc := slots.NewService(slotStore, store)
	slotHandler := slots.NewHandler(slotSvc)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API v1 — every route is admin-dashboard facing and sits behind the JWT gate.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(appMiddleware.RequireAuth(cfg.JWTSecret))

		r.Route("/uploads", func(r chi.Router) {
			r.Post("/presign", uploadHandler.Presign)
		})

		r.Route("/gallery", func(r chi.Router) {
			r.Get("/name-check", galleryHandler.CheckName)
			r.Route("/photos", func(r chi.Router) {
				r.Get("/", galleryHandler.List)
				r.Post("/", galleryHandler.Confirm)
				r.Post("/bulk-delete", galleryHandler.BulkDelete)
				r.Patch("/{id}", galleryHandler.Rename)
				r.Delete("/{id}", galleryHandler.Delete)
			})
		})

		r.Route("/slots", func(r chi.Router) {
			r.Get("/{slot}", slotHandler.Get)
			r.Put("/{slot}", slotHandler.Save)
			r.Delete("/{slot}/entries", slotHandler.DeleteEntry)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		log.Printf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
