package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/walletly/backend/docs"
	"github.com/walletly/backend/internal/database"
	mW "github.com/walletly/backend/internal/middleware"
	"github.com/walletly/backend/internal/services"
)

// @title Walletly Backend API
// @version 1.0
// @description REST backend for the Walletly personal finance tracker
// @host localhost:8080
// @BasePath /api
// @schemes http https

func main() {
	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("ratelimit.requests", "RATELIMIT_REQUESTS")
	viper.BindEnv("ratelimit.window", "RATELIMIT_WINDOW")
	viper.BindEnv("ratelimit.key", "RATELIMIT_KEY")
	viper.BindEnv("ratelimit.per_ip", "RATELIMIT_PER_IP")

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	// Amounts serialize as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize services
	db := database.InitDatabase()
	defer db.Close()

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	rateLimiter := mW.NewRateLimiter(redisClient)
	transactionService := services.NewTransactionService(db)
	categoryService := services.NewCategoryService(db)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(rateLimiter.Handler)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Access-Control-Allow-Origin"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/transaction", func(r chi.Router) {
		// Identity gating only when a signing key is configured; the
		// operations themselves take user_id from path or body.
		if viper.GetString("jwt.secret_key") != "" {
			r.Use(mW.Identity)
		}

		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("It's working!!!"))
		})

		r.Post("/category", categoryService.CreateCategory)
		r.Get("/category/{userID}", categoryService.ListCategories)
		r.Put("/category/{id}", categoryService.UpdateCategory)
		r.Delete("/category/{id}", categoryService.DeleteCategory)

		r.Get("/summary/{userID}", transactionService.GetSummary)
		r.Post("/", transactionService.CreateTransaction)
		r.Get("/{userID}", transactionService.ListTransactions)
		r.Delete("/{id}", transactionService.DeleteTransaction)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
