package main

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okarhu/locboard/internal/auth"
	"github.com/okarhu/locboard/internal/config"
	"github.com/okarhu/locboard/internal/db"
	"github.com/okarhu/locboard/internal/handlers"
	"github.com/okarhu/locboard/internal/intake"
	"github.com/okarhu/locboard/internal/middleware"
	"github.com/okarhu/locboard/internal/repo"
	"github.com/okarhu/locboard/internal/scheduler"
	"github.com/okarhu/locboard/internal/weather"
)

func main() {

	// Load configuration
	cfg := config.Load()

	setupLogger(cfg.LogFormat)

	if cfg.Env == "prod" && cfg.JWTSecret == "supersecretkey" {
		log.Fatal("JWT_SECRET must be set when ENV=prod")
	}

	// Connect to database FIRST
	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
		cfg.DBMaxOpenConns,
		cfg.DBMaxIdleConns,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Successfully connected to the database")

	// Apply schema migrations
	if err := db.Migrate(db.URL(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Background stats gauge refresh
	if cfg.StatsCron != "" {
		if _, err := scheduler.Run(repo.NewLocationRepo(database), cfg.StatsCron); err != nil {
			log.Fatalf("Failed to start stats scheduler: %v", err)
		}
	}

	r := newRouter(database, cfg)

	// Start server LAST
	addr := ":" + cfg.Port
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		log.Println("Starting HTTPS server on " + addr)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		log.Println("Starting server on " + addr)
		err = http.ListenAndServe(addr, r)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// newRouter builds the full handler chain. Kept separate from main so the
// integration test can stand up the exact production router against a mock DB.
func newRouter(database *sql.DB, cfg config.Config) http.Handler {
	userRepo := repo.NewUserRepo(database)
	locationRepo := repo.NewLocationRepo(database)
	credentials := auth.NewCredentials(userRepo)

	var lookup intake.WeatherLookup
	if cfg.WeatherURL != "" {
		lookup = weather.NewClient(cfg.WeatherURL,
			time.Duration(cfg.WeatherTimeoutSeconds)*time.Second)
	}
	svc := intake.NewService(locationRepo, credentials, lookup)

	authHandler := &handlers.AuthHandler{
		Credentials: credentials,
		Secret:      []byte(cfg.JWTSecret),
		ExpireHours: cfg.JWTExpireHours,
	}
	messageHandler := &handlers.MessageHandler{Intake: svc}
	topFiveHandler := &handlers.TopFiveHandler{Repo: locationRepo}

	hsts := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders(hsts))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(middleware.Prometheus)

	// Open endpoints
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/topfive", topFiveHandler.Get)

	r.Group(func(r chi.Router) {
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
		r.Use(middleware.RequireJSON)
		r.Post("/registration", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
	})

	// Authenticated message board
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth([]byte(cfg.JWTSecret), credentials))
		r.Get("/info", messageHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
			r.Use(middleware.RequireJSON)
			r.Post("/info", messageHandler.Post)
		})
	})

	return r
}

// setupLogger configures the process-wide slog handler per LOG_FORMAT.
func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
