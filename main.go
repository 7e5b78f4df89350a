package main

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/originate-market/api-server-go/shared/utils"
	v1 "github.com/originate-market/api-server-go/v1"
	v1handlers "github.com/originate-market/api-server-go/v1/handlers"
	v1middleware "github.com/originate-market/api-server-go/v1/middleware"
)

func main() {
	// Load .env file if it exists (optional - fails silently if not found)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	slog.SetDefault(logger)

	slog.Info("Starting Originate API Server initialization")

	// Initialize GORM database connection for V1
	dbConfig := v1.NewDatabaseConfig()
	gormDB, err := v1.ConnectGormDB(dbConfig)
	if err != nil {
		slog.Error("Failed to connect to GORM database", "error", err)
		os.Exit(1)
	}

	// Setup routes
	v1Handler := v1handlers.NewV1Handler(gormDB)
	mux := http.NewServeMux()
	v1Handler.SetupV1Routes(mux)
	mux.HandleFunc("/health", utils.HealthHandler("originate-api"))

	// Middleware chain, outermost first: CORS, rate limiting, security
	// headers, request logging, caller identity
	var handler http.Handler = mux
	handler = v1middleware.IdentityContext(handler)
	handler = v1middleware.RequestLogging(handler)
	handler = v1middleware.SecurityHeaders(handler)
	handler = v1middleware.RateLimitMiddleware(rateLimitMax(), 15*time.Minute)(handler)
	handler = v1middleware.CORSMiddleware()(handler)

	server := utils.CreateServer(utils.DefaultServerConfig(), handler)
	if err := utils.StartServerWithGracefulShutdown(server, "originate-api"); err != nil {
		os.Exit(1)
	}

	slog.Info("Originate API Server exited")
}

// rateLimitMax reads the per-window request limit, default 100 requests per
// 15 minutes
func rateLimitMax() int {
	if value := os.Getenv("RATE_LIMIT_MAX"); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return 100
}
