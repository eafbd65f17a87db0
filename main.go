package main

import (
	"mime"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/nadepot/nadepot/logger"
	depotdb "github.com/nadepot/nadepot/pkg/db"
	"github.com/nadepot/nadepot/pkg/handler"
	"github.com/nadepot/nadepot/pkg/middle"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "modernc.org/sqlite"
)

var (
	nadepot_data string
)

func main() {

	// Establish logger
	VERSION := "0.1.0"
	LOG_LEVEL := zapcore.InfoLevel

	if err := logger.InitLogger(LOG_LEVEL); err != nil {
		panic(err)
	}

	// Try load env
	dotenvErr := godotenv.Load()

	if dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}

	defer logger.Sync() // Make sure that the buffered is flushed.

	nadepot_data = os.Getenv("NADEPOT_DATA")

	if nadepot_data == "" {
		logger.Warn("No local environment (NADEPOT_DATA), using default value (./data)")
		nadepot_data = "./data"
	}

	addr := os.Getenv("NADEPOT_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}

	// Build the in-memory catalog database
	depot, err := depotdb.NewDepotDB(nadepot_data)
	if err != nil {
		logger.Fatal("Data directory is not usable", zap.String("NADEPOT_DATA", nadepot_data), zap.Error(err))
	}

	if err := depot.LoadAll(); err != nil {
		logger.Fatal("Failed to load catalog or annotations", zap.Error(err))
	}

	dctx := &handler.DepotContext{
		DB:    depot.DB,
		Depot: depot,
	}

	logger.Info("Start:", zap.String("Version", VERSION))
	logger.Info("Catalog loaded from", zap.String("DATA_DIR", nadepot_data))

	mux := NewRouter(dctx)

	// Apply middleware
	mlog := middle.CreateMiddlewareLogger(zapcore.DebugLevel)
	withLogging := middle.LoggingMiddleware(mlog)
	withRequestID := middle.RequestIDMiddleware(mlog)
	newmux := withLogging(withRequestID(mux))

	logger.Info("Server starting", zap.String("addr", addr))
	httpErr := http.ListenAndServe(addr, newmux)
	if httpErr != nil {
		logger.Error("Error starting server:", zap.String("error message", httpErr.Error()))
	}
}

// Move to router.go in the next iteration
func NewRouter(dctx *handler.DepotContext) *http.ServeMux {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// Main routes
	mux.HandleFunc("GET /", dctx.BrowsePage)
	mux.HandleFunc("GET /catalog", dctx.CatalogPage)
	mux.HandleFunc("GET /chart", dctx.BiotypeChart)
	mux.HandleFunc("POST /export", dctx.ExportDatasets)

	// API routes
	mux.HandleFunc("GET /api/v1/health", handler.HealthCheck)
	mux.HandleFunc("GET /api/v1/options", dctx.SelectionOptionsAPI)
	mux.HandleFunc("GET /api/v1/result", dctx.ResultAPI)

	// Static files
	setupStaticFiles(mux)

	return mux
}

// Manually add static for all route that use this
func setupStaticFiles(mux *http.ServeMux) {
	_ = mime.AddExtensionType(".js", "text/javascript")
	_ = mime.AddExtensionType(".css", "text/css")
	fs := http.FileServer(http.Dir("./static/"))
	mux.Handle("GET /static/", http.StripPrefix("/static/", fs))
}
