package rest

import (
	"diagform/internal/transport/rest/handler"
	"diagform/internal/transport/rest/middleware"
	"diagform/internal/transport/ws"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Container holds all dependencies for the router
type Container struct {
	DiagnosticService handler.DiagnosticSubmitter
	RadarService      handler.RadarSubmitter
	WSHub             *ws.Hub
	FeedToken         string
	CORS              middleware.CORSOptions
	MaxBodyBytes      int64
	Logger            *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	diagnosticHandler := handler.NewDiagnosticHandler(c.DiagnosticService, c.Logger)
	radarHandler := handler.NewRadarHandler(c.RadarService, c.Logger)

	// CORS middleware (apply first)
	r.Use(middleware.CORS(c.CORS))

	// Submission routes
	submit := r.NewRoute().Subrouter()
	submit.Use(middleware.Logging(c.Logger), middleware.MaxBody(c.MaxBodyBytes))
	submit.HandleFunc("/submit", diagnosticHandler.Submit).Methods("POST", "OPTIONS")
	submit.HandleFunc("/submit-radar", radarHandler.Submit).Methods("POST", "OPTIONS")

	// Admin live feed
	if c.WSHub != nil {
		wsHandler := ws.NewHandler(c.WSHub, c.FeedToken, c.Logger)
		r.HandleFunc("/v1/ws/feed", wsHandler.FeedWS).Methods("GET")
	}

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
