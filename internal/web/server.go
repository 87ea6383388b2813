package web

import (
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rangelab/rangecast/internal/analyzer"
	"github.com/rangelab/rangecast/internal/config"
	"github.com/rangelab/rangecast/internal/engine"
	"github.com/rangelab/rangecast/internal/logger"
	"github.com/rangelab/rangecast/internal/state"
	"github.com/rangelab/rangecast/internal/types"
)

var webLogger = logger.GetForComponent("web_server")

// PoolSource supplies validated pool snapshots. The engine never fetches;
// both fetches complete before a projection runs.
type PoolSource interface {
	GetPoolSnapshots() ([]types.PoolSnapshot, error)
	GetPoolSnapshot(id types.PoolID) (types.PoolSnapshot, error)
}

// PriceSource supplies reward-token spot prices and price history for the
// volatility-based IL outlook.
type PriceSource interface {
	GetSpotPrice(symbol string) (float64, error)
	GetHourlyPrices(symbol string, hours int) ([]types.PricePoint, error)
}

// WebServer handles HTTP requests for scenario projections
type WebServer struct {
	router *mux.Router
	port   string
	pools  PoolSource
	prices PriceSource
	// persistSnapshots is disabled when the server runs without a database
	persistSnapshots bool
}

// NewWebServer creates a new web server instance
func NewWebServer(port string, pools PoolSource, prices PriceSource, persistSnapshots bool) *WebServer {
	if port == "" {
		port = "8080"
	}

	server := &WebServer{
		router:           mux.NewRouter(),
		port:             port,
		pools:            pools,
		prices:           prices,
		persistSnapshots: persistSnapshots,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")

	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")
	api.HandleFunc("/pools", ws.handleGetPools).Methods("GET")
	api.HandleFunc("/projections", ws.handleComputeProjection).Methods("POST")
	api.HandleFunc("/portfolio", ws.handleComputePortfolio).Methods("POST")
	api.HandleFunc("/snapshots", ws.handleGetSnapshots).Methods("GET")

	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Start starts the web server
func (ws *WebServer) Start() error {
	webLogger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// handleHealth returns server health status
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := map[string]interface{}{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"system": map[string]interface{}{
			"version":          runtime.Version(),
			"goroutines_count": runtime.NumGoroutine(),
			"alloc_bytes":      memStats.Alloc,
			"gc_cycles":        memStats.NumGC,
		},
		"component": map[string]interface{}{
			"name":    "rangecast-projection-api",
			"version": "1.0.0",
		},
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetPools returns the current pool snapshots
func (ws *WebServer) handleGetPools(w http.ResponseWriter, r *http.Request) {
	pools, err := ws.pools.GetPoolSnapshots()
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to fetch pool snapshots")
		ws.writeErrorResponse(w, http.StatusBadGateway, "Failed to retrieve pools")
		return
	}

	response := map[string]interface{}{
		"pools": pools,
		"count": len(pools),
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// projectionResponse pairs a projection with the volatility-implied IL
// outlook for the same timeline.
type projectionResponse struct {
	Projection types.Projection  `json:"projection"`
	ILOutlook  *engine.ILOutlook `json:"il_outlook,omitempty"`
}

// handleComputeProjection computes one scenario projection
func (ws *WebServer) handleComputeProjection(w http.ResponseWriter, r *http.Request) {
	var scenario types.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid scenario payload")
		return
	}

	response, ok := ws.project(w, scenario)
	if !ok {
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// portfolioRequest carries up to MaxScenarios comparison slots.
type portfolioRequest struct {
	Scenarios []types.Scenario `json:"scenarios"`
}

type portfolioResponse struct {
	Projections []types.Projection     `json:"projections"`
	Summary     types.PortfolioSummary `json:"summary"`
}

// handleComputePortfolio computes and aggregates a set of scenarios
func (ws *WebServer) handleComputePortfolio(w http.ResponseWriter, r *http.Request) {
	var req portfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid portfolio payload")
		return
	}
	if len(req.Scenarios) == 0 || len(req.Scenarios) > engine.MaxScenarios {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Portfolio requires between 1 and 3 scenarios")
		return
	}

	projections := make([]types.Projection, 0, len(req.Scenarios))
	deposits := make([]float64, 0, len(req.Scenarios))
	for _, scenario := range req.Scenarios {
		// An empty comparison slot contributes zeros but still counts.
		if scenario.PoolID == "" {
			projections = append(projections, types.Projection{Slot: scenario.Slot})
			deposits = append(deposits, scenario.DepositUSD)
			continue
		}
		response, ok := ws.project(w, scenario)
		if !ok {
			return
		}
		projections = append(projections, response.Projection)
		deposits = append(deposits, scenario.DepositUSD)
	}

	summary := engine.Aggregate(projections, deposits)
	ws.writeJSONResponse(w, http.StatusOK, portfolioResponse{Projections: projections, Summary: summary})
}

// handleGetSnapshots returns recently stored projections
func (ws *WebServer) handleGetSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := config.SnapshotRetention
	if limit <= 0 {
		limit = 50
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 500 {
			limit = parsedLimit
		}
	}

	snapshots, err := state.LoadRecentProjectionSnapshots(limit)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to load projection snapshots")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve snapshots")
		return
	}

	response := map[string]interface{}{
		"snapshots": snapshots,
		"count":     len(snapshots),
		"limit":     limit,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// project resolves the scenario's pool and reward price, runs the engine, and
// persists the result. It writes the HTTP error itself and returns ok=false
// when the caller should stop.
func (ws *WebServer) project(w http.ResponseWriter, scenario types.Scenario) (projectionResponse, bool) {
	pool, err := ws.pools.GetPoolSnapshot(scenario.PoolID)
	if err != nil {
		webLogger.Error().Err(err).Str("poolID", string(scenario.PoolID)).Msg("Failed to resolve pool for scenario")
		ws.writeErrorResponse(w, http.StatusBadGateway, "Failed to resolve pool "+string(scenario.PoolID))
		return projectionResponse{}, false
	}

	// Staleness and fetch failures are handled here, before the engine runs:
	// a missing reward price degrades to zero-valued emissions rather than
	// blocking the projection.
	var rewardPrice float64
	if pool.RewardTokenSymbol != "" {
		rewardPrice, err = ws.prices.GetSpotPrice(pool.RewardTokenSymbol)
		if err != nil {
			webLogger.Warn().
				Err(err).
				Str("symbol", pool.RewardTokenSymbol).
				Msg("Reward token price unavailable, emissions will value at zero")
			rewardPrice = 0
		}
	}

	projection, err := engine.BuildProjection(scenario, pool, rewardPrice)
	if err != nil {
		webLogger.Error().Err(err).Int("slot", scenario.Slot).Msg("Projection failed")
		ws.writeErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return projectionResponse{}, false
	}

	response := projectionResponse{Projection: projection}

	if history, err := ws.prices.GetHourlyPrices(pool.TokenA.Symbol, 0); err == nil {
		if vol, err := analyzer.CalculateVolatility(history, analyzer.HoursPerYear); err == nil {
			outlook := engine.EstimateILFromVolatility(vol, scenario.TimelineDays)
			response.ILOutlook = &outlook
		}
	}

	if ws.persistSnapshots {
		if _, err := state.SaveProjectionSnapshot(scenario, projection); err != nil {
			webLogger.Error().Err(err).Msg("Failed to persist projection snapshot")
		}
	}

	return response, true
}

// writeJSONResponse writes a JSON response
func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// corsMiddleware adds CORS headers
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		webLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
