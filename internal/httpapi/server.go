// Package httpapi is the HTTP façade: it turns the REST route table into
// gorilla/mux routes over internal/app.Application, translating apperr
// errors into the original's exact `{"code","message"}` JSON contract.
// Routes are decode-then-delegate handlers over a mux.Router, grounded on
// the original's api_request_handler.cpp/response_utils.h for the
// wire-level contract (status codes, error codes and messages,
// Cache-Control: no-cache).
package httpapi

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Proger1298/gaming-server/internal/app"
	"github.com/Proger1298/gaming-server/internal/metrics"
	"github.com/Proger1298/gaming-server/internal/spectate"
)

// Server assembles the full HTTP surface: the REST API, the static file
// server, the metrics endpoint, and the spectator WebSocket feed.
type Server struct {
	app                 *app.Application
	logger              *zap.Logger
	hub                 *spectate.Hub
	wwwRoot             string
	manualTicksDisabled bool
	onTick              func()
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithSpectateHub wires a spectator broadcast hub into /spectate/ws.
func WithSpectateHub(hub *spectate.Hub) Option {
	return func(s *Server) { s.hub = hub }
}

// WithManualTicksDisabled rejects POST /api/v1/game/tick, used when a
// --tick-period flag drives the tick loop internally instead.
func WithManualTicksDisabled(disabled bool) Option {
	return func(s *Server) { s.manualTicksDisabled = disabled }
}

// WithOnTick registers a callback fired after every manually-triggered
// tick (e.g. to broadcast a spectator digest), mirroring what the periodic
// ticker in the CLI entrypoint does after its own ticks.
func WithOnTick(fn func()) Option {
	return func(s *Server) { s.onTick = fn }
}

// NewServer constructs the façade. wwwRoot is served as static files at "/";
// it may be empty to disable static serving entirely.
func NewServer(application *app.Application, logger *zap.Logger, wwwRoot string, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{app: application, logger: logger, wwwRoot: wwwRoot, onTick: func() {}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the full mux.Router, CORS-wrapped, ready to pass to
// http.Server.Handler.
func (s *Server) Router() http.Handler {
	root := mux.NewRouter()

	// apiAll catches every unmatched path under /api/ (including outside
	// /api/v1, e.g. an unsupported version prefix) and reports 400
	// badRequest; the /api/v1 subrouter's own NotFoundHandler only ever
	// sees unmatched paths already inside /api/v1, so both are needed.
	apiAll := root.PathPrefix("/api").Subrouter()
	apiAll.NotFoundHandler = http.HandlerFunc(wrap(s.logger, "/api/unmatched", s.handleAPIFallthrough))

	api := apiAll.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/maps", wrap(s.logger, "/api/v1/maps", s.handleMapsList))
	api.HandleFunc("/maps/{id}", wrap(s.logger, "/api/v1/maps/{id}", s.handleMapDetail))
	api.HandleFunc("/game/records", wrap(s.logger, "/api/v1/game/records", s.handleRecords))
	api.HandleFunc("/game/join", wrap(s.logger, "/api/v1/game/join", s.handleJoin))
	api.HandleFunc("/game/players", wrap(s.logger, "/api/v1/game/players", s.handlePlayers))
	api.HandleFunc("/game/state", wrap(s.logger, "/api/v1/game/state", s.handleState))
	api.HandleFunc("/game/player/action", wrap(s.logger, "/api/v1/game/player/action", s.handleAction))
	api.HandleFunc("/game/tick", wrap(s.logger, "/api/v1/game/tick", s.handleTick))
	api.HandleFunc("/healthz", wrap(s.logger, "/api/v1/healthz", s.handleHealthz))
	api.NotFoundHandler = http.HandlerFunc(wrap(s.logger, "/api/v1/unmatched", s.handleAPIFallthrough))

	root.HandleFunc("/metrics", metrics.Handler().ServeHTTP)
	root.HandleFunc("/spectate/ws", wrap(s.logger, "/spectate/ws", s.handleSpectate))

	if s.wwwRoot != "" {
		root.PathPrefix("/").Handler(http.FileServer(http.Dir(s.wwwRoot)))
	}

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return corsMiddleware.Handler(root)
}
