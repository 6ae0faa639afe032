package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/slabwatch/slabwatch/internal/auth"
	"github.com/slabwatch/slabwatch/internal/model"

	"github.com/gin-gonic/gin"
)

// Gatherer runs one price gather for a card in a region.
type Gatherer interface {
	Gather(ctx context.Context, cardName, region string) (*model.PriceReport, string, error)
}

// Config holds server wiring that is not part of the store or gatherer.
type Config struct {
	Addr      string
	StaticDir string
	TokenTTL  time.Duration
	JWTSecret string
}

// Server provides the slabwatch HTTP API: account management, card search,
// and saved-search actions.
type Server struct {
	addr      string
	staticDir string
	store     model.Store
	issuer    *auth.TokenIssuer
	gatherer  Gatherer
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(cfg Config, store model.Store, gatherer Gatherer) *Server {
	addr := cfg.Addr
	if addr == "" {
		addr = "0.0.0.0:8080"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		staticDir: cfg.StaticDir,
		store:     store,
		issuer:    auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		gatherer:  gatherer,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// router builds the gin engine with all routes and middleware attached.
func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.POST("/register", rateLimit(5), s.handleRegister)
	r.POST("/token", rateLimit(10), s.handleToken)

	api := r.Group("/api", s.requireAuth)
	api.GET("/saved", s.handleSaved)
	api.POST("/search", rateLimit(10), s.handleSearch)
	api.POST("/refresh", rateLimit(5), s.handleRefresh)
	api.POST("/confirm_image", rateLimit(10), s.handleConfirmImage)

	if s.staticDir != "" {
		r.Static("/static", s.staticDir)
	}

	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.router(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
