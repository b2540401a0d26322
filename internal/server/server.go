package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/xaenox/eldric/internal/dialogue"
	"go.uber.org/zap"
)

// Responder produces the reply to a chat message.
type Responder interface {
	HandleMessage(ctx context.Context, req dialogue.Request) (dialogue.Reply, error)
}

type Authenticator interface {
	Register(ctx context.Context, userID, password string) error
	Login(ctx context.Context, userID, password string) error
}

type Config struct {
	Addr           string
	AllowedOrigins []string
}

type Server struct {
	cfg       Config
	router    *mux.Router
	responder Responder
	auth      Authenticator
	logger    *zap.Logger
}

func New(cfg Config, responder Responder, auth Authenticator, logger *zap.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		router:    mux.NewRouter(),
		responder: responder,
		auth:      auth,
		logger:    logger,
	}

	s.router.Use(s.requestLogger)
	s.router.Use(s.cors)

	s.router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	s.router.HandleFunc("/", s.handleRoot).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/register", s.handleRegister).Methods("POST")
	s.router.HandleFunc("/login", s.handleLogin).Methods("POST")
	s.router.HandleFunc("/message", s.handleMessage).Methods("POST")

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.logger.Info("Server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
