package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/funnyzak/rinktap/internal/config"
	"github.com/funnyzak/rinktap/internal/logger"
)

// Server hosts the inspector service.
type Server struct {
	config  *config.Config
	logger  logger.Logger
	service *Service
	httpSrv *http.Server
}

// NewServer creates a new server instance.
func NewServer(cfg *config.Config, log logger.Logger, service *Service) *Server {
	return &Server{
		config:  cfg,
		logger:  log,
		service: service,
	}
}

// Start runs the server until an interrupt signal arrives.
func (s *Server) Start() error {
	router := mux.NewRouter()
	s.service.RegisterRoutes(router)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Serve.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting inspector server", "addr", s.httpSrv.Addr)

	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("Server failed to start", "error", err)
		}
	}()

	s.waitForShutdown()
	return nil
}

func (s *Server) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
	}

	s.service.Close()
	s.logger.Info("Server exited")
}

// Stop stops the server.
func (s *Server) Stop() error {
	if s.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := s.httpSrv.Shutdown(ctx)
		s.service.Close()
		return err
	}
	return nil
}
