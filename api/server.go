package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/agent-bench/internal/config"
	"github.com/stellarlinkco/agent-bench/internal/store"
)

// Server exposes stored benchmark runs over HTTP. It is a read surface:
// runs are produced by the CLI and only browsed here.
type Server struct {
	router *gin.Engine
	store  store.RunReader
	config *config.Config
}

func NewServer(cfg *config.Config, st store.RunReader) (*Server, error) {
	r := gin.New()
	s := &Server{
		router: r,
		store:  st,
		config: cfg,
	}
	s.registerMiddleware()
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Run(addr string) error {
	if s == nil || s.router == nil {
		return errors.New("api: nil server")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" && s.config != nil {
		addr = strings.TrimSpace(s.config.Server.Addr)
	}
	if addr == "" {
		addr = ":8080"
	}
	return s.router.Run(addr)
}
