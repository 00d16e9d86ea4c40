package http

import (
	"github.com/gin-gonic/gin"
)

// Server wraps the gin engine behind the meeting API routes. The engine is
// exported so tests can drive handlers through httptest without binding a
// port.
type Server struct {
	Engine *gin.Engine
}

// NewServer builds the router from cfg and wraps it.
func NewServer(cfg RouterConfig) *Server {
	return &Server{Engine: NewRouter(cfg)}
}

// Run serves the API on address (host:port) and blocks until the listener
// fails.
func (s *Server) Run(address string) error {
	return s.Engine.Run(address)
}
