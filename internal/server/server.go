// internal/server/server.go
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"travel-orchestrator/internal/common/config"
	commonerrors "travel-orchestrator/internal/common/errors"
	"travel-orchestrator/internal/common/logger"
	"travel-orchestrator/internal/engine/orchestrator"
)

// Server is the HTTP boundary. One endpoint takes a turn, the rest are
// operational plumbing.
type Server struct {
	engine *gin.Engine
	orch   *orchestrator.Orchestrator
	logger logger.Logger
	http   *http.Server
}

type turnRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Text      string `json:"text" binding:"required"`
}

func New(cfg config.ServerConfig, orch *orchestrator.Orchestrator, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		engine: engine,
		orch:   orch,
		logger: log,
	}

	engine.POST("/api/v1/turn", s.handleTurn)
	engine.GET("/api/v1/sessions/:id/history", s.handleHistory)
	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.http = &http.Server{
		Addr:        cfg.Address,
		Handler:     engine,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	}
	return s
}

func (s *Server) handleTurn(c *gin.Context) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id and text are required"})
		return
	}

	result, err := s.orch.HandleTurn(c.Request.Context(), req.SessionID, req.Text)
	if err != nil {
		if commonerrors.IsCode(err, commonerrors.ErrCodeSessionBusy) {
			c.JSON(http.StatusConflict, gin.H{"error": "another turn is in flight for this session"})
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusRequestTimeout, gin.H{"error": "turn cancelled"})
			return
		}
		s.logger.Error("Turn processing failed", map[string]interface{}{
			"sessionId": req.SessionID,
			"error":     err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleHistory(c *gin.Context) {
	turns, err := s.orch.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"turns": turns})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start begins serving. Blocks until the listener stops.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}
