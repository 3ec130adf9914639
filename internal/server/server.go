package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/user/video-manager-go/internal/catalog"
	"github.com/user/video-manager-go/internal/model"
	"github.com/user/video-manager-go/internal/store"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// AffectedResponse reports how many videos a write touched
type AffectedResponse struct {
	Affected int64 `json:"affected"`
}

// PlayResponse carries the URL handed to the player
type PlayResponse struct {
	URL string `json:"url"`
}

// Server exposes the catalog over a local JSON API
type Server struct {
	catalog   *catalog.Service
	router    *gin.Engine
	server    *http.Server
	startTime time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(svc *catalog.Service) *Server {
	s := &Server{
		catalog:   svc,
		router:    gin.New(),
		startTime: time.Now(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(RequestIDMiddleware(), LoggingMiddleware(), RecoveryMiddleware())

	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	videos := s.router.Group("/videos")
	videos.GET("", s.handleSearch)
	videos.POST("", s.handleAdd)
	videos.GET("/:id", s.handleGet)
	videos.PUT("/:id", s.handleUpdate)
	videos.DELETE("/:id", s.handleDelete)
	videos.POST("/:id/play", s.handlePlay)
}

// Handler returns the router, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening on addr
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Info().Msg("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth returns status, database connectivity and uptime
func (s *Server) handleHealth(c *gin.Context) {
	dbStatus := "healthy"
	if err := s.catalog.Ping(c.Request.Context()); err != nil {
		dbStatus = fmt.Sprintf("unhealthy: %v", err)
	}

	status := "healthy"
	code := http.StatusOK
	if dbStatus != "healthy" {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:   status,
		Database: dbStatus,
		Uptime:   time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleSearch(c *gin.Context) {
	videos, err := s.catalog.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.fail(c, "search", err)
		return
	}
	if videos == nil {
		videos = []*model.Video{}
	}
	c.JSON(http.StatusOK, videos)
}

func (s *Server) handleGet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	video, err := s.catalog.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (s *Server) handleAdd(c *gin.Context) {
	var in model.VideoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}
	video, err := s.catalog.Add(c.Request.Context(), in)
	if err != nil {
		s.fail(c, "add", err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

func (s *Server) handleUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in model.VideoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}
	affected, err := s.catalog.Update(c.Request.Context(), id, in)
	if err != nil {
		s.fail(c, "update", err)
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No such video"})
		return
	}
	c.JSON(http.StatusOK, AffectedResponse{Affected: affected})
}

func (s *Server) handleDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	affected, err := s.catalog.Delete(c.Request.Context(), id)
	if err != nil {
		s.fail(c, "delete", err)
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No such video"})
		return
	}
	c.JSON(http.StatusOK, AffectedResponse{Affected: affected})
}

func (s *Server) handlePlay(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	url, err := s.catalog.Play(c.Request.Context(), id)
	if err != nil {
		s.fail(c, "play", err)
		return
	}
	c.JSON(http.StatusOK, PlayResponse{URL: url})
}

// fail maps a catalog error to a status code and notice
func (s *Server) fail(c *gin.Context, op string, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, store.ErrQuery):
		code = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
	}

	log.Warn().Err(err).Str("op", op).Int("status", code).Msg("Request failed")
	c.JSON(code, ErrorResponse{Error: catalog.Notice(op, err)})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid video id"})
		return 0, false
	}
	return uint(id), true
}
