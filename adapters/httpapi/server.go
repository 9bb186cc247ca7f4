// Package httpapi exposes the advisor over HTTP with gin.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stataid/adapters/excel"
	"stataid/app"
)

// maxUploadSize bounds multipart dataset uploads
const maxUploadSize = 50 << 20

// Server represents the HTTP API server
type Server struct {
	router  *gin.Engine
	service *app.AdvisorService
	reader  *excel.DataReader
	logger  *zap.Logger
}

// NewServer creates the server and registers its routes
func NewServer(service *app.AdvisorService, reader *excel.DataReader, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reader == nil {
		reader = excel.NewDataReader(excel.DefaultReaderConfig(), logger)
	}
	s := &Server{
		router:  gin.New(),
		service: service,
		reader:  reader,
		logger:  logger,
	}
	s.router.MaxMultipartMemory = maxUploadSize
	s.router.Use(gin.Recovery(), requestLogger(logger))
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")
	v1.POST("/validate", s.handleValidate)
	v1.POST("/recommend", s.handleRecommend)
	v1.POST("/resolve", s.handleResolve)
	v1.POST("/analyze", s.handleAnalyze)
	v1.GET("/datasets/:fingerprint/answers", s.handleAnswers)
}

// Handler returns the router for use with net/http servers and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("starting HTTP API", zap.String("addr", addr))
	return s.router.Run(addr)
}

// requestLogger logs one line per request
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
