// Package server exposes report generation over HTTP. A client posts a
// category list and receives the CSV export as an attachment.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"fjacquet/ynab-csv/internal/common"
	"fjacquet/ynab-csv/internal/logging"
	"fjacquet/ynab-csv/internal/parsererror"
	"fjacquet/ynab-csv/internal/report"
	"fjacquet/ynab-csv/internal/source"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps the size of an uploaded category list.
const MaxBodyBytes = 10 << 20

const shutdownTimeout = 10 * time.Second

// Dependencies is what the server needs from the application container.
type Dependencies interface {
	GetReader(f source.Format) (source.Reader, error)
	GetGenerator() *report.ReportGenerator
	GetWriterOptions() common.WriterOptions
	GetLogger() logging.Logger
}

// Options configures the HTTP listener.
type Options struct {
	Address        string
	AllowedOrigins []string
}

// Server serves the report endpoints.
type Server struct {
	deps   Dependencies
	logger logging.Logger
	opts   Options
	engine *gin.Engine
	now    func() time.Time
}

// New builds the gin engine with CORS and the routes registered.
func New(deps Dependencies, opts Options) *Server {
	s := &Server{
		deps:   deps,
		logger: deps.GetLogger(),
		opts:   opts,
		now:    time.Now,
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	r.GET("/health", s.healthCheck)
	r.POST("/api/reports", s.createReport)

	s.engine = r
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", logging.F(logging.FieldAddress, s.opts.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	}
}

// corsConfig allows the configured origins, or every origin without
// credentials when none is configured.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("Request handled",
			logging.F("method", c.Request.Method),
			logging.F("path", c.Request.URL.Path),
			logging.F("status", c.Writer.Status()),
			logging.F("duration_ms", time.Since(start).Milliseconds()))
	}
}

// healthCheck handles the health check endpoint
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ynab-csv",
	})
}

// createReport reads the posted category list and answers with the export.
// The input format comes from ?format= or the Content-Type header; the
// response is CSV unless the client only accepts JSON.
func (s *Server) createReport(c *gin.Context) {
	format, err := requestFormat(c)
	if err != nil {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	}
	reader, err := s.deps.GetReader(format)
	if err != nil {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	records, err := reader.Read(body)
	if err != nil {
		s.logger.WithError(err).Warn("Rejected category list", logging.F(logging.FieldFormat, string(format)))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	generator := s.deps.GetGenerator()
	rep, err := generator.Generate(c.Request.Context(), records)
	if err != nil {
		s.logger.WithError(err).Error("Report generation failed")
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	if wantsJSON(c) {
		data, err := generator.GenerateJSON(rep)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
		return
	}

	var buf bytes.Buffer
	if err := common.WriteReport(&buf, rep.Rows, s.deps.GetWriterOptions()); err != nil {
		s.logger.WithError(err).Error("Failed to write CSV response")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, common.DefaultOutputFilename(s.now())))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func requestFormat(c *gin.Context) (source.Format, error) {
	if f := c.Query("format"); f != "" {
		return source.ParseFormat(f)
	}
	mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil {
		return source.JSON, nil
	}
	switch {
	case mediaType == "text/csv":
		return source.CSV, nil
	case mediaType == "text/html":
		return source.HTML, nil
	case strings.HasSuffix(mediaType, "yaml"):
		return source.YAML, nil
	case strings.HasSuffix(mediaType, "json"):
		return source.JSON, nil
	default:
		return "", fmt.Errorf("unsupported content type: %s", mediaType)
	}
}

func wantsJSON(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/csv")
}

func statusFor(err error) int {
	var (
		formatErr *parsererror.InvalidFormatError
		parseErr  *parsererror.ParseError
		dupErr    *parsererror.DuplicateRecordError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &formatErr), errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.As(err, &dupErr):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
