package status

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

type statusResponse struct {
	Status           string `json:"status"`
	MonitoringPath   string `json:"monitoring_path"`
	MonitoringActive bool   `json:"monitoring_active"`
}

func (s *implServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/status", s.handleStatus)
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func (s *implServer) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{
		Status:           "running",
		MonitoringPath:   s.source.Path(),
		MonitoringActive: s.source.Active(),
	})
}

// handleHealth is a liveness probe: healthy as long as the process serves requests
func (s *implServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// requestLogger logs each request and tags it with X-Request-ID
func (s *implServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := uuid.NewString()
		c.Writer.Header().Set("X-Request-ID", reqID)

		c.Next()

		s.logger.Debug(c.Request.Context(), "http_request rid=%s method=%s path=%s status=%d latency_ms=%d",
			reqID, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Milliseconds())
	}
}

func (s *implServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Status server listening on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info(ctx, "Status server stopped")
	return nil
}
