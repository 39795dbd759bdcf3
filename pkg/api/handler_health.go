package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guestwise/guestflow/pkg/database"
	"github.com/guestwise/guestflow/pkg/version"
)

const (
	healthStatusHealthy   = "healthy"
	healthStatusUnhealthy = "unhealthy"
)

// healthHandler handles GET /healthz. Only the server's own
// dependencies are checked; the LLM provider and the enrichment service
// are excluded so an external outage does not mark the process dead.
func (s *Server) healthHandler(c *gin.Context) {
	status := healthStatusHealthy
	checks := make(map[string]HealthCheck)

	if s.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := database.Health(ctx, s.db.DB()); err != nil {
			status = healthStatusUnhealthy
			checks["database"] = HealthCheck{Status: healthStatusUnhealthy, Message: err.Error()}
		} else {
			checks["database"] = HealthCheck{Status: healthStatusHealthy}
		}
	}

	httpStatus := http.StatusOK
	if status == healthStatusUnhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthResponse{
		Status:       status,
		Version:      version.GitCommit,
		LiveSessions: s.engine.Registry().Len(),
		Checks:       checks,
	})
}
