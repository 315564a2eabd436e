package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler checks the health status of the service
// @Summary      Health check
// @Description  Check the health status of the service and its record store
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string  "Service health status"
// @Router       /health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	status := gin.H{
		"status":   "healthy",
		"database": "not_configured",
		"time":     time.Now().UTC().Format(time.RFC3339),
	}

	if h.tickets != nil {
		if err := h.tickets.Ping(c.Request.Context()); err != nil {
			status["database"] = "unreachable"
		} else {
			status["database"] = "connected"
		}
	}

	c.JSON(http.StatusOK, status)
}
