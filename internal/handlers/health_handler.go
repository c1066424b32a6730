package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	projectsReady func() bool
}

// NewHealthHandler creates a health handler. projectsReady may be nil.
func NewHealthHandler(projectsReady func() bool) *HealthHandler {
	return &HealthHandler{
		projectsReady: projectsReady,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	if h.projectsReady != nil && !h.projectsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "projects cache not initialized",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
