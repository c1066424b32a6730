package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tanisheesh/portfolio-api/internal/models"
	"github.com/tanisheesh/portfolio-api/internal/services"
)

type ProjectsHandler struct {
	service services.ProjectServiceInterface
}

func NewProjectsHandler(service services.ProjectServiceInterface) *ProjectsHandler {
	return &ProjectsHandler{service: service}
}

// GetProjects handles GET /api/projects?type=
func (h *ProjectsHandler) GetProjects(c *gin.Context) {
	var projectType models.ProjectType
	if raw := c.Query("type"); raw != "" {
		parsed, ok := models.ParseProjectType(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "Unknown project type", fmt.Errorf("unknown project type %q", raw))
			return
		}
		projectType = parsed
	}

	projects := h.service.GetProjects(c.Request.Context(), projectType)
	if projects == nil {
		projects = []*models.Project{}
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, models.ProjectsResponse{Projects: projects})
}
