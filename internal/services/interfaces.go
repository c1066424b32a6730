package services

import (
	"context"
	"io"

	"github.com/tanisheesh/portfolio-api/internal/models"
)

// ContactServiceInterface defines the interface for contact service operations
type ContactServiceInterface interface {
	Submit(ctx context.Context, identity string, body io.Reader) *models.SubmissionResult
}

// ProjectServiceInterface defines the interface for the projects feed
type ProjectServiceInterface interface {
	GetProjects(ctx context.Context, projectType models.ProjectType) []*models.Project
}

// Ensure services implement their interfaces
var _ ContactServiceInterface = (*ContactService)(nil)
var _ ProjectServiceInterface = (*ProjectService)(nil)
