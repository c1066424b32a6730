package services

import (
	"context"
	"sync"

	"github.com/tanisheesh/portfolio-api/config"
	"github.com/tanisheesh/portfolio-api/internal/cache"
	"github.com/tanisheesh/portfolio-api/internal/models"
	"github.com/tanisheesh/portfolio-api/pkg/logger"
	"go.uber.org/zap"
)

// ProjectFetcher resolves a repository into a gallery card. It never fails;
// unavailable metadata is replaced by a fallback card.
type ProjectFetcher interface {
	GetProject(ctx context.Context, ref models.RepoRef) *models.Project
}

// ProjectService builds the projects gallery feed
type ProjectService struct {
	refs    []models.RepoRef
	fetcher ProjectFetcher
	cache   *cache.ProjectsCache
}

// NewProjectService creates a project service for the configured repositories.
// Identifiers that are not owner/repo are skipped.
func NewProjectService(cfg config.ProjectsConfig, fetcher ProjectFetcher) *ProjectService {
	s := &ProjectService{
		refs:    parseRefs(cfg),
		fetcher: fetcher,
	}
	s.cache = cache.NewProjectsCache(s.fetchAll, cfg.CacheTTL)
	return s
}

func parseRefs(cfg config.ProjectsConfig) []models.RepoRef {
	groups := []struct {
		projectType models.ProjectType
		repos       []string
	}{
		{models.ProjectTypeFullstack, cfg.Fullstack},
		{models.ProjectTypeAI, cfg.AI},
		{models.ProjectTypePython, cfg.Python},
	}

	var refs []models.RepoRef
	for _, g := range groups {
		for _, repo := range g.repos {
			ref, err := models.ParseRepoRef(repo, g.projectType)
			if err != nil {
				logger.Warn("Skipping invalid project repository", zap.String("repo", repo), zap.Error(err))
				continue
			}
			refs = append(refs, ref)
		}
	}
	return refs
}

// Initialize warms the cache before the server accepts traffic
func (s *ProjectService) Initialize(ctx context.Context) {
	s.cache.Initialize(ctx)
}

// IsReady reports whether the cache has been warmed
func (s *ProjectService) IsReady() bool {
	return s.cache.IsReady()
}

// GetProjects returns the gallery in configured order, optionally filtered
// by type. An empty projectType means every type.
func (s *ProjectService) GetProjects(ctx context.Context, projectType models.ProjectType) []*models.Project {
	all := s.cache.Get(ctx)
	if projectType == "" {
		return all
	}

	filtered := make([]*models.Project, 0, len(all))
	for _, p := range all {
		if p.Type == projectType {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// fetchAll resolves every repository concurrently, keeping configured order.
// The load is shared by concurrent callers, so it must not die with one request.
func (s *ProjectService) fetchAll(ctx context.Context) []*models.Project {
	ctx = context.WithoutCancel(ctx)
	projects := make([]*models.Project, len(s.refs))

	var wg sync.WaitGroup
	for i, ref := range s.refs {
		wg.Add(1)
		go func(i int, ref models.RepoRef) {
			defer wg.Done()
			projects[i] = s.fetcher.GetProject(ctx, ref)
		}(i, ref)
	}
	wg.Wait()

	return projects
}
