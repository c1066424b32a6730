package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/tanisheesh/portfolio-api/internal/models"
	"github.com/tanisheesh/portfolio-api/pkg/logger"
	"github.com/tanisheesh/portfolio-api/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	projectsCacheKey  = "projects"
	projectsCacheName = "projects"

	// Lists containing a fallback card are kept briefly so GitHub is retried soon
	fallbackTTL = time.Minute
)

// ProjectsLoader fetches the full, ordered project list
type ProjectsLoader func(ctx context.Context) []*models.Project

// ProjectsCache keeps the most recent project list in memory
type ProjectsCache struct {
	cache  *gocache.Cache
	loader ProjectsLoader
	ttl    time.Duration
	group  singleflight.Group
	mu     sync.RWMutex
	ready  bool
}

// NewProjectsCache creates a new projects cache
func NewProjectsCache(loader ProjectsLoader, ttl time.Duration) *ProjectsCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ProjectsCache{
		cache:  gocache.New(ttl, 2*ttl),
		loader: loader,
		ttl:    ttl,
	}
}

// Initialize warms the cache. Failures only produce fallback cards, so it never errors.
func (pc *ProjectsCache) Initialize(ctx context.Context) {
	logger.Info("Initializing projects cache...")
	projects := pc.refresh(ctx)

	pc.mu.Lock()
	pc.ready = true
	pc.mu.Unlock()

	logger.Info("Projects cache initialized", zap.Int("count", len(projects)))
}

// IsReady returns true once the cache has been warmed
func (pc *ProjectsCache) IsReady() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.ready
}

// Get returns the cached list, loading it on a miss
func (pc *ProjectsCache) Get(ctx context.Context) []*models.Project {
	if data, found := pc.cache.Get(projectsCacheKey); found {
		if projects, ok := data.([]*models.Project); ok {
			metrics.CacheHits.WithLabelValues(projectsCacheName).Inc()
			return projects
		}
		logger.Error("Invalid projects cache data type")
		pc.cache.Delete(projectsCacheKey)
	}

	metrics.CacheMisses.WithLabelValues(projectsCacheName).Inc()
	logger.Debug("Projects cache miss, fetching from GitHub")
	return pc.refresh(ctx)
}

// refresh loads the list once even when many requests miss together
func (pc *ProjectsCache) refresh(ctx context.Context) []*models.Project {
	v, _, _ := pc.group.Do(projectsCacheKey, func() (interface{}, error) {
		projects := pc.loader(ctx)

		ttl := pc.ttl
		for _, p := range projects {
			if p.Fallback && fallbackTTL < ttl {
				ttl = fallbackTTL
				break
			}
		}
		pc.cache.Set(projectsCacheKey, projects, ttl)

		logger.Info("Projects cache refreshed",
			zap.Int("count", len(projects)),
			zap.Duration("ttl", ttl))
		return projects, nil
	})

	projects, _ := v.([]*models.Project) //nolint:errcheck
	return projects
}
