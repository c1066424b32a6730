package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanisheesh/portfolio-api/internal/models"
	"github.com/tanisheesh/portfolio-api/pkg/httpclient"
	"github.com/tanisheesh/portfolio-api/pkg/retry"
)

const repoJSON = `{
	"id": 4242,
	"name": "portfolio",
	"description": "My site",
	"html_url": "https://github.com/tanisheesh/portfolio",
	"homepage": null,
	"language": "TypeScript",
	"topics": ["nextjs"],
	"stargazers_count": 7,
	"forks_count": 2
}`

func testRef() models.RepoRef {
	return models.RepoRef{Owner: "tanisheesh", Name: "portfolio", Type: models.ProjectTypeFullstack}
}

func newTestClient(baseURL, token string) *Client {
	cfg := retry.DefaultConfig()
	cfg.MaxRetries = 1
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = time.Millisecond
	cfg.Jitter = false
	return NewClient(httpclient.NewStandardClient(2*time.Second), baseURL, token).WithRetryConfig(cfg)
}

func TestGetProject_Live(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/tanisheesh/portfolio", r.URL.Path)
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(repoJSON))
	}))
	defer server.Close()

	project := newTestClient(server.URL, "").GetProject(context.Background(), testRef())

	require.NotNil(t, project)
	assert.False(t, project.Fallback)
	assert.Equal(t, int64(4242), project.ID)
	assert.Equal(t, "portfolio", project.Name)
	require.NotNil(t, project.Description)
	assert.Equal(t, "My site", *project.Description)
	assert.Nil(t, project.Homepage)
	assert.Equal(t, []string{"nextjs"}, project.Topics)
	assert.Equal(t, 7, project.StargazersCount)
	assert.Equal(t, models.ProjectTypeFullstack, project.Type)
	assert.Equal(t, "https://opengraph.githubassets.com/1/tanisheesh/portfolio", project.SocialPreview)
}

func TestGetProject_RetriesWithTokenAfterRejection(t *testing.T) {
	var anonymous, authenticated int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			atomic.AddInt32(&anonymous, 1)
			w.WriteHeader(http.StatusForbidden)
			return
		}
		atomic.AddInt32(&authenticated, 1)
		assert.Equal(t, "token secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(repoJSON))
	}))
	defer server.Close()

	project := newTestClient(server.URL, "secret").GetProject(context.Background(), testRef())

	assert.False(t, project.Fallback)
	assert.Equal(t, int32(1), atomic.LoadInt32(&anonymous))
	assert.Equal(t, int32(1), atomic.LoadInt32(&authenticated))
}

func TestGetProject_NoTokenMeansNoSecondAttempt(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	project := newTestClient(server.URL, "").GetProject(context.Background(), testRef())

	assert.True(t, project.Fallback)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetProject_FallbackOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ref := testRef()
	project := newTestClient(server.URL, "").GetProject(context.Background(), ref)

	assert.Equal(t, models.FallbackProject(ref), project)
	// one retry for 5xx
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetProject_RetriesDisabled(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := retry.GitHubConfig()
	cfg.MaxRetries = 0
	client := NewClient(httpclient.NewStandardClient(2*time.Second), server.URL, "").WithRetryConfig(cfg)

	project := client.GetProject(context.Background(), testRef())

	assert.True(t, project.Fallback)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetProject_FallbackOnUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	project := newTestClient(url, "").GetProject(context.Background(), testRef())

	assert.True(t, project.Fallback)
	assert.Equal(t, "https://github.com/tanisheesh/portfolio", project.HTMLURL)
}

func TestGetProject_FallbackOnMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer server.Close()

	project := newTestClient(server.URL, "").GetProject(context.Background(), testRef())

	assert.True(t, project.Fallback)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, isClientError(retry.Permanent(&StatusError{Code: http.StatusNotFound})))
	assert.False(t, isClientError(&StatusError{Code: http.StatusInternalServerError}))
	assert.False(t, isClientError(assert.AnError))
}
