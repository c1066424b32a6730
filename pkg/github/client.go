package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"github.com/tanisheesh/portfolio-api/internal/models"
	"github.com/tanisheesh/portfolio-api/pkg/circuitbreaker"
	"github.com/tanisheesh/portfolio-api/pkg/httpclient"
	"github.com/tanisheesh/portfolio-api/pkg/logger"
	"github.com/tanisheesh/portfolio-api/pkg/metrics"
	"github.com/tanisheesh/portfolio-api/pkg/retry"
	"go.uber.org/zap"
)

// StatusError is a non-2xx answer from the GitHub API
type StatusError struct {
	Repo string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github: %s returned %d %s", e.Repo, e.Code, http.StatusText(e.Code))
}

// repoResponse is the subset of GET /repos/{owner}/{repo} used for gallery cards
type repoResponse struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Description     *string  `json:"description"`
	HTMLURL         string   `json:"html_url"`
	Homepage        *string  `json:"homepage"`
	Language        *string  `json:"language"`
	Topics          []string `json:"topics"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
}

// Client fetches repository metadata from the GitHub REST API
type Client struct {
	httpClient httpclient.Client
	baseURL    string
	token      string
	breaker    *gobreaker.CircuitBreaker
	retryCfg   retry.Config
}

// NewClient creates a GitHub client. token may be empty.
func NewClient(httpClient httpclient.Client, baseURL, token string) *Client {
	cbConfig := circuitbreaker.DefaultConfig("github")
	// 4xx answers mean the API is healthy
	cbConfig.IsSuccessful = func(err error) bool {
		return err == nil || isClientError(err)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
		breaker:    circuitbreaker.NewCircuitBreaker(cbConfig),
		retryCfg:   retry.GitHubConfig(),
	}
}

// WithRetryConfig overrides the retry policy
func (c *Client) WithRetryConfig(cfg retry.Config) *Client {
	c.retryCfg = cfg
	return c
}

// GetProject returns live metadata for ref, or the deterministic fallback
// when GitHub cannot provide it. It never fails.
func (c *Client) GetProject(ctx context.Context, ref models.RepoRef) *models.Project {
	project, err := circuitbreaker.Execute(c.breaker, func() (*models.Project, error) {
		return retry.DoWithResult(ctx, c.retryCfg, "github.get_repo", func() (*models.Project, error) {
			return c.fetchRepo(ctx, ref)
		})
	})
	if err == nil {
		return project
	}

	reason := "error"
	var statusErr *StatusError
	switch {
	case circuitbreaker.IsRejected(err):
		reason = "breaker_open"
	case errors.As(err, &statusErr):
		reason = "status_" + strconv.Itoa(statusErr.Code)
	}
	metrics.ProjectFallbacks.WithLabelValues(reason).Inc()
	logger.Warn("Using fallback project metadata",
		zap.String("repo", ref.FullName()),
		zap.String("reason", reason),
		zap.Error(err))

	return models.FallbackProject(ref)
}

// fetchRepo tries anonymously first and repeats with the token only when
// the anonymous call was not successful.
func (c *Client) fetchRepo(ctx context.Context, ref models.RepoRef) (*models.Project, error) {
	resp, err := c.get(ctx, ref, false)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) && c.token != "" {
		drain(resp)
		resp, err = c.get(ctx, ref, true)
		if err != nil {
			return nil, err
		}
	}
	defer drain(resp)

	if !isSuccess(resp.StatusCode) {
		statusErr := &StatusError{Repo: ref.FullName(), Code: resp.StatusCode}
		if resp.StatusCode < http.StatusInternalServerError {
			return nil, retry.Permanent(statusErr)
		}
		return nil, statusErr
	}

	var repo repoResponse
	if err := json.NewDecoder(resp.Body).Decode(&repo); err != nil {
		return nil, retry.Permanent(fmt.Errorf("decode github response for %s: %w", ref.FullName(), err))
	}

	topics := repo.Topics
	if topics == nil {
		topics = []string{}
	}
	name := repo.Name
	if name == "" {
		name = ref.Name
	}

	return &models.Project{
		ID:              repo.ID,
		Name:            name,
		Description:     repo.Description,
		HTMLURL:         repo.HTMLURL,
		Homepage:        repo.Homepage,
		Language:        repo.Language,
		Topics:          topics,
		StargazersCount: repo.StargazersCount,
		ForksCount:      repo.ForksCount,
		SocialPreview:   ref.SocialPreviewURL(),
		Type:            ref.Type,
	}, nil
}

func (c *Client) get(ctx context.Context, ref models.RepoRef, authenticated bool) (*http.Response, error) {
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, ref.Owner, ref.Name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("build github request: %w", err))
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if authenticated {
		req.Header.Set("Authorization", "token "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		metrics.GitHubRequestDuration.WithLabelValues("error").Observe(duration)
		logger.LogAPICall("github", "get_repo", "error", duration,
			zap.String("repo", ref.FullName()), zap.Error(err))
		return nil, fmt.Errorf("github request for %s: %w", ref.FullName(), err)
	}

	metrics.GitHubRequestDuration.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(duration)
	logger.Debug("GitHub API call",
		zap.String("repo", ref.FullName()),
		zap.Int("status", resp.StatusCode),
		zap.Bool("authenticated", authenticated),
		zap.Float64("duration", duration))

	return resp, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func isClientError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code < http.StatusInternalServerError
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024)) //nolint:errcheck
	_ = resp.Body.Close()                                          //nolint:errcheck
}
