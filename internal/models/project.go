package models

import (
	"fmt"
	"strings"
)

// ProjectType is the gallery category a repository is listed under
type ProjectType string

const (
	ProjectTypeFullstack ProjectType = "fullstack"
	ProjectTypeAI        ProjectType = "ai"
	ProjectTypePython    ProjectType = "python"
)

// ParseProjectType validates a ?type= filter value
func ParseProjectType(value string) (ProjectType, bool) {
	switch t := ProjectType(strings.ToLower(strings.TrimSpace(value))); t {
	case ProjectTypeFullstack, ProjectTypeAI, ProjectTypePython:
		return t, true
	default:
		return "", false
	}
}

// RepoRef identifies a GitHub repository and its gallery category
type RepoRef struct {
	Owner string
	Name  string
	Type  ProjectType
}

// ParseRepoRef splits "owner/repo"; anything else is rejected
func ParseRepoRef(value string, projectType ProjectType) (RepoRef, error) {
	parts := strings.Split(strings.TrimSpace(value), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, fmt.Errorf("invalid repository identifier %q, expected owner/repo", value)
	}
	return RepoRef{Owner: parts[0], Name: parts[1], Type: projectType}, nil
}

// FullName returns "owner/repo"
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// SocialPreviewURL is the OpenGraph card image GitHub renders for the repository
func (r RepoRef) SocialPreviewURL() string {
	return fmt.Sprintf("https://opengraph.githubassets.com/1/%s/%s", r.Owner, r.Name)
}

// Project is a gallery card built from GitHub repository metadata
type Project struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Description     *string     `json:"description"`
	HTMLURL         string      `json:"html_url"`
	Homepage        *string     `json:"homepage"`
	Language        *string     `json:"language"`
	Topics          []string    `json:"topics"`
	StargazersCount int         `json:"stargazers_count"`
	ForksCount      int         `json:"forks_count"`
	SocialPreview   string      `json:"socialPreview"`
	Type            ProjectType `json:"type"`
	Fallback        bool        `json:"fallback"`
}

// FallbackProject is the deterministic placeholder used when GitHub cannot be reached.
// The id is the sum of the code points of "fallback-{owner}-{repo}".
func FallbackProject(ref RepoRef) *Project {
	var id int64
	for _, r := range "fallback-" + ref.Owner + "-" + ref.Name {
		id += int64(r)
	}

	description := ref.Name + " - GitHub repository"
	return &Project{
		ID:            id,
		Name:          ref.Name,
		Description:   &description,
		HTMLURL:       "https://github.com/" + ref.FullName(),
		Topics:        []string{},
		SocialPreview: ref.SocialPreviewURL(),
		Type:          ref.Type,
		Fallback:      true,
	}
}

// ProjectsResponse is the JSON body returned by GET /api/projects
type ProjectsResponse struct {
	Projects []*Project `json:"projects"`
}
