package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProjectType(t *testing.T) {
	for _, value := range []string{"fullstack", "AI", " python "} {
		_, ok := ParseProjectType(value)
		assert.True(t, ok, value)
	}

	_, ok := ParseProjectType("rust")
	assert.False(t, ok)
}

func TestParseRepoRef(t *testing.T) {
	ref, err := ParseRepoRef(" tanisheesh/Moodify ", ProjectTypeFullstack)
	require.NoError(t, err)
	assert.Equal(t, RepoRef{Owner: "tanisheesh", Name: "Moodify", Type: ProjectTypeFullstack}, ref)
	assert.Equal(t, "tanisheesh/Moodify", ref.FullName())

	for _, bad := range []string{"", "noslash", "a/b/c", "/repo", "owner/"} {
		_, err := ParseRepoRef(bad, ProjectTypeAI)
		assert.Error(t, err, bad)
	}
}

func TestFallbackProject_IsDeterministic(t *testing.T) {
	ref := RepoRef{Owner: "o", Name: "r", Type: ProjectTypePython}

	p := FallbackProject(ref)

	// sum of the code points of "fallback-o-r"
	assert.Equal(t, int64(1131), p.ID)
	assert.Equal(t, p, FallbackProject(ref))
	assert.Equal(t, "r", p.Name)
	require.NotNil(t, p.Description)
	assert.Equal(t, "r - GitHub repository", *p.Description)
	assert.Equal(t, "https://github.com/o/r", p.HTMLURL)
	assert.Equal(t, "https://opengraph.githubassets.com/1/o/r", p.SocialPreview)
	assert.Nil(t, p.Homepage)
	assert.Nil(t, p.Language)
	assert.Zero(t, p.StargazersCount)
	assert.True(t, p.Fallback)
}

func TestFallbackProject_JSONShape(t *testing.T) {
	data, err := json.Marshal(FallbackProject(RepoRef{Owner: "o", Name: "r", Type: ProjectTypeAI}))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": 1131,
		"name": "r",
		"description": "r - GitHub repository",
		"html_url": "https://github.com/o/r",
		"homepage": null,
		"language": null,
		"topics": [],
		"stargazers_count": 0,
		"forks_count": 0,
		"socialPreview": "https://opengraph.githubassets.com/1/o/r",
		"type": "ai",
		"fallback": true
	}`, string(data))
}
