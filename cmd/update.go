package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/nulzo/llm-translate/internal/httpclient"
)

// ReleasesURL is the GitHub API endpoint queried by `version --check`.
var ReleasesURL = "https://api.github.com/repos/nulzo/llm-translate/releases/latest"

type GitHubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

type UpdateInfo struct {
	Current  string
	Latest   string
	URL      string
	Outdated bool
}

// CheckForUpdates compares current with the latest published release.
func CheckForUpdates(ctx context.Context, client httpclient.HTTPClient, url, current string) (*UpdateInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var release GitHubRelease
	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if err := httpclient.SendRequest(ctx, client, http.MethodGet, url, headers, nil, &release); err != nil {
		return nil, err
	}

	currentV, err := version.NewVersion(current)
	if err != nil {
		return nil, err
	}
	latestV, err := version.NewVersion(release.TagName)
	if err != nil {
		return nil, err
	}

	return &UpdateInfo{
		Current:  current,
		Latest:   release.TagName,
		URL:      release.HTMLURL,
		Outdated: currentV.LessThan(latestV),
	}, nil
}
