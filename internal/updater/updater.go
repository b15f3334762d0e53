// Package updater checks GitHub Releases for a newer drb.
package updater

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// ReleasesURL is the latest-release endpoint for drb.
	ReleasesURL = "https://api.github.com/repos/dont-rust-bro/drb/releases/latest"

	checkTimeout = 10 * time.Second
)

// ReleaseInfo contains information about a GitHub release.
type ReleaseInfo struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// UpdateResult contains the result of an update check.
type UpdateResult struct {
	Available      bool
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
}

// Checker queries a releases endpoint.
type Checker struct {
	http *resty.Client
	url  string
}

// NewChecker creates a checker for url (ReleasesURL when empty).
func NewChecker(url, userAgent string) *Checker {
	if url == "" {
		url = ReleasesURL
	}
	return &Checker{
		http: resty.New().
			SetTimeout(checkTimeout).
			SetHeader("Accept", "application/vnd.github.v3+json").
			SetHeader("User-Agent", userAgent),
		url: url,
	}
}

// Check compares current against the latest release. A current version that
// is not semver (e.g. "dev") is always considered older.
func (c *Checker) Check(ctx context.Context, current string) (*UpdateResult, error) {
	var release ReleaseInfo
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&release).
		Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("fetch releases: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		// No releases yet
		return &UpdateResult{CurrentVersion: current}, nil
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %d", resp.StatusCode())
	}

	latestVersion := strings.TrimPrefix(release.TagName, "v")
	result := &UpdateResult{
		CurrentVersion: current,
		LatestVersion:  latestVersion,
		ReleaseURL:     release.HTMLURL,
	}

	latest, err := ParseSemver(latestVersion)
	if err != nil {
		return nil, fmt.Errorf("parse latest version %q: %w", latestVersion, err)
	}
	cur, err := ParseSemver(current)
	if err != nil {
		result.Available = true
		return result, nil
	}
	result.Available = cur.LessThan(latest)
	return result, nil
}
