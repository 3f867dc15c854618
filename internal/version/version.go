// Package version provides version information and release checking.
package version

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// Version is the current version of adb-mcp
	Version = "0.3.0"

	// GitHubRepo is the repository path
	GitHubRepo = "ctagard/adb-mcp"

	// GitHubAPIURL is the release endpoint, formatted with the repository path
	GitHubAPIURL = "https://api.github.com/repos/%s/releases/latest"

	releaseNotesLimit = 500
	maxReleaseBody    = 1 << 20
)

// UpdateInfo describes the result of a release check
type UpdateInfo struct {
	CurrentVersion  string    `json:"current_version"`
	LatestVersion   string    `json:"latest_version"`
	UpdateAvailable bool      `json:"update_available"`
	ReleaseURL      string    `json:"release_url,omitempty"`
	ReleaseNotes    string    `json:"release_notes,omitempty"`
	CheckedAt       time.Time `json:"checked_at"`
	Error           string    `json:"error,omitempty"`
}

// UpdateMessage returns a one-line notice, or "" when nothing newer exists
func (u *UpdateInfo) UpdateMessage() string {
	if u.Error != "" || !u.UpdateAvailable {
		return ""
	}
	return fmt.Sprintf(
		"A new version of adb-mcp is available: v%s (current: v%s). "+
			"Update with: go install github.com/%s/cmd/adb-mcp@latest",
		u.LatestVersion, u.CurrentVersion, GitHubRepo,
	)
}

// Checker queries GitHub for the latest release and caches the answer
type Checker struct {
	mu         sync.RWMutex
	updateInfo *UpdateInfo
	checked    bool

	url    string
	client *http.Client
}

// NewChecker creates a checker for the adb-mcp repository
func NewChecker() *Checker {
	return &Checker{
		url:    fmt.Sprintf(GitHubAPIURL, GitHubRepo),
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// CheckForUpdates fetches the latest release. Failures are recorded in
// UpdateInfo.Error rather than returned.
func (c *Checker) CheckForUpdates(ctx context.Context) *UpdateInfo {
	info := &UpdateInfo{
		CurrentVersion: Version,
		CheckedAt:      time.Now(),
	}

	if err := c.fetch(ctx, info); err != nil {
		info.Error = err.Error()
	}

	c.mu.Lock()
	c.updateInfo = info
	c.checked = true
	c.mu.Unlock()
	return info
}

func (c *Checker) fetch(ctx context.Context, info *UpdateInfo) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "adb-mcp/"+Version)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReleaseBody))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("failed to parse response: invalid JSON")
	}

	release := gjson.ParseBytes(body)
	tag := release.Get("tag_name").String()
	if tag == "" {
		return fmt.Errorf("failed to parse response: missing tag_name")
	}

	info.LatestVersion = strings.TrimPrefix(tag, "v")
	info.ReleaseURL = release.Get("html_url").String()
	info.ReleaseNotes = truncateString(release.Get("body").String(), releaseNotesLimit)
	info.UpdateAvailable = compareVersions(Version, info.LatestVersion) < 0
	return nil
}

// CheckForUpdatesAsync checks for updates in the background
func (c *Checker) CheckForUpdatesAsync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.CheckForUpdates(ctx)
	}()
}

// GetUpdateInfo returns the cached update info
func (c *Checker) GetUpdateInfo() *UpdateInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updateInfo
}

// HasChecked returns whether an update check has completed
func (c *Checker) HasChecked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.checked
}

// compareVersions compares two semver strings.
// Returns -1 if v1 < v2, 0 if equal, 1 if v1 > v2.
func compareVersions(v1, v2 string) int {
	a, b := parseVersion(v1), parseVersion(v2)
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// parseVersion reads major.minor.patch, ignoring a "v" prefix and any
// pre-release suffix. Missing or malformed parts count as zero.
func parseVersion(v string) [3]int {
	var out [3]int
	core, _, _ := strings.Cut(strings.TrimPrefix(v, "v"), "-")
	for i, part := range strings.SplitN(core, ".", 3) {
		n, err := strconv.Atoi(part)
		if err == nil {
			out[i] = n
		}
	}
	return out
}

// truncateString shortens s to at most maxLen runes
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// GetVersion returns the current version
func GetVersion() string {
	return Version
}
