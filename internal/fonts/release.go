package fonts

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// DefaultAPIBase is the GitHub REST endpoint.
const DefaultAPIBase = "https://api.github.com"

// DefaultRepo publishes one archive per font family in every release.
const DefaultRepo = "ryanoasis/nerd-fonts"

// GitHubRelease represents the structure of a GitHub release JSON response.
type GitHubRelease struct {
	TagName string `json:"tag_name"` // The release tag (e.g., v3.4.0)
	Assets  []struct {
		Name               string `json:"name"`                 // Asset filename
		BrowserDownloadURL string `json:"browser_download_url"` // Direct download URL for the asset
	} `json:"assets"`
}

// latestRelease fetches the metadata of the newest release of repo.
func (m *Manager) latestRelease() (*GitHubRelease, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(m.APIBase, "/"), m.Repo)
	m.Log.Debug("[DEBUG] Fetching GitHub release from URL: %s\n", url)

	resp, err := m.Client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET error fetching latest release of %s: %w", m.Repo, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			m.Log.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub release fetch failed for %s: HTTP status %d", m.Repo, resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode GitHub release JSON for %s: %w", m.Repo, err)
	}
	m.Log.Debug("[DEBUG] Release tag: %s with %d assets\n", release.TagName, len(release.Assets))
	return &release, nil
}

// assetFor picks <font>.tar.xz, falling back to <font>.zip.
func (r *GitHubRelease) assetFor(font string) (name, url string, err error) {
	for _, want := range []string{font + ".tar.xz", font + ".zip"} {
		for _, a := range r.Assets {
			if strings.EqualFold(a.Name, want) {
				return a.Name, a.BrowserDownloadURL, nil
			}
		}
	}
	return "", "", fmt.Errorf("no archive for %s in release %s", font, r.TagName)
}

// downloadFile downloads the content located at the specified URL and saves it to destPath.
func (m *Manager) downloadFile(url, destPath string) error {
	resp, err := m.Client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			m.Log.Error("[ERROR] Failed to close response body: %s\n", cerr)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to GET %s: HTTP status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			m.Log.Error("[ERROR] Failed to close destination file: %s\n", cerr)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write response to file: %w", err)
	}

	m.Log.Debug("[DEBUG] Downloaded font archive to: %s\n", destPath)
	return nil
}
