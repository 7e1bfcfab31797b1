// Package update checks GitHub releases for a newer nftlens build and
// works out how the running binary was installed.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const defaultReleasesURL = "https://api.github.com/repos/nftlens/cli/releases/latest"

// EnvReleasesURL overrides the release endpoint, mainly for tests.
const EnvReleasesURL = "NFTLENS_RELEASES_URL"

type InstallMethod string

const (
	InstallMethodBrew    InstallMethod = "brew"
	InstallMethodGo      InstallMethod = "go"
	InstallMethodUnknown InstallMethod = "unknown"
)

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

func releasesURL() string {
	if u := strings.TrimSpace(os.Getenv(EnvReleasesURL)); u != "" {
		return u
	}
	return defaultReleasesURL
}

// FetchLatest returns the tag and page URL of the latest published release.
func FetchLatest(ctx context.Context) (tag string, url string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL(), nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("release request failed: %s", resp.Status)
	}

	var r release
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", "", fmt.Errorf("invalid response: %w", err)
	}
	if r.TagName == "" {
		return "", "", fmt.Errorf("latest release has no tag")
	}
	return r.TagName, r.HTMLURL, nil
}

// IsNewerVersion reports whether latest is a higher semver than current.
// Both may carry a leading "v".
func IsNewerVersion(current, latest string) (bool, error) {
	cur, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid current version %q: %w", current, err)
	}
	lat, err := semver.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid latest version %q: %w", latest, err)
	}
	return lat.GreaterThan(cur), nil
}

type installRule struct {
	method InstallMethod
	check  func(path string) bool
}

func pathMatchesHomebrew(path string) bool {
	return strings.Contains(path, "/Cellar/") ||
		strings.HasPrefix(path, "/opt/homebrew/") ||
		strings.Contains(path, "/.linuxbrew/")
}

func pathMatchesGoBin(path string) bool {
	dir := filepath.Dir(path)
	if gobin := os.Getenv("GOBIN"); gobin != "" && dir == filepath.Clean(gobin) {
		return true
	}
	return strings.HasSuffix(dir, string(filepath.Separator)+filepath.Join("go", "bin"))
}

// installMethodRules are checked in order; the first match wins.
func installMethodRules() []installRule {
	return []installRule{
		{method: InstallMethodBrew, check: pathMatchesHomebrew},
		{method: InstallMethodGo, check: pathMatchesGoBin},
	}
}

// DetectInstallMethod inspects the running executable's path.
func DetectInstallMethod() (InstallMethod, string) {
	exe, err := os.Executable()
	if err != nil {
		return InstallMethodUnknown, ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	for _, r := range installMethodRules() {
		if r.check(exe) {
			return r.method, exe
		}
	}
	return InstallMethodUnknown, exe
}

func suggestUpgradeCommandForMethod(method InstallMethod) string {
	switch method {
	case InstallMethodGo:
		return "go install github.com/nftlens/cli@latest"
	default:
		return "brew upgrade nftlens/tap/nftlens"
	}
}

// SuggestUpgradeCommand returns the command that upgrades the running binary.
func SuggestUpgradeCommand() string {
	method, _ := DetectInstallMethod()
	return suggestUpgradeCommandForMethod(method)
}
