package host

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// devToolsPortFile is written into the user data directory by Chrome when it
// runs with --remote-debugging-port.
const devToolsPortFile = "DevToolsActivePort"

// ErrNoDevTools is returned when no running Chrome exposes a debugging port.
var ErrNoDevTools = errors.New("no Chrome with remote debugging found")

// ChromeUserDataDirs returns the user data directories of Chrome and Chromium
// for the current OS, most common first. Directories that do not exist are skipped.
func ChromeUserDataDirs() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		base := filepath.Join(homeDir, "Library", "Application Support")
		candidates = []string{
			filepath.Join(base, "Google", "Chrome"),
			filepath.Join(base, "Google", "Chrome Beta"),
			filepath.Join(base, "Chromium"),
		}
	case "linux":
		config := os.Getenv("XDG_CONFIG_HOME")
		if config == "" {
			config = filepath.Join(homeDir, ".config")
		}
		candidates = []string{
			filepath.Join(config, "google-chrome"),
			filepath.Join(config, "google-chrome-beta"),
			filepath.Join(config, "chromium"),
		}
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		candidates = []string{
			filepath.Join(localAppData, "Google", "Chrome", "User Data"),
			filepath.Join(localAppData, "Chromium", "User Data"),
		}
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	var dirs []string
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

// ReadDevToolsActivePort returns the browser websocket URL recorded in a user
// data directory. The file holds the port on the first line and the browser
// target path on the second.
func ReadDevToolsActivePort(userDataDir string) (string, error) {
	f, err := os.Open(filepath.Join(userDataDir, devToolsPortFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoDevTools
		}
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	var lines []string
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%s in %s is empty", devToolsPortFile, userDataDir)
	}

	port, err := strconv.Atoi(lines[0])
	if err != nil || port <= 0 || port > 65535 {
		return "", fmt.Errorf("invalid port %q in %s", lines[0], devToolsPortFile)
	}
	if len(lines) < 2 || !strings.HasPrefix(lines[1], "/devtools/browser/") {
		return fmt.Sprintf("http://127.0.0.1:%d", port), nil
	}
	return fmt.Sprintf("ws://127.0.0.1:%d%s", port, lines[1]), nil
}

// DiscoverDevTools looks through dirs for a running Chrome with remote
// debugging enabled and returns its endpoint.
func DiscoverDevTools(dirs []string) (string, error) {
	for _, dir := range dirs {
		endpoint, err := ReadDevToolsActivePort(dir)
		if errors.Is(err, ErrNoDevTools) {
			continue
		}
		if err != nil {
			return "", err
		}
		return endpoint, nil
	}
	return "", ErrNoDevTools
}
