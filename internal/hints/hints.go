// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"net/http"
	"os"
	"strings"

	"github.com/alnah/go-render/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser launch errors in the render
// service. Detects CI/Docker environment and suggests relevant variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" && os.Getenv("RENDER_BROWSER_BIN") == "" {
		hints = append(hints, "set RENDER_BROWSER_BIN to use a custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeouts for slow pages.
func ForTimeout() string {
	return format("for slow pages, raise --timeout or wait for an earlier event with --wait-until")
}

// ForServiceUnreachable returns a hint for transport failures.
func ForServiceUnreachable(baseURL string) string {
	hint := "check that the render service is running"
	if baseURL != "" {
		hint += " at " + baseURL
	}
	return format(hint + "; override with --service or RENDER_BASE_URL")
}

// ForStatus returns a hint for remote failures with the given HTTP status.
func ForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return format("set RENDER_USER and RENDER_PASSWORD for the render service")
	case http.StatusNotFound:
		return format("check the render path; the default is foundation/pdf")
	case http.StatusTooManyRequests:
		return format("the service is throttling; lower the request rate")
	}
	return ""
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config dir.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-render") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForViewNotFound returns a hint listing where views are looked up.
func ForViewNotFound(viewsDir string) string {
	if viewsDir == "" {
		return format("set --views or RENDER_VIEWS_DIR to the views directory")
	}
	return format("views resolve dotted names under " + viewsDir + ", e.g. emails.welcome -> emails/welcome.html.tpl")
}

// ForOutputDirectory returns hints for output file write errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
