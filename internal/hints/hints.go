// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-folio/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForConfigNotFound returns hints for config file not found errors.
func ForConfigNotFound() string {
	hint := "use --config /path/to/file.yaml or set FOLIO_CONFIG"
	if dir, err := os.UserConfigDir(); err == nil {
		hint += "; named configs are also read from " + dir + string(os.PathSeparator) + "go-folio"
	}
	return format(hint)
}

// ForArtifactLoad returns a hint for a missing or unreadable artifact.
func ForArtifactLoad() string {
	return format("run 'folio compile' first, or point --artifact at the compiled JSON")
}

// ForContentDir returns a hint for an unreadable content directory.
func ForContentDir() string {
	return format("pass the content directory as an argument or set content.dir in the config")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForListen returns hints for a server that cannot bind its address.
// Inside a container, loopback addresses are unreachable from the host.
func ForListen(addr string) string {
	hints := []string{"choose another address with --addr or FOLIO_ADDR"}
	host, _, _ := strings.Cut(addr, ":")
	if IsInContainer() && (host == "localhost" || strings.HasPrefix(host, "127.")) {
		hints = append(hints, "bind to :port so the server is reachable from outside the container")
	}
	return formatHints(hints)
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
