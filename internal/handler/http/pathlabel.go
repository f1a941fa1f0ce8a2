package http

import (
	"strings"
)

// PathLabel maps a request path onto the fixed route vocabulary used as
// the metrics path label. Paths that match no registered route collapse
// into "unknown" so arbitrary client input cannot create new series.
func PathLabel(path string) string {
	switch {
	case path == "/":
		return "/"
	case path == "/health":
		return "/health"
	case path == "/items":
		return "/items"
	case strings.HasPrefix(path, "/items/"):
		return "/items/{id}"
	default:
		return "unknown"
	}
}
