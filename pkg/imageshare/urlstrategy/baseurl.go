package urlstrategy

import (
	"strings"
)

// LocalBaseURL is the origin used when nothing else is configured
const LocalBaseURL = "http://localhost:3000"

// ResolveAppBaseURL picks the application origin: an explicit public URL
// wins, then the platform deployment host served over https, then the local
// development default.
func ResolveAppBaseURL(publicAppURL, deploymentHost string) string {
	if v := strings.TrimSpace(publicAppURL); v != "" {
		return strings.TrimRight(v, "/")
	}
	if host := strings.TrimSpace(deploymentHost); host != "" {
		host = strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")
		return "https://" + strings.TrimRight(host, "/")
	}
	return LocalBaseURL
}

// ViewerURL returns the viewer page URL for an encoded identifier
func ViewerURL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/p/" + id
}
