package uploads

import "strings"

// PublicURL rewrites a stored file reference into an absolute URL under the
// app's /uploads/ path. Blank references map to nil, never an empty string.
func PublicURL(baseURL string, stored *string) *string {
	if stored == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*stored)
	if trimmed == "" {
		return nil
	}
	url := strings.TrimRight(baseURL, "/") + "/uploads/" + strings.TrimLeft(trimmed, "/")
	return &url
}
