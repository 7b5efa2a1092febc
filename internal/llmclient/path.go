package llmclient

import (
	"net/url"
	"strings"
)

// Path joins segments into an endpoint path, escaping each one.
func Path(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
