package validators

import (
	"net/http"
)

const maxQueryValueLength = 200

// QueryString returns a trimmed query value capped at a sane length.
func QueryString(r *http.Request, key string) string {
	return SanitizeString(r.URL.Query().Get(key), maxQueryValueLength)
}
