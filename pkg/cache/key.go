package cache

import (
	"net/url"
	"strings"
)

// Key identifies a cached upstream response.
type Key struct {
	// Endpoint is the upstream path (e.g., "/deputados/204554/orgaos")
	Endpoint string

	// QueryParams are the query parameters sent with the request
	QueryParams url.Values
}

// String generates a deterministic cache key string.
// Format: camara:endpoint?encoded-query
//
// Query parameters are encoded in key order, so two requests carrying the same
// parameters always map to the same key regardless of how they were built.
//
// Example:
//
//	camara:deputados?itens=20&siglaUf=SP
func (k Key) String() string {
	var b strings.Builder
	b.WriteString("camara:")
	b.WriteString(strings.Trim(k.Endpoint, "/"))

	if len(k.QueryParams) > 0 {
		b.WriteByte('?')
		b.WriteString(k.QueryParams.Encode())
	}

	return b.String()
}
