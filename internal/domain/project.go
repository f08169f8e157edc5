package domain

import (
	"net/url"
	"strings"
	"time"
)

// Project is the tenant owning offer configuration and audit history. A
// decision request authenticates with the project's opaque API key.
type Project struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	APIKey         string    `json:"-" db:"api_key"`
	AllowedDomains []string  `json:"allowed_domains" db:"allowed_domains"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// IsOriginAllowed reports whether a request origin passes the project's
// domain allowlist. An empty allowlist allows every origin, and an empty
// origin is always allowed: the allowlist guards browser embedding, and
// server-to-server callers send no Origin header. Matching is by hostname,
// case-insensitive, with subdomains of an allowed domain accepted.
func (p Project) IsOriginAllowed(origin string) bool {
	if len(p.AllowedDomains) == 0 {
		return true
	}
	host := originHost(origin)
	if host == "" {
		return strings.TrimSpace(origin) == ""
	}
	for _, d := range p.AllowedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func originHost(origin string) string {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return ""
	}
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		return strings.ToLower(u.Hostname())
	}
	// Bare hostname without scheme
	if i := strings.IndexByte(origin, ':'); i > 0 {
		origin = origin[:i]
	}
	return strings.ToLower(origin)
}
