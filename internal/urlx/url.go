// Package urlx implements the URL value described in spec.md §3/§4.0: a
// seven-component decomposition (scheme, userinfo user/password, host,
// port, path, query, fragment) with lossless round-tripping and the
// relative-to-absolute merge rule OData next-links require.
//
// Grounded on net/url, which every example repo's HTTP client builds on
// (e.g. oisee-odata_mcp_go/internal/client/client.go composes query
// strings via url.Values); no pack repo hand-rolls a URL value, so this
// package wraps the standard library rather than reimplementing URL
// grammar — see DESIGN.md for the stdlib justification.
package urlx

import (
	"fmt"
	"net/url"
	"strings"
)

// URL is the seven-component value from spec.md §3.
type URL struct {
	Scheme   string
	User     string
	Password string
	HasUser  bool
	Host     string
	Port     string
	Path     string
	Query    string
	Fragment string
}

// Parse decomposes a URL string into its seven components.
func Parse(raw string) (URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return URL{}, fmt.Errorf("urlx: cannot parse %q: %w", raw, err)
	}
	out := URL{
		Scheme:   u.Scheme,
		Host:     u.Hostname(),
		Port:     u.Port(),
		Path:     u.Path,
		Query:    u.RawQuery,
		Fragment: u.Fragment,
	}
	if u.User != nil {
		out.HasUser = true
		out.User = u.User.Username()
		out.Password, _ = u.User.Password()
	}
	return out, nil
}

// String reconstructs a lossless URL string from the components
// (spec.md §3 invariant: "ToString is lossless w.r.t. parsed input given
// valid inputs").
func (u URL) String() string {
	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteString("://")
	}
	if u.HasUser {
		b.WriteString(u.User)
		if u.Password != "" {
			b.WriteByte(':')
			b.WriteString(u.Password)
		}
		b.WriteByte('@')
	}
	b.WriteString(u.Host)
	if u.Port != "" {
		b.WriteByte(':')
		b.WriteString(u.Port)
	}
	b.WriteString(u.Path)
	if u.Query != "" {
		b.WriteByte('?')
		b.WriteString(u.Query)
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}
	return b.String()
}

// EqualHost compares hosts case-insensitively per spec.md §3 ("host
// case-insensitive for equality").
func (u URL) EqualHost(other URL) bool {
	return strings.EqualFold(u.Host, other.Host)
}

// HasScheme reports whether s itself carries a scheme (used by
// MergeWithBaseUrlIfRelative to decide whether to merge at all).
func HasScheme(s string) bool {
	idx := strings.Index(s, "://")
	if idx <= 0 {
		return false
	}
	scheme := s[:idx]
	for _, r := range scheme {
		if !(r == '+' || r == '-' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

// MergeWithBaseUrlIfRelative implements spec.md §3: "returns s unchanged
// when s contains a scheme, otherwise composes path (leading / resets to
// base root), preserves base host/port, and replaces query/fragment when
// non-empty".
func MergeWithBaseUrlIfRelative(base URL, s string) (URL, error) {
	if HasScheme(s) {
		return Parse(s)
	}

	rel, err := url.Parse(s)
	if err != nil {
		return URL{}, fmt.Errorf("urlx: cannot parse relative reference %q: %w", s, err)
	}

	out := base
	if strings.HasPrefix(rel.Path, "/") {
		out.Path = rel.Path
	} else if rel.Path != "" {
		basePath := base.Path
		if idx := strings.LastIndex(basePath, "/"); idx >= 0 {
			basePath = basePath[:idx+1]
		} else {
			basePath = "/"
		}
		out.Path = basePath + rel.Path
	}
	if rel.RawQuery != "" {
		out.Query = rel.RawQuery
	}
	if rel.Fragment != "" {
		out.Fragment = rel.Fragment
	}
	return out, nil
}
