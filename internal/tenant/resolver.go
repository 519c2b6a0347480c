// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package tenant

import (
	"net"
	"strings"
)

// Source records where a tenant ID came from.
type Source string

const (
	SourceNone      Source = "none"
	SourceSubdomain Source = "subdomain"
	SourcePath      Source = "path"
)

// DefaultReservedRoutes are first path segments that belong to the
// application itself rather than to a tenant.
var DefaultReservedRoutes = []string{
	"_next",
	"api",
	"static",
	"assets",
	"favicon.ico",
	"robots.txt",
	"metrics",
	"cart",
	"orders",
	"checkout",
	"success",
}

// Resolution is the outcome of resolving a host and path.
type Resolution struct {
	// Tenant is the lower-cased tenant ID, or "" when none was found.
	Tenant string
	// Path is the path to route on. It differs from the input only when
	// the tenant was taken from the first path segment.
	Path string
	// Prefix is the stripped first path segment as the client sent it,
	// such as "/Customer1", when Source is SourcePath.
	Prefix string
	Source Source
}

// Found reports whether a tenant was resolved.
func (r Resolution) Found() bool {
	return r.Tenant != ""
}

// Rewritten reports whether the path was changed.
func (r Resolution) Rewritten() bool {
	return r.Source == SourcePath
}

// Resolver resolves tenants against a reserved-route set.
type Resolver struct {
	reserved map[string]struct{}
}

// NewResolver returns a Resolver reserving DefaultReservedRoutes plus extra.
func NewResolver(extra ...string) *Resolver {
	reserved := make(map[string]struct{}, len(DefaultReservedRoutes)+len(extra))
	for _, seg := range DefaultReservedRoutes {
		reserved[seg] = struct{}{}
	}
	for _, seg := range extra {
		seg = strings.ToLower(strings.Trim(strings.TrimSpace(seg), "/"))
		if seg != "" {
			reserved[seg] = struct{}{}
		}
	}
	return &Resolver{reserved: reserved}
}

var defaultResolver = NewResolver()

// Resolve resolves host and path with the default reserved routes.
func Resolve(host, path string) Resolution {
	return defaultResolver.Resolve(host, path)
}

// IsReserved reports whether segment is a reserved first path segment.
func (rv *Resolver) IsReserved(segment string) bool {
	_, ok := rv.reserved[strings.ToLower(segment)]
	return ok
}

// Resolve determines the tenant for a request host and URL path.
func (rv *Resolver) Resolve(host, path string) Resolution {
	if IsLocalHost(host) {
		return rv.resolvePath(path)
	}
	if tenant := subdomain(host); tenant != "" {
		return Resolution{Tenant: tenant, Path: path, Source: SourceSubdomain}
	}
	return Resolution{Path: path, Source: SourceNone}
}

func (rv *Resolver) resolvePath(path string) Resolution {
	none := Resolution{Path: path, Source: SourceNone}

	trimmed := strings.TrimPrefix(path, "/")
	segment, rest, _ := strings.Cut(trimmed, "/")
	// File-like segments are assets, not tenants; tenant IDs never contain dots.
	if segment == "" || strings.Contains(segment, ".") || rv.IsReserved(segment) {
		return none
	}

	return Resolution{
		Tenant: strings.ToLower(segment),
		Path:   "/" + rest,
		Prefix: "/" + segment,
		Source: SourcePath,
	}
}

// IsLocalHost reports whether host addresses the local machine.
func IsLocalHost(host string) bool {
	h := strings.ToLower(host)
	return strings.Contains(h, "localhost") ||
		strings.Contains(h, "127.0.0.1") ||
		strings.Contains(h, "[::1]")
}

// subdomain returns the leftmost label of a host with more than two labels.
func subdomain(host string) string {
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}
	hostname = strings.TrimSuffix(strings.ToLower(hostname), ".")
	if hostname == "" || net.ParseIP(strings.Trim(hostname, "[]")) != nil {
		return ""
	}

	labels := strings.Split(hostname, ".")
	if len(labels) <= 2 {
		return ""
	}
	return labels[0]
}
