// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

/*
Package tenant resolves which restaurant a request belongs to.

In production the tenant is the leftmost label of a host with more than two
labels:

	customer1.example.com  -> customer1
	example.com            -> (none)

On local hosts (localhost, 127.0.0.1, [::1]) there are no subdomains, so the
first path segment names the tenant and is stripped before routing:

	localhost:3000/customer1/menu  -> customer1, /menu
	localhost:3000/cart            -> (none), /cart

Segments in the reserved set (_next, api, static, cart, orders, checkout, ...) are
never tenants. Resolution is a pure function of host and path; a request
without a tenant is served with the default customer configuration.

Middleware applies the result to the request: it sets the X-Customer-Id
header (removing any client-supplied value when no tenant was resolved),
stores the tenant in the context, and rewrites the URL path.
*/
package tenant
