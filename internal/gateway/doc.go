// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

/*
Package gateway fetches menus and order history from tenant backends and
normalizes them into the storefront's models.

# Menu Normalization

Backends return a sectioned menu:

	{"id": 1, "sections": [{"id": 1, "title": "Mains", "items": [...]}], "restaurant": {"name": "..."}}

The gateway flattens sections in order, copies each section title into the
item's category, coerces numeric or string IDs and prices, defaults missing
descriptions to "" and substitutes PlaceholderImage for missing or unusable
images. Label and ingredient metadata pass through unchanged.

# Errors

Every failure is returned as a Go error; nothing panics past the client:

  - *StatusError: the backend answered with a non-2xx status (not retried)
  - ErrMalformedResponse: the body did not have the expected shape
  - ErrUnavailable: the upstream's circuit breaker is open
  - anything else: transport failure or context cancellation

Handlers translate these into the {"error": ...} envelope using
EnvelopeMessage.

# Resilience

Each upstream host has its own gobreaker circuit breaker. 4xx answers do not
count against the breaker. Identical concurrent GETs are coalesced with
singleflight; each caller decodes its own copy of the body.
*/
package gateway
