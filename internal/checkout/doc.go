// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

/*
Package checkout turns a visitor's cart into a hosted payment session and,
once payment is confirmed, into an order.

The flow mirrors the storefront pages:

 1. The checkout page calls Service.Begin, which prices the cart in minor
    currency units and asks the Provider for a hosted session. The page
    redirects the browser to Session.URL.
 2. The provider redirects back to the success page with the session ID.
    The page calls Service.Complete, which confirms with the provider that
    the session is paid, records a pending order from the cart and clears
    the cart.

Complete is idempotent per session ID: a reload of the success page returns
the order recorded the first time instead of placing another one.

StripeProvider implements Provider with Stripe Checkout. Tests use a fake
Provider; StripeProvider itself is exercised against an httptest backend.
*/
package checkout
