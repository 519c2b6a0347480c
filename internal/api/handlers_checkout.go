// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/tomtom215/taptodine/internal/checkout"
	"github.com/tomtom215/taptodine/internal/models"
	"github.com/tomtom215/taptodine/internal/store"
	"github.com/tomtom215/taptodine/internal/tenant"
)

const msgPaymentsDisabled = "Payments are not configured"

// CreateCheckoutSession handles POST /api/create-checkout-session. It
// answers {"id","url"} for the hosted payment page of the visitor's cart.
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	if h.checkout == nil {
		respondError(w, http.StatusServiceUnavailable, msgPaymentsDisabled, nil)
		return
	}
	sess, ok := visitorSession(w, r)
	if !ok {
		return
	}

	cs, err := h.checkout.Begin(r.Context(), sess.Store, storefrontURL(r, h.config.Server.PublicURL), sess.Visitor)
	if err != nil {
		respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.CheckoutSessionResponse{ID: cs.ID, URL: cs.URL})
}

// CompleteCheckout handles POST /api/checkout/complete. The success page
// calls it with the session ID the payment provider redirected back with.
func (h *Handler) CompleteCheckout(w http.ResponseWriter, r *http.Request) {
	if h.checkout == nil {
		respondError(w, http.StatusServiceUnavailable, msgPaymentsDisabled, nil)
		return
	}
	sess, ok := visitorSession(w, r)
	if !ok {
		return
	}

	var req CompleteCheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.checkout.Complete(r.Context(), sess.Store, req.SessionID, sess.Visitor)
	if err != nil {
		respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func respondCheckoutError(w http.ResponseWriter, err error) {
	var payErr *checkout.PaymentError
	switch {
	case errors.As(err, &payErr):
		respondError(w, http.StatusBadGateway, payErr.Message, nil)
	case errors.Is(err, store.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "Your cart is empty", nil)
	case errors.Is(err, checkout.ErrMissingSessionID):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, checkout.ErrNotPaid):
		respondError(w, http.StatusPaymentRequired, "Payment has not been completed", nil)
	case errors.Is(err, checkout.ErrSessionMismatch):
		respondError(w, http.StatusForbidden, "Checkout session does not belong to this restaurant", nil)
	case errors.Is(err, checkout.ErrVisitorMismatch):
		respondError(w, http.StatusForbidden, "Checkout session was started in another browser", nil)
	case errors.Is(err, checkout.ErrAmountMismatch):
		respondError(w, http.StatusConflict, "Your cart changed after payment, please contact the restaurant", err)
	default:
		respondError(w, http.StatusInternalServerError, "Checkout failed", err)
	}
}

// storefrontURL returns the origin the visitor is browsing, including the
// tenant prefix on local hosts, for payment redirect URLs. With a configured
// public URL only the tenant is taken from the request; otherwise the Host
// and X-Forwarded-Proto headers are trusted, which config validation allows
// outside production only.
func storefrontURL(r *http.Request, publicURL string) string {
	prefix := tenant.BasePath(r.Context())
	if publicURL != "" {
		if u, err := url.Parse(publicURL); err == nil && u.Host != "" {
			host := u.Host
			if id, ok := tenant.FromContext(r.Context()); ok && prefix == "" {
				host = id + "." + host
			}
			return u.Scheme + "://" + host + strings.TrimRight(u.Path, "/") + prefix
		}
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + prefix
}
