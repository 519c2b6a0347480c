// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package checkout

import (
	"errors"

	"github.com/stripe/stripe-go/v76"
)

var (
	// ErrNotPaid is returned by Complete for sessions that are not paid.
	ErrNotPaid = errors.New("checkout session is not paid")

	// ErrSessionMismatch is returned by Complete when the session belongs
	// to another tenant.
	ErrSessionMismatch = errors.New("checkout session belongs to another restaurant")

	// ErrVisitorMismatch is returned by Complete when the session was
	// started by another visitor.
	ErrVisitorMismatch = errors.New("checkout session belongs to another visitor")

	// ErrAmountMismatch is returned by Complete when the amount paid does
	// not match the cart being ordered.
	ErrAmountMismatch = errors.New("amount paid does not match the cart")

	// ErrMissingSessionID is returned by Complete for an empty session ID.
	ErrMissingSessionID = errors.New("session ID is required")
)

const defaultPaymentMessage = "Payment service is unavailable, please try again"

// PaymentError is a failure reported by the payment provider. Message is
// safe to show to the visitor.
type PaymentError struct {
	Op      string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	return "checkout " + e.Op + ": " + e.Err.Error()
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

func newPaymentError(op string, err error) *PaymentError {
	msg := defaultPaymentMessage
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		msg = stripeErr.Msg
	}
	return &PaymentError{Op: op, Message: msg, Err: err}
}
