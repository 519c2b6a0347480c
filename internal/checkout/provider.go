// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package checkout

import "context"

// MetadataTenant is the session metadata key holding the tenant ID.
const MetadataTenant = "tenant"

// LineItem is one priced cart line.
type LineItem struct {
	Name        string
	Description string
	Image       string
	UnitAmount  int64 // minor units
	Quantity    int64
}

// SessionRequest describes a hosted payment session to create.
type SessionRequest struct {
	Tenant            string
	ClientReferenceID string
	Currency          string
	Items             []LineItem
	SuccessURL        string
	CancelURL         string
}

// Session is a hosted payment session.
type Session struct {
	ID                string
	URL               string
	Paid              bool
	Tenant            string
	ClientReferenceID string
	AmountTotal       int64 // minor units
}

// Provider creates and inspects hosted payment sessions.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}
