// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package checkout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stripe/stripe-go/v76"
)

// stripeStub records form posts to the Checkout Sessions endpoint.
type stripeStub struct {
	mu    sync.Mutex
	form  url.Values
	auth  string
	paths []string
}

func (s *stripeStub) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		s.mu.Lock()
		s.form = r.PostForm
		s.auth = r.Header.Get("Authorization")
		s.paths = append(s.paths, r.Method+" "+r.URL.Path)
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/checkout/sessions":
			_, _ = w.Write([]byte(`{"id":"cs_test_123","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_123","payment_status":"unpaid","metadata":{"tenant":"customer1"}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/v1/checkout/sessions/cs_test_123":
			_, _ = w.Write([]byte(`{"id":"cs_test_123","object":"checkout.session","payment_status":"paid","client_reference_id":"visitor-1","amount_total":3497,"metadata":{"tenant":"customer1"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such checkout.session: cs_missing"}}`))
		}
	})
}

func TestStripeProvider_CreateSession(t *testing.T) {
	t.Parallel()

	stub := &stripeStub{}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	p := NewStripeProvider("sk_test_123", WithBackendURL(server.URL))
	sess, err := p.CreateSession(context.Background(), SessionRequest{
		Tenant:            "customer1",
		ClientReferenceID: "visitor-1",
		Currency:          "EUR",
		SuccessURL:        "https://customer1.example.com/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:         "https://customer1.example.com/checkout",
		Items: []LineItem{
			{Name: "Margherita", Image: "https://img.example.com/m.jpg", UnitAmount: 1099, Quantity: 2},
			{Name: "Lasagne", Image: "data:image/svg+xml;base64,AAAA", UnitAmount: 1299, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if sess.ID != "cs_test_123" || sess.URL != "https://checkout.stripe.com/c/pay/cs_test_123" || sess.Paid {
		t.Errorf("session = %+v", sess)
	}

	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.auth != "Bearer sk_test_123" {
		t.Errorf("Authorization = %q", stub.auth)
	}
	want := map[string]string{
		"mode":                                   "payment",
		"success_url":                            "https://customer1.example.com/success?session_id={CHECKOUT_SESSION_ID}",
		"metadata[tenant]":                       "customer1",
		"client_reference_id":                    "visitor-1",
		"line_items[0][price_data][currency]":    "eur",
		"line_items[0][price_data][unit_amount]": "1099",
		"line_items[0][price_data][product_data][name]":      "Margherita",
		"line_items[0][price_data][product_data][images][0]": "https://img.example.com/m.jpg",
		"line_items[0][quantity]":                            "2",
		"line_items[1][price_data][unit_amount]":             "1299",
		"line_items[1][quantity]":                            "1",
	}
	for key, value := range want {
		if got := stub.form.Get(key); got != value {
			t.Errorf("form[%s] = %q, want %q", key, got, value)
		}
	}
	if got := stub.form.Get("line_items[1][price_data][product_data][images][0]"); got != "" {
		t.Errorf("data URI images must not be sent, got %q", got)
	}
}

func TestStripeProvider_GetSession(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer((&stripeStub{}).handler(t))
	defer server.Close()

	p := NewStripeProvider("sk_test_123", WithBackendURL(server.URL))
	sess, err := p.GetSession(context.Background(), "cs_test_123")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if !sess.Paid || sess.Tenant != "customer1" || sess.ClientReferenceID != "visitor-1" || sess.AmountTotal != 3497 {
		t.Errorf("session = %+v", sess)
	}

	_, err = p.GetSession(context.Background(), "cs_missing")
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		t.Fatalf("error = %v, want *stripe.Error", err)
	}
	if msg := newPaymentError("confirm session", err).Message; msg != "No such checkout.session: cs_missing" {
		t.Errorf("visitor message = %q", msg)
	}
}
