// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package tenant

import "testing"

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		host       string
		path       string
		wantTenant string
		wantPath   string
		wantSource Source
	}{
		{"subdomain", "a.b.example.com", "/menu", "a", "/menu", SourceSubdomain},
		{"three labels", "customer1.example.com", "/", "customer1", "/", SourceSubdomain},
		{"subdomain with port", "customer2.example.com:8443", "/orders", "customer2", "/orders", SourceSubdomain},
		{"subdomain upper case", "Customer1.Example.com", "/", "customer1", "/", SourceSubdomain},
		{"apex domain", "example.com", "/menu", "", "/menu", SourceNone},
		{"apex with port", "example.com:443", "/", "", "/", SourceNone},
		{"single label", "intranet", "/", "", "/", SourceNone},
		{"ip literal", "10.0.0.5:3000", "/menu", "", "/menu", SourceNone},
		{"empty host", "", "/menu", "", "/menu", SourceNone},
		{"local tenant", "localhost:3000", "/customer1/menu", "customer1", "/menu", SourcePath},
		{"local tenant root", "localhost:3000", "/customer1", "customer1", "/", SourcePath},
		{"local tenant trailing slash", "localhost", "/customer1/", "customer1", "/", SourcePath},
		{"local tenant api", "127.0.0.1:3000", "/customer2/api/menu", "customer2", "/api/menu", SourcePath},
		{"local ipv6", "[::1]:3000", "/customer1/cart", "customer1", "/cart", SourcePath},
		{"local reserved cart", "localhost:3000", "/cart", "", "/cart", SourceNone},
		{"local reserved api", "localhost:3000", "/api/menu", "", "/api/menu", SourceNone},
		{"local reserved checkout", "localhost:3000", "/checkout", "", "/checkout", SourceNone},
		{"local reserved success", "localhost:3000", "/success", "", "/success", SourceNone},
		{"local framework assets", "localhost:3000", "/_next/static/chunks/main.js", "", "/_next/static/chunks/main.js", SourceNone},
		{"local favicon", "localhost:3000", "/favicon.ico", "", "/favicon.ico", SourceNone},
		{"local asset file", "localhost:3000", "/logo.png", "", "/logo.png", SourceNone},
		{"local root", "localhost:3000", "/", "", "/", SourceNone},
		{"local empty path", "localhost:3000", "", "", "", SourceNone},
		{"local host uses path over subdomain", "customer1.localhost:3000", "/menu", "menu", "/", SourcePath},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Resolve(tt.host, tt.path)
			if got.Tenant != tt.wantTenant {
				t.Errorf("Tenant = %q, want %q", got.Tenant, tt.wantTenant)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got.Path, tt.wantPath)
			}
			if got.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", got.Source, tt.wantSource)
			}
			if got.Found() != (tt.wantTenant != "") {
				t.Errorf("Found() = %v", got.Found())
			}
		})
	}
}

func TestResolveKeepsPrefixCase(t *testing.T) {
	t.Parallel()

	got := Resolve("localhost:3000", "/Customer1/menu")
	if got.Tenant != "customer1" || got.Prefix != "/Customer1" || got.Path != "/menu" {
		t.Errorf("Resolve() = %+v", got)
	}
	if sub := Resolve("customer1.example.com", "/menu"); sub.Prefix != "" {
		t.Errorf("subdomain Prefix = %q, want empty", sub.Prefix)
	}
}

func TestResolveIsPure(t *testing.T) {
	t.Parallel()

	first := Resolve("localhost:3000", "/customer1/menu")
	for i := 0; i < 10; i++ {
		if again := Resolve("localhost:3000", "/customer1/menu"); again != first {
			t.Fatalf("resolution changed between calls: %+v vs %+v", first, again)
		}
	}
}

func TestNewResolverExtraReserved(t *testing.T) {
	t.Parallel()

	rv := NewResolver("Admin", "/docs/", " ")
	if !rv.IsReserved("admin") || !rv.IsReserved("docs") {
		t.Error("extra reserved routes should be normalized and reserved")
	}
	if !rv.IsReserved("cart") {
		t.Error("default reserved routes should remain reserved")
	}

	got := rv.Resolve("localhost:3000", "/admin/panel")
	if got.Found() {
		t.Errorf("reserved segment resolved as tenant %q", got.Tenant)
	}
	if got := Resolve("localhost:3000", "/admin/panel"); got.Tenant != "admin" {
		t.Errorf("default resolver should not reserve admin, got %+v", got)
	}
}

func TestIsLocalHost(t *testing.T) {
	t.Parallel()

	for host, want := range map[string]bool{
		"localhost":            true,
		"localhost:3000":       true,
		"127.0.0.1:8080":       true,
		"[::1]:3000":           true,
		"shop.example.com":     false,
		"customer1.example.io": false,
	} {
		if got := IsLocalHost(host); got != want {
			t.Errorf("IsLocalHost(%q) = %v, want %v", host, got, want)
		}
	}
}
