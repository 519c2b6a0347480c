// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

/*
Package config loads and validates Taptodine configuration.

# Configuration Sources

Sources are layered with Koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig), including the built-in tenant table
 2. Optional YAML file (config.yaml, /etc/taptodine/config.yaml, or CONFIG_PATH)
 3. A .env file in the working directory, loaded into the process environment
 4. Environment variables, mapped explicitly in envTransformFunc

# Tenant Table

The customers section maps a tenant ID to the backend that serves it:

	customers:
	  customer1:
	    api_base_url: https://api.test.juhaluoto.net
	    menu_id: "1"
	  bistro:
	    api_base_url: https://bistro-backend.example.com
	    menu_id: "7"
	    api_key: secret

Requests whose tenant is absent or unknown fall back to backend.default_customer.

# Environment Variables

The storefront variables of the hosted deployment are honoured as aliases:
NEXT_PUBLIC_API_BASE_URL sets backend.api_base_url and
NEXT_PUBLIC_STRIPE_PUBLISHABLE_KEY sets payment.publishable_key.

Config is immutable after Load and safe for concurrent reads.
*/
package config
