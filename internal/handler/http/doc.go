// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http is the HTTP transport of the table keeper server: database
// and table management, per-database sync control and the two OAuth
// authorization flows, all under /api, plus the provider-facing loopback
// callback endpoint at /oauth/callback.
package http
