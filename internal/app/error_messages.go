// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// table keeper server handlers and middleware.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries to describe the outcome of an operation.
// Keeping them in one place ensures consistent wording throughout the API.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded as JSON.
	MsgInvalidDataProvided = "Invalid JSON was passed"

	// MsgInvalidGZipData is returned when a request declares a gzip body
	// that cannot be decompressed.
	MsgInvalidGZipData = "Invalid gzip data"

	// MsgDatabaseNameRequired is returned when a database operation arrives
	// without a database name.
	MsgDatabaseNameRequired = "database name is required"

	// MsgTableNameRequired is returned when a table operation arrives
	// without a table name.
	MsgTableNameRequired = "table name is required"

	// MsgUnionOperandsRequired is returned when a union request omits one or
	// both table names.
	MsgUnionOperandsRequired = "both union operands are required"

	// MsgFileIDRequired is returned when a load-from-drive request omits
	// the remote object identifier.
	MsgFileIDRequired = "file_id is required"

	// MsgDeviceCodeRequired is returned when a device poll request omits the
	// device code issued at the start of the flow.
	MsgDeviceCodeRequired = "device_code is required"

	// MsgCodeAndVerifierRequired is returned when a loopback completion
	// request omits the authorization code or the PKCE verifier.
	MsgCodeAndVerifierRequired = "code and verifier are required"

	// MsgAuthorizationFailed prefixes the provider error relayed through the
	// loopback redirect when the user refused the grant.
	MsgAuthorizationFailed = "authorization failed"
)
