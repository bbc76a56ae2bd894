// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Supported column type names.
const (
	TypeInteger      = "integer"
	TypeReal         = "real"
	TypeChar         = "char"
	TypeString       = "string"
	TypeDate         = "date"
	TypeDateInterval = "dateInvl"
)

// SupportedTypes is the set of column type names a table schema may use.
var SupportedTypes = map[string]struct{}{
	TypeInteger:      {},
	TypeReal:         {},
	TypeChar:         {},
	TypeString:       {},
	TypeDate:         {},
	TypeDateInterval: {},
}
