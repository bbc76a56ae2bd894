// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Column describes a single typed column of a [Table].
//
// Type must be one of the supported type names (see [SupportedTypes]):
// integer, real, char, string, date, dateInvl.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
