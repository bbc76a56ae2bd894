// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Row holds one record of a [Table] as a column-name → value mapping.
// Values are stored in their normalized form produced by the validators
// package (e.g. dates as "YYYY-MM-DD" strings, dateInvl as {start,end} maps).
type Row struct {
	Values map[string]any `json:"values"`
}
