// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Table is an ordered collection of typed columns and the rows stored
// under that schema. Tables are dumb containers: row validation and the
// union operation live in the service layer.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// SchemaEquals reports whether both tables have identical column names and
// types in identical order. Two tables must satisfy this before a union.
func (t *Table) SchemaEquals(other *Table) bool {
	if len(t.Columns) != len(other.Columns) {
		return false
	}
	for i, c := range t.Columns {
		if other.Columns[i].Name != c.Name || other.Columns[i].Type != c.Type {
			return false
		}
	}
	return true
}

// AppendRow stores already-validated values as a new row.
func (t *Table) AppendRow(values map[string]any) {
	t.Rows = append(t.Rows, Row{Values: values})
}
