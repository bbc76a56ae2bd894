// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"sort"
)

// Database is a named collection of tables. It is the unit of snapshot
// persistence: one database serializes to one JSON file and one remote
// object, both named after the database.
type Database struct {
	Name   string
	Tables map[string]*Table
}

// NewDatabase returns an empty database with the given name.
func NewDatabase(name string) *Database {
	return &Database{
		Name:   name,
		Tables: make(map[string]*Table),
	}
}

// databaseJSON is the wire/snapshot representation of a [Database].
// Tables are serialized as a name-sorted list so that identical database
// contents always produce identical snapshot bytes.
type databaseJSON struct {
	Name   string   `json:"name"`
	Tables []*Table `json:"tables"`
}

func (d *Database) MarshalJSON() ([]byte, error) {
	out := databaseJSON{Name: d.Name, Tables: make([]*Table, 0, len(d.Tables))}
	for _, t := range d.Tables {
		out.Tables = append(out.Tables, t)
	}
	sort.Slice(out.Tables, func(i, j int) bool { return out.Tables[i].Name < out.Tables[j].Name })

	return json.Marshal(out)
}

func (d *Database) UnmarshalJSON(data []byte) error {
	var in databaseJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	d.Name = in.Name
	d.Tables = make(map[string]*Table, len(in.Tables))
	for _, t := range in.Tables {
		d.Tables[t.Name] = t
	}

	return nil
}
