// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators normalizes and validates row values against a table
// schema. Values arrive as loosely typed JSON (float64 numbers, maps,
// slices) and leave in the canonical form the snapshot format stores:
// int64 integers, float64 reals, ISO date strings, {start,end} interval maps.
package validators

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/go-table-keeper/models"
)

// RowValidator validates row values against a table schema.
type RowValidator struct{}

// NewRowValidator constructs a [RowValidator]. The validator is stateless,
// so a single instance can be shared by all services.
func NewRowValidator() *RowValidator {
	return &RowValidator{}
}

// ValidateSchema checks that every column uses a supported type and that no
// column name repeats.
func (v *RowValidator) ValidateSchema(schema []models.Column) error {
	seen := make(map[string]struct{}, len(schema))
	for _, col := range schema {
		if _, ok := models.SupportedTypes[col.Type]; !ok {
			return fmt.Errorf("%w: %q", ErrUnsupportedType, col.Type)
		}
		if _, dup := seen[col.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
		}
		seen[col.Name] = struct{}{}
	}
	return nil
}

// ValidateRow normalizes values against schema. Every schema column must be
// present and no extra keys are allowed. The returned map contains only
// normalized values and is safe to store in a [models.Row].
func (v *RowValidator) ValidateRow(schema []models.Column, values map[string]any) (map[string]any, error) {
	allowed := make(map[string]struct{}, len(schema))
	for _, col := range schema {
		allowed[col.Name] = struct{}{}
	}
	for key := range values {
		if _, ok := allowed[key]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedColumns, key)
		}
	}

	normalized := make(map[string]any, len(schema))
	for _, col := range schema {
		value, ok := values[col.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col.Name)
		}

		norm, err := v.Normalize(value, col.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		normalized[col.Name] = norm
	}

	return normalized, nil
}

// Normalize converts a single value to the canonical representation of
// typeName. Booleans are rejected for numeric types: JSON true/false must
// not silently become 1/0.
func (v *RowValidator) Normalize(value any, typeName string) (any, error) {
	switch typeName {
	case models.TypeInteger:
		return normalizeInteger(value)
	case models.TypeReal:
		return normalizeReal(value)
	case models.TypeChar:
		s, ok := value.(string)
		if !ok || utf8.RuneCountInString(s) != 1 {
			return nil, ErrInvalidChar
		}
		return s, nil
	case models.TypeString:
		return normalizeString(value)
	case models.TypeDate:
		return parseDate(value)
	case models.TypeDateInterval:
		return normalizeInterval(value)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, typeName)
	}
}

func normalizeInteger(value any) (int64, error) {
	switch n := value.(type) {
	case bool:
		return 0, ErrInvalidInteger
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		// fractional input truncates toward zero, the same way int()
		// treats a float
		return int64(math.Trunc(n)), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, ErrInvalidInteger
		}
		return int64(math.Trunc(f)), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, ErrInvalidInteger
		}
		return i, nil
	default:
		return 0, ErrInvalidInteger
	}
}

func normalizeReal(value any) (float64, error) {
	switch n := value.(type) {
	case bool:
		return 0, ErrInvalidReal
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, ErrInvalidReal
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, ErrInvalidReal
		}
		return f, nil
	default:
		return 0, ErrInvalidReal
	}
}

func normalizeString(value any) (string, error) {
	switch s := value.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case nil:
		return "", ErrInvalidString
	default:
		return fmt.Sprintf("%v", s), nil
	}
}

// parseDate accepts a "YYYY-MM-DD" string (or time.Time) and returns the
// ISO form.
func parseDate(value any) (string, error) {
	switch d := value.(type) {
	case time.Time:
		return d.Format(time.DateOnly), nil
	case string:
		parsed, err := time.Parse(time.DateOnly, d)
		if err != nil {
			return "", ErrInvalidDate
		}
		return parsed.Format(time.DateOnly), nil
	default:
		return "", ErrInvalidDate
	}
}

// normalizeInterval accepts {start,end} maps, two-element slices and
// "start..end" strings, and returns a map with both ends in ISO form.
func normalizeInterval(value any) (map[string]any, error) {
	var rawStart, rawEnd any

	switch iv := value.(type) {
	case map[string]any:
		var okStart, okEnd bool
		rawStart, okStart = iv["start"]
		rawEnd, okEnd = iv["end"]
		if !okStart || !okEnd {
			return nil, ErrInvalidDateInterval
		}
	case []any:
		if len(iv) != 2 {
			return nil, ErrInvalidDateInterval
		}
		rawStart, rawEnd = iv[0], iv[1]
	case string:
		start, end, found := strings.Cut(iv, "..")
		if !found {
			return nil, ErrInvalidDateInterval
		}
		rawStart, rawEnd = start, end
	default:
		return nil, ErrInvalidDateInterval
	}

	start, err := parseDate(rawStart)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(rawEnd)
	if err != nil {
		return nil, err
	}
	if start > end {
		return nil, ErrIntervalOrder
	}

	return map[string]any{"start": start, "end": end}, nil
}
