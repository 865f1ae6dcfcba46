// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package kstat exposes the host's kernel statistics facility as a query
// returning a sequence of records, and projects matching records into
// metric tuples via a declarative map (spec §4.2). The concrete read from
// the kernel is a collaborator (Reader); this package owns only the query
// contract and the projection algorithm.
package kstat

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/joyent/triton-cmon-agent/app/domain/metric"
)

// Query identifies the kstats to read. Name and Instance may contain the
// literal substring "<instanceId>", substituted by the caller before the
// query reaches the Reader when a per-container query is required.
type Query struct {
	Class    string
	Module   string
	Name     string // optional
	Instance string // optional
}

// WithInstance substitutes every "<instanceId>" placeholder in Name and
// Instance with id.
func (q Query) WithInstance(id uint64) Query {
	placeholder := "<instanceId>"
	id_ := fmt.Sprintf("%d", id)
	q.Name = strings.ReplaceAll(q.Name, placeholder, id_)
	q.Instance = strings.ReplaceAll(q.Instance, placeholder, id_)
	return q
}

// Record is one kstat reading.
type Record struct {
	Class    string
	Module   string
	Name     string
	Instance int
	Snaptime int64
	Crtime   int64
	Data     map[string]any // numeric (float64/int64) or string values
}

// Reader is the collaborator interface the adapter consumes (spec §6); a
// concrete implementation shells out to, or cgo-binds, the host's kstat
// facility.
type Reader interface {
	Read(ctx context.Context, q Query) ([]Record, error)
}

// Modifier transforms a raw kstat value before it becomes a metric value,
// e.g. nanoseconds to seconds, or fixed-point load-average scaling.
type Modifier func(v any) (string, error)

// Field maps one kstat datum to one metric tuple.
type Field struct {
	KstatKey string
	Key      string
	Type     metric.Type
	Help     string
	Modifier Modifier // optional; Identity is used when nil
}

// Labeler derives a label string (already formatted as `{k="v"}`) from a
// record, for projections that return more than one record per query.
type Labeler func(Record) (string, error)

// Identity renders v as its default string form with no transformation.
func Identity(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return formatFloat(t), nil
	case int64:
		return fmt.Sprintf("%d", t), nil
	case uint64:
		return fmt.Sprintf("%d", t), nil
	case int:
		return fmt.Sprintf("%d", t), nil
	default:
		return fmt.Sprintf("%v", t), nil
	}
}

func formatFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", f), "0"), ".")
}

// Project applies fields to every record (sorted by Name for determinism)
// and returns the resulting metric tuples. When records contains more than
// one entry, labeler must be non-nil and must yield a unique label per
// record for every field's Key; a collision or a missing kstat key aborts
// the whole projection with a Fatal-kind error, per spec §4.2.
func Project(records []Record, fields []Field, labeler Labeler) ([]metric.Tuple, error) {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	seen := make(map[string]struct{}, len(sorted)*len(fields))
	tuples := make([]metric.Tuple, 0, len(sorted)*len(fields))

	for _, rec := range sorted {
		var label string
		if len(records) > 1 {
			if labeler == nil {
				return nil, metric.NewError(metric.KindFatal,
					fmt.Errorf("kstat: multiple records require a labeler (record %q)", rec.Name))
			}
			var err error
			label, err = labeler(rec)
			if err != nil {
				return nil, metric.NewError(metric.KindFatal, err)
			}
		}

		for _, f := range fields {
			raw, ok := rec.Data[f.KstatKey]
			if !ok {
				return nil, metric.NewError(metric.KindFatal,
					fmt.Errorf("kstat: record %q missing key %q for metric %q", rec.Name, f.KstatKey, f.Key))
			}

			modifier := f.Modifier
			if modifier == nil {
				modifier = Identity
			}
			value, err := modifier(raw)
			if err != nil {
				return nil, metric.NewError(metric.KindFatal, err)
			}

			dedupeKey := f.Key + label
			if _, dup := seen[dedupeKey]; dup {
				return nil, metric.NewError(metric.KindFatal,
					fmt.Errorf("kstat: duplicate (key,label) pair %q%s", f.Key, label))
			}
			seen[dedupeKey] = struct{}{}

			tuples = append(tuples, metric.Tuple{
				Key:   f.Key,
				Type:  f.Type,
				Value: value,
				Help:  f.Help,
				Label: label,
			})
		}
	}

	return tuples, nil
}

// Modifiers usable by the §4.3 acquisition modules and built-in collectors.

// NanosToSeconds converts a nanosecond count (int64/uint64/float64) to a
// decimal seconds string.
func NanosToSeconds(v any) (string, error) {
	var ns float64
	switch t := v.(type) {
	case int64:
		ns = float64(t)
	case uint64:
		ns = float64(t)
	case float64:
		ns = t
	default:
		return "", fmt.Errorf("kstat: NanosToSeconds: unsupported type %T", v)
	}
	return formatFloat(ns / 1e9), nil
}

// LoadAverageFixedPoint converts the kernel's 8-bit fixed-point
// load-average representation (scaled by 256) to a decimal string.
func LoadAverageFixedPoint(v any) (string, error) {
	var raw float64
	switch t := v.(type) {
	case int64:
		raw = float64(t)
	case uint64:
		raw = float64(t)
	case float64:
		raw = t
	default:
		return "", fmt.Errorf("kstat: LoadAverageFixedPoint: unsupported type %T", v)
	}
	return formatFloat(raw / 256.0), nil
}
