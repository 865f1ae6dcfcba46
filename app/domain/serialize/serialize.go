// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package serialize converts an ordered sequence of metric tuples into
// Prometheus text (spec §4.5).
package serialize

import (
	"fmt"
	"strings"

	"github.com/joyent/triton-cmon-agent/app/domain/metric"
)

// Serialize renders tuples as Prometheus text. For each key, "# HELP" and
// "# TYPE" lines are emitted exactly once, taken from the first tuple with
// that key; later tuples for the same key (typically carrying a different
// label) contribute only a value line. Non-empty output ends in a newline;
// no value lines yields the empty string. A duplicate (key,label) pair in
// tuples is a Fatal-kind error: the same series was emitted twice, which
// is a programmer error, not a transient condition.
func Serialize(tuples []metric.Tuple) (string, error) {
	var b strings.Builder
	declared := make(map[string]bool, len(tuples))
	seenSeries := make(map[string]bool, len(tuples))

	for _, t := range tuples {
		if t.Type == metric.TypeOption {
			continue
		}
		if !metric.ValidKey(t.Key) {
			return "", metric.NewError(metric.KindFatal, fmt.Errorf("serialize: invalid metric name %q", t.Key))
		}

		seriesKey := t.Key + t.Label
		if seenSeries[seriesKey] {
			return "", metric.NewError(metric.KindFatal,
				fmt.Errorf("serialize: duplicate series %s%s", t.Key, t.Label))
		}
		seenSeries[seriesKey] = true

		if !declared[t.Key] {
			fmt.Fprintf(&b, "# HELP %s %s\n", t.Key, t.Help)
			fmt.Fprintf(&b, "# TYPE %s %s\n", t.Key, t.Type)
			declared[t.Key] = true
		}

		fmt.Fprintf(&b, "%s%s %s\n", t.Key, t.Label, t.Value)
	}

	return b.String(), nil
}
