// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package parser converts plugin and sidecar output into metric tuples,
// via the tab-separated native format (spec §4.4) or the Prometheus text
// exposition format.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/joyent/triton-cmon-agent/app/domain/metric"
)

var braceGroup = regexp.MustCompile(`(\{[^}]*\})$`)

var nativeTypes = map[string]metric.Type{
	"counter": metric.TypeCounter,
	"gauge":   metric.TypeGauge,
	"option":  metric.TypeOption,
}

// ParseNative parses the tab-separated native plugin output format. Every
// non-option metric name is prefixed with prefix (typically
// "plugin_<name>_"). Returns a Malformed-kind error on the first rejected
// line.
func ParseNative(input, prefix string) ([]metric.Tuple, error) {
	var tuples []metric.Tuple

	for lineNo, line := range strings.Split(input, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, malformed(lineNo, fmt.Errorf("expected at least 3 tab-separated fields, got %d", len(fields)))
		}

		name, typeStr, value := fields[0], fields[1], fields[2]

		var label string
		if m := braceGroup.FindString(name); m != "" {
			label = m
			name = strings.TrimSuffix(name, m)
		}

		help := name
		if len(fields) >= 4 {
			help = fields[3]
		}

		mtype, ok := nativeTypes[typeStr]
		if !ok {
			return nil, malformed(lineNo, fmt.Errorf("unknown metric type %q", typeStr))
		}

		if mtype != metric.TypeOption {
			name = prefix + name
		}
		if !metric.ValidKey(name) {
			return nil, malformed(lineNo, fmt.Errorf("invalid metric name %q", name))
		}

		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return nil, malformed(lineNo, fmt.Errorf("value %q for %q is not numeric", value, name))
		}

		tuples = append(tuples, metric.Tuple{
			Key: name, Type: mtype, Value: value, Help: help, Label: label,
			Format: metric.FormatNative,
		})
	}

	return tuples, nil
}

func malformed(lineNo int, err error) error {
	return metric.NewError(metric.KindMalformed, fmt.Errorf("native parser: line %d: %w", lineNo+1, err))
}
