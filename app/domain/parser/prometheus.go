// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joyent/triton-cmon-agent/app/domain/metric"
)

var promTypes = map[string]metric.Type{
	"counter":   metric.TypeCounter,
	"gauge":     metric.TypeGauge,
	"histogram": metric.TypeHistogram,
}

type promFamily struct {
	name    string
	typ     string
	sawType bool
	help    string
	sawHelp bool
}

// ParsePrometheus parses the subset of the Prometheus text exposition
// format a sidecar or plugin may emit in Prometheus mode (spec §4.4): an
// optional run of leading "# OPTION name value" lines (only "ttl" is
// recognized), followed by HELP/TYPE-delimited metric families. Unlike the
// standard exposition format, a value line with no preceding "# TYPE" line
// for its family is rejected rather than defaulted to untyped: this agent
// treats that as a malformed plugin rather than a valid but untyped
// series, since every built-in and plugin metric is expected to declare
// its type.
func ParsePrometheus(input, prefix string) ([]metric.Tuple, error) {
	var tuples []metric.Tuple
	var cur *promFamily
	seenAnyMetric := false

	for lineNo, raw := range strings.Split(input, "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, "# OPTION ") {
			if seenAnyMetric {
				return nil, promMalformed(lineNo, fmt.Errorf("OPTION line after metric data"))
			}
			parts := strings.Fields(line)
			if len(parts) != 4 {
				return nil, promMalformed(lineNo, fmt.Errorf("malformed OPTION line %q", line))
			}
			if parts[2] != metric.OptionTTLKey {
				return nil, promMalformed(lineNo, fmt.Errorf("unrecognized option %q", parts[2]))
			}
			if _, err := strconv.Atoi(parts[3]); err != nil {
				return nil, promMalformed(lineNo, fmt.Errorf("option ttl value %q is not an integer", parts[3]))
			}
			tuples = append(tuples, metric.Tuple{
				Key: metric.OptionTTLKey, Type: metric.TypeOption, Value: parts[3],
				Format: metric.FormatPrometheus,
			})
			continue
		}

		if strings.HasPrefix(line, "# HELP ") || strings.HasPrefix(line, "# TYPE ") {
			seenAnyMetric = true
			parts := strings.SplitN(line, " ", 4)
			if len(parts) < 3 {
				return nil, promMalformed(lineNo, fmt.Errorf("malformed metadata line %q", line))
			}
			name := parts[2]
			if cur == nil || cur.name != name {
				cur = &promFamily{name: name}
			}
			if strings.HasPrefix(line, "# HELP ") {
				if len(parts) == 4 {
					cur.help = parts[3]
				}
				cur.sawHelp = true
			} else {
				if len(parts) != 4 {
					return nil, promMalformed(lineNo, fmt.Errorf("malformed TYPE line %q", line))
				}
				if _, ok := promTypes[parts[3]]; !ok {
					return nil, promMalformed(lineNo, fmt.Errorf("unknown metric type %q", parts[3]))
				}
				cur.typ = parts[3]
				cur.sawType = true
			}
			continue
		}

		seenAnyMetric = true
		if strings.HasPrefix(line, "#") {
			continue // unrecognized comment line, ignored
		}
		if cur == nil || !cur.sawType {
			return nil, promMalformed(lineNo, fmt.Errorf("value line %q with no preceding TYPE", line))
		}

		spaceIdx := strings.LastIndex(line, " ")
		if spaceIdx < 0 {
			return nil, promMalformed(lineNo, fmt.Errorf("malformed value line %q", line))
		}
		nameAndLabel, value := line[:spaceIdx], line[spaceIdx+1:]
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return nil, promMalformed(lineNo, fmt.Errorf("value %q is not numeric", value))
		}

		var label string
		baseName := nameAndLabel
		if m := braceGroup.FindString(nameAndLabel); m != "" {
			label = m
			baseName = strings.TrimSuffix(nameAndLabel, m)
		}
		if baseName != cur.name {
			return nil, promMalformed(lineNo, fmt.Errorf("value line name %q does not match family %q", baseName, cur.name))
		}

		fullKey := prefix + baseName
		if !metric.ValidKey(fullKey) {
			return nil, promMalformed(lineNo, fmt.Errorf("invalid metric name %q", fullKey))
		}
		help := cur.help
		if !cur.sawHelp {
			help = baseName
		}

		tuples = append(tuples, metric.Tuple{
			Key: fullKey, Type: promTypes[cur.typ], Value: value, Help: help, Label: label,
			Format: metric.FormatPrometheus,
		})
	}

	return tuples, nil
}

func promMalformed(lineNo int, err error) error {
	return metric.NewError(metric.KindMalformed, fmt.Errorf("prometheus parser: line %d: %w", lineNo+1, err))
}
