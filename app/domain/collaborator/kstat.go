// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package collaborator provides the concrete, swappable implementations of
// the collaborator interfaces the core consumes (spec §6): shelling out to
// the host's kstat facility and the zoneadm/zfs/zpool/ntpq/vmadm/sysinfo
// command-line utilities, and scraping sidecar HTTP endpoints. None of
// these types is exercised by the core's own tests; the core depends only
// on the interfaces in app/domain/kstat, app/domain/acquire, and
// app/domain/zone.
package collaborator

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
)

// Execer runs an external command and returns its stdout; it is the seam
// every collaborator in this package shells out through, so tests can
// substitute a fake without invoking a real binary.
type Execer func(ctx context.Context, name string, args ...string) (stdout string, err error)

// ExecCommand is the default Execer, invoking os/exec.
func ExecCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%s: %w (stderr: %s)", name, err, strings.TrimSpace(string(ee.Stderr)))
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return string(out), nil
}

// KstatReader shells out to kstat(1M) -p, the teacher-idiom "shell out to
// a system utility" collaborator (spec §4.2, §6).
type KstatReader struct {
	Exec Execer
}

// NewKstatReader constructs a KstatReader using os/exec.
func NewKstatReader() *KstatReader {
	return &KstatReader{Exec: ExecCommand}
}

// Read invokes `kstat -p` filtered by q's class/module/name/instance and
// parses its "module:instance:name:statistic\tvalue" lines into Records,
// grouping every statistic belonging to the same (module, instance, name)
// triple.
func (k *KstatReader) Read(ctx context.Context, q kstat.Query) ([]kstat.Record, error) {
	args := []string{"-p"}
	if q.Class != "" {
		args = append(args, "-c", q.Class)
	}
	if q.Module != "" {
		args = append(args, "-m", q.Module)
	}
	if q.Instance != "" {
		args = append(args, "-i", q.Instance)
	}
	if q.Name != "" {
		args = append(args, "-n", q.Name)
	}

	out, err := k.Exec(ctx, "kstat", args...)
	if err != nil {
		return nil, errors.Wrap(err, "kstat: exec")
	}
	return parseKstatP(out)
}

type recordKey struct {
	module, name string
	instance     int
}

func parseKstatP(out string) ([]kstat.Record, error) {
	byKey := make(map[recordKey]*kstat.Record)
	var order []recordKey

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			continue
		}
		keyPart, valuePart := line[:tab], strings.TrimSpace(line[tab+1:])

		fields := strings.SplitN(keyPart, ":", 4)
		if len(fields) != 4 {
			continue
		}
		module, instanceStr, name, stat := fields[0], fields[1], fields[2], fields[3]
		instance, err := strconv.Atoi(instanceStr)
		if err != nil {
			continue
		}

		rk := recordKey{module: module, instance: instance, name: name}
		rec, ok := byKey[rk]
		if !ok {
			rec = &kstat.Record{Module: module, Instance: instance, Name: name, Data: map[string]any{}}
			byKey[rk] = rec
			order = append(order, rk)
		}

		value := parseKstatValue(valuePart)
		switch stat {
		case "snaptime":
			rec.Snaptime = toInt64(value)
		case "crtime":
			rec.Crtime = toInt64(value)
		default:
			rec.Data[stat] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "kstat: scan output")
	}

	records := make([]kstat.Record, 0, len(order))
	for _, rk := range order {
		records = append(records, *byKey[rk])
	}
	return records, nil
}

// parseKstatValue mirrors kstat(1M)'s own coercion: a value that parses as
// an integer or float is numeric, everything else (including "...omitted
// big value...", crtime strings, and zonename fields) is kept as a string.
func parseKstatValue(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	default:
		return 0
	}
}
