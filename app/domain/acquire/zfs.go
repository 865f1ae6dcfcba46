// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ZfsProperties lists the dataset properties read for every zone's zvol or
// filesystem dataset (spec §4.3).
var ZfsProperties = []string{
	"available", "used", "logicalused", "recordsize", "quota",
	"compressratio", "refcompressratio", "referenced",
	"logicalreferenced", "usedbydataset", "usedbysnapshots",
}

// ZfsUsage is the normalized, numeric form of one dataset's usage
// properties.
type ZfsUsage map[string]float64

// ZfsUsageReader reads the fixed set of usage properties for a zone's
// dataset.
type ZfsUsageReader struct {
	Getter ZfsGetter
}

// NewZfsUsageReader constructs a ZfsUsageReader over the given collaborator.
func NewZfsUsageReader(getter ZfsGetter) *ZfsUsageReader {
	return &ZfsUsageReader{Getter: getter}
}

// Read fetches and numerically coerces the usage properties of zones/<uuid>.
// Compression ratios carry a trailing "x" (e.g. "1.34x") which is stripped
// before parsing.
func (r *ZfsUsageReader) Read(ctx context.Context, uuid string) (ZfsUsage, error) {
	dataset := "zones/" + uuid
	raw, err := r.Getter.ZfsGet(ctx, dataset, ZfsProperties)
	if err != nil {
		return nil, err
	}

	usage := make(ZfsUsage, len(ZfsProperties))
	for _, prop := range ZfsProperties {
		p, ok := raw[prop]
		if !ok {
			continue
		}
		s := strings.TrimSuffix(p.Value, "x")
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("acquire: zfs property %q value %q is not numeric: %w", prop, p.Value, err)
		}
		usage[prop] = n
	}
	return usage, nil
}
