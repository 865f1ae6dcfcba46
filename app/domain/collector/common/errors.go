// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package common

import "fmt"

// errNoRecords builds the error wrapped into a NotFound-kind CollectorError
// when a kstat query scoped to a zone's kernel instance returns nothing,
// which happens for a zone that has just stopped or not yet started its
// kernel-visible accounting.
func errNoRecords(kstatName, zonename string) error {
	return fmt.Errorf("common: no %s kstat records for zone %q", kstatName, zonename)
}
