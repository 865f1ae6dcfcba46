// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package utils contains utility functions and types used throughout the application.
package utils

import (
	"time"

	"github.com/joyent/triton-cmon-agent/app/types"
)

var _ types.TimeProvider = (*Clock)(nil)

type Clock struct{}

func (c *Clock) GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// FormatForStorage formats a time.Time value in the layout time.Time.String
// uses (date, space, time with fractional seconds, numeric offset, zone name)
func FormatForStorage(t time.Time) string {
	return t.Format("2006-01-02 15:04:05.999999999 -0700 MST")
}
