// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package types

import "time"

type TimeProvider interface {
	// GetCurrentTime returns the current time.
	GetCurrentTime() time.Time
}
