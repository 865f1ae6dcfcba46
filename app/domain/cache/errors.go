// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cache

import "errors"

// ErrInvalidTTL is returned by Insert when ttlSeconds is not positive.
var ErrInvalidTTL = errors.New("cache: ttl must be a positive number of seconds")
