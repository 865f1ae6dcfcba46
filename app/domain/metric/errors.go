// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metric

import (
	"errors"
	"fmt"
)

// Kind enumerates the error contracts collectors and the orchestrator use to
// decide whether a failure aborts a request or is merely reported as an
// "unavailable" metric family.
type Kind int

const (
	// KindNotFound means the target zone does not exist, is stopped, or its
	// data is presently empty and the collector did not set EmptyOK.
	KindNotFound Kind = iota
	// KindNotAvailable means an upstream dependency (plugin, NTP daemon,
	// sidecar) is down or over capacity.
	KindNotAvailable
	// KindMalformed means a parser rejected a metric line.
	KindMalformed
	// KindFatal means an invariant was violated (duplicate labeled metric
	// key, corrupt kstat data, missing projection key).
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindNotAvailable:
		return "not_available"
	case KindMalformed:
		return "malformed"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// CollectorError wraps an underlying error with the Kind that determines how
// the orchestrator and collector registry must react to it.
type CollectorError struct {
	Kind Kind
	Err  error
}

func (e *CollectorError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *CollectorError) Unwrap() error { return e.Err }

// NewError builds a CollectorError of the given kind wrapping err.
func NewError(kind Kind, err error) *CollectorError {
	return &CollectorError{Kind: kind, Err: err}
}

// IsKind reports whether err is, or wraps, a *CollectorError of the given kind.
func IsKind(err error, kind Kind) bool {
	var ce *CollectorError
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}
