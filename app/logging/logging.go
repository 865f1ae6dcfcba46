// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package logging constructs the zerolog.Logger the rest of the agent
// threads through context.Context, the teacher's app/logging convention:
// a functional-options constructor plus a context carrying the logger, so
// request handlers can write log.Ctx(ctx) the way
// app/handlers/metrics_api.go does.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Option configures a Logger at construction time.
type Option func(*options)

type options struct {
	level zerolog.Level
	sink  io.Writer
	attrs func(zerolog.Context) zerolog.Context
}

// WithLevel parses level (e.g. "debug", "info", "error") and applies it to
// the constructed logger. An unrecognized level falls back to info.
func WithLevel(level string) Option {
	return func(o *options) {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			parsed = zerolog.InfoLevel
		}
		o.level = parsed
	}
}

// WithSink overrides the default os.Stderr output.
func WithSink(w io.Writer) Option {
	return func(o *options) { o.sink = w }
}

// WithAttrs appends fixed fields (e.g. component name, host) to every
// record the logger emits.
func WithAttrs(fn func(zerolog.Context) zerolog.Context) Option {
	return func(o *options) { o.attrs = fn }
}

// NewLogger builds a zerolog.Logger per opts. The zero-option logger logs
// at info level to stderr with a Unix-seconds timestamp.
func NewLogger(opts ...Option) (zerolog.Logger, error) {
	o := &options{level: zerolog.InfoLevel, sink: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	ctx := zerolog.New(o.sink).With().Timestamp()
	if o.attrs != nil {
		ctx = o.attrs(ctx)
	}
	logger := ctx.Logger().Level(o.level)
	return logger, nil
}
