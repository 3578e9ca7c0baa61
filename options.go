//go:build linux || darwin

// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventmux

import (
	"fmt"

	"github.com/joeycumines/logiface"
)

// DefaultCapacity is the number of pending events a [Queue] holds before
// [Queue.Put] blocks, unless overridden by [WithCapacity].
const DefaultCapacity = 1024

// queueOptions holds configuration options for Queue creation.
type queueOptions struct {
	logger   *logiface.Logger[logiface.Event]
	hooks    *testHooks
	capacity int
}

// Option configures a Queue instance.
type Option interface {
	applyQueue(*queueOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyQueueFunc func(*queueOptions) error
}

func (o *optionImpl) applyQueue(opts *queueOptions) error {
	return o.applyQueueFunc(opts)
}

// WithCapacity sets the maximum number of pending events before producers
// block. The default is [DefaultCapacity].
func WithCapacity(capacity int) Option {
	return &optionImpl{func(opts *queueOptions) error {
		if capacity <= 0 {
			return fmt.Errorf(`eventmux: capacity must be positive, got %d`, capacity)
		}
		opts.capacity = capacity
		return nil
	}}
}

// WithLogger sets the logger used for diagnostics such as dropped events.
// A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *queueOptions) error {
		opts.logger = logger
		return nil
	}}
}

// withHooks wires test instrumentation into the queue.
func withHooks(hooks *testHooks) Option {
	return &optionImpl{func(opts *queueOptions) error {
		opts.hooks = hooks
		return nil
	}}
}

// resolveQueueOptions applies Option instances to queueOptions.
func resolveQueueOptions(opts []Option) (*queueOptions, error) {
	cfg := &queueOptions{
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyQueue(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
