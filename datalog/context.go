// Copyright 2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package datalog provides the core types shared by the compiler pipeline:
// the compilation context, the translation unit with its analysis cache, the
// diagnostic report and the textual tree printer used by the emitted plan.
package datalog

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// Context carries the request-scoped state of one compilation through every
// pass: cancellation, tracing and logging.
type Context struct {
	context.Context
	tracer opentracing.Tracer
	logger *logrus.Entry
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithTracer returns an option to set the tracer of the context.
func WithTracer(t opentracing.Tracer) ContextOption {
	return func(ctx *Context) {
		ctx.tracer = t
	}
}

// WithLogger returns an option to set the logger of the context.
func WithLogger(l *logrus.Entry) ContextOption {
	return func(ctx *Context) {
		ctx.logger = l
	}
}

// NewContext returns a compilation context derived from the given standard
// context.
func NewContext(ctx context.Context, opts ...ContextOption) *Context {
	c := &Context{
		Context: ctx,
		tracer:  opentracing.NoopTracer{},
		logger:  logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewEmptyContext returns a default context, suitable for tests.
func NewEmptyContext() *Context {
	return NewContext(context.TODO())
}

// Span creates a child span for the given operation and returns it along
// with a context containing it.
func (c *Context) Span(opName string, opts ...opentracing.StartSpanOption) (opentracing.Span, *Context) {
	parent := opentracing.SpanFromContext(c.Context)
	if parent != nil {
		opts = append(opts, opentracing.ChildOf(parent.Context()))
	}
	span := c.tracer.StartSpan(opName, opts...)
	ctx := opentracing.ContextWithSpan(c.Context, span)
	return span, &Context{Context: ctx, tracer: c.tracer, logger: c.logger}
}

// Logger returns the logger of the context.
func (c *Context) Logger() *logrus.Entry {
	return c.logger
}
