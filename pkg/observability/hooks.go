// Package observability lets the binaries observe pipeline, cache and HTTP
// events without the libraries importing a metrics or tracing backend.
//
// Libraries emit through the registered hooks, which default to no-ops:
//
//	start := time.Now()
//	observability.Pipeline().OnLayoutStart(ctx, zone, strategy)
//	l, err := rack.GenerateContext(ctx, area, c)
//	observability.Pipeline().OnLayoutComplete(ctx, zone, strategy, len(l.Footprints), time.Since(start), err)
//
// main registers real implementations once at startup. The CLI registers
// debug logging hooks when run with --verbose.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the layout pipeline.
type PipelineHooks interface {
	OnLayoutStart(ctx context.Context, zone, strategy string)
	OnLayoutComplete(ctx context.Context, zone, strategy string, shelves int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is "plan" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	// OnRequest fires before routing.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse fires after the handler. route is the matched pattern,
	// such as /v1/plans/{id}, so it is safe to use as a metric label.
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLayoutStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds one registered hook set. An empty slot yields noop.
type slot[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func (s *slot[T]) get() T {
	if p := s.p.Load(); p != nil {
		return *p
	}
	return s.noop
}

func (s *slot[T]) set(h T) { s.p.Store(&h) }

var (
	pipelineSlot = &slot[PipelineHooks]{noop: NoopPipelineHooks{}}
	cacheSlot    = &slot[CacheHooks]{noop: NoopCacheHooks{}}
	serverSlot   = &slot[ServerHooks]{noop: NoopServerHooks{}}
)

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.set(h)
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.set(h)
	}
}

// SetServerHooks registers server hooks. A nil h is ignored.
func SetServerHooks(h ServerHooks) {
	if h != nil {
		serverSlot.set(h)
	}
}

func Pipeline() PipelineHooks { return pipelineSlot.get() }
func Cache() CacheHooks       { return cacheSlot.get() }
func Server() ServerHooks     { return serverSlot.get() }

// Reset restores the no-op hooks.
func Reset() {
	pipelineSlot.p.Store(nil)
	cacheSlot.p.Store(nil)
	serverSlot.p.Store(nil)
}
