/*
Package tracing provides lightweight request tracing.

# Overview

Each HTTP request gets a span. Trace and span IDs are ULIDs from the shared
id package, propagated through X-Trace-ID / X-Span-ID headers and the
request context. The dispatcher opens a child span per command, so a slow
shell fallback or sysinfo sample shows up under the request that caused it.

Finished spans are queued on a buffered channel and logged by a collector
goroutine; a full buffer drops spans instead of blocking requests.

# Usage

	tracer := tracing.New("webterm", logger)
	defer tracer.Close()
	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "command.dispatch")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing
