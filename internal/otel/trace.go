package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled is read on every Update; atomic so tests can flip it.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("DUO_TRACE") != "")
}

// TraceEnabled reports whether DUO_TRACE is set. When false, callers skip
// building trace events entirely.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
