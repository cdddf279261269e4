package zap

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/histcache"
)

func TestLoggerForwardsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := New(zap.New(core))

	l.Error("instrumentation write failed", histcache.Fields{"op": "Cache.store", "err": errors.New("boom")})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries=%d want 1", len(entries))
	}
	e := entries[0]
	if e.LoggerName != "histcache" || e.Message != "instrumentation write failed" {
		t.Fatalf("entry=%+v", e)
	}
	ctx := e.ContextMap()
	if ctx["op"] != "Cache.store" || ctx["err"] != "boom" {
		t.Fatalf("context=%v", ctx)
	}
}
