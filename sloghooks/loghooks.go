package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/histcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	MissEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	missCtr atomic.Uint64
}

var _ histcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Flushed() {
	if h.l == nil {
		return
	}
	h.l.Info("histcache.flushed")
}

func (h *Hooks) Miss(key string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("histcache.miss", "key", h.redact(key))
}

func (h *Hooks) InstrumentFailed(op, phase string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("histcache.instrument_failed",
		"op", op,
		"phase", phase,
		"err", err)
}

func (h *Hooks) HistoryMisaligned(op string, inputs, outputs int) {
	if h.l == nil {
		return
	}
	h.l.Warn("histcache.history_misaligned",
		"op", op,
		"inputs", inputs,
		"outputs", outputs)
}
