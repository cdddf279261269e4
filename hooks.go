package histcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
type Hooks interface {
	// The provider was flushed while bringing the cache up.
	Flushed()

	// Get found no value under key.
	Miss(key string)

	// A counter or history write around op failed.
	// phase ∈ {"before", "after"}
	InstrumentFailed(op, phase string, err error)

	// Replay found different input and output list lengths for op.
	HistoryMisaligned(op string, inputs, outputs int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Flushed()                               {}
func (NopHooks) Miss(string)                            {}
func (NopHooks) InstrumentFailed(string, string, error) {}
func (NopHooks) HistoryMisaligned(string, int, int)     {}
