package acquisition

// Config holds configuration for the acquisition pipeline.
type Config struct {
	// DebounceMs is the fixed delay after the first event in a burst before
	// the burst is flushed as one batch.
	DebounceMs int `mapstructure:"debounce_ms" default:"300"`
}
