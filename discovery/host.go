package discovery

import "sync"

// ReadyState mirrors a document's loading state.
type ReadyState string

const (
	StateLoading     ReadyState = "loading"
	StateInteractive ReadyState = "interactive"
	StateComplete    ReadyState = "complete"
)

// Host is the environment whose completion gates discovery.
type Host interface {
	ReadyState() ReadyState
}

// StaticHost always reports the same state.
type StaticHost ReadyState

func (h StaticHost) ReadyState() ReadyState {
	return ReadyState(h)
}

// FlagHost is a settable host, safe for concurrent use.
type FlagHost struct {
	mu    sync.RWMutex
	state ReadyState
}

func NewFlagHost(state ReadyState) *FlagHost {
	return &FlagHost{state: state}
}

func (h *FlagHost) ReadyState() ReadyState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state == "" {
		return StateLoading
	}
	return h.state
}

func (h *FlagHost) Set(state ReadyState) {
	h.mu.Lock()
	h.state = state
	h.mu.Unlock()
}

// Complete marks the host as loaded.
func (h *FlagHost) Complete() {
	h.Set(StateComplete)
}
