package state

import "sync"

type Phase int

const (
	BOOTING Phase = iota
	RUNNING
	PAUSED
	DISPOSED
	NOMOUNT
	ERROR
)

func (p Phase) String() string {
	switch p {
	case BOOTING:
		return "booting"
	case RUNNING:
		return "running"
	case PAUSED:
		return "paused"
	case DISPOSED:
		return "disposed"
	case NOMOUNT:
		return "no-mount"
	case ERROR:
		return "error"
	default:
		return "unknown"
	}
}

type HostInfo struct {
	Output        string
	Mount         string
	ReducedMotion bool
}

type ConfigInfo struct {
	DPRMax       float64
	Density      float64
	Drift        float64
	Tone         string
	Layer        string
	FPS          float64
	TwinkleScale float64
	CountScale   float64
}

type EffectInfo struct {
	Width, Height   float64
	DPR             float64
	Stars           int
	Frames          int
	SkippedPaused   int
	SkippedThrottle int
	Draws           int
	Culled          int
}

type State struct {
	Phase  Phase
	Host   HostInfo
	Config ConfigInfo
	Effect EffectInfo
	Err    string
}

type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{Phase: BOOTING}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

func (store *Store) SetError(err error) {
	store.mu.Lock()
	store.state.Phase = ERROR
	if err != nil {
		store.state.Err = err.Error()
	}
	store.mu.Unlock()
}

func (store *Store) UpdateHost(host HostInfo) {
	store.mu.Lock()
	store.state.Host = host
	store.mu.Unlock()
}

func (store *Store) UpdateConfig(cfg ConfigInfo) {
	store.mu.Lock()
	store.state.Config = cfg
	store.mu.Unlock()
}

func (store *Store) UpdateEffect(effect EffectInfo) {
	store.mu.Lock()
	store.state.Effect = effect
	store.mu.Unlock()
}
