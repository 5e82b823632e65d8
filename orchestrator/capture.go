package orchestrator

import "sync/atomic"

// CaptureGate enforces the single-recorder rule: only one capture session
// may be active per process, and starting another while one runs is
// rejected. The actual capture device lives outside this repository.
type CaptureGate struct {
	active atomic.Bool
}

// Begin claims the recorder. Callers must End when the session stops.
func (g *CaptureGate) Begin() error {
	if !g.active.CompareAndSwap(false, true) {
		return ErrCaptureActive
	}
	return nil
}

func (g *CaptureGate) End() {
	g.active.Store(false)
}

// Active reports whether a capture session currently holds the recorder.
func (g *CaptureGate) Active() bool {
	return g.active.Load()
}
