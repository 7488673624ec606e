package submission

import (
	"context"
	"sync"
)

// Recorder keeps every status update in memory. The last write wins the
// display, as with a single status label.
type Recorder struct {
	mu      sync.Mutex
	updates []StatusUpdate
}

func (r *Recorder) SetStatus(_ context.Context, u StatusUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

// Updates returns a copy of all recorded updates.
func (r *Recorder) Updates() []StatusUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StatusUpdate{}, r.updates...)
}

// Current returns the text currently displayed.
func (r *Recorder) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.updates) == 0 {
		return ""
	}
	return r.updates[len(r.updates)-1].Message
}

// MultiSink fans a status update out to several sinks in order.
type MultiSink []StatusSink

func (m MultiSink) SetStatus(ctx context.Context, u StatusUpdate) {
	for _, s := range m {
		if s != nil {
			s.SetStatus(ctx, u)
		}
	}
}
