// Package trigger tracks one-shot remote operations started by a player.
package trigger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/erazemk/pixelpet/internal/backend"
	"github.com/erazemk/pixelpet/internal/model"
)

// GenericFailure is shown when the failure carries no message of its own.
const GenericFailure = "Failed to generate image"

// ErrInFlight is returned by Start while a previous run is still loading.
var ErrInFlight = errors.New("operation already in progress")

// State is the lifecycle phase.
type State int

// Lifecycle states.
const (
	Idle State = iota
	Loading
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "error"
	default:
		return "idle"
	}
}

// Snapshot is a consistent copy of the lifecycle at one point in time.
type Snapshot struct {
	State     State
	Result    *model.GenerationResult
	Error     string
	StartedAt time.Time
}

// Loading reports whether a run is in flight.
func (s Snapshot) Loading() bool {
	return s.State == Loading
}

// Func performs the remote call.
type Func func(ctx context.Context) (*model.GenerationResult, error)

// Lifecycle is the idle/loading/success/error state machine of one trigger.
// At most one run is in flight at a time.
type Lifecycle struct {
	mu        sync.Mutex
	state     State
	result    *model.GenerationResult
	errMsg    string
	startedAt time.Time
	epoch     uint64
	disposed  bool

	// OnDone, if set, is called after an outcome has been applied.
	OnDone func(Snapshot)
}

// Snapshot returns the current state.
func (l *Lifecycle) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Lifecycle) snapshotLocked() Snapshot {
	return Snapshot{
		State:     l.state,
		Result:    l.result,
		Error:     l.errMsg,
		StartedAt: l.startedAt,
	}
}

// Start clears any previous outcome, enters Loading and runs fn in the
// background. It returns ErrInFlight without side effects while loading.
// ctx must outlive the request that triggered the run.
func (l *Lifecycle) Start(ctx context.Context, fn Func) error {
	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return errors.New("lifecycle disposed")
	}
	if l.state == Loading {
		l.mu.Unlock()
		return ErrInFlight
	}
	l.epoch++
	epoch := l.epoch
	l.state = Loading
	l.result = nil
	l.errMsg = ""
	l.startedAt = time.Now()
	l.mu.Unlock()

	go func() {
		res, err := fn(ctx)
		l.finish(epoch, res, err)
	}()
	return nil
}

// finish applies the outcome of run epoch unless the lifecycle was disposed
// or restarted in the meantime.
func (l *Lifecycle) finish(epoch uint64, res *model.GenerationResult, err error) {
	l.mu.Lock()
	if l.disposed || epoch != l.epoch {
		l.mu.Unlock()
		return
	}
	if err != nil {
		l.state = Failed
		l.errMsg = FailureMessage(err)
	} else {
		l.state = Success
		if res == nil {
			res = &model.GenerationResult{}
		}
		l.result = res
	}
	snap := l.snapshotLocked()
	onDone := l.OnDone
	l.mu.Unlock()

	if onDone != nil {
		onDone(snap)
	}
}

// Dispose discards the lifecycle. Outcomes arriving afterwards are dropped.
func (l *Lifecycle) Dispose() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disposed = true
	l.epoch++
}

// FailureMessage returns the text shown for a failed run: the backend's
// error field when present, otherwise GenericFailure.
func FailureMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericFailure
}
