// Package status holds the process-wide status report shown to the user.
//
// The report is a small state machine: Idle -> Busy (one owner) -> Result -> Idle.
// The transition from Result back to Idle happens on a timer so the terminal text
// stays readable for a while. Readers never block on writers.
package status

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ytget/ytd/internal/model"
)

// Default display delays of terminal texts
const (
	DefaultSuccessDelay = 3 * time.Second
	DefaultFailureDelay = 2 * time.Second
)

// ErrBusy is returned by Begin while another owner holds the status
var ErrBusy = errors.New("another task is in progress")

// Reporter is the single-writer status state machine
type Reporter struct {
	mu           sync.Mutex
	current      atomic.Pointer[model.StatusReport]
	epoch        uint64
	timer        *time.Timer
	successDelay time.Duration
	failureDelay time.Duration
	subscribers  []func(model.StatusReport)
	logger       *slog.Logger
}

// NewReporter creates a reporter in the Idle state
func NewReporter(successDelay, failureDelay time.Duration, logger *slog.Logger) *Reporter {
	if successDelay < 0 {
		successDelay = DefaultSuccessDelay
	}
	if failureDelay < 0 {
		failureDelay = DefaultFailureDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Reporter{
		successDelay: successDelay,
		failureDelay: failureDelay,
		logger:       logger,
	}
	idle := model.IdleReport()
	r.current.Store(&idle)
	return r
}

// Snapshot returns the current report without waiting for writers
func (r *Reporter) Snapshot() model.StatusReport {
	return *r.current.Load()
}

// Subscribe registers fn to be called with every new report
func (r *Reporter) Subscribe(fn func(model.StatusReport)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}

// Begin makes owner the single writer. It fails with ErrBusy while another owner is Busy.
// A Result on display is replaced immediately.
func (r *Reporter) Begin(owner, text string) error {
	r.mu.Lock()
	cur := r.current.Load()
	if cur.Phase == model.PhaseBusy && cur.Owner != owner {
		r.mu.Unlock()
		return ErrBusy
	}
	r.stopTimerLocked()
	next := model.StatusReport{
		Phase:      model.PhaseBusy,
		Text:       text,
		InProgress: true,
		Owner:      owner,
	}
	r.publishLocked(next)
	r.mu.Unlock()

	r.logger.Info("status busy", "owner", owner, "text", text)
	r.notify(next)
	return nil
}

// SetText changes the text while owner holds the status
func (r *Reporter) SetText(owner, text string) {
	r.update(owner, func(rep *model.StatusReport) bool {
		if rep.Text == text {
			return false
		}
		rep.Text = text
		return true
	})
}

// SetProgress raises the progress fraction while owner holds the status.
// The value is clamped to [0,1] and lower values than the current one are ignored.
func (r *Reporter) SetProgress(owner string, fraction float64) {
	fraction = clamp(fraction)
	r.update(owner, func(rep *model.StatusReport) bool {
		if fraction <= rep.Progress {
			return false
		}
		rep.Progress = fraction
		return true
	})
}

// Finish moves owner's status to Result with a terminal text.
// After the success or failure delay the status returns to Idle with "Ready.".
func (r *Reporter) Finish(owner, text string, kind model.ErrorKind) {
	r.mu.Lock()
	cur := r.current.Load()
	if cur.Phase != model.PhaseBusy || cur.Owner != owner {
		r.mu.Unlock()
		r.logger.Debug("finish ignored for stale owner", "owner", owner, "current", cur.Owner)
		return
	}
	next := *cur
	next.Phase = model.PhaseResult
	next.Text = text
	next.InProgress = false
	next.ErrKind = kind
	r.publishLocked(next)

	delay := r.successDelay
	if kind != model.KindNone {
		delay = r.failureDelay
	}
	epoch := r.epoch
	r.timer = time.AfterFunc(delay, func() { r.expire(epoch) })
	r.mu.Unlock()

	if kind != model.KindNone {
		r.logger.Warn("status result", "owner", owner, "text", text, "kind", kind)
	} else {
		r.logger.Info("status result", "owner", owner, "text", text)
	}
	r.notify(next)
}

// Reset returns the status to Idle with text. It does nothing while a different owner
// is Busy; an empty owner only resets a status nobody is writing.
func (r *Reporter) Reset(owner, text string) bool {
	r.mu.Lock()
	cur := r.current.Load()
	if cur.Phase == model.PhaseBusy && cur.Owner != owner {
		r.mu.Unlock()
		return false
	}
	r.stopTimerLocked()
	next := model.StatusReport{Phase: model.PhaseIdle, Text: text}
	r.publishLocked(next)
	r.mu.Unlock()

	r.notify(next)
	return true
}

// Close stops a pending reset timer
func (r *Reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopTimerLocked()
}

func (r *Reporter) expire(epoch uint64) {
	r.mu.Lock()
	if r.epoch != epoch || r.current.Load().Phase != model.PhaseResult {
		r.mu.Unlock()
		return
	}
	r.timer = nil
	next := model.StatusReport{Phase: model.PhaseIdle, Text: model.StatusReady}
	r.publishLocked(next)
	r.mu.Unlock()

	r.logger.Debug("status reset", "text", next.Text)
	r.notify(next)
}

func (r *Reporter) update(owner string, apply func(*model.StatusReport) bool) {
	r.mu.Lock()
	cur := r.current.Load()
	if cur.Phase != model.PhaseBusy || cur.Owner != owner {
		r.mu.Unlock()
		return
	}
	next := *cur
	if !apply(&next) {
		r.mu.Unlock()
		return
	}
	r.current.Store(&next)
	r.mu.Unlock()

	r.notify(next)
}

// publishLocked stores next as a new ownership epoch
func (r *Reporter) publishLocked(next model.StatusReport) {
	r.epoch++
	r.current.Store(&next)
}

func (r *Reporter) stopTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Reporter) notify(rep model.StatusReport) {
	r.mu.Lock()
	subs := make([]func(model.StatusReport), len(r.subscribers))
	copy(subs, r.subscribers)
	r.mu.Unlock()

	for _, fn := range subs {
		fn(rep)
	}
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
