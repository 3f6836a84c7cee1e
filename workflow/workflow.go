package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salescast/logging"
	"salescast/models"
)

var (
	// ErrSubmissionPending rejects a submission while another is in flight.
	ErrSubmissionPending = errors.New("workflow: a submission is already pending")
	// ErrClosed rejects calls on a torn-down workflow.
	ErrClosed = errors.New("workflow: closed")
)

// StaticSource provides the baseline prediction.
type StaticSource interface {
	LoadPrediction(ctx context.Context) (models.Prediction, error)
}

// Predictor scores a form remotely.
type Predictor interface {
	Submit(ctx context.Context, form models.FormInput) (models.Prediction, error)
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithTimeout bounds each submission. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(w *Workflow) { w.timeout = d }
}

// WithRequireFestival makes the festival field mandatory.
func WithRequireFestival(required bool) Option {
	return func(w *Workflow) { w.requireFestival = required }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Workflow) { w.logger = logging.OrNop(l) }
}

// Attempt is a handle on one accepted submission.
type Attempt struct {
	ID   string
	done chan struct{}
}

// Done is closed once the attempt has completed, whether or not its
// outcome was applied.
func (a *Attempt) Done() <-chan struct{} { return a.done }

// Workflow owns the prediction form, the submission lifecycle and the
// reconciliation of baseline and live results. At most one submission is
// in flight; completions that arrive after Close are dropped.
type Workflow struct {
	static          StaticSource
	remote          Predictor
	timeout         time.Duration
	requireFestival bool
	logger          *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	state   State
	mounted bool
	closed  bool
}

// New creates an idle workflow with the default form.
func New(static StaticSource, remote Predictor, opts ...Option) *Workflow {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Workflow{
		static: static,
		remote: remote,
		logger: zap.NewNop(),
		ctx:    ctx,
		cancel: cancel,
		state: State{
			Phase: PhaseIdle,
			Form:  models.NewFormInput(),
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Mount starts loading the baseline. The returned channel is closed when
// the load has finished. Only the first call loads.
func (w *Workflow) Mount() <-chan struct{} {
	done := make(chan struct{})

	w.mu.Lock()
	if w.mounted || w.closed {
		w.mu.Unlock()
		close(done)
		return done
	}
	w.mounted = true
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		defer close(done)
		p, err := w.static.LoadPrediction(w.ctx)
		w.applyBaseline(p, err)
	}()
	return done
}

func (w *Workflow) applyBaseline(p models.Prediction, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if err != nil {
		w.logger.Warn("static prediction unavailable", zap.Error(err))
		w.state.LoadErr = err
		return
	}
	w.logger.Info("static prediction loaded", zap.Float64("amount", p.Amount))
	w.state.Baseline = &p
}

// SetField edits the working form. Edits never affect a submission that
// is already in flight.
func (w *Workflow) SetField(name, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	return w.state.Form.SetField(name, value)
}

// SubmitCurrent submits the working form.
func (w *Workflow) SubmitCurrent() (*Attempt, error) {
	w.mu.Lock()
	form := w.state.Form
	w.mu.Unlock()
	return w.Submit(form)
}

// Submit validates form and, if nothing is pending, starts scoring a copy
// of it. Validation errors and the pending guard are reported
// synchronously and leave the state untouched.
func (w *Workflow) Submit(form models.FormInput) (*Attempt, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrClosed
	}
	if w.state.Phase == PhasePending {
		w.mu.Unlock()
		return nil, ErrSubmissionPending
	}
	if err := form.Validate(w.requireFestival); err != nil {
		w.mu.Unlock()
		return nil, err
	}

	attempt := &Attempt{ID: uuid.NewString(), done: make(chan struct{})}
	w.state.Form = form
	w.state.Phase = PhasePending
	w.state.Err = nil
	w.state.LoadErr = nil
	w.state.AttemptID = attempt.ID
	w.wg.Add(1)
	w.mu.Unlock()

	w.logger.Info("submission started", zap.String("attempt", attempt.ID))
	go w.run(attempt, form)
	return attempt, nil
}

func (w *Workflow) run(attempt *Attempt, form models.FormInput) {
	defer w.wg.Done()
	defer close(attempt.done)

	ctx := w.ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	p, err := w.remote.Submit(ctx, form)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !models.IsTimeout(err) {
		err = &models.SubmitError{Kind: models.KindTimeout, Message: "no response within " + w.timeout.String(), Err: err}
	}
	w.complete(attempt.ID, p, err)
}

func (w *Workflow) complete(id string, p models.Prediction, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.state.AttemptID != id || w.state.Phase != PhasePending {
		w.logger.Debug("dropping stale completion", zap.String("attempt", id))
		return
	}

	if err != nil {
		w.logger.Warn("submission failed, keeping static prediction", zap.String("attempt", id), zap.Error(err))
		w.state.Phase = PhaseFailed
		w.state.Result = nil
		w.state.Err = err
		return
	}
	w.logger.Info("submission succeeded", zap.String("attempt", id), zap.Float64("amount", p.Amount))
	w.state.Phase = PhaseSucceeded
	w.state.Result = &p
}

// Snapshot returns a copy of the current state.
func (w *Workflow) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Close tears the workflow down: in-flight work is cancelled and waited
// for, and its outcome is discarded. Close is idempotent.
func (w *Workflow) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.cancel()
	w.wg.Wait()
}
