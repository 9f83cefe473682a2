package controller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/elmanelman/judge-submit/config"
	"github.com/elmanelman/judge-submit/judge"
	"github.com/elmanelman/judge-submit/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrBusy = errors.New("submission already in progress")

// Trigger is the control that starts an attempt.
type Trigger interface {
	Enabled() bool
	SetEnabled(enabled bool)
	Label() string
	SetLabel(label string)
}

// Surface displays the result region.
type Surface interface {
	Show(b render.Block)
}

// Form provides the input fields. They are read once per attempt, at trigger
// time.
type Form interface {
	Nickname() string
	Email() string
	Code() string
}

type Judge interface {
	Judge(ctx context.Context, req judge.SubmissionRequest) (*judge.JudgeResult, error)
}

// Observer receives every rendered outcome. Observers must not block for
// long: they run while the trigger is still disabled.
type Observer interface {
	Observe(ctx context.Context, o Outcome)
}

type Outcome struct {
	AttemptID uuid.UUID
	State     State
	Result    *judge.JudgeResult
	Err       error
	Block     render.Block
	StartedAt time.Time
	Elapsed   time.Duration
}

// Controller drives one submission at a time from trigger to rendered
// verdict.
type Controller struct {
	logger *zap.Logger

	judge     Judge
	form      Form
	trigger   Trigger
	surface   Surface
	observers []Observer

	readyLabel   string
	busyLabel    string
	pendingLabel string

	busy  atomic.Bool
	mu    sync.Mutex
	state State
}

func New(
	logger *zap.Logger,
	j Judge,
	form Form,
	trigger Trigger,
	surface Surface,
	ui config.UIConfig,
	observers ...Observer,
) *Controller {
	readyLabel := trigger.Label()
	if readyLabel == "" {
		readyLabel = ui.ReadyLabel
		trigger.SetLabel(readyLabel)
	}
	trigger.SetEnabled(true)

	return &Controller{
		logger:       logger,
		judge:        j,
		form:         form,
		trigger:      trigger,
		surface:      surface,
		observers:    observers,
		readyLabel:   readyLabel,
		busyLabel:    ui.BusyLabel,
		pendingLabel: ui.PendingLabel,
		state:        Idle,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit runs one attempt. Every failure of the attempt is rendered on the
// surface; the only error returned is ErrBusy, when another attempt holds
// the trigger and nothing was done.
func (c *Controller) Submit(ctx context.Context) (*Outcome, error) {
	release, err := c.acquire()
	if err != nil {
		c.logger.Debug("trigger ignored", zap.Error(err))
		return nil, err
	}
	defer release()

	c.surface.Show(render.Pending(c.pendingLabel))
	req := c.snapshot()

	outcome := Outcome{
		AttemptID: uuid.New(),
		StartedAt: time.Now(),
	}
	c.logger.Info(
		"submission started",
		zap.String("attempt_id", outcome.AttemptID.String()),
		zap.Int("code_bytes", len(req.Code)),
	)

	result, err := c.judge.Judge(ctx, req)
	outcome.Elapsed = time.Since(outcome.StartedAt)
	if err != nil {
		outcome.State = DoneFailure
		outcome.Err = err
		outcome.Block = render.Failure(err.Error())
		c.logger.Warn(
			"submission failed",
			zap.String("attempt_id", outcome.AttemptID.String()),
			zap.Duration("elapsed", outcome.Elapsed),
			zap.Error(err),
		)
	} else {
		outcome.State = DoneSuccess
		outcome.Result = result
		outcome.Block = render.Verdict(result)
		c.logger.Info(
			"submission judged",
			zap.String("attempt_id", outcome.AttemptID.String()),
			zap.String("status", result.Status),
			zap.Duration("elapsed", outcome.Elapsed),
		)
	}

	c.setState(outcome.State)
	c.surface.Show(outcome.Block)
	c.notify(ctx, outcome)

	return &outcome, nil
}

// acquire takes the busy lease. The returned release re-arms the trigger and
// must run on every exit path.
func (c *Controller) acquire() (func(), error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	if !c.trigger.Enabled() {
		c.busy.Store(false)
		return nil, ErrBusy
	}

	c.trigger.SetEnabled(false)
	c.trigger.SetLabel(c.busyLabel)
	c.setState(Submitting)

	return func() {
		c.trigger.SetLabel(c.readyLabel)
		c.trigger.SetEnabled(true)
		c.setState(Idle)
		c.busy.Store(false)
	}, nil
}

func (c *Controller) snapshot() judge.SubmissionRequest {
	return judge.SubmissionRequest{
		Nickname: c.form.Nickname(),
		Email:    c.form.Email(),
		Code:     c.form.Code(),
	}
}

func (c *Controller) setState(target State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.CanTransitionTo(target) {
		c.logger.DPanic(
			"invalid state transition",
			zap.Stringer("from", c.state),
			zap.Stringer("to", target),
		)
	}
	c.state = target
}

func (c *Controller) notify(ctx context.Context, o Outcome) {
	for _, obs := range c.observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error(
						"outcome observer panicked",
						zap.String("attempt_id", o.AttemptID.String()),
						zap.Any("panic", r),
					)
				}
			}()
			obs.Observe(ctx, o)
		}()
	}
}
