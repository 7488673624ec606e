package submission

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Status texts shown to the requester.
const (
	StatusSending  = "⏳ Sending your query..."
	StatusSuccess  = "✅ Your response has been emailed!"
	StatusFailure  = "❌ Failed to send query."
	StatusInFlight = "⏳ A query is already being sent."
)

// Poster performs the single outbound request.
type Poster interface {
	Post(ctx context.Context, payload Payload) (Response, error)
}

// StatusUpdate is one write to the status display.
type StatusUpdate struct {
	AttemptID string    `json:"attemptId"`
	State     State     `json:"state"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

// StatusSink renders status text to the requester.
type StatusSink interface {
	SetStatus(ctx context.Context, u StatusUpdate)
}

// Outcome is the terminal result of one Submit call.
type Outcome struct {
	ID      string   `json:"id"`
	State   State    `json:"state"`
	Status  string   `json:"status"`
	Payload *Payload `json:"payload,omitempty"`
	Missing []Field  `json:"missing,omitempty"`
	History []State  `json:"history"`
	Err     error    `json:"-"`
}

// Controller runs submission attempts under one ValidationPolicy.
type Controller struct {
	policy ValidationPolicy
	poster Poster
	sink   StatusSink
	log    *slog.Logger

	guard bool
	busy  atomic.Bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithInFlightGuard refuses new attempts while another one is running.
func WithInFlightGuard() Option {
	return func(c *Controller) { c.guard = true }
}

// NewController returns a Controller. sink may be nil.
func NewController(policy ValidationPolicy, poster Poster, sink StatusSink, opts ...Option) *Controller {
	c := &Controller{
		policy: policy,
		poster: poster,
		sink:   sink,
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Policy returns the active validation policy.
func (c *Controller) Policy() ValidationPolicy { return c.policy }

// Submit validates f, builds the payload and posts it once. Every failure is
// reported through the returned Outcome and the status sink; Submit never
// panics on bad input and never returns a Go error.
func (c *Controller) Submit(ctx context.Context, f Form) Outcome {
	a := newAttempt()
	out := Outcome{ID: uuid.NewString()}
	log := c.log.With("attemptId", out.ID, "policy", c.policy.Name)
	log.Info("submit clicked")

	finish := func(msg string, err error) Outcome {
		out.State = a.current
		out.Status = msg
		out.History = a.history
		out.Err = err
		c.setStatus(ctx, out.ID, a.current, msg)
		return out
	}

	a.move(StateValidating)
	if c.guard {
		// The slot is claimed before validation so two overlapping clicks
		// cannot both reach SENDING.
		if !c.busy.CompareAndSwap(false, true) {
			a.move(StateRejected)
			log.Warn("submission refused", "err", ErrInFlight)
			return finish(StatusInFlight, ErrInFlight)
		}
		defer c.busy.Store(false)
	}
	if err := c.policy.Validate(f); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			out.Missing = ve.Missing
		}
		a.move(StateRejected)
		log.Info("validation failed", "err", err)
		return finish(c.policy.MissingMessage, err)
	}

	payload := c.policy.BuildPayload(f)
	out.Payload = &payload
	log.Info("payload built", "jobCode", payload.JobCode, "jobTitle", payload.JobTitle, "timeline", payload.Timeline)

	a.move(StateSending)
	c.setStatus(ctx, out.ID, StateSending, StatusSending)

	resp, err := c.poster.Post(ctx, payload)

	if err != nil {
		a.move(StateFailed)
		log.Error("fetch error", "err", err)
		return finish(StatusFailure, err)
	}

	a.move(StateSucceeded)
	log.Info("api response", "statusCode", resp.StatusCode, "message", resp.Message)
	msg := resp.Message
	if msg == "" {
		msg = StatusSuccess
	}
	return finish(msg, nil)
}

func (c *Controller) setStatus(ctx context.Context, id string, s State, msg string) {
	if c.sink == nil {
		return
	}
	c.sink.SetStatus(ctx, StatusUpdate{AttemptID: id, State: s, Message: msg, At: time.Now().UTC()})
}
