package submission_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aivs/query-service/internal/submission"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// endpoint returns a test server answering every POST with status and body,
// and a counter of received requests.
func endpoint(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32, chan submission.Payload) {
	t.Helper()
	var calls atomic.Int32
	got := make(chan submission.Payload, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var p submission.Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err == nil {
			got <- p
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls, got
}

func newController(url string, policy submission.ValidationPolicy, opts ...submission.Option) (*submission.Controller, *submission.Recorder) {
	rec := &submission.Recorder{}
	opts = append([]submission.Option{submission.WithLogger(quietLogger())}, opts...)
	return submission.NewController(policy, submission.NewHTTPPoster(url, 0), rec, opts...), rec
}

func TestSubmit_ContactSuccessWithMessage(t *testing.T) {
	srv, calls, got := endpoint(t, http.StatusOK, `{"message":"ok"}`)
	c, rec := newController(srv.URL+"/query", submission.PolicyContact)

	out := c.Submit(context.Background(), contactForm())

	require.NoError(t, out.Err)
	assert.Equal(t, submission.StateSucceeded, out.State)
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, "ok", rec.Current())
	assert.EqualValues(t, 1, calls.Load())
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, []submission.State{
		submission.StateIdle, submission.StateValidating, submission.StateSending, submission.StateSucceeded,
	}, out.History)

	sent := <-got
	assert.Equal(t, "Not provided", sent.JobTitle)
	assert.Equal(t, "Not specified", sent.Timeline)
	assert.Equal(t, 1011, sent.JobCode)
	assert.True(t, sent.RequiresActionSheet)

	updates := rec.Updates()
	require.Len(t, updates, 2)
	assert.Equal(t, submission.StatusSending, updates[0].Message)
	assert.Equal(t, submission.StateSending, updates[0].State)
	assert.Equal(t, out.ID, updates[1].AttemptID)
}

func TestSubmit_WireKeys(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, _ := newController(srv.URL, submission.PolicyContact)
	out := c.Submit(context.Background(), contactForm())
	require.Equal(t, submission.StateSucceeded, out.State)

	want := []string{
		"full_name", "email", "query", "job_title", "discipline", "timeline",
		"site", "search_type", "funnel_1", "funnel_2", "funnel_3", "job_code",
		"requires_action_sheet", "source_context", "supervisor_name",
		"supervisor_email", "hr_email",
	}
	assert.Len(t, raw, len(want))
	for _, k := range want {
		assert.Contains(t, raw, k)
	}
	assert.Equal(t, float64(1011), raw["job_code"])
	assert.Equal(t, true, raw["requires_action_sheet"])
}

func TestSubmit_DefaultSuccessMessage(t *testing.T) {
	for _, body := range []string{`{}`, `{"message":""}`, `{"message":42}`, `[1,2]`, `"done"`} {
		t.Run(body, func(t *testing.T) {
			srv, _, _ := endpoint(t, http.StatusOK, body)
			c, rec := newController(srv.URL, submission.PolicyContact)

			out := c.Submit(context.Background(), contactForm())

			assert.Equal(t, submission.StateSucceeded, out.State)
			assert.Equal(t, submission.StatusSuccess, rec.Current())
		})
	}
}

func TestSubmit_MissingEmailSendsNothing(t *testing.T) {
	srv, calls, _ := endpoint(t, http.StatusOK, `{"message":"ok"}`)
	c, rec := newController(srv.URL, submission.PolicyContact)

	f := contactForm()
	f.Email = ""
	out := c.Submit(context.Background(), f)

	assert.Equal(t, submission.StateRejected, out.State)
	assert.Equal(t, submission.PolicyContact.MissingMessage, out.Status)
	assert.Equal(t, submission.PolicyContact.MissingMessage, rec.Current())
	assert.Equal(t, []submission.Field{submission.FieldEmail}, out.Missing)
	assert.Nil(t, out.Payload)
	assert.EqualValues(t, 0, calls.Load())
	assert.Len(t, rec.Updates(), 1, "no in-progress status for a rejected attempt")

	var ve *submission.ValidationError
	assert.True(t, errors.As(out.Err, &ve))
}

func TestSubmit_NetworkErrorShowsFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, rec := newController(url, submission.PolicyContact)

	var out submission.Outcome
	assert.NotPanics(t, func() { out = c.Submit(context.Background(), contactForm()) })

	assert.Equal(t, submission.StateFailed, out.State)
	assert.Equal(t, submission.StatusFailure, rec.Current())
	assert.True(t, errors.Is(out.Err, submission.ErrTransport))
	assert.NotNil(t, out.Payload)
}

func TestSubmit_TransportFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error with message", http.StatusInternalServerError, `{"message":"boom"}`},
		{"not json", http.StatusOK, `<html>oops</html>`},
		{"empty body", http.StatusOK, ``},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv, calls, _ := endpoint(t, c.status, c.body)
			ctrl, rec := newController(srv.URL, submission.PolicyContact)

			out := ctrl.Submit(context.Background(), contactForm())

			assert.Equal(t, submission.StateFailed, out.State)
			assert.Equal(t, submission.StatusFailure, rec.Current())
			assert.True(t, errors.Is(out.Err, submission.ErrTransport))
			assert.EqualValues(t, 1, calls.Load(), "no retry")
		})
	}
}

func TestSubmit_TriageSupervisorDefault(t *testing.T) {
	srv, _, got := endpoint(t, http.StatusOK, `{"message":"queued"}`)
	c, rec := newController(srv.URL, submission.PolicyTriage)

	f := submission.PolicyTriage.NewForm()
	f.JobTitle = "Welfare"
	f.Timeline = "Next Rota Cycle"
	out := c.Submit(context.Background(), f)

	require.Equal(t, submission.StateSucceeded, out.State)
	assert.Equal(t, "queued", rec.Current())
	sent := <-got
	assert.Equal(t, "Not specified", sent.SupervisorName)
	assert.Equal(t, 1011, sent.JobCode)
}

func TestSubmit_TriageRejectsWithoutSelections(t *testing.T) {
	srv, calls, _ := endpoint(t, http.StatusOK, `{}`)
	c, rec := newController(srv.URL, submission.PolicyTriage)

	out := c.Submit(context.Background(), contactForm())

	assert.Equal(t, submission.StateRejected, out.State)
	assert.Equal(t, submission.PolicyTriage.MissingMessage, rec.Current())
	assert.EqualValues(t, 0, calls.Load())
}

// Overlapping attempts are not coordinated unless the guard is enabled.
func TestSubmit_InFlightGuard(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		<-release
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	c, _ := newController(srv.URL, submission.PolicyContact, submission.WithInFlightGuard())

	first := make(chan submission.Outcome, 1)
	go func() { first <- c.Submit(context.Background(), contactForm()) }()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first request never reached the endpoint")
	}

	second := c.Submit(context.Background(), contactForm())
	assert.Equal(t, submission.StateRejected, second.State)
	assert.Equal(t, submission.StatusInFlight, second.Status)
	assert.True(t, errors.Is(second.Err, submission.ErrInFlight))

	close(release)
	assert.Equal(t, submission.StateSucceeded, (<-first).State)

	third := c.Submit(context.Background(), contactForm())
	assert.Equal(t, submission.StateSucceeded, third.State)
}

// gateSink blocks the SENDING update until release is closed.
type gateSink struct {
	entered chan struct{}
	release chan struct{}
}

func (g gateSink) SetStatus(_ context.Context, u submission.StatusUpdate) {
	if u.State == submission.StateSending {
		g.entered <- struct{}{}
		<-g.release
	}
}

func TestSubmit_InFlightGuardCoversSlowStatusWrite(t *testing.T) {
	srv, calls, _ := endpoint(t, http.StatusOK, `{}`)
	sink := gateSink{entered: make(chan struct{}, 2), release: make(chan struct{})}
	c := submission.NewController(submission.PolicyContact, submission.NewHTTPPoster(srv.URL, 0), sink,
		submission.WithLogger(quietLogger()), submission.WithInFlightGuard())

	first := make(chan submission.Outcome, 1)
	go func() { first <- c.Submit(context.Background(), contactForm()) }()

	select {
	case <-sink.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first attempt never reached SENDING")
	}

	second := c.Submit(context.Background(), contactForm())
	assert.True(t, errors.Is(second.Err, submission.ErrInFlight))
	assert.Nil(t, second.Payload)

	close(sink.release)
	assert.Equal(t, submission.StateSucceeded, (<-first).State)
	assert.EqualValues(t, 1, calls.Load())
}

func TestSubmit_InFlightGuardReleasedAfterRejection(t *testing.T) {
	srv, calls, _ := endpoint(t, http.StatusOK, `{}`)
	c, _ := newController(srv.URL, submission.PolicyContact, submission.WithInFlightGuard())

	bad := contactForm()
	bad.Email = ""
	assert.Equal(t, submission.StateRejected, c.Submit(context.Background(), bad).State)
	assert.Equal(t, submission.StateSucceeded, c.Submit(context.Background(), contactForm()).State)
	assert.EqualValues(t, 1, calls.Load())
}

func TestSubmit_NoGuardAllowsOverlap(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, _ := newController(srv.URL, submission.PolicyContact)

	done := make(chan submission.Outcome, 2)
	for i := 0; i < 2; i++ {
		go func() { done <- c.Submit(context.Background(), contactForm()) }()
	}
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 5*time.Second, 10*time.Millisecond)
	close(release)

	assert.Equal(t, submission.StateSucceeded, (<-done).State)
	assert.Equal(t, submission.StateSucceeded, (<-done).State)
}

type stubPoster struct{ err error }

func (s stubPoster) Post(context.Context, submission.Payload) (submission.Response, error) {
	return submission.Response{}, s.err
}

func TestSubmit_NilSinkAndArbitraryPosterError(t *testing.T) {
	c := submission.NewController(submission.PolicyContact, stubPoster{err: errors.New("dial failed")}, nil,
		submission.WithLogger(quietLogger()))

	out := c.Submit(context.Background(), contactForm())

	assert.Equal(t, submission.StateFailed, out.State)
	assert.Equal(t, submission.StatusFailure, out.Status)
}

func TestMultiSink_FansOut(t *testing.T) {
	a, b := &submission.Recorder{}, &submission.Recorder{}
	c := submission.NewController(submission.PolicyContact, stubPoster{}, submission.MultiSink{a, nil, b},
		submission.WithLogger(quietLogger()))

	c.Submit(context.Background(), contactForm())

	assert.Equal(t, submission.StatusSuccess, a.Current())
	assert.Equal(t, a.Updates(), b.Updates())
}
