package advisor

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/fincoach/internal/model"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 15 * time.Second

// Backend generates free-form answers, typically from a hosted model.
type Backend interface {
	Generate(ctx context.Context, query string, profile model.UserProfile, chat Context) (string, error)
}

// Source records which path produced a reply.
type Source string

const (
	SourceRules   Source = "rules"
	SourceBackend Source = "backend"
)

// Reply is an answer ready for the transcript.
type Reply struct {
	Text     string `json:"text"`
	Source   Source `json:"source"`
	Degraded bool   `json:"degraded"` // backend was configured but failed
}

// Responder answers with the backend when one is set, and with the rule
// selector otherwise or whenever the backend fails.
type Responder struct {
	Selector *Selector
	Backend  Backend
	Timeout  time.Duration
	Log      *zap.Logger
}

// NewResponder wires a responder. backend may be nil.
func NewResponder(backend Backend, timeout time.Duration, log *zap.Logger) *Responder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Responder{
		Selector: NewSelector(),
		Backend:  backend,
		Timeout:  timeout,
		Log:      log,
	}
}

var errEmptyReply = errors.New("advisor: backend returned an empty reply")

// Respond answers query. It always returns a usable reply.
func (r *Responder) Respond(ctx context.Context, query string, profile model.UserProfile, risk model.RiskTolerance, chat Context) Reply {
	if r.Backend != nil {
		text, err := r.generate(ctx, query, profile, chat)
		if err == nil {
			return Reply{Text: text, Source: SourceBackend}
		}
		r.Log.Warn("backend failed, using rule-based answer",
			zap.Error(err),
			zap.String("intent", string(r.Selector.Classify(query))),
		)
		return Reply{Text: r.Selector.Select(query, profile, risk, chat), Source: SourceRules, Degraded: true}
	}
	return Reply{Text: r.Selector.Select(query, profile, risk, chat), Source: SourceRules}
}

// generate runs the backend in its own goroutine so a backend that ignores
// ctx still cannot hold the caller past the timeout.
func (r *Responder) generate(ctx context.Context, query string, profile model.UserProfile, chat Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- result{err: errors.New("advisor: backend panicked")}
			}
		}()
		t, e := r.Backend.Generate(ctx, query, profile, chat)
		done <- result{t, e}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		if strings.TrimSpace(res.text) == "" {
			return "", errEmptyReply
		}
		return res.text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
