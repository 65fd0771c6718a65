// Package oracletest provides a scripted Oracle for tests.
package oracletest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tutor-orchestrator/server/internal/agent/oracle"
	errx "github.com/tutor-orchestrator/server/internal/core/error"
)

// Handler answers one request by filling out.
type Handler func(req oracle.Request, out any) error

// Fake routes each request to the handler registered for its task and records
// every call. Tasks without a handler fail with ErrOracleUnavailable.
type Fake struct {
	mu       sync.Mutex
	handlers map[oracle.Task]Handler
	calls    []oracle.Request
}

func New() *Fake {
	return &Fake{handlers: map[oracle.Task]Handler{}}
}

// On registers h for task and returns f for chaining.
func (f *Fake) On(task oracle.Task, h Handler) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[task] = h
	return f
}

func (f *Fake) Complete(_ context.Context, req oracle.Request, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	h, ok := f.handlers[req.Task]
	f.mu.Unlock()

	if !ok {
		return errx.OracleUnavailable(fmt.Errorf("no scripted answer for %s", req.Task))
	}
	return h(req, out)
}

// Calls returns the recorded requests, optionally filtered by task.
func (f *Fake) Calls(tasks ...oracle.Task) []oracle.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(tasks) == 0 {
		return append([]oracle.Request(nil), f.calls...)
	}
	var out []oracle.Request
	for _, c := range f.calls {
		for _, t := range tasks {
			if c.Task == t {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// JSON answers with v, round-tripped through encoding/json.
func JSON(v any) Handler {
	return func(_ oracle.Request, out any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(b, out); err != nil {
			return errx.OracleMalformed(err)
		}
		return nil
	}
}

// Text answers a free-text request with s.
func Text(s string) Handler {
	return func(_ oracle.Request, out any) error {
		p, ok := out.(*string)
		if !ok {
			return errx.OracleMalformed(fmt.Errorf("free text answer needs *string, got %T", out))
		}
		*p = s
		return nil
	}
}

// Fail answers every request with err.
func Fail(err error) Handler {
	return func(oracle.Request, any) error { return err }
}
