// Package notify fans task lifecycle events out to external sinks:
// a generic webhook, a chat-bot agent, and a Telegram bot. Delivery is
// best-effort and fire-and-forget — a sink failure is logged and never
// reaches the code that mutated the task.
package notify

import (
	"context"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/store"
)

// EventKind names a task lifecycle event on the wire.
type EventKind string

const (
	EventCreated EventKind = "task.created"
	EventUpdated EventKind = "task.updated"
	EventDeleted EventKind = "task.deleted"
	EventMoved   EventKind = "task.moved"
)

// Change records the column transition of a moved event.
type Change struct {
	From store.ColumnID `json:"from,omitempty"`
	To   store.ColumnID `json:"to,omitempty"`
}

// Event is one task lifecycle event. Change is set for moves only.
type Event struct {
	Kind   EventKind
	Task   store.Task
	Change *Change
}

// Sink delivers one event to one external destination.
type Sink interface {
	Name() string
	Send(ctx context.Context, ev Event) error
}

const sendTimeout = 10 * time.Second

// Dispatcher fans events out to the configured sinks. A nil Dispatcher
// is valid and drops every event.
type Dispatcher struct {
	sinks  []Sink
	logger *log.Logger

	wg sync.WaitGroup
}

// New builds a dispatcher from the notify config. Sinks without their
// endpoint and credential are left out — that is the inactive state,
// not an error.
func New(cfg config.Notify) *Dispatcher {
	client := &http.Client{Timeout: sendTimeout}

	var sinks []Sink
	if cfg.Webhook.Configured() {
		sinks = append(sinks, &webhookSink{cfg: cfg.Webhook, client: client})
	}
	if cfg.Agent.Configured() {
		sinks = append(sinks, &agentSink{cfg: cfg.Agent, client: client})
	}
	if cfg.Telegram.Configured() {
		sinks = append(sinks, &telegramSink{cfg: cfg.Telegram, client: client, apiBase: telegramAPIBase})
	}

	return &Dispatcher{
		sinks:  sinks,
		logger: log.New(os.Stderr, "notify: ", log.LstdFlags),
	}
}

// Dispatch sends the event to every sink, each on its own goroutine.
// Failures are logged only; one sink failing never stops the others,
// and nothing propagates back to the caller.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	for _, s := range d.sinks {
		d.wg.Add(1)
		go func(s Sink) {
			defer d.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			defer cancel()
			if err := s.Send(ctx, ev); err != nil {
				d.logger.Printf("%s: %s failed: %v", ev.Kind, s.Name(), err)
				return
			}
			d.logger.Printf("%s: sent to %s for task %s", ev.Kind, s.Name(), ev.Task.ID)
		}(s)
	}
}

// Wait blocks until in-flight sends finish. Called on shutdown so the
// process doesn't exit under a dispatch.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}

// TaskCreated dispatches a created event.
func (d *Dispatcher) TaskCreated(t store.Task) {
	d.Dispatch(Event{Kind: EventCreated, Task: t})
}

// TaskUpdated dispatches an updated event.
func (d *Dispatcher) TaskUpdated(t store.Task) {
	d.Dispatch(Event{Kind: EventUpdated, Task: t})
}

// TaskDeleted dispatches a deleted event.
func (d *Dispatcher) TaskDeleted(t store.Task) {
	d.Dispatch(Event{Kind: EventDeleted, Task: t})
}

// TaskMoved dispatches a moved event with its column transition.
func (d *Dispatcher) TaskMoved(t store.Task, from, to store.ColumnID) {
	d.Dispatch(Event{Kind: EventMoved, Task: t, Change: &Change{From: from, To: to}})
}
