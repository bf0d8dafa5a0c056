// Package worker runs a long JSON operation on its own goroutine. Callers post
// documents in order, then ask for the result, and read progress and exactly
// one terminal event from the event channel.
package worker

import (
	"context"
	"sync"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/logger"
)

const (
	inboxSize  = 16
	eventsSize = 64
)

// EventType identifies what an Event carries.
type EventType int

const (
	EventProgress EventType = iota
	EventComplete
	EventError
	// EventMismatch reports documents whose root kinds differ.
	EventMismatch
)

func (t EventType) String() string {
	switch t {
	case EventProgress:
		return "progress"
	case EventComplete:
		return "complete"
	case EventError:
		return "error"
	case EventMismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// Event is emitted by a worker. Progress events are advisory.
type Event struct {
	Type    EventType
	Percent float64
	Result  *Result
	Err     error
}

// Terminal reports whether the event ends the operation.
func (e Event) Terminal() bool {
	return e.Type != EventProgress
}

// ProgressFunc receives a percentage in [0, 100].
type ProgressFunc func(percent float64)

// Task is the operation hosted by a worker. Process is called once per posted
// document in posting order and Finalize once at the end. Neither is called
// concurrently.
type Task interface {
	Process(ctx context.Context, name string, data []byte, progress ProgressFunc) error
	Finalize(ctx context.Context, progress ProgressFunc) (*Result, error)
}

type messageKind int

const (
	processMessage messageKind = iota
	finalizeMessage
)

type message struct {
	kind messageKind
	name string
	data []byte
}

// Worker owns one Task for the lifetime of one operation.
type Worker struct {
	task   Task
	inbox  chan message
	events chan Event
	done   chan struct{}
	stop   chan struct{}
	cancel context.CancelFunc

	mu        sync.Mutex
	finalized bool
	stopOnce  sync.Once
}

// Start launches a worker for task. Cancelling ctx ends the operation with an
// error event.
func Start(ctx context.Context, task Task) *Worker {
	ctx, cancel := context.WithCancel(ctx)
	w := &Worker{
		task:   task,
		inbox:  make(chan message, inboxSize),
		events: make(chan Event, eventsSize),
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
		cancel: cancel,
	}
	go w.run(ctx)
	return w
}

// Events returns the event stream. It is closed after the terminal event.
func (w *Worker) Events() <-chan Event {
	return w.events
}

// Process posts a document. It fails with ErrWorkerTerminated once the worker
// has been finalized or has stopped.
func (w *Worker) Process(name string, data []byte) error {
	return w.post(message{kind: processMessage, name: name, data: data})
}

// Finalize asks the worker to produce its result. No further documents are
// accepted afterwards.
func (w *Worker) Finalize() error {
	return w.post(message{kind: finalizeMessage})
}

// Terminate abandons the operation. Pending events are dropped.
func (w *Worker) Terminate() {
	w.stopOnce.Do(func() {
		close(w.stop)
		w.cancel()
	})
	<-w.done
}

// Wait consumes events until the stream closes, forwarding progress to
// onProgress, and returns the terminal event. The worker has stopped accepting
// messages by the time Wait returns.
func (w *Worker) Wait(onProgress ProgressFunc) Event {
	terminal := Event{Type: EventError, Err: errors.ErrWorkerTerminated}
	for ev := range w.events {
		if ev.Terminal() {
			terminal = ev
			continue
		}
		if onProgress != nil {
			onProgress(ev.Percent)
		}
	}
	return terminal
}

func (w *Worker) post(msg message) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finalized {
		return errors.ErrWorkerTerminated
	}
	select {
	case <-w.done:
		return errors.ErrWorkerTerminated
	default:
	}

	select {
	case w.inbox <- msg:
		if msg.kind == finalizeMessage {
			w.finalized = true
		}
		return nil
	case <-w.done:
		return errors.ErrWorkerTerminated
	}
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.events)
	defer close(w.done)
	defer w.cancel()

	log := logger.FromContext(ctx)
	progress := func(percent float64) {
		w.emit(Event{Type: EventProgress, Percent: percent})
	}

	for {
		select {
		case <-ctx.Done():
			w.emit(failure(ctx.Err()))
			return
		case msg := <-w.inbox:
			if err := ctx.Err(); err != nil {
				w.emit(failure(err))
				return
			}
			switch msg.kind {
			case processMessage:
				if err := w.task.Process(ctx, msg.name, msg.data, progress); err != nil {
					log.Debug("worker failed", "input", msg.name, "error", err)
					w.emit(failure(err))
					return
				}
				log.Debug("worker processed input", "input", msg.name, "bytes", len(msg.data))
			case finalizeMessage:
				result, err := w.task.Finalize(ctx, progress)
				if err != nil {
					w.emit(failure(err))
					return
				}
				w.emit(Event{Type: EventComplete, Result: result})
				return
			}
		}
	}
}

// emit blocks until the event is consumed or the worker is terminated.
func (w *Worker) emit(ev Event) {
	select {
	case w.events <- ev:
	case <-w.stop:
	}
}

func failure(err error) Event {
	if errors.IsType(err, errors.ErrorTypeRootMismatch) {
		return Event{Type: EventMismatch, Err: err}
	}
	return Event{Type: EventError, Err: err}
}

// Input is one named document for Run.
type Input struct {
	Name string
	Data []byte
}

// Run drives task over inputs on a new worker and returns the completed result
// or the error carried by the terminal event.
func Run(ctx context.Context, task Task, inputs []Input, onProgress ProgressFunc) (*Result, error) {
	w := Start(ctx, task)
	defer w.Terminate()

	posted := make(chan struct{})
	go func() {
		defer close(posted)
		for _, in := range inputs {
			if err := w.Process(in.Name, in.Data); err != nil {
				// the worker already failed; its terminal event has the cause
				return
			}
		}
		_ = w.Finalize()
	}()

	ev := w.Wait(onProgress)
	<-posted
	if ev.Type == EventComplete {
		return ev.Result, nil
	}
	return nil, ev.Err
}
