// Package lifecycle collects teardown work for an activation session.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
)

// Task releases one resource.
type Task struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Registry runs registered tasks, in registration order, when the owning
// session ends. Tasks cannot be removed individually.
type Registry struct {
	logger *log.Logger

	mu       sync.Mutex
	tasks    []Task
	shutdown bool
}

// NewRegistry creates an empty registry. A nil logger discards.
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Registry{logger: logger}
}

// Register appends a task. Registering after Shutdown runs the task
// immediately so nothing is leaked.
func (r *Registry) Register(name string, fn func(ctx context.Context) error) {
	r.mu.Lock()
	if !r.shutdown {
		r.tasks = append(r.tasks, Task{Name: name, Fn: fn})
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	if err := fn(context.Background()); err != nil {
		r.logger.Printf("teardown %s: %v", name, err)
	}
}

// RegisterFunc adapts a plain func.
func (r *Registry) RegisterFunc(name string, fn func()) {
	r.Register(name, func(context.Context) error {
		fn()
		return nil
	})
}

// Len returns the number of pending tasks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// Shutdown runs every task once. A failing task does not stop the rest;
// all failures are joined into the returned error. Subsequent calls are
// no-ops.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	tasks := r.tasks
	r.tasks = nil
	r.shutdown = true
	r.mu.Unlock()

	var errs []error
	for _, t := range tasks {
		if err := t.Fn(ctx); err != nil {
			r.logger.Printf("teardown %s: %v", t.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
		}
	}

	return errors.Join(errs...)
}
