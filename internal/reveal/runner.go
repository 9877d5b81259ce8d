// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"context"
	"sync"
)

// =============================================================================
// RUNNER
// =============================================================================

// Runner tracks the live reveal task per message. At most one task may
// run for a given message id at any time; starting a second one for the
// same id cancels the first and waits for it to finish before the new
// task begins.
type Runner struct {
	mu    sync.Mutex
	tasks map[string]*task
}

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner creates an empty Runner.
func NewRunner() *Runner {
	return &Runner{tasks: make(map[string]*task)}
}

// Reveal runs a reveal for the given message id, blocking until it
// completes or is cancelled. The task handle is released before Reveal
// returns, so Active(messageID) is false afterwards.
func (r *Runner) Reveal(ctx context.Context, messageID, fullText string, opts Options, onUpdate func(string)) {
	taskCtx, cancel := context.WithCancel(ctx)
	t := &task{cancel: cancel, done: make(chan struct{})}

	r.mu.Lock()
	if prev, ok := r.tasks[messageID]; ok {
		// A second reveal for the same message is a caller error;
		// recover by cancelling the previous task.
		prev.cancel()
		r.mu.Unlock()
		<-prev.done
		r.mu.Lock()
	}
	r.tasks[messageID] = t
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		if r.tasks[messageID] == t {
			delete(r.tasks, messageID)
		}
		r.mu.Unlock()
		cancel()
		close(t.done)
	}()

	Run(taskCtx, fullText, opts, onUpdate)
}

// Cancel aborts the live task for messageID and waits for it to finish.
// Returns false when no task is running for that id.
func (r *Runner) Cancel(messageID string) bool {
	r.mu.Lock()
	t, ok := r.tasks[messageID]
	r.mu.Unlock()
	if !ok {
		return false
	}
	t.cancel()
	<-t.done
	return true
}

// CancelAll aborts every live task and waits for them to finish.
func (r *Runner) CancelAll() {
	r.mu.Lock()
	pending := make([]*task, 0, len(r.tasks))
	for _, t := range r.tasks {
		t.cancel()
		pending = append(pending, t)
	}
	r.mu.Unlock()

	for _, t := range pending {
		<-t.done
	}
}

// Active reports whether a task is currently running for messageID.
func (r *Runner) Active(messageID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tasks[messageID]
	return ok
}
